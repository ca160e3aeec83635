package game

import (
	"fmt"
	"time"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = "1.0"

var ErrInvalidSnapshot = fmt.Errorf("%w: invalid game snapshot", errs.ErrPersistence)

// PlayerSnapshot is the saved state of one player.
type PlayerSnapshot struct {
	Name    string       `json:"name" yaml:"name"`
	Score   int          `json:"score" yaml:"score"`
	History []TurnRecord `json:"history" yaml:"history"`
}

// Snapshot is everything needed to resume a game between turns.
type Snapshot struct {
	Version       string           `json:"version" yaml:"version"`
	GameID        string           `json:"game_id" yaml:"game_id"`
	GameDate      time.Time        `json:"game_date" yaml:"game_date"`
	Players       []PlayerSnapshot `json:"players" yaml:"players"`
	CurrentRound  int              `json:"current_round" yaml:"current_round"`
	CurrentPlayer int              `json:"current_player" yaml:"current_player"`
	MaxRounds     int              `json:"max_rounds" yaml:"max_rounds"`
	State         string           `json:"state" yaml:"state"`
	TotalRolls    int              `json:"total_rolls" yaml:"total_rolls"`
	Checksum      string           `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// Snapshot captures the game. A turn in progress is not part of it; see
// TurnInProgress.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:       SnapshotVersion,
		GameID:        g.uid,
		GameDate:      g.started,
		CurrentRound:  g.round,
		CurrentPlayer: g.onturn,
		MaxRounds:     g.maxRounds,
		State:         g.playing.String(),
		TotalRolls:    g.totalRolls,
	}
	for _, p := range g.players {
		s.Players = append(s.Players, p.snapshot())
	}
	return s
}

// Validate checks that a snapshot describes a reachable game under the rules.
func (s *Snapshot) Validate(rules *Rules) error {
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = p.Name
	}
	if err := rules.ValidateNames(names); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if s.MaxRounds <= 0 || s.MaxRounds > rules.MaxRounds {
		return fmt.Errorf("%w: max rounds %d", ErrInvalidSnapshot, s.MaxRounds)
	}
	if s.CurrentRound < 1 || s.CurrentRound > s.MaxRounds {
		return fmt.Errorf("%w: round %d of %d", ErrInvalidSnapshot, s.CurrentRound, s.MaxRounds)
	}
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return fmt.Errorf("%w: player on turn %d", ErrInvalidSnapshot, s.CurrentPlayer)
	}
	ps, err := parsePlayState(s.State)
	if err != nil {
		return err
	}
	for i, p := range s.Players {
		if SumScores(p.History) != p.Score {
			return fmt.Errorf("%w: %s has score %d but history adds to %d",
				ErrInvalidSnapshot, p.Name, p.Score, SumScores(p.History))
		}
		if want := s.turnsPlayed(i, ps); len(p.History) != want {
			return fmt.Errorf("%w: %s has %d turns, expected %d in round %d",
				ErrInvalidSnapshot, p.Name, len(p.History), want, s.CurrentRound)
		}
		total := 0
		for j, r := range p.History {
			if r.Round != j+1 {
				return fmt.Errorf("%w: %s turn %d is in round %d", ErrInvalidSnapshot, p.Name, j+1, r.Round)
			}
			total += r.Score
			if r.Total != total {
				return fmt.Errorf("%w: %s has running total %d in round %d, expected %d",
					ErrInvalidSnapshot, p.Name, r.Total, r.Round, total)
			}
		}
	}
	return nil
}

// turnsPlayed is how many turns the player at seat has finished. Every player
// takes one turn per round, in seat order.
func (s *Snapshot) turnsPlayed(seat int, ps PlayState) int {
	if ps == StateGameOver {
		return s.MaxRounds
	}
	n := s.CurrentRound - 1
	if seat < s.CurrentPlayer {
		n++
	}
	return n
}

// FromSnapshot rebuilds a game. The player on turn starts a fresh turn.
func FromSnapshot(rules *Rules, s *Snapshot, src dice.Source) (*Game, error) {
	if err := s.Validate(rules); err != nil {
		return nil, err
	}
	ps, _ := parsePlayState(s.State)
	g := newGame(src)
	g.uid = s.GameID
	g.started = s.GameDate
	g.maxRounds = s.MaxRounds
	g.round = s.CurrentRound
	g.onturn = s.CurrentPlayer
	g.playing = ps
	g.totalRolls = s.TotalRolls
	for _, p := range s.Players {
		st := newPlayerState(p.Name)
		for _, r := range p.History {
			st.addTurn(r)
		}
		g.players = append(g.players, st)
	}
	g.turn.Start()
	return g, nil
}
