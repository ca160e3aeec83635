// Package game holds the state of a Naasii game: the players and their
// scores, the round and the player on turn. It drives each turn through a
// turn.Controller and rotates players until the round limit is reached.
//
// A Game doesn't care how it is played. Human players at a shell, bots and
// scripts all call the same methods.
package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/turn"
)

type PlayState int

const (
	StatePlaying PlayState = iota
	StateGameOver
	StateAborted
)

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

func parsePlayState(s string) (PlayState, error) {
	for _, ps := range []PlayState{StatePlaying, StateGameOver, StateAborted} {
		if ps.String() == s {
			return ps, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown play state %q", ErrInvalidSnapshot, s)
}

var ErrNotPlaying = fmt.Errorf("%w: the game is not in progress", errs.ErrInput)

// RoundEndFunc is called after the last player of a round finishes their
// turn. round is the round that just ended.
type RoundEndFunc func(g *Game, round int)

// Game is the business logic of a game: rolling, keeping, scoring, rotating
// players. It is not safe for concurrent use.
type Game struct {
	uid       string
	players   playerStates
	maxRounds int

	round   int
	onturn  int
	playing PlayState

	dice *dice.Set
	turn *turn.Controller

	started    time.Time
	totalRolls int
	lastResult *scoring.Breakdown
	lastPlayer int

	roundEndHooks []RoundEndFunc
}

// NewGame validates the players and round count against the rules and
// creates a game ready to Start. A nil source rolls with dice.DefaultSource.
func NewGame(rules *Rules, names []string, maxRounds int, src dice.Source) (*Game, error) {
	if err := rules.ValidateNames(names); err != nil {
		return nil, err
	}
	if err := rules.ValidateRounds(maxRounds); err != nil {
		return nil, err
	}
	g := newGame(src)
	g.uid = uuid.NewString()
	g.maxRounds = maxRounds
	g.started = time.Now()
	for _, n := range names {
		g.players = append(g.players, newPlayerState(n))
	}
	return g, nil
}

func newGame(src dice.Source) *Game {
	set := dice.NewSet(src)
	return &Game{
		dice:       set,
		turn:       turn.NewController(set),
		lastPlayer: -1,
	}
}

// Start begins round one with the first player on turn.
func (g *Game) Start() {
	g.round = 1
	g.onturn = 0
	g.playing = StatePlaying
	g.turn.Start()
	log.Info().Str("gid", g.uid).Int("players", len(g.players)).
		Int("rounds", g.maxRounds).Msg("game-started")
}

// OnRoundEnd registers a function to run at the end of every round.
func (g *Game) OnRoundEnd(f RoundEndFunc) {
	g.roundEndHooks = append(g.roundEndHooks, f)
}

func (g *Game) checkPlaying() error {
	if g.playing != StatePlaying {
		return fmt.Errorf("%w (%s)", ErrNotPlaying, g.playing)
	}
	return nil
}

// Roll rolls the unkept dice of the player on turn. If this was the third
// roll the turn is scored and the returned breakdown is non-nil.
func (g *Game) Roll() (*scoring.Breakdown, error) {
	if err := g.checkPlaying(); err != nil {
		return nil, err
	}
	if err := g.turn.Roll(); err != nil {
		return nil, err
	}
	g.totalRolls++
	if g.turn.State() == turn.Finalized {
		return g.commitTurn(), nil
	}
	return nil, nil
}

// Keep replaces the keep selection with the given 0-based positions.
func (g *Game) Keep(indices []int) error {
	if err := g.checkPlaying(); err != nil {
		return err
	}
	return g.turn.Keep(indices)
}

func (g *Game) KeepAll() error {
	if err := g.checkPlaying(); err != nil {
		return err
	}
	return g.turn.KeepAll()
}

func (g *Game) ReleaseAll() error {
	if err := g.checkPlaying(); err != nil {
		return err
	}
	return g.turn.ReleaseAll()
}

// Stop scores the dice as they are and ends the turn.
func (g *Game) Stop() (*scoring.Breakdown, error) {
	if err := g.checkPlaying(); err != nil {
		return nil, err
	}
	if err := g.turn.Stop(); err != nil {
		return nil, err
	}
	return g.commitTurn(), nil
}

func (g *Game) commitTurn() *scoring.Breakdown {
	b := g.turn.Result()
	p := g.players[g.onturn]
	p.addTurn(TurnRecord{
		Round:    g.round,
		Score:    b.Total,
		Category: b.Category,
		Dice:     g.dice.Values(),
		Rolls:    g.turn.RollsUsed(),
	})
	g.lastResult = b
	g.lastPlayer = g.onturn

	g.onturn++
	if g.onturn == len(g.players) {
		g.onturn = 0
		finished := g.round
		if g.round == g.maxRounds {
			g.playing = StateGameOver
			log.Info().Str("gid", g.uid).Msg("game-over")
		} else {
			g.round++
		}
		for _, f := range g.roundEndHooks {
			f(g, finished)
		}
	}
	if g.playing == StatePlaying {
		g.turn.Start()
	}
	return b
}

// Abort ends the game between turns. A turn that has been rolled but not
// scored is thrown away; recorded scores are untouched. It reports whether a
// turn was discarded.
func (g *Game) Abort() (bool, error) {
	if err := g.checkPlaying(); err != nil {
		return false, err
	}
	discarded := g.TurnInProgress()
	g.turn.Start()
	g.playing = StateAborted
	log.Info().Str("gid", g.uid).Bool("discarded-turn", discarded).Msg("game-aborted")
	return discarded, nil
}

// TurnInProgress is true once the player on turn has rolled and before the
// turn is scored.
func (g *Game) TurnInProgress() bool {
	return g.playing == StatePlaying && g.turn.State() == turn.AwaitingKeepChoice
}

// Winners returns every player sharing the highest score.
func (g *Game) Winners() []string {
	best := 0
	for _, p := range g.players {
		best = max(best, p.points)
	}
	winners := []string{}
	for _, p := range g.players {
		if p.points == best {
			winners = append(winners, p.name)
		}
	}
	return winners
}

// Standings returns players by score; tied players share a place.
func (g *Game) Standings() []Standing {
	sorted := g.players.standings()
	st := make([]Standing, len(sorted))
	for i, p := range sorted {
		place := i + 1
		if i > 0 && p.points == sorted[i-1].points {
			place = st[i-1].Place
		}
		st[i] = Standing{Place: place, Name: p.name, Score: p.points}
	}
	return st
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) NumPlayers() int {
	return len(g.players)
}

func (g *Game) PlayerOnTurn() int {
	return g.onturn
}

func (g *Game) NickOnTurn() string {
	return g.players[g.onturn].name
}

func (g *Game) NameFor(idx int) string {
	return g.players[idx].name
}

func (g *Game) PointsFor(idx int) int {
	return g.players[idx].points
}

// HistoryFor returns a copy of a player's turn records.
func (g *Game) HistoryFor(idx int) []TurnRecord {
	return g.players[idx].snapshot().History
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) MaxRounds() int {
	return g.maxRounds
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) TurnState() turn.State {
	return g.turn.State()
}

func (g *Game) RollsRemaining() int {
	return g.turn.RollsRemaining()
}

func (g *Game) DiceValues() []int {
	return g.dice.Values()
}

func (g *Game) KeptIndices() []int {
	return g.dice.KeptIndices()
}

func (g *Game) DiceStatistics() dice.Stats {
	return g.dice.Statistics()
}

// LastResult is the breakdown of the most recently scored turn, and who
// scored it; nil and -1 before any turn is scored.
func (g *Game) LastResult() (*scoring.Breakdown, int) {
	return g.lastResult, g.lastPlayer
}

func (g *Game) TotalRolls() int {
	return g.totalRolls
}

func (g *Game) Started() time.Time {
	return g.started
}

func (g *Game) Duration() time.Duration {
	return time.Since(g.started)
}

// Names returns the player names in seat order.
func (g *Game) Names() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.name
	}
	return slices.Clip(names)
}

// DiceDisplay shows the dice with their positions and kept marks.
func (g *Game) DiceDisplay() string {
	return g.dice.Display()
}
