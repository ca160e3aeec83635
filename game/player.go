package game

import (
	"fmt"
	"slices"
	"sort"

	"github.com/rs/zerolog/log"
)

type playerState struct {
	name    string
	points  int
	history []TurnRecord
}

func newPlayerState(name string) *playerState {
	return &playerState{name: name, history: []TurnRecord{}}
}

func (p *playerState) addTurn(rec TurnRecord) {
	p.points += rec.Score
	rec.Total = p.points
	p.history = append(p.history, rec)
	log.Debug().Str("player", p.name).Int("round", rec.Round).Int("score", rec.Score).
		Int("total", p.points).Msg("turn-recorded")
}

func (p *playerState) stateString(myturn bool) string {
	onturn := ""
	if myturn {
		onturn = "-> "
	}
	return fmt.Sprintf("%4v%-20v %4v", onturn, p.name, p.points)
}

func (p *playerState) snapshot() PlayerSnapshot {
	h := make([]TurnRecord, len(p.history))
	for i, r := range p.history {
		h[i] = r
		h[i].Dice = slices.Clone(r.Dice)
	}
	return PlayerSnapshot{Name: p.name, Score: p.points, History: h}
}

type playerStates []*playerState

// standings orders players by score, highest first; equal scores keep seat
// order.
func (p playerStates) standings() playerStates {
	sorted := slices.Clone(p)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].points > sorted[j].points
	})
	return sorted
}

// Standing is a player's place in the game.
type Standing struct {
	Place int
	Name  string
	Score int
}
