// Package strategy looks at a roll and decides what is worth keeping, both as
// advice shown to human players and as the policy autoplay bots follow.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/sb3ogun/naasii-game/dice"
)

// Analysis is the advice for one set of dice.
type Analysis struct {
	Counts      [dice.NumSides + 1]int
	Suggestions []string
	Total       int
}

type faceCount struct {
	face, count int
}

// rankedFaces returns faces by count, highest first. Ties keep face order.
func rankedFaces(counts [dice.NumSides + 1]int) []faceCount {
	fcs := make([]faceCount, 0, dice.NumSides)
	for face := 1; face <= dice.NumSides; face++ {
		fcs = append(fcs, faceCount{face, counts[face]})
	}
	sort.SliceStable(fcs, func(i, j int) bool {
		return fcs[i].count > fcs[j].count
	})
	return fcs
}

func missingFaces(counts [dice.NumSides + 1]int) []int {
	return lo.Filter(lo.RangeFrom(1, dice.NumSides), func(face int, _ int) bool {
		return counts[face] == 0
	})
}

// Analyze suggests keeping the (up to three) most common faces that already
// form at least a pair, and flags a near straight when at most two faces are
// missing.
func Analyze(values []int) *Analysis {
	a := &Analysis{Counts: dice.Counts(values), Total: lo.Sum(values)}

	for _, fc := range rankedFaces(a.Counts)[:3] {
		if fc.count >= 2 {
			a.Suggestions = append(a.Suggestions,
				fmt.Sprintf("Keep %d dice with value %d", fc.count, fc.face))
		}
	}

	missing := missingFaces(a.Counts)
	switch {
	case len(missing) == 0:
		a.Suggestions = append(a.Suggestions, "Full straight - keep one die of each value")
	case len(missing) <= 2:
		a.Suggestions = append(a.Suggestions,
			"Near straight - need values "+joinInts(missing))
	}
	return a
}

func joinInts(xs []int) string {
	return strings.Join(lo.Map(xs, func(x int, _ int) string {
		return fmt.Sprint(x)
	}), ", ")
}

// SetThreshold is the count from which a bot keeps every die of a face.
const SetThreshold = 3

// BotKeep returns the positions a bot keeps: every die of a face showing at
// least SetThreshold times, plus one die of every other face present so the
// straight survives the reroll.
func BotKeep(values []int) []int {
	counts := dice.Counts(values)
	seen := map[int]bool{}
	keep := []int{}
	for idx, v := range values {
		switch {
		case counts[v] >= SetThreshold:
			keep = append(keep, idx)
		case !seen[v]:
			seen[v] = true
			keep = append(keep, idx)
		}
	}
	return keep
}

// BotShouldStop reports whether rerolling cannot change anything under the
// bot policy, i.e. every die would be kept.
func BotShouldStop(values []int) bool {
	return len(BotKeep(values)) == len(values)
}
