package stats

import (
	"slices"

	"github.com/samber/lo"

	"github.com/sb3ogun/naasii-game/game"
)

// Confidence is the level used for the mean turn score interval.
const Confidence = 95.0

// PlayerSummary describes one player's turns.
type PlayerSummary struct {
	Name         string
	Total        int
	Turns        int
	Mean         float64
	Stdev        float64
	CILow        float64
	CIHigh       float64
	Best         int
	Worst        int
	BestCategory string
	MostCommon   string
	Scores       []int
}

// Summarize computes a PlayerSummary. Players without turns get a zero
// summary with their name and total.
func Summarize(p game.PlayerSnapshot) PlayerSummary {
	ps := PlayerSummary{Name: p.Name, Total: p.Score, Turns: len(p.History)}
	if len(p.History) == 0 {
		return ps
	}
	st := &Statistic{}
	ps.Scores = lo.Map(p.History, func(r game.TurnRecord, _ int) int { return r.Score })
	st.PushInts(ps.Scores)

	best := lo.MaxBy(p.History, func(a, b game.TurnRecord) bool { return a.Score > b.Score })
	ps.Mean = st.Mean()
	ps.Stdev = st.Stdev()
	ps.CILow, ps.CIHigh = st.ConfidenceInterval(Confidence)
	ps.Best = int(st.Max())
	ps.Worst = int(st.Min())
	ps.BestCategory = best.Category
	ps.MostCommon = MostCommon(lo.Map(p.History, func(r game.TurnRecord, _ int) string { return r.Category }))
	return ps
}

// SummarizeGame summarizes every player of a snapshot, in seat order.
func SummarizeGame(snap *game.Snapshot) []PlayerSummary {
	return lo.Map(snap.Players, func(p game.PlayerSnapshot, _ int) PlayerSummary {
		return Summarize(p)
	})
}

// MostCommon returns the most frequent string; ties go to the first in
// sorted order. Empty input gives "".
func MostCommon(xs []string) string {
	counts := lo.CountValues(xs)
	keys := lo.Keys(counts)
	slices.Sort(keys)
	best := ""
	for _, k := range keys {
		if best == "" || counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// CategoryCount is how many turns ended in a category.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryFrequency counts categories across every player, most frequent
// first, then by name.
func CategoryFrequency(snap *game.Snapshot) []CategoryCount {
	all := lo.FlatMap(snap.Players, func(p game.PlayerSnapshot, _ int) []string {
		return lo.Map(p.History, func(r game.TurnRecord, _ int) string { return r.Category })
	})
	counts := lo.MapToSlice(lo.CountValues(all), func(k string, v int) CategoryCount {
		return CategoryCount{Category: k, Count: v}
	})
	slices.SortFunc(counts, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.Category < b.Category {
			return -1
		}
		if a.Category > b.Category {
			return 1
		}
		return 0
	})
	return counts
}

// AllScores returns every turn score in the game.
func AllScores(snap *game.Snapshot) []int {
	return lo.FlatMap(snap.Players, func(p game.PlayerSnapshot, _ int) []int {
		return lo.Map(p.History, func(r game.TurnRecord, _ int) int { return r.Score })
	})
}
