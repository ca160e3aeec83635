package strategy

import (
	"testing"

	"github.com/matryer/is"
)

func TestAnalyze(t *testing.T) {
	is := is.New(t)
	vals := []int{1, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6}
	a := Analyze(vals)

	is.Equal(a.Counts[1], 3)
	is.Equal(a.Counts[6], 1)
	is.Equal(a.Total, 37)
	is.Equal(a.Suggestions, []string{
		"Keep 3 dice with value 1",
		"Keep 2 dice with value 2",
		"Keep 2 dice with value 3",
		"Full straight - keep one die of each value",
	})
}

func TestAnalyzeNearStraight(t *testing.T) {
	is := is.New(t)
	a := Analyze([]int{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 6, 6})
	is.Equal(a.Suggestions, []string{
		"Keep 4 dice with value 1",
		"Keep 4 dice with value 2",
		"Keep 2 dice with value 3",
		"Near straight - need values 4, 5",
	})
}

func TestAnalyzeNothingToSay(t *testing.T) {
	is := is.New(t)
	a := Analyze([]int{6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6})
	is.Equal(a.Suggestions, []string{"Keep 12 dice with value 6"})
}

func TestBotKeep(t *testing.T) {
	is := is.New(t)
	vals := []int{1, 1, 1, 2, 2, 3, 4, 4, 6, 6, 6, 6}
	// all the 1s and 6s, the first 2, the 3, the first 4
	is.Equal(BotKeep(vals), []int{0, 1, 2, 3, 5, 6, 8, 9, 10, 11})
	is.True(!BotShouldStop(vals))
}

func TestBotShouldStop(t *testing.T) {
	is := is.New(t)
	is.True(BotShouldStop([]int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4}))
	is.True(!BotShouldStop([]int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6}))
}
