package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/turn"
)

// scriptSource returns queued values, then zeros.
type scriptSource struct{ queue []int }

func (s *scriptSource) Intn(n int) int {
	if len(s.queue) == 0 {
		return 0
	}
	v := s.queue[0]
	s.queue = s.queue[1:]
	return v % n
}

func (s *scriptSource) faces(values ...int) {
	for _, v := range values {
		s.queue = append(s.queue, v-1)
	}
}

var sixPairs = []int{1, 2, 3, 4, 5, 6, 1, 2, 3, 4, 5, 6}

func newTestGame(t *testing.T, names []string, rounds int) (*Game, *scriptSource) {
	t.Helper()
	src := &scriptSource{}
	g, err := NewGame(DefaultRules(), names, rounds, src)
	if err != nil {
		t.Fatal(err)
	}
	g.Start()
	return g, src
}

func TestOneRoundTwoPlayers(t *testing.T) {
	is := is.New(t)
	g, src := newTestGame(t, []string{"ana", "bo"}, 1)

	src.faces(sixPairs...)
	res, err := g.Roll()
	is.NoErr(err)
	is.True(res == nil)
	is.True(g.TurnInProgress())
	res, err = g.Stop()
	is.NoErr(err)
	is.Equal(res.Total, 90)
	is.Equal(g.PlayerOnTurn(), 1)
	is.Equal(g.Round(), 1)

	// all ones
	_, err = g.Roll()
	is.NoErr(err)
	res, err = g.Stop()
	is.NoErr(err)
	is.Equal(res.Category, scoring.CategoryFiveOrMore)
	is.Equal(res.Total, 30)

	is.Equal(g.Playing(), StateGameOver)
	is.Equal(g.Winners(), []string{"ana"})
	is.Equal(g.Standings(), []Standing{
		{Place: 1, Name: "ana", Score: 90},
		{Place: 2, Name: "bo", Score: 30},
	})
	is.Equal(g.TotalRolls(), 2)

	_, err = g.Roll()
	is.True(errors.Is(err, ErrNotPlaying))
	is.True(errors.Is(err, errs.ErrInput))
}

func TestThirdRollScoresTurn(t *testing.T) {
	is := is.New(t)
	g, _ := newTestGame(t, []string{"ana", "bo"}, 2)
	for i := 0; i < 2; i++ {
		res, err := g.Roll()
		is.NoErr(err)
		is.True(res == nil)
	}
	is.Equal(g.RollsRemaining(), 1)
	res, err := g.Roll()
	is.NoErr(err)
	is.True(res != nil)
	is.Equal(g.NickOnTurn(), "bo")
	is.Equal(g.RollsRemaining(), turn.MaxRolls)
	is.Equal(g.TurnState(), turn.FreshRoll)
	h := g.HistoryFor(0)
	is.Equal(len(h), 1)
	is.Equal(h[0].Rolls, 3)
	is.Equal(h[0].Round, 1)
}

func TestTieSharesWin(t *testing.T) {
	is := is.New(t)
	g, src := newTestGame(t, []string{"ana", "bo", "cy"}, 1)
	for i := 0; i < 3; i++ {
		if i != 2 {
			src.faces(sixPairs...)
		}
		_, err := g.Roll()
		is.NoErr(err)
		_, err = g.Stop()
		is.NoErr(err)
	}
	is.Equal(g.Winners(), []string{"ana", "bo"})
	st := g.Standings()
	is.Equal(st[0].Place, 1)
	is.Equal(st[1].Place, 1)
	is.Equal(st[2].Place, 3)
}

func TestScoreIsSumOfHistory(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(DefaultRules(), []string{"ana", "bo"}, 5,
		dice.NewSeededSource(dice.SeedFromPhrase("history")))
	is.NoErr(err)
	g.Start()
	for g.Playing() == StatePlaying {
		if g.TurnInProgress() && g.RollsRemaining() == 1 {
			is.NoErr(g.Keep([]int{0, 1, 2}))
		}
		_, err := g.Roll()
		is.NoErr(err)
	}
	for i := 0; i < g.NumPlayers(); i++ {
		h := g.HistoryFor(i)
		is.Equal(len(h), 5)
		is.Equal(SumScores(h), g.PointsFor(i))
		is.Equal(h[len(h)-1].Total, g.PointsFor(i))
	}
	is.Equal(g.TotalRolls(), 30)
}

func TestRoundEndHook(t *testing.T) {
	is := is.New(t)
	g, _ := newTestGame(t, []string{"ana", "bo"}, 2)
	ended := []int{}
	g.OnRoundEnd(func(_ *Game, round int) {
		ended = append(ended, round)
	})
	for g.Playing() == StatePlaying {
		_, err := g.Roll()
		is.NoErr(err)
		_, err = g.Stop()
		is.NoErr(err)
	}
	is.Equal(ended, []int{1, 2})
}

func TestNewGameErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewGame(DefaultRules(), []string{"solo"}, 3, nil)
	is.True(errors.Is(err, ErrPlayerCount))
	is.True(errors.Is(err, errs.ErrConfig))

	_, err = NewGame(DefaultRules(), []string{"a", "b", "c", "d", "e"}, 3, nil)
	is.True(errors.Is(err, ErrPlayerCount))

	_, err = NewGame(DefaultRules(), []string{"a", "b"}, 0, nil)
	is.True(errors.Is(err, ErrRoundCount))

	_, err = NewGame(DefaultRules(), []string{"a", "b"}, 21, nil)
	is.True(errors.Is(err, ErrRoundCount))

	_, err = NewGame(DefaultRules(), []string{"a", "a"}, 3, nil)
	is.True(errors.Is(err, ErrPlayerName))

	_, err = NewGame(DefaultRules(), []string{"a", ""}, 3, nil)
	is.True(errors.Is(err, ErrPlayerName))
}

func TestKeepBeforeRoll(t *testing.T) {
	is := is.New(t)
	g, _ := newTestGame(t, []string{"ana", "bo"}, 1)
	err := g.Keep([]int{0})
	is.True(errors.Is(err, turn.ErrNotRolledYet))
	_, err = g.Stop()
	is.True(errors.Is(err, turn.ErrNotRolledYet))
}

func TestAbortKeepsScores(t *testing.T) {
	is := is.New(t)
	g, src := newTestGame(t, []string{"ana", "bo"}, 3)
	src.faces(sixPairs...)
	_, err := g.Roll()
	is.NoErr(err)
	_, err = g.Stop()
	is.NoErr(err)

	_, err = g.Roll()
	is.NoErr(err)
	discarded, err := g.Abort()
	is.NoErr(err)
	is.True(discarded)
	is.Equal(g.Playing(), StateAborted)
	is.Equal(g.PointsFor(0), 90)
	is.Equal(g.PointsFor(1), 0)
	is.Equal(len(g.HistoryFor(1)), 0)

	_, err = g.Abort()
	is.True(errors.Is(err, ErrNotPlaying))
}

func TestDisplayText(t *testing.T) {
	is := is.New(t)
	g, src := newTestGame(t, []string{"ana", "bo"}, 1)
	src.faces(sixPairs...)
	_, err := g.Roll()
	is.NoErr(err)
	_, err = g.Stop()
	is.NoErr(err)
	txt := g.ToDisplayText()
	is.True(strings.Contains(txt, "Round 1 of 1, bo to play"))
	is.True(strings.Contains(txt, "-> bo"))
	is.True(strings.Contains(txt, "Last turn (ana): 90, multiple_pairs"))
}
