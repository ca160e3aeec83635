package dice

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/sb3ogun/naasii-game/errs"
)

// cycleSource hands out 0, 1, 2, ... modulo n.
type cycleSource struct{ next int }

func (c *cycleSource) Intn(n int) int {
	v := c.next % n
	c.next++
	return v
}

func TestNewSet(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	is.Equal(len(s.Values()), NumDice)
	for _, v := range s.Values() {
		is.Equal(v, 1)
	}
	is.Equal(len(s.KeptIndices()), 0)
}

func TestRollUnkeptInRange(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	for i := 0; i < 200; i++ {
		for _, v := range s.RollUnkept() {
			is.True(v >= 1 && v <= NumSides)
		}
	}
}

func TestRollNeverChangesKeptDice(t *testing.T) {
	is := is.New(t)
	s := NewSet(NewSeededSource(SeedFromPhrase("kept")))
	s.RollUnkept()
	before := s.Values()
	is.NoErr(s.MarkKept([]int{0, 5, 11}))

	for i := 0; i < 100; i++ {
		after := s.RollUnkept()
		is.Equal(after[0], before[0])
		is.Equal(after[5], before[5])
		is.Equal(after[11], before[11])
	}
}

func TestRollUsesSource(t *testing.T) {
	is := is.New(t)
	s := NewSet(&cycleSource{})
	is.Equal(s.RollUnkept(), []int{1, 2, 3, 4, 5, 6, 1, 2, 3, 4, 5, 6})
}

func TestMarkKeptRejectsOutOfRange(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	for _, bad := range [][]int{{12}, {-1}, {0, 1, 99}} {
		err := s.MarkKept(bad)
		is.True(errors.Is(err, ErrIndexOutOfRange))
		is.True(errors.Is(err, errs.ErrInput))
		is.Equal(len(s.KeptIndices()), 0) // nothing partially applied
	}
}

func TestMarkKeptAndRelease(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	is.NoErr(s.MarkKept([]int{0, 2, 4}))
	is.Equal(s.KeptIndices(), []int{0, 2, 4})
	is.True(s.Die(2).Kept)
	is.True(!s.Die(1).Kept)

	is.NoErr(s.Release([]int{2}))
	is.Equal(s.KeptIndices(), []int{0, 4})
	is.True(errors.Is(s.Release([]int{12}), ErrIndexOutOfRange))
}

func TestResetClearsAllKeeps(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	s.KeepAll()
	is.Equal(len(s.KeptIndices()), NumDice)
	s.Reset()
	is.Equal(len(s.KeptIndices()), 0)
}

func TestSeededSourcesAgree(t *testing.T) {
	is := is.New(t)
	seed := SeedFromPhrase("naasii")
	a := NewSet(NewSeededSource(seed))
	b := NewSet(NewSeededSource(seed))
	for i := 0; i < 10; i++ {
		is.Equal(a.RollUnkept(), b.RollUnkept())
	}
}

func TestSetValues(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	vals := []int{1, 2, 3, 4, 5, 6, 6, 5, 4, 3, 2, 1}
	is.NoErr(s.SetValues(vals))
	is.Equal(s.Values(), vals)

	is.True(errors.Is(s.SetValues([]int{1, 2}), errs.ErrInput))
	is.True(errors.Is(s.SetValues([]int{1, 2, 3, 4, 5, 6, 7, 1, 1, 1, 1, 1}), ErrBadValue))
	is.Equal(s.Values(), vals)
}

func TestStatistics(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	is.NoErr(s.SetValues([]int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6}))
	is.NoErr(s.MarkKept([]int{3}))
	st := s.Statistics()
	is.Equal(st.Sum, 42)
	is.Equal(st.Mean, 3.5)
	is.Equal(st.KeptCount, 1)
	for face := 1; face <= NumSides; face++ {
		is.Equal(st.Counts[face], 2)
	}
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	s := NewSet(nil)
	is.NoErr(s.SetValues([]int{1, 2, 3, 4, 5, 6, 6, 5, 4, 3, 2, 1}))
	is.NoErr(s.MarkKept([]int{0, 11}))
	is.Equal(s.Display(),
		" 1:1K   2:2-   3:3-   4:4-   5:5-   6:6-\n"+
			" 7:6-   8:5-   9:4-  10:3-  11:2-  12:1K")
	is.Equal(s.String(), "[1] 2 3 4 5 6 6 5 4 3 2 [1]")
	is.Equal(Die{Value: 5}.String(), "5")
}
