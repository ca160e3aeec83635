package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
)

func TestScoreSixPairs(t *testing.T) {
	b, err := Score([]int{3, 3, 4, 4, 5, 5, 1, 1, 2, 2, 6, 6})
	require.NoError(t, err)

	assert.Equal(t, 6*PairPoints, b.PointsFor(Pair))
	assert.Equal(t, 50, b.PointsFor(Straight))
	assert.Equal(t, MultiplePairsBonus, b.PointsFor(MultiplePairs))
	assert.Equal(t, 90, b.Total)
	assert.Equal(t, 6, b.Straight)
	assert.Equal(t, CategoryMultiplePairs, b.Category)
}

func TestScoreTwoTriples(t *testing.T) {
	b, err := Score([]int{1, 1, 1, 2, 2, 2, 3, 3, 4, 4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, []Line{
		{Kind: Triple, Face: 1, Points: 10},
		{Kind: Triple, Face: 2, Points: 10},
		{Kind: Pair, Face: 3, Points: 5},
		{Kind: Pair, Face: 4, Points: 5},
		{Kind: Straight, Length: 6, Points: 50},
		{Kind: MultipleTriples, Points: 15},
	}, b.Lines)
	assert.Equal(t, 95, b.Total)
	assert.Equal(t, CategoryMultipleTriples, b.Category)
}

func TestScoreFourOfAKind(t *testing.T) {
	b, err := Score([]int{2, 2, 2, 5, 5, 6, 1, 3, 4, 6, 6, 6})
	require.NoError(t, err)

	assert.Equal(t, 10, b.PointsFor(Triple))
	assert.Equal(t, 5, b.PointsFor(Pair))
	assert.Equal(t, 20, b.PointsFor(FourOfAKind))
	assert.Equal(t, 50, b.PointsFor(Straight))
	assert.Equal(t, 85, b.Total)
	assert.Equal(t, CategoryFourOfAKind, b.Category)
}

func TestScoreTable(t *testing.T) {
	for _, tc := range []struct {
		name     string
		values   []int
		total    int
		straight int
		category string
	}{
		{
			name:     "sixes and fives",
			values:   []int{6, 6, 6, 6, 6, 6, 5, 5, 5, 5, 5, 5},
			total:    30 + 30,
			straight: 2,
			category: CategoryFiveOrMore,
		},
		{
			name:     "twelve of a kind",
			values:   []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
			total:    30,
			straight: 1,
			category: CategoryFiveOrMore,
		},
		{
			name:     "single triple",
			values:   []int{1, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6},
			total:    10 + 4*5 + 50,
			straight: 6,
			category: CategoryThreeOfAKind,
		},
		{
			name:     "three fours of a kind",
			values:   []int{1, 1, 1, 1, 3, 3, 3, 3, 5, 5, 5, 5},
			total:    60,
			straight: 1,
			category: CategoryFourOfAKind,
		},
		{
			name:     "straight of five",
			values:   []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 5, 5},
			total:    5 + 5 + 5 + 5 + 20 + 30,
			straight: 5,
			category: CategoryFourOfAKind,
		},
		{
			name:     "four triples",
			values:   []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 6, 6, 6},
			total:    40 + 10 + 15,
			straight: 3,
			category: CategoryMultipleTriples,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Score(tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.total, b.Total)
			assert.Equal(t, tc.straight, b.Straight)
			assert.Equal(t, tc.category, b.Category)
		})
	}
}

func TestScoreRejectsBadInput(t *testing.T) {
	_, err := Score([]int{1, 2, 3, 4, 5})
	assert.True(t, errors.Is(err, errs.ErrInput))

	_, err = Score([]int{1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5})
	assert.True(t, errors.Is(err, dice.ErrBadValue))
}

func TestTotalIsSumOfLines(t *testing.T) {
	s := dice.NewSet(dice.NewSeededSource(dice.SeedFromPhrase("totals")))
	for i := 0; i < 5000; i++ {
		b, err := Score(s.RollUnkept())
		require.NoError(t, err)
		sum := 0
		for _, l := range b.Lines {
			sum += l.Points
		}
		require.GreaterOrEqual(t, b.Total, 0)
		require.Equal(t, sum, b.Total)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	vals := []int{1, 1, 1, 2, 2, 2, 3, 3, 4, 4, 5, 6}
	first, err := Score(vals)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Score(vals)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Three Of A Kind", Describe(CategoryThreeOfAKind))
	assert.Equal(t, "Straight 6", Describe(StraightCategory(6)))
}

func TestToDisplayText(t *testing.T) {
	b, err := Score([]int{3, 3, 4, 4, 5, 5, 1, 1, 2, 2, 6, 6})
	require.NoError(t, err)
	txt := b.ToDisplayText()
	assert.Contains(t, txt, "Category: Multiple Pairs")
	assert.Contains(t, txt, "pair of 3s: 5")
	assert.Contains(t, txt, "straight of 6: 50")
	assert.Contains(t, txt, "Score: 90 points")
}
