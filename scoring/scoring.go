// Package scoring computes the points a finished set of twelve dice is worth.
//
// Every face is scored on its own count, the single longest straight is
// scored on top of that, and a bonus applies for several pairs or several
// triples. Combinations are not dice-exclusive: a die in a pair also counts
// toward a straight.
package scoring

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
)

// Kind is the kind of a single scoring line.
type Kind int

const (
	Pair Kind = iota
	Triple
	FourOfAKind
	FiveOrMore
	Straight
	MultiplePairs
	MultipleTriples
	SinglePair
)

func (k Kind) String() string {
	switch k {
	case Pair:
		return "pair"
	case Triple:
		return "triple"
	case FourOfAKind:
		return "four of a kind"
	case FiveOrMore:
		return "five or more"
	case Straight:
		return "straight"
	case MultiplePairs:
		return "multiple pairs bonus"
	case MultipleTriples:
		return "multiple triples bonus"
	case SinglePair:
		return "single pair"
	}
	return "unknown"
}

// Headline categories, as recorded in a player's history.
const (
	CategoryChance          = "chance"
	CategoryFiveOrMore      = "five_or_more_of_a_kind"
	CategoryFourOfAKind     = "four_of_a_kind"
	CategoryThreeOfAKind    = "three_of_a_kind"
	CategoryMultipleTriples = "multiple_triples"
	CategoryMultiplePairs   = "multiple_pairs"
	CategorySinglePair      = "single_pair"
)

// StraightCategory is the headline category for a straight of length n.
func StraightCategory(n int) string {
	return fmt.Sprintf("straight_%d", n)
}

// Points for a single face, by how many dice show it.
const (
	PairPoints       = 5
	TriplePoints     = 10
	FourPoints       = 20
	FiveOrMorePoints = 30

	MultiplePairsBonus   = 10
	MultipleTriplesBonus = 15
	SinglePairFloor      = 5
)

// StraightPoints maps a straight length to its points. Runs shorter than
// three score nothing.
var StraightPoints = map[int]int{
	3: 10,
	4: 20,
	5: 30,
	6: 50,
}

// Line is a single scoring element. Face is zero for elements that do not
// belong to one face (straights and bonuses); for a straight, Length is the
// run length.
type Line struct {
	Kind   Kind
	Face   int
	Length int
	Points int
}

func (l Line) String() string {
	switch {
	case l.Kind == Straight:
		return fmt.Sprintf("straight of %d: %d", l.Length, l.Points)
	case l.Face != 0:
		return fmt.Sprintf("%s of %ds: %d", l.Kind, l.Face, l.Points)
	}
	return fmt.Sprintf("%s: %d", l.Kind, l.Points)
}

// Breakdown is the scored result of one turn. It is not modified after Score
// returns it.
type Breakdown struct {
	Lines    []Line
	Counts   [dice.NumSides + 1]int
	Straight int
	Category string
	Total    int
}

// PointsFor sums the lines of the given kind.
func (b *Breakdown) PointsFor(k Kind) int {
	pts := 0
	for _, l := range b.Lines {
		if l.Kind == k {
			pts += l.Points
		}
	}
	return pts
}

func facePoints(count int) (Kind, int) {
	switch {
	case count >= 5:
		return FiveOrMore, FiveOrMorePoints
	case count == 4:
		return FourOfAKind, FourPoints
	case count == 3:
		return Triple, TriplePoints
	case count == 2:
		return Pair, PairPoints
	}
	return 0, 0
}

// LongestStraight returns the length of the longest run of consecutive faces
// that each appear at least once.
func LongestStraight(counts [dice.NumSides + 1]int) int {
	longest, cur := 0, 0
	for face := 1; face <= dice.NumSides; face++ {
		if counts[face] > 0 {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}

// Score scores the final values of a turn. It needs exactly twelve values,
// each in [1,6].
func Score(values []int) (*Breakdown, error) {
	if len(values) != dice.NumDice {
		return nil, fmt.Errorf("%w: scoring needs exactly %d dice, got %d",
			errs.ErrInput, dice.NumDice, len(values))
	}
	for _, v := range values {
		if v < 1 || v > dice.NumSides {
			return nil, fmt.Errorf("%w: %d", dice.ErrBadValue, v)
		}
	}

	b := &Breakdown{Counts: dice.Counts(values), Category: CategoryChance}

	maxCount, atLeastTwo, atLeastThree := 0, 0, 0
	for face := 1; face <= dice.NumSides; face++ {
		count := b.Counts[face]
		maxCount = max(maxCount, count)
		if count >= 2 {
			atLeastTwo++
		}
		if count >= 3 {
			atLeastThree++
		}
		if count < 2 {
			continue
		}
		kind, pts := facePoints(count)
		b.Lines = append(b.Lines, Line{Kind: kind, Face: face, Points: pts})
	}

	b.Straight = LongestStraight(b.Counts)
	if pts, ok := StraightPoints[b.Straight]; ok {
		b.Lines = append(b.Lines, Line{Kind: Straight, Length: b.Straight, Points: pts})
		b.Category = StraightCategory(b.Straight)
	}

	switch {
	case maxCount >= 5:
		b.Category = CategoryFiveOrMore
	case maxCount == 4:
		b.Category = CategoryFourOfAKind
	case maxCount == 3:
		if atLeastThree >= 2 {
			b.Category = CategoryMultipleTriples
			b.Lines = append(b.Lines, Line{Kind: MultipleTriples, Points: MultipleTriplesBonus})
		} else {
			b.Category = CategoryThreeOfAKind
		}
	case maxCount == 2:
		if atLeastTwo >= 3 {
			b.Category = CategoryMultiplePairs
			b.Lines = append(b.Lines, Line{Kind: MultiplePairs, Points: MultiplePairsBonus})
		}
	}

	for _, l := range b.Lines {
		b.Total += l.Points
	}

	// Unreachable with twelve dice and the table above, which always scores
	// at least one pair. Kept so the rule table stays complete.
	if b.Total == 0 && maxCount >= 2 {
		b.Lines = append(b.Lines, Line{Kind: SinglePair, Points: SinglePairFloor})
		b.Category = CategorySinglePair
		b.Total = SinglePairFloor
	}
	return b, nil
}

// Describe turns a category such as "three_of_a_kind" into "Three Of A Kind".
func Describe(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "_", " "))
}

// ToDisplayText lists the scoring lines and the total.
func (b *Breakdown) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Category: %s\n", Describe(b.Category))
	for _, l := range b.Lines {
		fmt.Fprintf(&sb, "  %s\n", l)
	}
	fmt.Fprintf(&sb, "Score: %d points", b.Total)
	return sb.String()
}
