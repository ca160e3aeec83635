// Package dice implements the twelve dice a Naasii player rolls, along with
// the keep flags that protect dice from being rerolled.
package dice

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/sb3ogun/naasii-game/errs"
)

const (
	// NumDice is the number of dice in a set.
	NumDice = 12
	// NumSides is the number of faces on every die.
	NumSides = 6
)

var (
	// ErrIndexOutOfRange is returned when a die position is outside [0, NumDice).
	ErrIndexOutOfRange = fmt.Errorf("%w: die index out of range", errs.ErrInput)
	// ErrBadValue is returned when a die would be set outside [1, NumSides].
	ErrBadValue = fmt.Errorf("%w: die value out of range", errs.ErrInput)
)

// Source produces random numbers in [0, n).
type Source interface {
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	return frand.Intn(n)
}

// DefaultSource draws from frand's CSPRNG.
var DefaultSource Source = cryptoSource{}

// NewSeededSource returns a deterministic source. Two sources built from the
// same seed produce the same rolls.
func NewSeededSource(seed [32]byte) Source {
	return frand.NewCustom(seed[:], 1024, 12)
}

// SeedFromPhrase turns an arbitrary phrase into a seed.
func SeedFromPhrase(phrase string) [32]byte {
	return sha256.Sum256([]byte(phrase))
}

// Die is a single six-sided die.
type Die struct {
	Value int
	Kept  bool
}

func (d Die) String() string {
	if d.Kept {
		return fmt.Sprintf("[%d]", d.Value)
	}
	return fmt.Sprintf("%d", d.Value)
}

// Set is the ordered set of twelve dice.
type Set struct {
	dice [NumDice]Die
	src  Source
}

// NewSet creates a set showing all ones, nothing kept. A nil source means
// DefaultSource.
func NewSet(src Source) *Set {
	if src == nil {
		src = DefaultSource
	}
	s := &Set{src: src}
	for i := range s.dice {
		s.dice[i].Value = 1
	}
	return s
}

// RollUnkept gives every unkept die a new uniformly random value and returns
// all twelve values.
func (s *Set) RollUnkept() []int {
	for i := range s.dice {
		if !s.dice[i].Kept {
			s.dice[i].Value = s.src.Intn(NumSides) + 1
		}
	}
	return s.Values()
}

// CheckIndices reports an input error if any position is outside [0, NumDice).
func CheckIndices(indices []int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= NumDice {
			return fmt.Errorf("%w: %d (want 0-%d)", ErrIndexOutOfRange, idx, NumDice-1)
		}
	}
	return nil
}

// MarkKept marks the dice at the given positions as kept. If any position is
// out of range nothing is marked.
func (s *Set) MarkKept(indices []int) error {
	if err := CheckIndices(indices); err != nil {
		return err
	}
	for _, idx := range indices {
		s.dice[idx].Kept = true
	}
	return nil
}

// Release unmarks the dice at the given positions. If any position is out of
// range nothing is released.
func (s *Set) Release(indices []int) error {
	if err := CheckIndices(indices); err != nil {
		return err
	}
	for _, idx := range indices {
		s.dice[idx].Kept = false
	}
	return nil
}

func (s *Set) KeepAll() {
	for i := range s.dice {
		s.dice[i].Kept = true
	}
}

func (s *Set) ReleaseAll() {
	for i := range s.dice {
		s.dice[i].Kept = false
	}
}

// Reset clears every keep flag, ready for a new turn. Values are left alone;
// the first roll of the turn replaces all of them.
func (s *Set) Reset() {
	s.ReleaseAll()
}

// SetValues overwrites the die values, e.g. to replay a recorded turn.
func (s *Set) SetValues(values []int) error {
	if len(values) != NumDice {
		return fmt.Errorf("%w: need %d values, got %d", errs.ErrInput, NumDice, len(values))
	}
	for _, v := range values {
		if v < 1 || v > NumSides {
			return fmt.Errorf("%w: %d", ErrBadValue, v)
		}
	}
	for i, v := range values {
		s.dice[i].Value = v
	}
	return nil
}

func (s *Set) Values() []int {
	vals := make([]int, NumDice)
	for i := range s.dice {
		vals[i] = s.dice[i].Value
	}
	return vals
}

func (s *Set) KeptIndices() []int {
	kept := []int{}
	for i := range s.dice {
		if s.dice[i].Kept {
			kept = append(kept, i)
		}
	}
	return kept
}

// Die returns a copy of the die at idx.
func (s *Set) Die(idx int) Die {
	return s.dice[idx]
}

// Counts returns how many dice show each face. Index 0 is unused.
func Counts(values []int) [NumSides + 1]int {
	var counts [NumSides + 1]int
	for face, n := range lo.CountValues(values) {
		if face >= 1 && face <= NumSides {
			counts[face] = n
		}
	}
	return counts
}

// Stats summarizes the current dice.
type Stats struct {
	Values    []int
	Sum       int
	Mean      float64
	Counts    [NumSides + 1]int
	KeptCount int
}

func (s *Set) Statistics() Stats {
	vals := s.Values()
	sum := lo.Sum(vals)
	return Stats{
		Values:    vals,
		Sum:       sum,
		Mean:      float64(sum) / float64(NumDice),
		Counts:    Counts(vals),
		KeptCount: len(s.KeptIndices()),
	}
}

// Display shows the dice in two rows of six. Positions are 1-based, as the
// player types them; kept dice are marked with K.
func (s *Set) Display() string {
	cells := make([]string, NumDice)
	for i, d := range s.dice {
		status := "-"
		if d.Kept {
			status = "K"
		}
		cells[i] = fmt.Sprintf("%2d:%d%s", i+1, d.Value, status)
	}
	rows := []string{}
	for i := 0; i < NumDice; i += 6 {
		rows = append(rows, strings.Join(cells[i:i+6], "  "))
	}
	return strings.Join(rows, "\n")
}

// String shows the dice on one line, kept dice in brackets.
func (s *Set) String() string {
	parts := make([]string, NumDice)
	for i, d := range s.dice {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}
