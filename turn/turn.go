// Package turn runs a single Naasii turn as an explicit state machine: up to
// three rolls, keep choices between them, then the final dice are scored.
package turn

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/scoring"
)

// MaxRolls is the number of rolls a player gets each turn.
const MaxRolls = 3

type State int

const (
	// FreshRoll is the start of a turn; nothing has been rolled yet.
	FreshRoll State = iota
	// AwaitingKeepChoice follows the first and second rolls.
	AwaitingKeepChoice
	// Finalized means the dice have been scored.
	Finalized
)

func (s State) String() string {
	switch s {
	case FreshRoll:
		return "fresh roll"
	case AwaitingKeepChoice:
		return "awaiting keep choice"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

var (
	ErrNoRollsRemaining = fmt.Errorf("%w: no rolls remaining this turn", errs.ErrInput)
	ErrNotRolledYet     = fmt.Errorf("%w: roll the dice first", errs.ErrInput)
	ErrTurnFinalized    = fmt.Errorf("%w: the turn is already over", errs.ErrInput)
)

// Controller drives the dice of one player's turn. It is reused from turn to
// turn; Start resets it.
type Controller struct {
	dice   *dice.Set
	state  State
	rolls  int
	result *scoring.Breakdown
}

func NewController(set *dice.Set) *Controller {
	return &Controller{dice: set}
}

// Start begins a new turn: keep flags are cleared and three rolls are
// available.
func (c *Controller) Start() {
	c.dice.Reset()
	c.state = FreshRoll
	c.rolls = 0
	c.result = nil
}

// Roll rolls every unkept die. The third roll finalizes the turn. Rolling
// after that fails without touching the dice.
func (c *Controller) Roll() error {
	if c.state == Finalized {
		if c.rolls >= MaxRolls {
			return ErrNoRollsRemaining
		}
		return ErrTurnFinalized
	}
	c.dice.RollUnkept()
	c.rolls++
	log.Debug().Int("roll", c.rolls).Ints("values", c.dice.Values()).Msg("rolled")
	if c.rolls == MaxRolls {
		return c.finalize()
	}
	c.state = AwaitingKeepChoice
	return nil
}

func (c *Controller) checkKeepAllowed() error {
	switch c.state {
	case FreshRoll:
		return ErrNotRolledYet
	case Finalized:
		if c.rolls >= MaxRolls {
			return fmt.Errorf("%w: cannot keep after the final roll", errs.ErrInput)
		}
		return ErrTurnFinalized
	}
	return nil
}

// Keep replaces the keep selection with the given positions (0-based). An
// invalid position leaves the previous selection in place.
func (c *Controller) Keep(indices []int) error {
	if err := c.checkKeepAllowed(); err != nil {
		return err
	}
	if err := dice.CheckIndices(indices); err != nil {
		return err
	}
	c.dice.ReleaseAll()
	return c.dice.MarkKept(indices)
}

func (c *Controller) KeepAll() error {
	if err := c.checkKeepAllowed(); err != nil {
		return err
	}
	c.dice.KeepAll()
	return nil
}

func (c *Controller) ReleaseAll() error {
	if err := c.checkKeepAllowed(); err != nil {
		return err
	}
	c.dice.ReleaseAll()
	return nil
}

// Stop ends the turn early and scores the dice as they are.
func (c *Controller) Stop() error {
	switch c.state {
	case FreshRoll:
		return ErrNotRolledYet
	case Finalized:
		return ErrTurnFinalized
	}
	return c.finalize()
}

func (c *Controller) finalize() error {
	b, err := scoring.Score(c.dice.Values())
	if err != nil {
		return err
	}
	c.result = b
	c.state = Finalized
	log.Debug().Int("total", b.Total).Str("category", b.Category).Msg("turn-finalized")
	return nil
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) RollsUsed() int {
	return c.rolls
}

func (c *Controller) RollsRemaining() int {
	return MaxRolls - c.rolls
}

// Result is the scored dice once the turn is finalized, nil before.
func (c *Controller) Result() *scoring.Breakdown {
	return c.result
}

func (c *Controller) Dice() *dice.Set {
	return c.dice
}
