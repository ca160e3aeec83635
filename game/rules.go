package game

import (
	"fmt"

	"github.com/sb3ogun/naasii-game/config"
	"github.com/sb3ogun/naasii-game/errs"
)

var (
	ErrPlayerCount = fmt.Errorf("%w: wrong number of players", errs.ErrConfig)
	ErrRoundCount  = fmt.Errorf("%w: wrong number of rounds", errs.ErrConfig)
	ErrPlayerName  = fmt.Errorf("%w: bad player name", errs.ErrConfig)
)

// Rules bound the games that may be created.
type Rules struct {
	MinPlayers int
	MaxPlayers int
	MaxRounds  int
}

// DefaultRules allows 2-4 players and up to 20 rounds.
func DefaultRules() *Rules {
	return &Rules{
		MinPlayers: config.LowestPlayerCount,
		MaxPlayers: config.HighestPlayerCount,
		MaxRounds:  20,
	}
}

// NewRules reads the bounds from the config.
func NewRules(cfg *config.Config) *Rules {
	return &Rules{
		MinPlayers: cfg.GetInt(config.ConfigMinPlayers),
		MaxPlayers: cfg.GetInt(config.ConfigMaxPlayers),
		MaxRounds:  cfg.GetInt(config.ConfigMaxRounds),
	}
}

// ValidatePlayerCount is split out so the shell can check the count before
// asking for names.
func (r *Rules) ValidatePlayerCount(n int) error {
	if n < r.MinPlayers || n > r.MaxPlayers {
		return fmt.Errorf("%w: need %d-%d, got %d", ErrPlayerCount, r.MinPlayers, r.MaxPlayers, n)
	}
	return nil
}

func (r *Rules) ValidateRounds(n int) error {
	if n <= 0 || n > r.MaxRounds {
		return fmt.Errorf("%w: need 1-%d, got %d", ErrRoundCount, r.MaxRounds, n)
	}
	return nil
}

// ValidateNames checks that names are non-empty and unique.
func (r *Rules) ValidateNames(names []string) error {
	if err := r.ValidatePlayerCount(len(names)); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrPlayerName)
		}
		if seen[n] {
			return fmt.Errorf("%w: %q is already taken", ErrPlayerName, n)
		}
		seen[n] = true
	}
	return nil
}
