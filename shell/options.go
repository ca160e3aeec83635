package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sb3ogun/naasii-game/config"
	"github.com/sb3ogun/naasii-game/dice"
)

// ShellOptions are session settings changed with `set`. They start from the
// config and are not written back.
type ShellOptions struct {
	autoSave      bool
	recordResults bool
	rounds        int
	seed          string
}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	return &ShellOptions{
		autoSave:      cfg.GetBool(config.ConfigAutoSave),
		recordResults: cfg.GetBool(config.ConfigRecordResults),
		rounds:        cfg.GetInt(config.ConfigRounds),
		seed:          cfg.GetString(config.ConfigSeed),
	}
}

var optionKeys = []string{"autosave", "record", "rounds", "seed"}

func (opts *ShellOptions) source() dice.Source {
	if opts.seed == "" {
		return dice.DefaultSource
	}
	return dice.NewSeededSource(dice.SeedFromPhrase(opts.seed))
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "autosave":
		return true, fmt.Sprintf("%v", opts.autoSave)
	case "record":
		return true, fmt.Sprintf("%v", opts.recordResults)
	case "rounds":
		return true, strconv.Itoa(opts.rounds)
	case "seed":
		if opts.seed == "" {
			return true, "(random)"
		}
		return true, opts.seed
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "on", "yes", "y", "1":
		return true, nil
	case "false", "off", "no", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", v)
}

// Set changes a session option and returns the value as displayed.
func (sc *ShellController) Set(key string, args []string) (string, error) {
	opts := sc.options
	value := strings.Join(args, " ")
	switch key {
	case "autosave":
		b, err := parseBool(value)
		if err != nil {
			return "", err
		}
		opts.autoSave = b
	case "record":
		b, err := parseBool(value)
		if err != nil {
			return "", err
		}
		opts.recordResults = b
	case "rounds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", err
		}
		if err := sc.rules.ValidateRounds(n); err != nil {
			return "", err
		}
		opts.rounds = n
	case "seed":
		opts.seed = value
		// new games roll from the new source
		sc.src = opts.source()
	default:
		return "", fmt.Errorf("option %v not recognized", key)
	}
	_, shown := opts.Show(key)
	return shown, nil
}
