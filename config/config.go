package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sb3ogun/naasii-game/errs"
)

const (
	ConfigDebug         = "debug"
	ConfigFile          = "config"
	ConfigRounds        = "rounds"
	ConfigMaxRounds     = "max-rounds"
	ConfigMinPlayers    = "min-players"
	ConfigMaxPlayers    = "max-players"
	ConfigSaveDir       = "save-dir"
	ConfigReportDir     = "report-dir"
	ConfigDBPath        = "db-path"
	ConfigAutoSave      = "auto-save"
	ConfigRecordResults = "record-results"
	ConfigSeed          = "seed"
	ConfigHistoryFile   = "history-file"
	ConfigCPUProfile    = "cpu-profile"
)

// Absolute bounds. The configured player range must sit inside them.
const (
	LowestPlayerCount  = 2
	HighestPlayerCount = 4
)

type Config struct {
	*viper.Viper

	configPath string
	args       []string
}

// Load parses command-line flags, environment variables (NAASII_ prefix) and
// an optional YAML config file, in that order of precedence. Flag parsing
// stops at the first non-flag argument; the remaining arguments are
// available with Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()

	f := pflag.NewFlagSet("naasii", pflag.ContinueOnError)
	f.SetInterspersed(false)
	f.Bool(ConfigDebug, false, "turn on debug logging")
	f.String(ConfigFile, "", "path to a YAML config file (default ~/.naasii/config.yaml)")
	f.Int(ConfigRounds, 10, "number of rounds in a new game")
	f.Int(ConfigMaxRounds, 20, "largest number of rounds a game may have")
	f.Int(ConfigMinPlayers, LowestPlayerCount, "fewest players in a game")
	f.Int(ConfigMaxPlayers, HighestPlayerCount, "most players in a game")
	f.String(ConfigSaveDir, "saves", "directory holding save files")
	f.String(ConfigReportDir, "visualizations", "directory for charts and reports")
	f.String(ConfigDBPath, "naasii.db", "path of the results database")
	f.Bool(ConfigAutoSave, true, "save the game after every round")
	f.Bool(ConfigRecordResults, true, "record finished games in the results database")
	f.String(ConfigSeed, "", "seed phrase for reproducible dice; empty means truly random")
	f.String(ConfigHistoryFile, "/tmp/naasii_readline.tmp", "readline history file")
	f.String(ConfigCPUProfile, "", "write a CPU profile to this file")

	if err := f.Parse(args); err != nil {
		return err
	}
	c.args = f.Args()

	c.SetEnvPrefix("NAASII")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(f); err != nil {
		return err
	}

	c.configPath = c.GetString(ConfigFile)
	if c.configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			c.configPath = filepath.Join(home, ".naasii", "config.yaml")
		}
	}
	if c.configPath != "" {
		c.SetConfigFile(c.configPath)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading config %s: %w", c.configPath, err)
			}
		}
	}
	return c.Validate()
}

// Args returns the arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// Validate checks the game bounds.
func (c *Config) Validate() error {
	minp, maxp := c.GetInt(ConfigMinPlayers), c.GetInt(ConfigMaxPlayers)
	if minp < LowestPlayerCount || maxp > HighestPlayerCount || minp > maxp {
		return fmt.Errorf("%w: player range %d-%d must lie within %d-%d",
			errs.ErrConfig, minp, maxp, LowestPlayerCount, HighestPlayerCount)
	}
	if c.GetInt(ConfigMaxRounds) <= 0 {
		return fmt.Errorf("%w: %s must be positive", errs.ErrConfig, ConfigMaxRounds)
	}
	if r := c.GetInt(ConfigRounds); r <= 0 || r > c.GetInt(ConfigMaxRounds) {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d",
			errs.ErrConfig, ConfigRounds, c.GetInt(ConfigMaxRounds), r)
	}
	return nil
}

// Write saves the current settings to the config file.
func (c *Config) Write() error {
	if c.configPath == "" {
		return errors.New("no config file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return err
	}
	return c.WriteConfigAs(c.configPath)
}

// SanitizedSettings returns the settings suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	delete(settings, ConfigSeed)
	return settings
}

// DefaultConfig returns a config with every flag at its default value and no
// config file. Mostly useful for tests.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load([]string{"--" + ConfigFile, os.DevNull}); err != nil {
		panic(err)
	}
	return c
}
