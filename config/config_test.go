package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/sb3ogun/naasii-game/errs"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigRounds), 10)
	is.Equal(cfg.GetInt(ConfigMaxRounds), 20)
	is.Equal(cfg.GetInt(ConfigMinPlayers), 2)
	is.Equal(cfg.GetInt(ConfigMaxPlayers), 4)
	is.Equal(cfg.GetString(ConfigSaveDir), "saves")
	is.True(cfg.GetBool(ConfigAutoSave))
	is.True(!cfg.GetBool(ConfigDebug))
}

func TestLoadFlagsAndRemainingArgs(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--config", os.DevNull, "--rounds", "3", "--debug",
		"autoplay", "-games", "10"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigRounds), 3)
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.Args(), []string{"autoplay", "-games", "10"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("NAASII_SAVE_DIR", "/tmp/naasii-saves")
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config", os.DevNull}))
	is.Equal(cfg.GetString(ConfigSaveDir), "/tmp/naasii-saves")
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	is.NoErr(os.WriteFile(path, []byte("rounds: 5\nreport-dir: charts\n"), 0o644))

	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config", path}))
	is.Equal(cfg.GetInt(ConfigRounds), 5)
	is.Equal(cfg.GetString(ConfigReportDir), "charts")
}

func TestLoadMissingConfigFileIsFine(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct {
		args []string
		ok   bool
	}{
		{[]string{"--rounds", "0"}, false},
		{[]string{"--rounds", "-2"}, false},
		{[]string{"--rounds", "21"}, false},
		{[]string{"--rounds", "30", "--max-rounds", "30"}, true},
		{[]string{"--min-players", "1"}, false},
		{[]string{"--max-players", "5"}, false},
		{[]string{"--min-players", "4", "--max-players", "3"}, false},
		{[]string{"--min-players", "3"}, true},
	} {
		cfg := &Config{}
		err := cfg.Load(append([]string{"--config", os.DevNull}, tc.args...))
		if tc.ok {
			is.NoErr(err)
		} else {
			is.True(errors.Is(err, errs.ErrConfig))
		}
	}
}

func TestWrite(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config", path}))
	cfg.Set(ConfigRounds, 7)
	is.NoErr(cfg.Write())

	again := &Config{}
	is.NoErr(again.Load([]string{"--config", path}))
	is.Equal(again.GetInt(ConfigRounds), 7)
}

func TestSanitizedSettingsHidesSeed(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config", os.DevNull, "--seed", "secret"}))
	_, ok := cfg.SanitizedSettings()[ConfigSeed]
	is.True(!ok)
}
