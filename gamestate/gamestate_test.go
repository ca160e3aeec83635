package gamestate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/game"
)

func playTwoTurns(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame(game.DefaultRules(), []string{"ana", "bo", "cy"}, 4,
		dice.NewSeededSource(dice.SeedFromPhrase("gamestate")))
	require.NoError(t, err)
	g.Start()
	for i := 0; i < 2; i++ {
		_, err = g.Roll()
		require.NoError(t, err)
		require.NoError(t, g.Keep([]int{0, 1}))
		_, err = g.Roll()
		require.NoError(t, err)
		_, err = g.Stop()
		require.NoError(t, err)
	}
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"game.json", "game.yaml", "game.yml"} {
		t.Run(name, func(t *testing.T) {
			m := NewManager(t.TempDir())
			g := playTwoTurns(t)
			path, err := m.SaveGame(g, name)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(m.Dir(), name), path)

			loaded, err := m.LoadGame(name, game.DefaultRules(), nil)
			require.NoError(t, err)
			assert.Equal(t, g.Uid(), loaded.Uid())
			assert.Equal(t, g.Names(), loaded.Names())
			assert.Equal(t, g.Round(), loaded.Round())
			assert.Equal(t, g.PlayerOnTurn(), loaded.PlayerOnTurn())
			assert.Equal(t, g.TotalRolls(), loaded.TotalRolls())
			for i := 0; i < g.NumPlayers(); i++ {
				assert.Equal(t, g.PointsFor(i), loaded.PointsFor(i))
				assert.Equal(t, g.HistoryFor(i), loaded.HistoryFor(i))
			}
			assert.True(t, g.Started().Truncate(time.Second).Equal(loaded.Started()))
		})
	}
}

func TestJSONFieldNames(t *testing.T) {
	m := NewManager(t.TempDir())
	path, err := m.SaveGame(playTwoTurns(t), "fields.json")
	require.NoError(t, err)
	bts, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{`"version"`, `"game_id"`, `"game_date"`, `"players"`,
		`"history"`, `"current_round"`, `"current_player"`, `"max_rounds"`, `"checksum"`} {
		assert.Contains(t, string(bts), field)
	}
}

func TestTamperedSave(t *testing.T) {
	m := NewManager(t.TempDir())
	path, err := m.SaveGame(playTwoTurns(t), "tamper.json")
	require.NoError(t, err)
	bts, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(bts), `"current_player": 2`, `"current_player": 1`, 1)
	require.NotEqual(t, string(bts), tampered)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))

	_, err = m.Load("tamper.json")
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
	assert.True(t, errors.Is(err, errs.ErrPersistence))
}

func TestLoadErrors(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Load("nope.json")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, errs.ErrPersistence))

	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "junk.json"), []byte("{not json"), 0o644))
	_, err = m.Load("junk.json")
	assert.True(t, errors.Is(err, ErrCorrupt))

	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "junk.yaml"), []byte("players: [[["), 0o644))
	_, err = m.Load("junk.yaml")
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestLoadRejectsInvalidGame(t *testing.T) {
	m := NewManager(t.TempDir())
	snap := playTwoTurns(t).Snapshot()
	snap.Players[0].Score += 10
	_, err := m.Save(snap, "bad.json")
	require.NoError(t, err)

	_, err = m.LoadGame("bad.json", game.DefaultRules(), nil)
	assert.True(t, errors.Is(err, game.ErrInvalidSnapshot))
	assert.True(t, errors.Is(err, errs.ErrPersistence))
}

func TestSaveMidTurn(t *testing.T) {
	m := NewManager(t.TempDir())
	g := playTwoTurns(t)
	_, err := g.Roll()
	require.NoError(t, err)
	_, err = m.SaveGame(g, "")
	assert.True(t, errors.Is(err, ErrTurnInProgress))
}

func TestDefaultNameAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	m := NewManager(dir)

	names, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	path, err := m.SaveGame(playTwoTurns(t), "")
	require.NoError(t, err)
	assert.Regexp(t, `naasii_save_\d{8}_\d{6}\.json$`, path)
	_, err = m.SaveGame(playTwoTurns(t), "a.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", filepath.Base(path)}, names)
}

func TestDefaultFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "naasii_save_20240309_140507.json", DefaultFilename(ts))
	assert.Equal(t, FormatYAML, FormatFor("x.YML"))
	assert.Equal(t, FormatJSON, FormatFor("x"))
}
