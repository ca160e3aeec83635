// Package gamestate reads and writes saved games. Saves are JSON unless the
// file name ends in .yaml or .yml. Each save carries an xxhash checksum of
// its canonical JSON payload.
package gamestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/game"
)

var (
	ErrNotFound         = fmt.Errorf("%w: save file not found", errs.ErrPersistence)
	ErrCorrupt          = fmt.Errorf("%w: save file is corrupt", errs.ErrPersistence)
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", errs.ErrPersistence)
	ErrTurnInProgress   = fmt.Errorf("%w: finish the turn before saving", errs.ErrInput)
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from a file name.
func FormatFor(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

func isSaveFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// DefaultFilename is naasii_save_YYYYMMDD_HHMMSS.json.
func DefaultFilename(t time.Time) string {
	return "naasii_save_" + t.Format("20060102_150405") + ".json"
}

// Checksum hashes the snapshot's JSON encoding with its checksum field
// cleared.
func Checksum(snap *game.Snapshot) (string, error) {
	c := *snap
	c.Checksum = ""
	bts, err := json.Marshal(&c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(bts)), nil
}

// Manager saves to and loads from a directory.
type Manager struct {
	dir string
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Path resolves a file name. Bare names live in the save directory; names
// with a directory part are used as given.
func (m *Manager) Path(filename string) string {
	if filename == "" || filepath.IsAbs(filename) || strings.ContainsRune(filename, os.PathSeparator) {
		return filename
	}
	return filepath.Join(m.dir, filename)
}

// SaveGame saves g between turns. An empty file name picks the default one.
func (m *Manager) SaveGame(g *game.Game, filename string) (string, error) {
	if g.TurnInProgress() {
		return "", ErrTurnInProgress
	}
	return m.Save(g.Snapshot(), filename)
}

// Save writes snap and returns the path written.
func (m *Manager) Save(snap *game.Snapshot, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename(time.Now())
	}
	path := m.Path(filename)

	c := *snap
	// Second resolution in UTC survives both encodings unchanged.
	c.GameDate = c.GameDate.UTC().Truncate(time.Second)
	sum, err := Checksum(&c)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	c.Checksum = sum

	var bts []byte
	switch FormatFor(path) {
	case FormatYAML:
		bts, err = yaml.Marshal(&c)
	default:
		bts, err = json.MarshalIndent(&c, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
		}
	}
	if err := os.WriteFile(path, bts, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	log.Info().Str("path", path).Str("gid", c.GameID).Msg("game-saved")
	return path, nil
}

// Load reads a snapshot and verifies its checksum. Saves without a checksum
// are accepted.
func (m *Manager) Load(filename string) (*game.Snapshot, error) {
	path := m.Path(filename)
	bts, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	snap := &game.Snapshot{}
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(bts, snap)
	default:
		err = json.Unmarshal(bts, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	if snap.Checksum == "" {
		log.Warn().Str("path", path).Msg("save has no checksum")
	} else {
		sum, err := Checksum(snap)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
		}
		if sum != snap.Checksum {
			return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, path)
		}
	}
	return snap, nil
}

// LoadGame loads a snapshot and rebuilds the game from it.
func (m *Manager) LoadGame(filename string, rules *game.Rules, src dice.Source) (*game.Game, error) {
	snap, err := m.Load(filename)
	if err != nil {
		return nil, err
	}
	return game.FromSnapshot(rules, snap, src)
}

// List returns the save files in the directory, sorted by name. A missing
// directory has no saves.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && isSaveFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
