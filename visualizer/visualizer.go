// Package visualizer turns a game snapshot into terminal histograms, PNG
// charts and a text report.
package visualizer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/game"
)

const stampFormat = "20060102_150405"

// Visualizer writes files into an output directory.
type Visualizer struct {
	outDir string
	now    func() time.Time
}

func New(outDir string) *Visualizer {
	return &Visualizer{outDir: outDir, now: time.Now}
}

func (v *Visualizer) path(prefix, ext string) (string, error) {
	if err := os.MkdirAll(v.outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	return filepath.Join(v.outDir, prefix+"_"+v.now().Format(stampFormat)+ext), nil
}

func (v *Visualizer) writePNG(prefix string, img image.Image) (string, error) {
	path, err := v.path(prefix, ".png")
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("%w: encode png: %w", errs.ErrPersistence, err)
	}
	log.Debug().Str("path", path).Msg("chart-written")
	return path, nil
}

// WriteCharts writes the score progression and category charts and returns
// their paths.
func (v *Visualizer) WriteCharts(snap *game.Snapshot) ([]string, error) {
	progression, err := RenderProgression(snap)
	if err != nil {
		return nil, err
	}
	categories, err := RenderCategories(snap)
	if err != nil {
		return nil, err
	}
	paths := []string{}
	for _, c := range []struct {
		prefix string
		img    image.Image
	}{{"score_chart", progression}, {"categories", categories}} {
		p, err := v.writePNG(c.prefix, c.img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteReport writes game_report_<timestamp>.txt.
func (v *Visualizer) WriteReport(snap *game.Snapshot) (string, error) {
	path, err := v.path("game_report", ".txt")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(Report(snap, v.now())), 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	log.Info().Str("path", path).Msg("report-written")
	return path, nil
}
