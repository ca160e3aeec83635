package visualizer

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/sb3ogun/naasii-game/game"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

// FprintHistogram writes a terminal histogram of turn scores.
func FprintHistogram(w io.Writer, title string, scores []int) error {
	fmt.Fprintf(w, "%s (%d turns)\n", title, len(scores))
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "  no turns yet")
		return err
	}
	if len(lo.Uniq(scores)) == 1 {
		// uniplot needs a spread to size its buckets.
		_, err := fmt.Fprintf(w, "  %d: %d\n", scores[0], len(scores))
		return err
	}
	data := lo.Map(scores, func(s int, _ int) float64 { return float64(s) })
	bins := min(histogramBins, len(lo.Uniq(scores)))
	h := histogram.Hist(bins, data)
	return histogram.Fprint(w, h, histogram.Linear(histogramWidth))
}

// FprintHistograms writes one histogram per player and one for the game.
func FprintHistograms(w io.Writer, snap *game.Snapshot) error {
	all := []int{}
	for _, p := range snap.Players {
		scores := lo.Map(p.History, func(r game.TurnRecord, _ int) int { return r.Score })
		all = append(all, scores...)
		if err := FprintHistogram(w, p.Name, scores); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return FprintHistogram(w, "All players", all)
}
