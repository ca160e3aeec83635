package visualizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sb3ogun/naasii-game/game"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/stats"
)

// Summary renders per-player statistics and category frequency as text.
func Summary(snap *game.Snapshot) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(&sb, "%s\nGAME STATISTICS SUMMARY\n%s\n\n", rule, rule)
	for _, ps := range stats.SummarizeGame(snap) {
		fmt.Fprintf(&sb, "Player: %s\n%s\n", ps.Name, strings.Repeat("-", 40))
		fmt.Fprintf(&sb, "  Total Score: %d\n", ps.Total)
		fmt.Fprintf(&sb, "  Rounds Played: %d\n", ps.Turns)
		if ps.Turns == 0 {
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "  Average Score: %.2f (%.0f%% CI %.2f - %.2f)\n",
			ps.Mean, stats.Confidence, ps.CILow, ps.CIHigh)
		fmt.Fprintf(&sb, "  Score Std Dev: %.2f\n", ps.Stdev)
		fmt.Fprintf(&sb, "  Best Score: %d (%s)\n", ps.Best, scoring.Describe(ps.BestCategory))
		fmt.Fprintf(&sb, "  Worst Score: %d\n", ps.Worst)
		fmt.Fprintf(&sb, "  Most Common Category: %s\n\n", scoring.Describe(ps.MostCommon))
	}
	freq := stats.CategoryFrequency(snap)
	if len(freq) > 0 {
		sb.WriteString("Category frequency:\n")
		for _, cc := range freq {
			fmt.Fprintf(&sb, "  %-26s %d\n", scoring.Describe(cc.Category), cc.Count)
		}
	}
	return sb.String()
}

// Report is the summary with a header naming the game.
func Report(snap *game.Snapshot, generated time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Naasii game %s\n", snap.GameID)
	fmt.Fprintf(&sb, "Played: %s\n", snap.GameDate.Format(time.DateTime))
	fmt.Fprintf(&sb, "Generated: %s\n", generated.Format(time.DateTime))
	fmt.Fprintf(&sb, "Round %d of %d, %s, %d rolls\n\n", snap.CurrentRound, snap.MaxRounds,
		snap.State, snap.TotalRolls)
	sb.WriteString(Summary(snap))
	return sb.String()
}
