package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/stats"
)

type gameResult struct {
	finals map[string]int
	first  string
}

// AnalyzeLogFile analyzes the given turn log and spits out a bunch of
// statistics.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	defer file.Close()
	return analyzeLog(file)
}

func analyzeLog(rd io.Reader) (string, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = len(strings.Split(LogHeader, ","))

	games := map[string]*gameResult{}
	order := []string{}
	turnStats := &stats.Statistic{}
	categories := []string{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", errs.ErrInput, err)
		}
		if record[0] == "playerID" {
			// this is the header line
			continue
		}
		nick, gid := record[0], record[1]
		seat, err := strconv.Atoi(record[2])
		if err != nil {
			return "", fmt.Errorf("%w: bad seat %q", errs.ErrInput, record[2])
		}
		score, err := strconv.Atoi(record[7])
		if err != nil {
			return "", fmt.Errorf("%w: bad score %q", errs.ErrInput, record[7])
		}
		total, err := strconv.Atoi(record[8])
		if err != nil {
			return "", fmt.Errorf("%w: bad total %q", errs.ErrInput, record[8])
		}
		gr, ok := games[gid]
		if !ok {
			gr = &gameResult{finals: map[string]int{}}
			games[gid] = gr
			order = append(order, gid)
		}
		if seat == 0 {
			gr.first = nick
		}
		gr.finals[nick] = total
		turnStats.Push(float64(score))
		categories = append(categories, record[6])
	}
	if len(games) == 0 {
		return "", fmt.Errorf("%w: no games in log", errs.ErrInput)
	}

	wins := map[string]float64{}
	finalStats := map[string]*stats.Statistic{}
	wentFirstWL := 0.0
	for _, gid := range order {
		gr := games[gid]
		best := lo.Max(lo.Values(gr.finals))
		winners := lo.Filter(lo.Keys(gr.finals), func(n string, _ int) bool { return gr.finals[n] == best })
		share := 1.0 / float64(len(winners))
		for _, w := range winners {
			wins[w] += share
			if w == gr.first {
				wentFirstWL += share
			}
		}
		for n, total := range gr.finals {
			if finalStats[n] == nil {
				finalStats[n] = &stats.Statistic{}
			}
			finalStats[n].Push(float64(total))
		}
	}

	gamesPlayed := float64(len(games))
	names := lo.Keys(finalStats)
	slices.Sort(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", len(games))
	for _, n := range names {
		fmt.Fprintf(&sb, "%v wins: %.1f (%.3f%%)\n", n, wins[n], 100.0*wins[n]/gamesPlayed)
	}
	fmt.Fprintf(&sb, "Player who went first wins: %.1f (%.3f%%)\n",
		wentFirstWL, 100.0*wentFirstWL/gamesPlayed)
	for _, n := range names {
		fmt.Fprintf(&sb, "%v Mean Score: %.6f  Stdev: %.6f\n", n, finalStats[n].Mean(), finalStats[n].Stdev())
	}
	lo95, hi95 := turnStats.ConfidenceInterval(stats.Confidence)
	fmt.Fprintf(&sb, "Turns: %d  Mean turn score: %.3f (95%% CI %.3f - %.3f)  Best: %.0f  Worst: %.0f\n",
		turnStats.Iterations(), turnStats.Mean(), lo95, hi95, turnStats.Max(), turnStats.Min())
	sb.WriteString("Categories:\n")
	counts := lo.CountValues(categories)
	cats := lo.Keys(counts)
	slices.SortFunc(cats, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})
	for _, c := range cats {
		fmt.Fprintf(&sb, "  %-26s %6d (%.2f%%)\n", scoring.Describe(c), counts[c],
			100.0*float64(counts[c])/float64(turnStats.Iterations()))
	}
	return sb.String(), nil
}
