package game

import (
	"fmt"
	"strings"
)

func addText(lines []string, row int, hpad int, text string) []string {
	for len(lines) <= row {
		lines = append(lines, "")
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
	return lines
}

// ToDisplayText turns the current state of the game into a displayable
// string: the dice, the scoreboard and the last scored turn.
func (g *Game) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Round %d of %d", g.round, g.maxRounds)
	if g.playing == StatePlaying {
		fmt.Fprintf(&sb, ", %s to play (%d rolls left)", g.NickOnTurn(), g.turn.RollsRemaining())
	}
	sb.WriteString("\n\n")

	lines := strings.Split(g.dice.Display(), "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	for i := range lines {
		lines[i] = fmt.Sprintf("%-*s", width, lines[i])
	}
	hpadding := 4
	for pi, p := range g.players {
		lines = addText(lines, pi, hpadding, p.stateString(g.playing == StatePlaying && g.onturn == pi))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n")

	if g.lastResult != nil {
		fmt.Fprintf(&sb, "\nLast turn (%s): %d, %s\n", g.players[g.lastPlayer].name,
			g.lastResult.Total, g.lastResult.Category)
	}
	switch g.playing {
	case StateGameOver:
		fmt.Fprintf(&sb, "\nGame is over. Winner(s): %s\n", strings.Join(g.Winners(), ", "))
	case StateAborted:
		sb.WriteString("\nGame was abandoned.\n")
	}
	return sb.String()
}
