package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/sb3ogun/naasii-game/automatic"
	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/game"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/stats"
	"github.com/sb3ogun/naasii-game/store"
	"github.com/sb3ogun/naasii-game/strategy"
	"github.com/sb3ogun/naasii-game/visualizer"
)

var (
	errNoGame      = fmt.Errorf("%w: no game in progress; start one with `new`", errs.ErrInput)
	errNeedsRolled = fmt.Errorf("%w: roll the dice first", errs.ErrInput)
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	n, err := strconv.Atoi(v[0])
	if err != nil {
		return 0, fmt.Errorf("%w: -%s needs a number, got %q", errs.ErrInput, key, v[0])
	}
	return n, nil
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// flagOptions are options that take no value.
var flagOptions = map[string]bool{"png": true}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInput, err)
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if len(f) < 2 || !strings.HasPrefix(f, "-") {
			cmd.args = append(cmd.args, f)
			continue
		}
		key := f[1:]
		if flagOptions[key] {
			cmd.options[key] = append(cmd.options[key], "true")
			continue
		}
		if i == len(fields)-1 {
			return nil, errWrongOptionSyntax
		}
		cmd.options[key] = append(cmd.options[key], fields[i+1])
		i++
	}
	return cmd, nil
}

func (sc *ShellController) standardModeSwitch(cmd *shellcmd, sig chan os.Signal) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "roll", "r":
		return sc.roll(cmd)
	case "keep", "k":
		return sc.keep(cmd)
	case "stop":
		return sc.stop(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "suggest":
		return sc.suggest(cmd)
	case "standings":
		return sc.standings(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "saves":
		return sc.listSaves(cmd)
	case "stats":
		return sc.stats(cmd)
	case "chart":
		return sc.chart(cmd)
	case "report":
		return sc.report(cmd)
	case "leaderboard":
		return sc.leaderboard(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "script":
		return sc.script(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "help":
		return sc.help(cmd)
	case "quit", "exit":
		return msg(sc.quit()), nil
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, fmt.Errorf("%w: %s", errs.ErrInput, msg)
	}
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	ret, err := sc.Set(opt, cmd.args[1:])
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, fmt.Errorf("%w: usage: setconfig <key> <value>", errs.ErrInput)
	}
	key, value := cmd.args[0], cmd.args[1]
	sc.config.Set(key, value)
	if err := sc.config.Write(); err != nil {
		return nil, fmt.Errorf("%w: failed to save config: %w", errs.ErrPersistence, err)
	}
	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}

func (sc *ShellController) requireGame() error {
	if sc.game == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) requirePlaying() error {
	if sc.game == nil || sc.game.Playing() != game.StatePlaying {
		return errNoGame
	}
	return nil
}

// askNumber re-asks until the answer is a number within [lo, hi]. An empty
// answer picks def when def is in range.
func (sc *ShellController) askNumber(question string, lo, hi, def int) (int, error) {
	for {
		ans, err := sc.readLine(question)
		if err != nil {
			return 0, err
		}
		if ans == "" && def >= lo && def <= hi {
			return def, nil
		}
		n, err := strconv.Atoi(ans)
		if err != nil {
			sc.showMessage("Please enter a valid number")
			continue
		}
		if n < lo || n > hi {
			sc.showMessage(fmt.Sprintf("Please enter a number between %d and %d", lo, hi))
			continue
		}
		return n, nil
	}
}

func (sc *ShellController) askPlayers() ([]string, error) {
	n, err := sc.askNumber(fmt.Sprintf("Enter number of players (%d-%d): ",
		sc.rules.MinPlayers, sc.rules.MaxPlayers), sc.rules.MinPlayers, sc.rules.MaxPlayers, -1)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for i := 0; i < n; i++ {
		for {
			name, err := sc.readLine(fmt.Sprintf("Enter name for Player %d: ", i+1))
			if err != nil {
				return nil, err
			}
			if name == "" {
				sc.showMessage("Name cannot be empty")
				continue
			}
			if lo.Contains(names, name) {
				sc.showMessage("Name already taken")
				continue
			}
			names = append(names, name)
			sc.showMessage(fmt.Sprintf("Player '%s' added", name))
			break
		}
	}
	return names, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	rounds, err := cmd.options.IntDefault("rounds", sc.options.rounds)
	if err != nil {
		return nil, err
	}
	names := cmd.args
	if len(names) == 0 {
		if names, err = sc.askPlayers(); err != nil {
			return nil, err
		}
		if _, ok := cmd.options["rounds"]; !ok {
			rounds, err = sc.askNumber(fmt.Sprintf("Number of rounds (default %d): ", rounds),
				1, sc.rules.MaxRounds, rounds)
			if err != nil {
				return nil, err
			}
		}
	}
	g, err := game.NewGame(sc.rules, names, rounds, sc.src)
	if err != nil {
		return nil, err
	}
	if sc.game != nil && sc.game.Playing() == game.StatePlaying {
		sc.showMessage(sc.quit())
	}
	sc.attach(g)
	g.Start()
	return msg(fmt.Sprintf("Starting game %s: %d rounds\n\n%s", g.Uid(), rounds, g.ToDisplayText())), nil
}

// attach makes g the current game.
func (sc *ShellController) attach(g *game.Game) {
	sc.game = g
	sc.recorded = false
	g.OnRoundEnd(sc.roundEnded)
}

func (sc *ShellController) roundEnded(g *game.Game, round int) {
	if !sc.options.autoSave {
		return
	}
	path, err := sc.saves.SaveGame(g, "")
	if err != nil {
		sc.showError(err)
		return
	}
	sc.showMessage(fmt.Sprintf("Round %d over. Auto-saved to: %s", round, path))
}

func (sc *ShellController) roll(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	who := sc.game.PlayerOnTurn()
	round := sc.game.Round()
	res, err := sc.game.Roll()
	if err != nil {
		return nil, err
	}
	if res != nil {
		return msg(sc.turnScored(res, who, round)), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s rolls:\n%s\nRolls left: %d", sc.game.NameFor(who),
		sc.game.DiceDisplay(), sc.game.RollsRemaining())
	if sc.game.RollsRemaining() == 2 {
		an := strategy.Analyze(sc.game.DiceValues())
		if len(an.Suggestions) > 0 {
			sb.WriteString("\n\nSuggestions:")
			for _, s := range an.Suggestions[:min(2, len(an.Suggestions))] {
				sb.WriteString("\n  " + s)
			}
		}
	}
	return msg(sb.String()), nil
}

// parseKeep turns 1-based positions such as "1 3 5" or "1,3,5" into 0-based
// indices.
func parseKeep(args []string) ([]int, error) {
	indices := []int{}
	for _, a := range args {
		for _, f := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a die number", errs.ErrInput, f)
			}
			if n < 1 || n > dice.NumDice {
				return nil, fmt.Errorf("%w: die %d is not between 1 and %d", errs.ErrInput, n, dice.NumDice)
			}
			indices = append(indices, n-1)
		}
	}
	return indices, nil
}

func (sc *ShellController) keep(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return nil, fmt.Errorf("%w: usage: keep 1 3 5 | keep all | keep none", errs.ErrInput)
	}
	var err error
	var what string
	switch strings.ToLower(cmd.args[0]) {
	case "all":
		err = sc.game.KeepAll()
		what = "All dice kept"
	case "none":
		err = sc.game.ReleaseAll()
		what = "All dice released"
	default:
		var indices []int
		if indices, err = parseKeep(cmd.args); err != nil {
			return nil, err
		}
		if err = sc.game.Keep(indices); err == nil {
			what = fmt.Sprintf("Keeping dice: %v", oneBased(sc.game.KeptIndices()))
		}
	}
	if err != nil {
		return nil, err
	}
	return msg(what + "\n" + sc.game.DiceDisplay()), nil
}

func oneBased(indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = idx + 1
	}
	return out
}

func (sc *ShellController) stop(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	who := sc.game.PlayerOnTurn()
	round := sc.game.Round()
	res, err := sc.game.Stop()
	if err != nil {
		return nil, err
	}
	return msg(sc.turnScored(res, who, round)), nil
}

// turnScored describes a finished turn and what comes next.
func (sc *ShellController) turnScored(res *scoring.Breakdown, who, round int) string {
	g := sc.game
	h := g.HistoryFor(who)
	rec := h[len(h)-1]
	st := &stats.Statistic{}
	st.PushInts(rec.Dice)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dice Analysis:\n  Values: %v\n  Sum: %d  Mean: %.2f  Std Dev: %.2f\n\n",
		rec.Dice, lo.Sum(rec.Dice), st.Mean(), st.Stdev())
	sb.WriteString(res.ToDisplayText())
	fmt.Fprintf(&sb, "\n\n%s's total: %d points\n\n", g.NameFor(who), g.PointsFor(who))
	sb.WriteString(sc.standingsText())

	switch g.Playing() {
	case game.StatePlaying:
		if g.Round() != round {
			fmt.Fprintf(&sb, "\n=== ROUND %d ===", g.Round())
		}
		fmt.Fprintf(&sb, "\n%s's turn. Type `roll` to roll.", g.NickOnTurn())
	case game.StateGameOver:
		sb.WriteString("\n" + sc.finalResults())
		sc.recordResults()
	}
	return sb.String()
}

func (sc *ShellController) standingsText() string {
	var sb strings.Builder
	sb.WriteString("Current Standings:\n")
	sb.WriteString(strings.Repeat("-", 40))
	for _, s := range sc.game.Standings() {
		fmt.Fprintf(&sb, "\n%d. %s: %d", s.Place, s.Name, s.Score)
	}
	return sb.String()
}

func (sc *ShellController) finalResults() string {
	g := sc.game
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(&sb, "%s\nFINAL RESULTS\n%s\n", rule, rule)
	sums := stats.SummarizeGame(g.Snapshot())
	for _, s := range g.Standings() {
		fmt.Fprintf(&sb, "\n%d. %s\n   Score: %d", s.Place, s.Name, s.Score)
		for _, ps := range sums {
			if ps.Name == s.Name && ps.Turns > 0 {
				fmt.Fprintf(&sb, "\n   Average: %.1f\n   Best: %d", ps.Mean, ps.Best)
			}
		}
	}
	winners := g.Winners()
	label := "WINNER"
	if len(winners) > 1 {
		label = "TIE"
	}
	stars := strings.Repeat("*", 40)
	fmt.Fprintf(&sb, "\n\n%s\n%s: %s\n%s\n", stars, label, strings.Join(winners, ", "), stars)
	fmt.Fprintf(&sb, "Total rolls: %d  Duration: %s", g.TotalRolls(), g.Duration().Round(time.Second))
	return sb.String()
}

// recordResults stores a finished or abandoned game once.
func (sc *ShellController) recordResults() {
	if sc.game == nil || sc.recorded || !sc.options.recordResults {
		return
	}
	db, err := sc.resultsDB()
	if err == nil {
		err = db.RecordGame(sc.ctx, sc.game.Snapshot())
	}
	if err != nil && !errors.Is(err, store.ErrAlreadyRecorded) {
		sc.showError(err)
		return
	}
	sc.recorded = true
}

// quit abandons the current game between turns.
func (sc *ShellController) quit() string {
	if sc.game == nil || sc.game.Playing() != game.StatePlaying {
		return "Thank you for playing!"
	}
	discarded, err := sc.game.Abort()
	if err != nil {
		return "Error: " + err.Error()
	}
	sc.recordResults()
	out := "Ending game early."
	if discarded {
		out += " The unfinished turn was discarded."
	}
	return out + "\n" + sc.standingsText()
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) suggest(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	if !sc.game.TurnInProgress() {
		return nil, errNeedsRolled
	}
	an := strategy.Analyze(sc.game.DiceValues())
	var sb strings.Builder
	sb.WriteString("Dice counts:")
	for face := 1; face <= dice.NumSides; face++ {
		if an.Counts[face] > 0 {
			fmt.Fprintf(&sb, "\n  %d: %d", face, an.Counts[face])
		}
	}
	if len(an.Suggestions) == 0 {
		sb.WriteString("\nNo suggestions.")
	} else {
		sb.WriteString("\nSuggestions:")
		for _, s := range an.Suggestions {
			sb.WriteString("\n  " + s)
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) standings(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.standingsText()), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	filename := ""
	if len(cmd.args) > 0 {
		filename = cmd.args[0]
	}
	path, err := sc.saves.SaveGame(sc.game, filename)
	if err != nil {
		return nil, err
	}
	return msg("Game saved to: " + path), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, fmt.Errorf("%w: usage: load <file>", errs.ErrInput)
	}
	if sc.game != nil && sc.game.TurnInProgress() {
		return nil, fmt.Errorf("%w: finish or quit the current turn first", errs.ErrInput)
	}
	g, err := sc.saves.LoadGame(cmd.args[0], sc.rules, sc.src)
	if err != nil {
		return nil, err
	}
	// Reloading the game being played rewinds it; anything else abandons it.
	if sc.game != nil && sc.game.Playing() == game.StatePlaying && sc.game.Uid() != g.Uid() {
		sc.showMessage(sc.quit())
	}
	sc.attach(g)
	return msg(fmt.Sprintf("Game loaded: %s\nGame date: %s\n\n%s", g.Uid(),
		g.Started().Local().Format(time.DateTime), g.ToDisplayText())), nil
}

func (sc *ShellController) listSaves(cmd *shellcmd) (*Response, error) {
	names, err := sc.saves.List()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return msg("No saved games in " + sc.saves.Dir()), nil
	}
	return msg("Saved games in " + sc.saves.Dir() + ":\n  " + strings.Join(names, "\n  ")), nil
}

// snapshot picks the save file named in the arguments, or the current game.
func (sc *ShellController) snapshot(cmd *shellcmd) (*game.Snapshot, error) {
	if len(cmd.args) > 0 {
		return sc.saves.Load(cmd.args[0])
	}
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return sc.game.Snapshot(), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	snap, err := sc.snapshot(cmd)
	if err != nil {
		return nil, err
	}
	out := visualizer.Summary(snap)
	if len(cmd.args) == 0 {
		out += fmt.Sprintf("\nTotal rolls: %d  Duration: %s", sc.game.TotalRolls(),
			sc.game.Duration().Round(time.Second))
	}
	return msg(out), nil
}

func (sc *ShellController) chart(cmd *shellcmd) (*Response, error) {
	snap, err := sc.snapshot(cmd)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := visualizer.FprintHistograms(&sb, snap); err != nil {
		return nil, err
	}
	if cmd.options.Bool("png") {
		paths, err := sc.viz.WriteCharts(snap)
		if err != nil {
			return nil, err
		}
		sb.WriteString("\nCharts written:\n  " + strings.Join(paths, "\n  "))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) report(cmd *shellcmd) (*Response, error) {
	snap, err := sc.snapshot(cmd)
	if err != nil {
		return nil, err
	}
	path, err := sc.viz.WriteReport(snap)
	if err != nil {
		return nil, err
	}
	return msg("Statistics report: " + path), nil
}

func (sc *ShellController) leaderboard(cmd *shellcmd) (*Response, error) {
	limit, err := cmd.options.IntDefault("top", 10)
	if err != nil {
		return nil, err
	}
	db, err := sc.resultsDB()
	if err != nil {
		return nil, err
	}
	entries, err := db.Leaderboard(sc.ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return msg("No games recorded yet."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-4s %-20s %6s %6s %8s %8s", "#", "Player", "Games", "Wins", "Total", "Average")
	for i, e := range entries {
		fmt.Fprintf(&sb, "\n%-4d %-20s %6d %6d %8d %8.1f", i+1, e.Player, e.Games, e.Wins, e.Total, e.Average)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	opts := automatic.Options{
		OutputFile: cmd.options.String("file"),
		SeedFile:   cmd.options.String("seeds"),
	}
	if opts.OutputFile == "" {
		opts.OutputFile = "/tmp/naasii_autoplay.csv"
	}
	var err error
	for _, o := range []struct {
		key string
		dst *int
		def int
	}{
		{"games", &opts.NumGames, 100},
		{"players", &opts.NumPlayers, sc.rules.MinPlayers},
		{"rounds", &opts.Rounds, sc.options.rounds},
		{"threads", &opts.Threads, 4},
	} {
		if *o.dst, err = cmd.options.IntDefault(o.key, o.def); err != nil {
			return nil, err
		}
	}
	started := time.Now()
	if err := automatic.PlayCompVComp(sc.ctx, sc.rules, opts); err != nil {
		return nil, err
	}
	summary, err := automatic.AnalyzeLogFile(opts.OutputFile)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Played %d games in %s; log in %s\n%s", automatic.CVCCounter.Value(),
		time.Since(started).Round(time.Millisecond), opts.OutputFile, summary)), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, fmt.Errorf("%w: usage: analyze <logfile.csv>", errs.ErrInput)
	}
	out, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}
