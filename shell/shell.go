package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/sb3ogun/naasii-game/config"
	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/game"
	"github.com/sb3ogun/naasii-game/gamestate"
	"github.com/sb3ogun/naasii-game/store"
	"github.com/sb3ogun/naasii-game/visualizer"
)

const prompt = "\033[32mnaasii>\033[0m "

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

// ShellController maps shell commands onto a game.
type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	// readLine asks the user a question during a command (e.g. player
	// names for `new`).
	readLine func(prompt string) (string, error)

	options *ShellOptions
	rules   *game.Rules
	src     dice.Source
	saves   *gamestate.Manager
	viz     *visualizer.Visualizer
	results *store.Store

	game     *game.Game
	recorded bool

	ctx    context.Context
	cancel context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up an interactive shell on the terminal.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.readLine = func(p string) (string, error) {
		l.SetPrompt(p)
		defer l.SetPrompt(prompt)
		line, err := l.Readline()
		return strings.TrimSpace(line), err
	}
	return sc, nil
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	sc := &ShellController{
		out:     out,
		config:  cfg,
		options: NewShellOptions(cfg),
		rules:   game.NewRules(cfg),
		saves:   gamestate.NewManager(cfg.GetString(config.ConfigSaveDir)),
		viz:     visualizer.New(cfg.GetString(config.ConfigReportDir)),
		ctx:     ctx,
		cancel:  cancel,
	}
	sc.src = sc.options.source()
	sc.readLine = func(string) (string, error) {
		return "", fmt.Errorf("%w: no terminal to ask for input", errNoData)
	}
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// resultsDB opens the results database on first use.
func (sc *ShellController) resultsDB() (*store.Store, error) {
	if sc.results != nil {
		return sc.results, nil
	}
	s, err := store.Open(sc.config.GetString(config.ConfigDBPath))
	if err != nil {
		return nil, err
	}
	sc.results = s
	return s, nil
}

// Execute runs a single command line, as given on the command line of the
// binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) error {
	err := sc.executeLine(sig, line)
	if err != nil {
		sc.showError(err)
	}
	return err
}

// executeLine parses and runs one command line.
func (sc *ShellController) executeLine(sig chan os.Signal, line string) error {
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}
	resp, err := sc.standardModeSwitch(cmd, sig)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	sc.showMessage(usageText())

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sc.quit()
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sc.quit()
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			sc.quit()
			sig <- syscall.SIGINT
			break
		}
		if err := sc.executeLine(sig, line); err != nil {
			if !errors.Is(err, errNoData) {
				sc.showError(err)
			}
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup releases what the shell holds open.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	if sc.results != nil {
		if err := sc.results.Close(); err != nil {
			log.Err(err).Msg("closing-results-db")
		}
	}
}
