package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/sb3ogun/naasii-game/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-rounds")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-rounds"},
	},
	"keep": {
		Args: []string{"all", "none"},
	},
	"chart": {
		Options: []string{"-png"},
	},
	"leaderboard": {
		Options: []string{"-top"},
	},
	"autoplay": {
		Options: []string{"-games", "-players", "-rounds", "-threads", "-file", "-seeds"},
	},
	"set": {
		Args: optionKeys,
	},
	"setconfig": {
		Args: []string{
			config.ConfigRounds, config.ConfigMaxRounds, config.ConfigMinPlayers,
			config.ConfigMaxPlayers, config.ConfigSaveDir, config.ConfigReportDir,
			config.ConfigDBPath, config.ConfigAutoSave, config.ConfigRecordResults,
			config.ConfigSeed,
		},
	},
	"help": {
		Args: helpTopics,
	},
}

// saveFileCommands take the name of a save file as their argument.
var saveFileCommands = map[string]bool{
	"load": true, "stats": true, "chart": true, "report": true,
}

// Common command names for command completion
var commandNames = []string{
	"help", "new", "roll", "keep", "stop", "show", "suggest", "standings",
	"save", "load", "saves", "stats", "chart", "report", "leaderboard",
	"autoplay", "analyze", "script", "set", "setconfig", "quit", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]

		if !endsWithSpace && len(fields) > 0 {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace && len(fields) > 0 {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if cmdName == "set" && (lastCompleteField == "autosave" || lastCompleteField == "record") {
			completions = boolValues
		}

		if completions == nil && saveFileCommands[cmdName] && !strings.HasPrefix(prefix, "-") {
			if names, err := c.sc.saves.List(); err == nil {
				completions = names
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
