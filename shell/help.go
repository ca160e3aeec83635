package shell

import (
	"embed"
	"fmt"
	"strings"

	"github.com/sb3ogun/naasii-game/errs"
)

//go:embed helptext/*.txt
var helptext embed.FS

var helpTopics = []string{
	"new", "roll", "keep", "stop", "save", "load", "stats", "chart",
	"leaderboard", "autoplay", "script", "set", "scoring",
}

func usageText() string {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return string(dat)
}

func usageTopic(topic string) (string, error) {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return "", fmt.Errorf("%w: there is no help text for the topic %s", errs.ErrInput, topic)
	}
	return string(dat), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(strings.TrimRight(usageText(), "\n")), nil
	}
	text, err := usageTopic(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(text, "\n")), nil
}
