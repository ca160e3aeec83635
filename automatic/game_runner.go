// Package automatic plays bot-vs-bot games of Naasii and collects data about
// them: every turn is logged as a CSV row that AnalyzeLogFile can summarize.
package automatic

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/sb3ogun/naasii-game/game"
	"github.com/sb3ogun/naasii-game/scoring"
	"github.com/sb3ogun/naasii-game/strategy"
)

// BotPrefix names the bots: bot1, bot2, ...
const BotPrefix = "bot"

// LogHeader is the first line of a turn log.
const LogHeader = "playerID,gameID,seat,round,rolls,dice,category,score,totalscore"

// GameRunner plays one bot game at a time.
type GameRunner struct {
	game    *game.Game
	rules   *game.Rules
	logchan chan string

	numPlayers int
	rounds     int
}

// NewGameRunner makes a runner for games of numPlayers bots over rounds
// rounds. Turn rows are sent to logchan when it isn't nil.
func NewGameRunner(logchan chan string, rules *game.Rules, numPlayers, rounds int) (*GameRunner, error) {
	if err := rules.ValidatePlayerCount(numPlayers); err != nil {
		return nil, err
	}
	if err := rules.ValidateRounds(rounds); err != nil {
		return nil, err
	}
	return &GameRunner{logchan: logchan, rules: rules, numPlayers: numPlayers, rounds: rounds}, nil
}

// BotNames returns bot1..botN.
func BotNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", BotPrefix, i+1)
	}
	return names
}

// Init sets up a new game from a seed. The seed decides both the seating
// order and every roll.
func (r *GameRunner) Init(seed [32]byte) error {
	rng := frand.NewCustom(seed[:], 1024, 12)
	names := BotNames(r.numPlayers)
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	g, err := game.NewGame(r.rules, names, r.rounds, rng)
	if err != nil {
		return err
	}
	r.game = g
	return nil
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// PlayBotTurn plays the turn of the player on turn: roll, keep the bot's
// selection, and stop once rerolling would change nothing.
func (r *GameRunner) PlayBotTurn() (*scoring.Breakdown, error) {
	playerIdx := r.game.PlayerOnTurn()
	nick := r.game.NickOnTurn()
	round := r.game.Round()
	for {
		res, err := r.game.Roll()
		if err != nil {
			return nil, err
		}
		if res == nil {
			vals := r.game.DiceValues()
			if strategy.BotShouldStop(vals) {
				res, err = r.game.Stop()
				if err != nil {
					return nil, err
				}
			} else if err := r.game.Keep(strategy.BotKeep(vals)); err != nil {
				return nil, err
			}
		}
		if res != nil {
			r.logTurn(nick, playerIdx, round, res)
			return res, nil
		}
	}
}

func (r *GameRunner) logTurn(nick string, seat, round int, res *scoring.Breakdown) {
	if r.logchan == nil {
		return
	}
	h := r.game.HistoryFor(seat)
	rec := h[len(h)-1]
	diceStr := strings.Trim(fmt.Sprint(rec.Dice), "[]")
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v\n",
		nick,
		r.game.Uid(),
		seat,
		round,
		rec.Rolls,
		diceStr,
		res.Category,
		res.Total,
		r.game.PointsFor(seat))
}

// PlayFull plays an initialized game to the end.
func (r *GameRunner) PlayFull() error {
	r.game.Start()
	for r.game.Playing() == game.StatePlaying {
		if _, err := r.PlayBotTurn(); err != nil {
			return err
		}
	}
	log.Debug().Str("gid", r.game.Uid()).Strs("winners", r.game.Winners()).Msg("bot-game-over")
	return nil
}
