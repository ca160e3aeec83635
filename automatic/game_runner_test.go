package automatic

import (
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/sb3ogun/naasii-game/dice"
	"github.com/sb3ogun/naasii-game/game"
)

func TestBotNames(t *testing.T) {
	is := is.New(t)
	is.Equal(BotNames(3), []string{"bot1", "bot2", "bot3"})
}

func TestCompVsComp(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string)
	runner, err := NewGameRunner(logchan, game.DefaultRules(), 3, 4)
	is.NoErr(err)
	is.NoErr(runner.Init(dice.SeedFromPhrase("cvc")))

	var wg sync.WaitGroup
	wg.Add(1)
	lines := []string{}
	go func() {
		defer wg.Done()
		for msg := range logchan {
			lines = append(lines, msg)
		}
	}()
	is.NoErr(runner.PlayFull())
	close(logchan)
	wg.Wait()

	g := runner.Game()
	is.Equal(g.Playing(), game.StateGameOver)
	is.Equal(len(lines), 12)
	for i := 0; i < g.NumPlayers(); i++ {
		h := g.HistoryFor(i)
		is.Equal(len(h), 4)
		is.Equal(game.SumScores(h), g.PointsFor(i))
	}
	fields := strings.Split(strings.TrimSpace(lines[0]), ",")
	is.Equal(len(fields), len(strings.Split(LogHeader, ",")))
	is.Equal(fields[1], g.Uid())
	is.Equal(fields[2], "0")
	is.Equal(len(strings.Fields(fields[5])), dice.NumDice)
}

func TestSameSeedSameGame(t *testing.T) {
	is := is.New(t)
	play := func() *game.Game {
		r, err := NewGameRunner(nil, game.DefaultRules(), 2, 5)
		is.NoErr(err)
		is.NoErr(r.Init(dice.SeedFromPhrase("repeat")))
		is.NoErr(r.PlayFull())
		return r.Game()
	}
	a, b := play(), play()
	is.Equal(a.Names(), b.Names())
	is.Equal(a.PointsFor(0), b.PointsFor(0))
	is.Equal(a.PointsFor(1), b.PointsFor(1))
	is.Equal(a.HistoryFor(0), b.HistoryFor(0))
}

func TestBotTurnUsesAtMostThreeRolls(t *testing.T) {
	is := is.New(t)
	r, err := NewGameRunner(nil, game.DefaultRules(), 2, 20)
	is.NoErr(err)
	is.NoErr(r.Init(dice.SeedFromPhrase("rolls")))
	is.NoErr(r.PlayFull())
	for i := 0; i < 2; i++ {
		for _, rec := range r.Game().HistoryFor(i) {
			is.True(rec.Rolls >= 1 && rec.Rolls <= 3)
		}
	}
}

func TestNewGameRunnerValidates(t *testing.T) {
	is := is.New(t)
	_, err := NewGameRunner(nil, game.DefaultRules(), 1, 4)
	is.True(err != nil)
	_, err = NewGameRunner(nil, game.DefaultRules(), 2, 0)
	is.True(err != nil)
}
