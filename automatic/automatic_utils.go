package automatic

// Data collection for automatic games: bots play each other and every turn
// is logged.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/game"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// batchRunning is held for the whole of a PlayCompVComp call.
var batchRunning atomic.Bool

var ErrAlreadyPlaying = fmt.Errorf("%w: games are already being played, please wait till complete", errs.ErrInput)

// Options control a batch of bot games.
type Options struct {
	NumGames   int
	NumPlayers int
	Rounds     int
	Threads    int
	OutputFile string
	// SeedFile, when set, is read for per-game seeds if it exists and
	// written with fresh seeds otherwise.
	SeedFile string
}

func (o Options) validate() error {
	if o.NumGames <= 0 {
		return fmt.Errorf("%w: number of games must be positive", errs.ErrInput)
	}
	if o.Threads <= 0 {
		return fmt.Errorf("%w: number of threads must be positive", errs.ErrInput)
	}
	if o.OutputFile == "" {
		return fmt.Errorf("%w: an output file is required", errs.ErrInput)
	}
	return nil
}

func (o Options) seeds() ([][32]byte, error) {
	if o.SeedFile == "" {
		return GenerateSeeds(o.NumGames), nil
	}
	if _, err := os.Stat(o.SeedFile); err == nil {
		seeds, err := LoadSeeds(o.SeedFile)
		if err != nil {
			return nil, err
		}
		if len(seeds) == 0 {
			return nil, fmt.Errorf("%w: %s has no seeds", errs.ErrInput, o.SeedFile)
		}
		return seeds, nil
	}
	seeds := GenerateSeeds(o.NumGames)
	if err := SaveSeeds(seeds, o.SeedFile); err != nil {
		return nil, err
	}
	return seeds, nil
}

// PlayCompVComp plays opts.NumGames bot games on opts.Threads goroutines and
// writes every turn to opts.OutputFile. It returns once all games are done
// or ctx is cancelled.
func PlayCompVComp(ctx context.Context, rules *game.Rules, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if _, err := NewGameRunner(nil, rules, opts.NumPlayers, opts.Rounds); err != nil {
		return err
	}
	if !batchRunning.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer batchRunning.Store(false)
	seeds, err := opts.seeds()
	if err != nil {
		return err
	}

	logfile, err := os.Create(opts.OutputFile)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, opts.Threads)

	CVCCounter.Set(0)
	jobs := make(chan [32]byte, 100)
	logChan := make(chan string, 100)

	writer := errgroup.Group{}
	writer.Go(func() error {
		defer logfile.Close()
		if _, err := logfile.WriteString(LogHeader + "\n"); err != nil {
			return err
		}
		var werr error
		for msg := range logChan {
			if werr != nil {
				continue
			}
			_, werr = logfile.WriteString(msg)
		}
		log.Debug().Msg("Exiting turn logger goroutine!")
		return werr
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.NumGames; i++ {
			select {
			case jobs <- seeds[i%len(seeds)]:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i+1)
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
		return nil
	})
	for t := 0; t < opts.Threads; t++ {
		g.Go(func() error {
			r, err := NewGameRunner(logChan, rules, opts.NumPlayers, opts.Rounds)
			if err != nil {
				return err
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for seed := range jobs {
				if err := r.Init(seed); err != nil {
					return err
				}
				if err := r.PlayFull(); err != nil {
					return err
				}
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	close(logChan)
	werr := writer.Wait()
	log.Info().Int64("games", CVCCounter.Value()).Msg("All games finished.")
	if err != nil {
		return err
	}
	if werr != nil {
		return fmt.Errorf("%w: %w", errs.ErrPersistence, werr)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}
