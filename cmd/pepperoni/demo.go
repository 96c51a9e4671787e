package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pepperoni/internal/config"
	"github.com/verte-zerg/pepperoni/internal/game"
	"github.com/verte-zerg/pepperoni/internal/generator"
	"github.com/verte-zerg/pepperoni/internal/model"
	"github.com/verte-zerg/pepperoni/internal/store"
)

const (
	defaultDemoTick   = 10 * time.Millisecond
	defaultDemoFactor = 2.0
)

var (
	demoDifficulty string
	demoTick       time.Duration
	demoRecord     bool
	demoRandom     int
	demoSeed       int64
)

// demoOptions controls how the demo fills the pizza.
type demoOptions struct {
	Difficulty string
	Tick       time.Duration
	Random     int
	Gen        *generator.Generator
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play a game headlessly with auto-complete and print its events",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	cmd.Flags().StringVar(&demoDifficulty, "difficulty", defaultDifficulty, "difficulty profile")
	cmd.Flags().DurationVar(&demoTick, "tick", defaultDemoTick, "wall-clock length of one game second")
	cmd.Flags().BoolVar(&demoRecord, "record", false, "save the finished game")
	cmd.Flags().IntVar(&demoRandom, "random", 0, "random placements biased toward empty sectors before auto-complete")
	cmd.Flags().Int64Var(&demoSeed, "seed", 0, "random seed (0: time based)")
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	_, profiles, err := loadProfiles()
	if err != nil {
		return err
	}
	if demoTick <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if demoRandom < 0 {
		return fmt.Errorf("--random must be >= 0")
	}
	gen := generator.New()
	if demoSeed != 0 {
		gen = generator.NewSeeded(demoSeed)
	}
	opts := demoOptions{
		Difficulty: strings.ToLower(strings.TrimSpace(demoDifficulty)),
		Tick:       demoTick,
		Random:     demoRandom,
		Gen:        gen,
	}

	var st *store.Store
	if demoRecord {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return runDemo(ctx, cmd.OutOrStdout(), profiles, opts, st)
}

// runDemo starts a session, scatters opts.Random tokens, fills the rest with auto-complete,
// checks the distribution and lets the clock run out. A nil store skips recording.
func runDemo(ctx context.Context, w io.Writer, profiles game.ProfileTable, opts demoOptions, st *store.Store) error {
	sink := game.SinkFunc(func(e game.Event) {
		if _, err := fmt.Fprintf(w, "%-14s %s\n", e.Kind, e.Message()); err != nil {
			// Best-effort event output.
			_ = err
		}
	})
	session, err := game.NewSession(profiles, opts.Difficulty, game.DefaultTarget(), sink)
	if err != nil {
		return err
	}
	startedAt := time.Now()
	if out := session.Start(); !out.OK {
		return fmt.Errorf("failed to start session: %w", out.Reason.Err())
	}
	if opts.Random > 0 && opts.Gen != nil {
		for i := 0; i < opts.Random && len(session.Tray()) > 0; i++ {
			session.AttemptPlacement(opts.Gen.Weighted(session.Target(), session.Counts(), defaultDemoFactor))
		}
	}
	session.AutoComplete()
	session.CheckDistribution()

	res := game.NewClock(opts.Tick).Drive(ctx, session)
	if !res.Expired {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("demo interrupted: %w", err)
		}
		return fmt.Errorf("demo clock stopped with %s left", game.FormatClock(res.Remaining))
	}

	if st != nil {
		rec := model.NewSessionRecord(session, startedAt, time.Now())
		if _, err := st.InsertSession(ctx, rec); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		logErrln("saved demo game")
	}
	if _, err := fmt.Fprintf(w, "final score: %d\n", res.FinalScore); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
