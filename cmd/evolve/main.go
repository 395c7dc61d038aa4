package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/herohde/morlock-evolve/pkg/control"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/ga"
	"github.com/herohde/morlock-evolve/pkg/persist"
	"github.com/herohde/morlock-evolve/pkg/tournament"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

var version = build.NewVersion(0, 1, 0)

// exitRestartRequested is returned when the control surface's reset signal fires mid-run: the
// evolution directory has been wiped out from under the in-memory population, so the process
// exits rather than keep advancing a generation index that no longer matches disk.
const exitRestartRequested = 10

var (
	dir          = flag.String("dir", "evolution", "Root directory for persisted population, match and pairing state")
	population   = flag.Int("population", 32, "Population size P")
	rounds       = flag.Int("rounds", tournament.DefaultRounds, "Swiss rounds per generation")
	startingELO  = flag.Float64("starting-elo", ga.StartingELO, "Rating assigned to every new individual, and the elite threshold")
	kFactor      = flag.Float64("k-factor", tournament.KFactor, "ELO rating adjustment constant")
	mutationRate = flag.Float64("mutation-rate", eval.MutationRate, "Per-gene mutation probability")
	workers      = flag.Int("workers", 0, "Match Runner worker pool size (0: runtime.GOMAXPROCS(0))")
	moveCap      = flag.Int("move-cap", 0, "Ply limit per match before adjudicating a draw (0: match package default)")
	generations  = flag.Int("generations", 0, "Stop after this many generations (0: run until cancelled)")
	seed         = flag.Int64("seed", 1, "Seed for population sampling, crossover and mutation")
	addr         = flag.String("addr", "", "Address to serve the control surface websocket on (empty: disabled)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: evolve [options]

evolve runs the GA tournament that evolves a chess evaluation function's
parameter vector: each generation plays a Dutch-Swiss tournament between
candidate chromosomes, reproduces the ELO-elite, and persists the result so
the run can resume after a restart.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	ga.StartingELO = *startingELO
	tournament.KFactor = *kFactor
	eval.MutationRate = *mutationRate

	quit := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	store := persist.NewStore(*dir)
	hub := control.NewHub(store)

	go func() {
		select {
		case <-signals:
		case <-hub.Cancelled():
		case <-hub.RestartRequested():
		}
		close(quit)
	}()

	if *addr != "" {
		go func() {
			logw.Infof(context.Background(), "Serving control surface on %v", *addr)
			if err := http.ListenAndServe(*addr, hub); err != nil {
				logw.Errorf(context.Background(), "Control surface server stopped: %v", err)
			}
		}()
	}

	ctx, cancel := contextx.WithQuitCancel(context.Background(), quit)
	defer cancel()

	logw.Infof(ctx, "evolve %v starting: population=%v rounds=%v workers=%v", version, *population, *rounds, *workers)

	code := run(ctx, store, hub)
	os.Exit(code)
}

func run(ctx context.Context, store *persist.Store, hub *control.Hub) int {
	r := rand.New(rand.NewSource(*seed))
	ids := &ga.IDs{}

	gen, pop, err := loadOrInit(store, ids, r)
	if err != nil {
		logw.Errorf(ctx, "Failed to load or initialize population: %v", err)
		return 1
	}

	cfg := tournament.Config{Rounds: *rounds, Workers: *workers, MoveCap: *moveCap, Hub: hub}

	for *generations <= 0 || gen < *generations {
		select {
		case <-hub.RestartRequested():
			logw.Infof(ctx, "Restart requested, exiting at generation %v", gen)
			return exitRestartRequested
		default:
		}
		if contextx.IsCancelled(ctx) {
			logw.Infof(ctx, "Cancelled, exiting at generation %v", gen)
			return 0
		}

		logw.Infof(ctx, "Generation %v: %v individuals", gen, len(pop))

		pop, err = tournament.RunGeneration(ctx, pop, gen, cfg, store)
		if err != nil {
			logw.Errorf(ctx, "Generation %v failed: %v", gen, err)
			return 1
		}
		if contextx.IsCancelled(ctx) {
			continue // generation left incomplete; the loop head exits without advancing
		}

		gen++
		pop = ga.NextGeneration(pop, *population, gen, ids, r)
		if err := store.WritePopulation(gen, pop); err != nil {
			logw.Errorf(ctx, "Failed to persist generation %v seed population: %v", gen, err)
			return 1
		}
	}

	logw.Infof(ctx, "Reached generation limit %v, exiting", *generations)
	return 0
}

// loadOrInit resumes from the highest persisted generation, or seeds a fresh generation 0 if
// none exists yet.
func loadOrInit(store *persist.Store, ids *ga.IDs, r *rand.Rand) (int, []ga.Individual, error) {
	gen, ok := store.LatestGeneration()
	if !ok {
		pop := ga.NewPopulation(*population, ids, r)
		if err := store.WritePopulation(0, pop); err != nil {
			return 0, nil, fmt.Errorf("seed generation 0: %w", err)
		}
		return 0, pop, nil
	}

	pop, err := store.LoadPopulation(gen)
	if err != nil {
		return 0, nil, fmt.Errorf("load generation %v: %w", gen, err)
	}

	highest := uint64(0)
	for _, ind := range pop {
		for _, p := range ind.Parents {
			if p > highest {
				highest = p
			}
		}
		if ind.ID > highest {
			highest = ind.ID
		}
	}
	ids.Seed(highest)

	return gen, pop, nil
}
