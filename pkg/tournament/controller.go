// Package tournament runs the round-robin-by-pairing Swiss tournament for one generation:
// Dutch pairing, a bounded worker pool of Match Runners, and serialized ELO bookkeeping.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/herohde/morlock-evolve/pkg/board"
	"github.com/herohde/morlock-evolve/pkg/board/fen"
	"github.com/herohde/morlock-evolve/pkg/control"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/ga"
	"github.com/herohde/morlock-evolve/pkg/match"
	"github.com/herohde/morlock-evolve/pkg/persist"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// pausePollInterval is how often a worker re-checks Hub.IsPaused before picking up its next task.
const pausePollInterval = 100 * time.Millisecond

// DefaultRounds is how many Swiss rounds make up one generation, per spec.
const DefaultRounds = 7

// Config controls one generation's tournament.
type Config struct {
	Rounds  int // defaults to DefaultRounds.
	Workers int // defaults to runtime.GOMAXPROCS(0).
	MoveCap int // forwarded to match.Config; 0 means match's own default.

	// Hub, if set, receives a Snapshot after every ply of every in-flight match, and gates
	// workers between tasks on its pause signal.
	Hub *control.Hub
}

func (c Config) withDefaults() Config {
	if c.Rounds <= 0 {
		c.Rounds = DefaultRounds
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

type task struct {
	round int
	pair  Pairing
}

type outcome struct {
	task   task
	result match.Outcome
	err    error
}

// RunGeneration plays cfg.Rounds Swiss rounds over pop, updates ELOs as matches complete, and
// persists the match log and population after every match and the pairing history after every
// round. It returns the population with updated ELOs, ready for ga.NextGeneration. If ctx is
// cancelled, it returns the population as persisted so far without writing the generation's
// stats row, so the generation stays incomplete and is resumed on the next start.
func RunGeneration(ctx context.Context, pop []ga.Individual, gen int, cfg Config, store *persist.Store) ([]ga.Individual, error) {
	cfg = cfg.withDefaults()

	byID := make(map[uint64]int, len(pop))
	for i, ind := range pop {
		byID[ind.ID] = i
	}

	history, startRound, err := resume(store, gen)
	if err != nil {
		return nil, fmt.Errorf("resume generation %v: %w", gen, err)
	}

	for round := startRound; round <= cfg.Rounds; round++ {
		if contextx.IsCancelled(ctx) {
			logw.Infof(ctx, "Generation %v cancelled before round %v", gen, round)
			break
		}

		pairs, byes := Pair(pop, history)
		for _, ind := range byes {
			logw.Debugf(ctx, "Bye: individual %v in round %v", ind.ID, round)
		}

		if err := runRound(ctx, pop, byID, round, pairs, cfg, store, gen); err != nil {
			return nil, err
		}

		if err := store.WritePairings(gen, history.Pairs()); err != nil {
			return nil, fmt.Errorf("persist pairings: %w", err)
		}
		if err := store.WritePopulation(gen, pop); err != nil {
			return nil, fmt.Errorf("persist population: %w", err)
		}
	}

	if contextx.IsCancelled(ctx) {
		return pop, nil
	}
	if err := finalizeStats(store, gen, pop); err != nil {
		return nil, fmt.Errorf("finalize generation %v: %w", gen, err)
	}
	return pop, nil
}

func runRound(ctx context.Context, pop []ga.Individual, byID map[uint64]int, round int, pairs []Pairing, cfg Config, store *persist.Store, gen int) error {
	tasks := make(chan task, len(pairs))
	results := make(chan outcome, len(pairs))

	for _, p := range pairs {
		tasks <- task{round: round, pair: p}
	}
	close(tasks)

	for w := 0; w < cfg.Workers; w++ {
		go worker(ctx, tasks, results, cfg)
	}

	for range pairs {
		o := <-results
		if o.err != nil {
			if errors.Is(o.err, context.Canceled) {
				logw.Debugf(ctx, "Round %v, %v vs %v cancelled before it was played", o.task.round, o.task.pair.White.ID, o.task.pair.Black.ID)
				continue
			}
			return fmt.Errorf("round %v, %v vs %v: %w", o.task.round, o.task.pair.White.ID, o.task.pair.Black.ID, o.err)
		}

		wi, bi := byID[o.task.pair.White.ID], byID[o.task.pair.Black.ID]
		applyResult(pop, wi, bi, o.result.Result)

		rec := persist.MatchRecord{
			Round:       o.task.round,
			WhiteID:     o.task.pair.White.ID,
			BlackID:     o.task.pair.Black.ID,
			Result:      o.result.Result.Outcome.String(),
			Termination: o.result.Result.Reason.String(),
			Moves:       formatMoves(o.result.Moves),
		}
		if err := store.AppendMatch(gen, rec); err != nil {
			return fmt.Errorf("persist match: %w", err)
		}
		if err := store.WritePopulation(gen, pop); err != nil {
			return fmt.Errorf("persist population: %w", err)
		}
	}
	return nil
}

func worker(ctx context.Context, tasks <-chan task, results chan<- outcome, cfg Config) {
	for t := range tasks {
		for cfg.Hub != nil && cfg.Hub.IsPaused() && !contextx.IsCancelled(ctx) {
			time.Sleep(pausePollInterval)
		}
		if contextx.IsCancelled(ctx) {
			results <- outcome{task: t, err: context.Canceled}
			continue
		}

		matchID := t.pair.White.ID<<32 | t.pair.Black.ID

		var played []board.Move
		result, err := match.Play(ctx, match.Config{
			White:   t.pair.White.Chromosome,
			Black:   t.pair.Black.Chromosome,
			MoveCap: cfg.MoveCap,
			Seed:    int64(matchID),
			OnMove: func(b *board.Board, m board.Move, score eval.Score) {
				played = append(played, m)
				if cfg.Hub == nil {
					return
				}
				cfg.Hub.Publish(control.Snapshot{
					MatchID:  matchID,
					White:    t.pair.White.ID,
					Black:    t.pair.Black.ID,
					FEN:      fen.Encode(b.Position(), b.Turn(), b.NoProgress(), b.FullMoves()),
					Moves:    formatMoves(played),
					LastEval: score,
				})
			},
		})
		results <- outcome{task: t, result: result, err: err}
	}
}

// applyResult updates the two individuals' ELOs in place from white's perspective.
func applyResult(pop []ga.Individual, whiteIdx, blackIdx int, result board.Result) {
	var sa Score
	switch result.Outcome {
	case board.WhiteWins:
		sa = Win
	case board.BlackWins:
		sa = Loss
	default:
		sa = Draw
	}

	newW, newB := ApplyELO(pop[whiteIdx].ELO, pop[blackIdx].ELO, sa)
	pop[whiteIdx].ELO = newW
	pop[blackIdx].ELO = newB
}

func formatMoves(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = formatMove(m)
	}
	return out
}

func formatMove(m board.Move) string {
	promo := ""
	if m.IsPromotion() {
		promo = m.Promotion.String()
	}
	return strings.ToLower(m.From.String()+m.To.String()) + promo
}

// resume reconstructs pairing history from a partially-completed generation, so RunGeneration
// can continue from the round after the highest one with any persisted match and avoid
// rematching pairs that already played. It does not reapply ELO: pop is always loaded from the
// same generation's population.json, which persist.Store.WritePopulation already updated after
// every one of these matches completed, so replaying them here would double-count every result.
// Resumption is at round granularity, not individual-pairing granularity: play continues with a
// fresh pairing of the next round, and the unplayed pairs of a partially-played round are not
// replayed.
func resume(store *persist.Store, gen int) (*History, int, error) {
	history := NewHistory()

	records, err := store.LoadMatches(gen)
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 0 {
		return history, 1, nil
	}

	highest := 0
	for _, rec := range records {
		history.Add(rec.WhiteID, rec.BlackID)
		if rec.Round > highest {
			highest = rec.Round
		}
	}
	return history, highest + 1, nil
}

func finalizeStats(store *persist.Store, gen int, pop []ga.Individual) error {
	if len(pop) == 0 {
		return store.AppendGenerationStats(persist.GenerationStats{Generation: gen})
	}

	records, err := store.LoadMatches(gen)
	if err != nil {
		return err
	}

	stats := persist.GenerationStats{Generation: gen, Individuals: len(pop), Matches: len(records)}
	for _, rec := range records {
		switch rec.Result {
		case board.WhiteWins.String():
			stats.WhiteWins++
		case board.BlackWins.String():
			stats.BlackWins++
		default:
			stats.Draws++
		}
	}

	top, low, sum := pop[0].ELO, pop[0].ELO, 0.0
	for _, ind := range pop {
		if ind.ELO > top {
			top = ind.ELO
		}
		if ind.ELO < low {
			low = ind.ELO
		}
		sum += ind.ELO
	}
	stats.TopELO, stats.LowELO, stats.AvgELO = top, low, sum/float64(len(pop))

	return store.AppendGenerationStats(stats)
}
