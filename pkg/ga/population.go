package ga

import (
	"math/rand"
	"sort"

	"github.com/herohde/morlock-evolve/pkg/eval"
)

// IDs hands out strictly increasing individual IDs across the run, so offspring and elite
// copies never collide regardless of which generation created them.
type IDs struct {
	next uint64
}

// Next returns a fresh ID.
func (ids *IDs) Next() uint64 {
	ids.next++
	return ids.next
}

// Seed advances the allocator past highest, so IDs resumed from persisted state never collide
// with one handed out before a restart.
func (ids *IDs) Seed(highest uint64) {
	if highest > ids.next {
		ids.next = highest
	}
}

// NewPopulation returns the generation-0 population: size individuals, each with a freshly
// randomized chromosome per the initial-population rule in §4.7.
func NewPopulation(size int, ids *IDs, r *rand.Rand) []Individual {
	pop := make([]Individual, size)
	for i := range pop {
		pop[i] = NewFounder(ids.Next(), eval.NewRandomConfig(r))
	}
	return pop
}

// Elite returns the individuals that earned a place in the next generation by rating: every
// individual above StartingELO, or the top two by ELO if fewer than two qualify.
func Elite(pop []Individual) []Individual {
	above := make([]Individual, 0, len(pop))
	for _, ind := range pop {
		if ind.ELO > StartingELO {
			above = append(above, ind)
		}
	}
	if len(above) >= 2 {
		return above
	}

	ranked := make([]Individual, len(pop))
	copy(ranked, pop)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ELO != ranked[j].ELO {
			return ranked[i].ELO > ranked[j].ELO
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > 2 {
		ranked = ranked[:2]
	}
	return ranked
}

// NextGeneration produces generation+1 from pop's finalized standings: the elite set carried
// over with fresh IDs and ELO reset, plus offspring filling the remaining slots via uniform
// crossover and mutation of two elite parents chosen independently per slot.
func NextGeneration(pop []Individual, size, generation int, ids *IDs, r *rand.Rand) []Individual {
	elite := Elite(pop)

	next := make([]Individual, 0, size)
	for _, e := range elite {
		if len(next) >= size {
			break
		}
		next = append(next, Individual{
			ID:         ids.Next(),
			Parents:    []uint64{e.ID},
			ELO:        StartingELO,
			Generation: generation,
			Chromosome: e.Chromosome,
		})
	}

	for len(next) < size {
		ai := r.Intn(len(elite))
		bi := ai
		for bi == ai && len(elite) > 1 {
			bi = r.Intn(len(elite))
		}
		a, b := elite[ai], elite[bi]

		child := eval.Crossover(a.Chromosome, b.Chromosome, r)
		eval.Mutate(&child, r)

		next = append(next, Individual{
			ID:         ids.Next(),
			Parents:    []uint64{a.ID, b.ID},
			ELO:        StartingELO,
			Generation: generation,
			Chromosome: child,
		})
	}

	return next
}
