package ga_test

import (
	"math/rand"
	"testing"

	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/ga"
	"github.com/stretchr/testify/assert"
)

func TestNewPopulationHasUniqueIDs(t *testing.T) {
	ids := &ga.IDs{}
	pop := ga.NewPopulation(32, ids, rand.New(rand.NewSource(1)))

	seen := map[uint64]bool{}
	for _, ind := range pop {
		assert.False(t, seen[ind.ID], "duplicate id %v", ind.ID)
		seen[ind.ID] = true
		assert.Equal(t, ga.StartingELO, ind.ELO)
	}
	assert.Len(t, pop, 32)
}

func TestEliteFallsBackToTopTwo(t *testing.T) {
	pop := []ga.Individual{
		{ID: 1, ELO: 1100},
		{ID: 2, ELO: 1150},
		{ID: 3, ELO: 1050},
	}
	elite := ga.Elite(pop)
	assert.Len(t, elite, 2)
	assert.Equal(t, uint64(2), elite[0].ID)
	assert.Equal(t, uint64(1), elite[1].ID)
}

func TestEliteUsesELOThresholdWhenEnoughQualify(t *testing.T) {
	pop := []ga.Individual{
		{ID: 1, ELO: 1300},
		{ID: 2, ELO: 1250},
		{ID: 3, ELO: 1100},
	}
	elite := ga.Elite(pop)
	assert.Len(t, elite, 2)
}

func TestNextGenerationPreservesSizeAndGeneContracts(t *testing.T) {
	ids := &ga.IDs{}
	r := rand.New(rand.NewSource(7))
	pop := ga.NewPopulation(4, ids, r)
	for i := range pop {
		pop[i].ELO = 1300
	}

	next := ga.NextGeneration(pop, 4, 1, ids, r)
	assert.Len(t, next, 4)

	seen := map[uint64]bool{}
	for _, ind := range next {
		assert.False(t, seen[ind.ID])
		seen[ind.ID] = true
		assert.Equal(t, ga.StartingELO, ind.ELO)

		assert.GreaterOrEqual(t, ind.Chromosome.SearchDepth, 1)
		assert.LessOrEqual(t, ind.Chromosome.SearchDepth, 8)
		assert.GreaterOrEqual(t, ind.Chromosome.WMaterial, 0)
		assert.LessOrEqual(t, ind.Chromosome.WMaterial, 400)
	}
}

func TestNextGenerationEliteCarriesChromosomeForward(t *testing.T) {
	ids := &ga.IDs{}
	eliteChromosome := eval.Default()
	pop := []ga.Individual{
		{ID: 1, ELO: 1300, Chromosome: eliteChromosome},
		{ID: 2, ELO: 1280, Chromosome: eliteChromosome},
	}

	next := ga.NextGeneration(pop, 2, 1, ids, rand.New(rand.NewSource(3)))
	assert.Len(t, next, 2)
	for _, ind := range next {
		assert.Equal(t, eliteChromosome, ind.Chromosome)
		assert.Len(t, ind.Parents, 1)
	}
}
