package tournament_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/ga"
	"github.com/herohde/morlock-evolve/pkg/persist"
	"github.com/herohde/morlock-evolve/pkg/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyELOMatchesWorkedExample(t *testing.T) {
	newA, newB := tournament.ApplyELO(1200, 1200, tournament.Win)
	assert.InDelta(t, 1216.0, newA, 1e-9)
	assert.InDelta(t, 1184.0, newB, 1e-9)
}

func TestApplyELOIsZeroSum(t *testing.T) {
	for _, sa := range []tournament.Score{tournament.Win, tournament.Draw, tournament.Loss} {
		ra, rb := 1340.0, 1105.0
		newA, newB := tournament.ApplyELO(ra, rb, sa)
		delta := (newA - ra) + (newB - rb)
		assert.Less(t, math.Abs(delta), 1e-6)
	}
}

func TestPairAvoidsRematches(t *testing.T) {
	pop := []ga.Individual{
		{ID: 1, ELO: 1300}, {ID: 2, ELO: 1280}, {ID: 3, ELO: 1250}, {ID: 4, ELO: 1200},
	}
	history := tournament.NewHistory()

	first, _ := tournament.Pair(pop, history)
	require.Len(t, first, 2)

	second, byes := tournament.Pair(pop, history)
	for _, p := range second {
		assert.NotEqual(t, p.White.ID, firstPartnerOf(first, p.Black.ID))
	}
	_ = byes
}

func firstPartnerOf(pairs []tournament.Pairing, id uint64) uint64 {
	for _, p := range pairs {
		if p.White.ID == id {
			return p.Black.ID
		}
		if p.Black.ID == id {
			return p.White.ID
		}
	}
	return 0
}

func TestRunGenerationProducesCompleteRecord(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "evolution"))

	shallow := eval.Default()
	shallow.SearchDepth = 1

	pop := []ga.Individual{
		{ID: 1, ELO: 1200, Chromosome: shallow},
		{ID: 2, ELO: 1200, Chromosome: shallow},
		{ID: 3, ELO: 1200, Chromosome: shallow},
		{ID: 4, ELO: 1200, Chromosome: shallow},
	}

	result, err := tournament.RunGeneration(context.Background(), pop, 0, tournament.Config{Rounds: 1, Workers: 2, MoveCap: 10}, store)
	require.NoError(t, err)
	assert.Len(t, result, 4)

	n, err := store.CountMatches(0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
