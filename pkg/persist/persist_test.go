package persist_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/ga"
	"github.com/herohde/morlock-evolve/pkg/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestWriteAndLoadPopulationRoundTrips(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "evolution"))

	pop := []ga.Individual{
		{ID: 1, ELO: 1200, Chromosome: eval.Default()},
		{ID: 2, Parents: []uint64{1}, ELO: 1216, Chromosome: eval.Default()},
	}

	require.NoError(t, store.WritePopulation(0, pop))

	loaded, err := store.LoadPopulation(0)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, pop[0].ID, loaded[0].ID)
	assert.Equal(t, pop[1].Parents, loaded[1].Parents)
	assert.Equal(t, pop[0].Chromosome, loaded[0].Chromosome)
}

func TestAppendMatchAccumulatesLines(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "evolution"))

	require.NoError(t, store.AppendMatch(0, persist.MatchRecord{Round: 1, WhiteID: 1, BlackID: 2, Result: "1-0", Termination: "checkmate", Moves: []string{"e2e4"}}))
	require.NoError(t, store.AppendMatch(0, persist.MatchRecord{Round: 1, WhiteID: 3, BlackID: 4, Result: "1/2-1/2", Termination: "stalemate"}))

	n, err := store.CountMatches(0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := store.LoadMatches(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "1-0", recs[0].Result)
}

func TestWritePairingsNormalizesOrder(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "evolution"))
	require.NoError(t, store.WritePairings(0, [][2]uint64{{5, 2}}))

	pairs, err := store.LoadPairings(0)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]uint64{2, 5}, pairs[0])
}

func TestAppendGenerationStatsWritesHeaderOnce(t *testing.T) {
	store := persist.NewStore(t.TempDir())

	require.NoError(t, store.AppendGenerationStats(persist.GenerationStats{Generation: 0, Individuals: 4, Matches: 14, TopELO: 1232.0, AvgELO: 1200.0, LowELO: 1168.0}))
	require.NoError(t, store.AppendGenerationStats(persist.GenerationStats{Generation: 1, Individuals: 4, Matches: 14, TopELO: 1248.0, AvgELO: 1200.0, LowELO: 1152.0}))

	data, err := readFile(filepath.Join(store.Path(), "generation_stats.csv"))
	require.NoError(t, err)

	lines := splitLines(data)
	assert.Equal(t, "generation,individuals,matches,white_wins,black_wins,draws,top_elo,avg_elo,low_elo", lines[0])
	assert.Len(t, lines, 3)
}

func TestLatestGenerationFindsHighest(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "evolution"))
	require.NoError(t, store.WritePopulation(0, nil))
	require.NoError(t, store.WritePopulation(3, nil))
	require.NoError(t, store.WritePopulation(1, nil))

	gen, ok := store.LatestGeneration()
	assert.True(t, ok)
	assert.Equal(t, 3, gen)
}
