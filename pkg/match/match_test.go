package match_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock-evolve/pkg/board"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shallow() eval.SearchConfig {
	cfg := eval.Default()
	cfg.SearchDepth = 2
	return cfg
}

func TestPlayReachesADecision(t *testing.T) {
	out, err := match.Play(context.Background(), match.Config{White: shallow(), Black: shallow(), Seed: 1})
	require.NoError(t, err)

	assert.True(t, out.Result.IsDecided())
	assert.Greater(t, out.Plies, 0)
	assert.Equal(t, len(out.Moves), out.Plies)
}

func TestPlayAdjudicatesCheckmate(t *testing.T) {
	out, err := match.Play(context.Background(), match.Config{
		White:    shallow(),
		Black:    shallow(),
		StartFEN: "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		MoveCap:  2,
		Seed:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, board.Checkmate, out.Result.Reason)
	assert.Equal(t, board.WhiteWins, out.Result.Outcome)
}

func TestPlayRespectsMoveCap(t *testing.T) {
	out, err := match.Play(context.Background(), match.Config{
		White:   shallow(),
		Black:   shallow(),
		MoveCap: 3,
		Seed:    3,
	})
	require.NoError(t, err)

	if out.Plies == 3 {
		assert.Equal(t, board.MoveCap, out.Result.Reason)
		assert.Equal(t, board.Draw, out.Result.Outcome)
	}
}

func TestPlayInvokesOnMove(t *testing.T) {
	calls := 0
	_, err := match.Play(context.Background(), match.Config{
		White:   shallow(),
		Black:   shallow(),
		MoveCap: 4,
		Seed:    4,
		OnMove:  func(b *board.Board, m board.Move, score eval.Score) { calls++ },
	})
	require.NoError(t, err)
	assert.Greater(t, calls, 0)
}
