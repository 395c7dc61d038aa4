package orderer_test

import (
	"testing"

	"github.com/herohde/morlock-evolve/pkg/board"
	"github.com/herohde/morlock-evolve/pkg/board/fen"
	"github.com/herohde/morlock-evolve/pkg/orderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPutsHashMoveFirst(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	moves := pos.PseudoLegalMoves(turn)
	hash := moves[len(moves)-1]

	ordered := orderer.Order(pos, turn, moves, hash, 0, nil, nil, orderer.Config{})
	assert.True(t, ordered[0].Equals(hash))
}

func TestOrderRanksCapturesBySEE(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Queen},
		{Square: board.A1, Color: board.White, Piece: board.Rook},
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
		{Square: board.A5, Color: board.Black, Piece: board.Pawn},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	moves := pos.PseudoLegalMoves(board.White)
	ordered := orderer.Order(pos, board.White, moves, board.Move{}, 0, nil, nil, orderer.Config{EnableSEE: true})

	assert.True(t, ordered[0].IsCapture())
}

func TestKillersAndHistory(t *testing.T) {
	k := orderer.NewKillers()
	m := board.Move{From: board.E2, To: board.E4, Type: board.Jump, Piece: board.Pawn}
	k.Add(3, m)

	h := orderer.NewHistory()
	h.Add(board.White, m, 4)
	h.Add(board.White, m, 4)

	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	ordered := orderer.Order(pos, turn, pos.PseudoLegalMoves(turn), board.Move{}, 3, k, h, orderer.Config{EnableKiller: true, EnableHistory: true})
	assert.True(t, ordered[0].Equals(m))
}
