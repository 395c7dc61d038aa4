package board_test

import (
	"testing"

	"github.com/herohde/morlock-evolve/pkg/board"
	"github.com/herohde/morlock-evolve/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perft(t *testing.T, pos *board.Position, turn board.Color, depth int) int {
	t.Helper()
	if depth == 0 {
		return 1
	}

	nodes := 0
	for _, m := range pos.PseudoLegalMoves(turn) {
		next, ok := pos.Move(m)
		if !ok {
			continue
		}
		nodes += perft(t, next, turn.Opponent(), depth-1)
	}
	return nodes
}

func TestPerftInitial(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	// Known perft node counts for the initial position.
	assert.Equal(t, 20, perft(t, pos, turn, 1))
	assert.Equal(t, 400, perft(t, pos, turn, 2))
	assert.Equal(t, 8902, perft(t, pos, turn, 3))
}

func TestPerftKiwipete(t *testing.T) {
	// The "Kiwipete" position: exercises castling, en passant and promotions in combination.
	pos, turn, _, _, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	assert.Equal(t, 48, perft(t, pos, turn, 1))
	assert.Equal(t, 2039, perft(t, pos, turn, 2))
}

func TestMoveCastling(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	m := board.Move{Type: board.KingSideCastle, Piece: board.King, From: board.E1, To: board.G1}
	next, ok := pos.Move(m)
	require.True(t, ok)

	c, p, ok := next.Square(board.G1)
	assert.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.King, p)

	c, p, ok = next.Square(board.F1)
	assert.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.Rook, p)

	assert.False(t, next.Castling().IsAllowed(board.WhiteKingSideCastle))
	assert.False(t, next.Castling().IsAllowed(board.WhiteQueenSideCastle))
}

func TestMoveCastlingThroughCheckDisallowed(t *testing.T) {
	// Black rook on f8 attacks f1, the King's transit square for White kingside castling.
	pos, turn, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)
	_ = turn

	pos, err2 := board.NewPosition([]board.Placement{
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.H1, Color: board.White, Piece: board.Rook},
		{Square: board.F8, Color: board.Black, Piece: board.Rook},
	}, board.WhiteKingSideCastle, board.ZeroSquare)
	require.NoError(t, err2)

	for _, m := range pos.PseudoLegalMoves(board.White) {
		assert.NotEqual(t, board.KingSideCastle, m.Type)
	}
}

func TestMoveEnPassant(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.E5, Color: board.White, Piece: board.Pawn},
		{Square: board.D7, Color: board.Black, Piece: board.Pawn},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	jump := board.Move{Type: board.Jump, Piece: board.Pawn, From: board.D7, To: board.D5}
	afterJump, ok := pos.Move(jump)
	require.True(t, ok)

	ep, ok := afterJump.EnPassant()
	require.True(t, ok)
	assert.Equal(t, board.D6, ep)

	var found bool
	for _, m := range afterJump.PseudoLegalMoves(board.White) {
		if m.Type == board.EnPassant {
			found = true
			assert.Equal(t, board.D6, m.To)
		}
	}
	assert.True(t, found)

	captured, ok := afterJump.Move(board.Move{Type: board.EnPassant, Piece: board.Pawn, From: board.E5, To: board.D6, Capture: board.Pawn})
	require.True(t, ok)
	assert.True(t, captured.IsEmpty(board.D5))
	c, p, ok := captured.Square(board.D6)
	require.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.Pawn, p)
}

func TestFoolsMate(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, turn, np, fm, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	b := board.NewBoard(zt, pos, turn, np, fm)

	moves := []string{"f2f3", "e7e5", "g2g4", "d8h4"}
	for _, mv := range moves {
		bare, err := board.ParseMove(mv)
		require.NoError(t, err)

		resolved, ok := bare.Resolve(b.Position().PseudoLegalMoves(b.Turn()))
		require.True(t, ok, "move %v should be pseudo-legal", mv)

		require.True(t, b.PushMove(resolved), "move %v should be legal", mv)
	}

	legal := b.Position().PseudoLegalMoves(b.Turn())
	hasLegal := false
	for _, m := range legal {
		if _, ok := b.Position().Move(m); ok {
			hasLegal = true
			break
		}
	}
	assert.False(t, hasLegal)

	result := b.AdjudicateNoLegalMoves()
	assert.Equal(t, board.Checkmate, result.Reason)
	assert.Equal(t, board.BlackWins, result.Outcome)
}

func TestStalemate(t *testing.T) {
	pos, turn, np, fm, err := fen.Decode("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt, pos, turn, np, fm)

	hasLegal := false
	for _, m := range b.Position().PseudoLegalMoves(b.Turn()) {
		if _, ok := b.Position().Move(m); ok {
			hasLegal = true
			break
		}
	}
	assert.False(t, hasLegal)

	result := b.AdjudicateNoLegalMoves()
	assert.Equal(t, board.Stalemate, result.Reason)
	assert.Equal(t, board.Draw, result.Outcome)
}

func TestThreefoldRepetition(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, turn, np, fm, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	b := board.NewBoard(zt, pos, turn, np, fm)

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for rep := 0; rep < 3; rep++ {
		for _, mv := range shuffle {
			bare, err := board.ParseMove(mv)
			require.NoError(t, err)

			resolved, ok := bare.Resolve(b.Position().PseudoLegalMoves(b.Turn()))
			require.True(t, ok)
			require.True(t, b.PushMove(resolved))
		}
	}

	assert.Equal(t, board.Threefold, b.Result().Reason)
	assert.Equal(t, board.Draw, b.Result().Outcome)
}

func TestStaticExchangeEval(t *testing.T) {
	// White rook takes a pawn defended by a knight: losing exchange for White.
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Rook},
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
		{Square: board.F6, Color: board.Black, Piece: board.Knight},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, Piece: board.Rook, From: board.D1, To: board.D5, Capture: board.Pawn}
	assert.Less(t, pos.StaticExchangeEval(m), 0)
}
