// Package match plays a single game between two configured engines: no human input, no time
// control, just two SearchConfig chromosomes alternating moves until the board adjudicates a
// result or the move cap is hit.
package match

import (
	"context"
	"fmt"

	"github.com/herohde/morlock-evolve/pkg/board"
	"github.com/herohde/morlock-evolve/pkg/board/fen"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/search"
	"github.com/seekerror/logw"
)

// defaultMoveCap is the ply limit applied when Config.MoveCap is zero, per the "400 plies"
// default termination rule: a game that reaches it is adjudicated a draw.
const defaultMoveCap = 400

// Config describes one game: the two chromosomes under test and the conditions it starts and
// ends under.
type Config struct {
	White, Black eval.SearchConfig

	// StartFEN is the starting position. Empty means the standard initial position.
	StartFEN string
	// MoveCap bounds the game length in plies. Zero means defaultMoveCap.
	MoveCap int
	// Seed seeds the Zobrist table used for repetition detection; any value works, as long
	// as it is consistent within a single run.
	Seed int64

	// OnMove, if set, is called after every ply with the board after the move, the move itself,
	// and the mover's own score for it, so a caller can publish a live match snapshot.
	OnMove func(b *board.Board, m board.Move, score eval.Score)
}

// Outcome is the completed game record.
type Outcome struct {
	Result board.Result
	Moves  []board.Move
	Plies  int
}

// ErrIllegalMove is returned when a configured Searcher proposes a move that is not among the
// position's pseudo-legal moves, or the zero move while legal moves exist. This is always a
// Searcher defect, never adjudicated silently.
type ErrIllegalMove struct {
	Color board.Color
	Move  board.Move
	FEN   string
}

func (e ErrIllegalMove) Error() string {
	return fmt.Sprintf("illegal move %v by %v at %v", e.Move, e.Color, e.FEN)
}

// Play runs a single game to completion and returns its record. It returns an error if
// cfg.StartFEN cannot be decoded, and ErrIllegalMove, a fatal Searcher contract violation that
// is surfaced rather than adjudicated.
func Play(ctx context.Context, cfg Config) (Outcome, error) {
	startFEN := cfg.StartFEN
	if startFEN == "" {
		startFEN = fen.Initial
	}
	moveCap := cfg.MoveCap
	if moveCap <= 0 {
		moveCap = defaultMoveCap
	}

	pos, turn, noprogress, fullmoves, err := fen.Decode(startFEN)
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid start position %q: %w", startFEN, err)
	}

	b := board.NewBoard(board.NewZobristTable(cfg.Seed), pos, turn, noprogress, fullmoves)
	searchers := map[board.Color]*search.Searcher{
		board.White: search.NewSearcher(cfg.White),
		board.Black: search.NewSearcher(cfg.Black),
	}

	var moves []board.Move
	for ply := 0; ply < moveCap; ply++ {
		if b.Result().Outcome != board.Undecided {
			break
		}

		side := b.Turn()
		result := searchers[side].BestMove(b.Position(), side)

		if result.Move == (board.Move{}) {
			for _, m := range b.Position().PseudoLegalMoves(side) {
				if _, ok := b.Position().Move(m); ok {
					return Outcome{}, ErrIllegalMove{Color: side, Move: result.Move, FEN: fen.Encode(b.Position(), side, b.NoProgress(), b.FullMoves())}
				}
			}
			b.AdjudicateNoLegalMoves()
			break
		}
		if !b.PushMove(result.Move) {
			return Outcome{}, ErrIllegalMove{Color: side, Move: result.Move, FEN: fen.Encode(b.Position(), side, b.NoProgress(), b.FullMoves())}
		}

		moves = append(moves, result.Move)
		if cfg.OnMove != nil {
			cfg.OnMove(b, result.Move, result.Score)
		}
	}

	if b.Result().Outcome == board.Undecided {
		b.Adjudicate(board.Result{Outcome: board.Draw, Reason: board.MoveCap})
		logw.Debugf(ctx, "Match hit move cap at %v plies", len(moves))
	}

	return Outcome{Result: b.Result(), Moves: moves, Plies: len(moves)}, nil
}
