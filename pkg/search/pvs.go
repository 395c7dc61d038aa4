// Package search implements a fixed-depth principal variation search over an immutable
// board.Position, guided by an eval.SearchConfig chromosome and an orderer-ranked move list.
//
// function pvs(node, depth, α, β) is
//    if depth = 0 then
//        return quiescence(node, α, β)
//    for each child of node do
//        if child is first child then
//            score := −pvs(child, depth − 1, −β, −α)
//        else
//            score := −pvs(child, depth − 1, −α − 1, −α) (* search with a null window *)
//            if α < score < β then
//                score := −pvs(child, depth − 1, −β, −score) (* if it failed high, do a full re-search *)
//        α := max(α, score)
//        if α ≥ β then
//            break (* beta cut-off *)
//    return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
package search

import (
	"github.com/herohde/morlock-evolve/pkg/board"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/orderer"
)

// Result is the outcome of a root search: the best move found and its score from the side to
// move's perspective. Move is the zero Move if the position has no legal moves.
type Result struct {
	Move  board.Move
	Score eval.Score
}

// Searcher runs a fixed-depth PVS with null-move pruning, late-move reductions, futility
// pruning and quiescence search, all gated by cfg's boolean genes. A Searcher is single-use
// per call to BestMove: it owns its own killer and history tables, cleared at the start of
// each root search.
type Searcher struct {
	cfg eval.SearchConfig

	killers *orderer.Killers
	history *orderer.History

	nodes uint64
}

// NewSearcher returns a Searcher configured by cfg.
func NewSearcher(cfg eval.SearchConfig) *Searcher {
	return &Searcher{cfg: cfg, killers: orderer.NewKillers(), history: orderer.NewHistory()}
}

// BestMove returns the best move for turn to play in pos, searched to cfg.SearchDepth, along
// with its score. If pos has no legal moves for turn, Result.Move is the zero Move and Score
// reflects checkmate or stalemate.
func (s *Searcher) BestMove(pos *board.Position, turn board.Color) Result {
	s.killers = orderer.NewKillers()
	s.history = orderer.NewHistory()
	s.nodes = 0

	score, move := s.root(pos, turn, s.cfg.SearchDepth, -eval.Inf, eval.Inf)
	return Result{Move: move, Score: score}
}

// Nodes returns the number of interior nodes visited by the most recent BestMove call
// (excludes quiescence nodes).
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) root(pos *board.Position, turn board.Color, depth int, alpha, beta eval.Score) (eval.Score, board.Move) {
	moves := pos.PseudoLegalMoves(turn)
	ordered := orderer.Order(pos, turn, moves, board.Move{}, 0, s.killers, s.history, s.orderConfig())

	best := board.Move{}
	hasLegal := false
	movesSearched := 0

	for _, m := range ordered {
		next, ok := pos.Move(m)
		if !ok {
			continue
		}
		hasLegal = true

		var score eval.Score
		if movesSearched == 0 {
			score = -s.search(next, turn.Opponent(), depth-1, -beta, -alpha, 1)
		} else {
			score = -s.search(next, turn.Opponent(), depth-1, -alpha-1, -alpha, 1)
			if score > alpha && score < beta {
				score = -s.search(next, turn.Opponent(), depth-1, -beta, -alpha, 1)
			}
		}
		movesSearched++

		if score > alpha {
			alpha = score
			best = m
		}
	}

	if !hasLegal {
		if pos.IsChecked(turn) {
			return eval.MatedIn(0), board.Move{}
		}
		return eval.Draw, board.Move{}
	}
	return alpha, best
}

// search returns the score of pos from turn's perspective, negamax-style: positive favors turn.
func (s *Searcher) search(pos *board.Position, turn board.Color, depth int, alpha, beta eval.Score, ply int) eval.Score {
	inCheck := pos.IsChecked(turn)

	if depth <= 0 {
		if !hasLegalMove(pos, turn) {
			if inCheck {
				return eval.MatedIn(ply)
			}
			return eval.Draw
		}
		if s.cfg.EnableQuiescence {
			return s.quiescence(pos, turn, alpha, beta, ply)
		}
		return eval.Evaluate(pos, turn, s.cfg)
	}

	s.nodes++

	if s.cfg.EnableNMP && depth >= 3 && !inCheck && !isPawnOnlyEndgame(pos, turn) {
		r := s.cfg.NullMoveReduction
		score := -s.search(pos, turn.Opponent(), depth-1-r, -beta, -beta+1, ply+1)
		if score >= beta {
			return beta
		}
	}

	moves := pos.PseudoLegalMoves(turn)
	ordered := orderer.Order(pos, turn, moves, board.Move{}, ply, s.killers, s.history, s.orderConfig())

	staticEval := eval.Draw
	if s.cfg.EnableFutility && depth <= 2 && !inCheck {
		staticEval = eval.Evaluate(pos, turn, s.cfg)
	}

	hasLegal := false
	movesSearched := 0

	for _, m := range ordered {
		next, ok := pos.Move(m)
		if !ok {
			continue
		}
		hasLegal = true

		quiet := !m.IsCapture() && !m.IsPromotion()
		givesCheck := next.IsChecked(turn.Opponent())

		if s.cfg.EnableFutility && depth <= 2 && !inCheck && quiet && !givesCheck {
			margin := eval.Score(s.cfg.FutilityMargin * depth)
			if staticEval+margin < alpha {
				movesSearched++
				continue
			}
		}

		reduction := 0
		if s.cfg.EnableLMR && depth >= 3 && movesSearched >= s.cfg.LMRThreshold && quiet && !inCheck && !givesCheck {
			reduction = 1
		}

		var score eval.Score
		switch {
		case movesSearched == 0:
			score = -s.search(next, turn.Opponent(), depth-1, -beta, -alpha, ply+1)
		default:
			score = -s.search(next, turn.Opponent(), depth-1-reduction, -alpha-1, -alpha, ply+1)
			if reduction > 0 && score > alpha {
				score = -s.search(next, turn.Opponent(), depth-1, -alpha-1, -alpha, ply+1)
			}
			if score > alpha && score < beta {
				score = -s.search(next, turn.Opponent(), depth-1, -beta, -alpha, ply+1)
			}
		}
		movesSearched++

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if quiet {
				if s.cfg.EnableKiller {
					s.killers.Add(ply, m)
				}
				if s.cfg.EnableHistory {
					s.history.Add(turn, m, depth)
				}
			}
			return beta
		}
	}

	if !hasLegal {
		if inCheck {
			return eval.MatedIn(ply)
		}
		return eval.Draw
	}
	return alpha
}

// quiescence extends the search along captures and promotions only, to avoid misjudging
// positions where the last move was a capture (the horizon effect).
func (s *Searcher) quiescence(pos *board.Position, turn board.Color, alpha, beta eval.Score, ply int) eval.Score {
	standPat := eval.Evaluate(pos, turn, s.cfg)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := pos.PseudoLegalMoves(turn)
	captures := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if m.IsCapture() || m.IsPromotion() {
			captures = append(captures, m)
		}
	}
	ordered := orderer.Order(pos, turn, captures, board.Move{}, ply, nil, nil, orderer.Config{EnableSEE: s.cfg.EnableSEEOrdering})

	for _, m := range ordered {
		if m.IsCapture() && s.cfg.EnableSEEOrdering && pos.StaticExchangeEval(m) < 0 {
			continue
		}
		next, ok := pos.Move(m)
		if !ok {
			continue
		}

		score := -s.quiescence(next, turn.Opponent(), -beta, -alpha, ply+1)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (s *Searcher) orderConfig() orderer.Config {
	return orderer.Config{
		EnableSEE:     s.cfg.EnableSEEOrdering,
		EnableKiller:  s.cfg.EnableKiller,
		EnableHistory: s.cfg.EnableHistory,
	}
}

// hasLegalMove reports whether turn has at least one legal move in pos, per spec §4.4's
// terminal check: a leaf reached exactly at the horizon must still be scored as mate or
// stalemate rather than as an ordinary static evaluation.
func hasLegalMove(pos *board.Position, turn board.Color) bool {
	for _, m := range pos.PseudoLegalMoves(turn) {
		if _, ok := pos.Move(m); ok {
			return true
		}
	}
	return false
}

// isPawnOnlyEndgame returns true iff turn has no non-pawn, non-king material, the classic
// null-move zugzwang risk case.
func isPawnOnlyEndgame(pos *board.Position, turn board.Color) bool {
	for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		if pos.Piece(turn, p) != 0 {
			return false
		}
	}
	return true
}
