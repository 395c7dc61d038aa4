// Package orderer ranks pseudo-legal moves for search: hash move first, then captures by
// SEE, then killers, then history, then generation order.
package orderer

import (
	"github.com/herohde/morlock-evolve/pkg/board"
)

const maxPly = 128

// Killers holds up to two killer moves per ply: non-capture moves that caused a beta cutoff
// at that ply elsewhere in the tree. Cleared between root searches.
type Killers struct {
	slots [maxPly][2]board.Move
}

// NewKillers returns an empty killer table.
func NewKillers() *Killers {
	return &Killers{}
}

// Add records a cutoff move at ply, displacing the older slot.
func (k *Killers) Add(ply int, m board.Move) {
	if ply < 0 || ply >= maxPly || m.Equals(k.slots[ply][0]) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

func (k *Killers) at(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= maxPly {
		return board.Move{}, board.Move{}
	}
	return k.slots[ply][0], k.slots[ply][1]
}

// History counts beta cutoffs by side/from/to, incremented by depth^2 each time a non-capture
// causes a cutoff. Cleared between root searches.
type History struct {
	counts [board.NumColors][64][64]int
}

// NewHistory returns an empty history table.
func NewHistory() *History {
	return &History{}
}

// Add records a cutoff for the given side and move, weighted by depth squared.
func (h *History) Add(side board.Color, m board.Move, depth int) {
	h.counts[side][m.From][m.To] += depth * depth
}

func (h *History) at(side board.Color, m board.Move) int {
	return h.counts[side][m.From][m.To]
}

// Config controls which ordering signals Order consults, mirroring the enable_see_ordering,
// enable_killer and enable_history genes.
type Config struct {
	EnableSEE     bool
	EnableKiller  bool
	EnableHistory bool
}

// Order returns moves sorted best-first for the given node: an optional hash move, then
// captures by descending SEE, then killers, then history-weighted quiet moves, then the rest
// in generation order.
func Order(pos *board.Position, side board.Color, moves []board.Move, hash board.Move, ply int, k *Killers, h *History, cfg Config) []board.Move {
	k1, k2 := board.Move{}, board.Move{}
	if cfg.EnableKiller && k != nil {
		k1, k2 = k.at(ply)
	}

	fn := board.MovePriorityFn(func(m board.Move) board.MovePriority {
		switch {
		case m.IsCapture():
			if cfg.EnableSEE {
				return board.MovePriority(1000 + pos.StaticExchangeEval(m))
			}
			return 1000
		case cfg.EnableKiller && m.Equals(k1):
			return 900
		case cfg.EnableKiller && m.Equals(k2):
			return 899
		case cfg.EnableHistory && h != nil:
			return board.MovePriority(h.at(side, m))
		default:
			return 0
		}
	})
	if hash != (board.Move{}) {
		fn = board.First(hash, fn)
	}

	ordered := make([]board.Move, len(moves))
	copy(ordered, moves)
	board.SortByPriority(ordered, fn)
	return ordered
}
