package tournament

import (
	"sort"

	"github.com/herohde/morlock-evolve/pkg/ga"
)

// Pairing is one round's matchup, white against black.
type Pairing struct {
	White, Black ga.Individual
}

// pairKey normalizes a pair of IDs so (a,b) and (b,a) hash identically in History.
func pairKey(a, b uint64) [2]uint64 {
	if a < b {
		return [2]uint64{a, b}
	}
	return [2]uint64{b, a}
}

// History tracks which individuals have already played each other during the current
// generation, so the pairing algorithm can avoid rematches.
type History struct {
	played map[[2]uint64]bool
}

// NewHistory returns an empty pairing history.
func NewHistory() *History {
	return &History{played: map[[2]uint64]bool{}}
}

// Add records that a and b have played.
func (h *History) Add(a, b uint64) {
	h.played[pairKey(a, b)] = true
}

// HasPlayed returns true iff a and b have already played this generation.
func (h *History) HasPlayed(a, b uint64) bool {
	return h.played[pairKey(a, b)]
}

// Pairs returns every recorded pair, each with the lower ID first, for persistence.
func (h *History) Pairs() [][2]uint64 {
	pairs := make([][2]uint64, 0, len(h.played))
	for k := range h.played {
		pairs = append(pairs, k)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// Pair runs one round of Dutch-Swiss pairing: sort by ELO descending (ties broken by lower ID
// first), split into top and bottom halves, and pair top_i with bottom_i. A pairing already in
// history is swapped for the nearest compatible bottom-half candidate; an individual with no
// compatible opponent left receives a bye instead. history is updated with the pairs formed.
func Pair(pop []ga.Individual, history *History) (pairs []Pairing, byes []ga.Individual) {
	sorted := make([]ga.Individual, len(pop))
	copy(sorted, pop)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ELO != sorted[j].ELO {
			return sorted[i].ELO > sorted[j].ELO
		}
		return sorted[i].ID < sorted[j].ID
	})

	half := (len(sorted) + 1) / 2
	top := sorted[:half]
	bottom := sorted[half:]

	used := make([]bool, len(bottom))

	for _, t := range top {
		matched := -1
		for j, b := range bottom {
			if used[j] || history.HasPlayed(t.ID, b.ID) {
				continue
			}
			matched = j
			break
		}
		if matched == -1 {
			byes = append(byes, t)
			continue
		}

		used[matched] = true
		opp := bottom[matched]
		pairs = append(pairs, Pairing{White: t, Black: opp})
		history.Add(t.ID, opp.ID)
	}

	for j, b := range bottom {
		if !used[j] {
			byes = append(byes, b)
		}
	}

	return pairs, byes
}
