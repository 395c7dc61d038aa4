// Package ga implements the genetic-algorithm population driver: initial population sampling,
// elite selection and offspring generation between tournament generations.
package ga

import "github.com/herohde/morlock-evolve/pkg/eval"

// StartingELO is every individual's rating on creation, and the elite-set threshold: an
// individual that finishes a generation above it earned its place in the next one by rating,
// not merely by surviving. It is one of the GA knobs read once at process start (a
// -starting-elo flag), not a compile-time constant.
var StartingELO = 1200.0

// Individual is one chromosome plus the bookkeeping the GA Driver needs across generations.
// Parentage lives here, not in the chromosome, so crossover stays a pure function of genes.
type Individual struct {
	ID         uint64
	Parents    []uint64 // 0, 1 or 2 entries: empty for generation 0, one for a verbatim elite copy, two for offspring.
	ELO        float64
	Generation int
	Chromosome eval.SearchConfig
}

// NewFounder returns a generation-0 individual with a freshly randomized chromosome.
func NewFounder(id uint64, chromosome eval.SearchConfig) Individual {
	return Individual{ID: id, ELO: StartingELO, Chromosome: chromosome}
}
