package eval

import "github.com/herohde/morlock-evolve/pkg/board"

// Evaluate returns the centipawn score of pos from turn's perspective, under the weighting
// described by cfg. The same (pos, turn, cfg) always yields the same integer: no floating
// point participates in the returned value.
func Evaluate(pos *board.Position, turn board.Color, cfg SearchConfig) Score {
	phase := gamePhase(pos)
	material, pstScore := materialAndPST(pos, phase)

	sCore := cfg.WMaterial*material/100 + cfg.WPST*pstScore/100

	type component struct {
		weight int
		value  int
	}
	components := []component{
		{cfg.WPawnStructure, pawnStructure(pos)},
		{cfg.WMobility, mobility(pos)},
		{cfg.WKingSafety, kingSafety(pos)},
		{cfg.WPiecePlacement, piecePlacement(pos)},
		{cfg.WDevelopment, development(pos, phase)},
		{cfg.WThreats, threats(pos)},
		{cfg.WSpace, space(pos)},
		{cfg.WTempo, tempo(turn)},
	}

	weightedSum, weightTotal := 0, 0
	for _, c := range components {
		weightedSum += c.weight * c.value
		weightTotal += c.weight
	}
	if weightTotal < 1 {
		weightTotal = 1
	}
	sHeur := weightedSum / weightTotal

	total := Score(sCore + sHeur)
	if turn == board.Black {
		return -total
	}
	return total
}
