package eval

import "github.com/herohde/morlock-evolve/pkg/board"

// materialValue is the nominal centipawn value of a piece, used both for the material term
// and to compute game phase.
func materialValue(p board.Piece) int {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default:
		return 0
	}
}

// phaseValue weighs a piece's contribution to game phase: Pawn=0, Knight=1, Bishop=1, Rook=2, Queen=4.
func phaseValue(p board.Piece) int {
	switch p {
	case board.Knight, board.Bishop:
		return 1
	case board.Rook:
		return 2
	case board.Queen:
		return 4
	default:
		return 0
	}
}

const maxPhaseUnits = 24 // 4 knights + 4 bishops + 4 rooks + 2 queens, one side's worth doubled

// gamePhase returns a value in [0, 256]: 256 is full opening material, 0 is bare kings.
func gamePhase(pos *board.Position) int {
	units := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
			units += pos.Piece(c, p).PopCount() * phaseValue(p)
		}
	}
	return clamp(units*256/maxPhaseUnits, 0, 256)
}

func interp(mg, eg, phase int) int {
	return (mg*phase + eg*(256-phase)) / 256
}

// pst returns the piece-square bonus for a piece of the given color on sq, interpolated
// between middlegame and endgame tables by phase. Tables are expressed for White from White's
// own perspective and mirrored vertically for Black.
func pst(p board.Piece, c board.Color, sq board.Square, phase int) int {
	rank, file := int(sq.Rank()), int(sq.File())
	if c == board.Black {
		rank = 7 - rank
	}

	centerFile := fileCentrality(file)
	centerRank := rankCentrality(rank)

	switch p {
	case board.Pawn:
		mg := rank*rank + centerFile*2
		eg := rank * rank * 2
		return interp(mg, eg, phase)
	case board.Knight:
		mg := (centerFile + centerRank) * 6
		eg := (centerFile + centerRank) * 4
		return interp(mg, eg, phase)
	case board.Bishop:
		mg := (centerFile + centerRank) * 4
		eg := (centerFile + centerRank) * 3
		return interp(mg, eg, phase)
	case board.Rook:
		mg := rank * 2
		eg := rank * 2
		return interp(mg, eg, phase)
	case board.Queen:
		mg := (centerFile + centerRank) * 2
		eg := (centerFile + centerRank) * 3
		return interp(mg, eg, phase)
	case board.King:
		mg := -((centerFile + centerRank) * 8) // favor the corners/edges while pieces remain
		eg := (centerFile + centerRank) * 10   // favor the center once material thins out
		return interp(mg, eg, phase)
	default:
		return 0
	}
}

// fileCentrality and rankCentrality return 0..3, highest for the central two files/ranks.
func fileCentrality(file int) int {
	d := file - 4
	if file <= 3 {
		d = 3 - file
	}
	return 3 - d
}

func rankCentrality(rank int) int {
	return fileCentrality(rank)
}

// materialAndPST returns the combined material + PST score from White's perspective, as the
// two independent sub-sums used by the w_material and w_pst genes.
func materialAndPST(pos *board.Position, phase int) (material, pstScore int) {
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for p := board.Pawn; p < board.NumPieces; p++ {
			bb := pos.Piece(c, p)
			for _, sq := range bb.ToSquares() {
				material += sign * materialValue(p)
				pstScore += sign * pst(p, c, sq, phase)
			}
		}
	}
	return material, pstScore
}
