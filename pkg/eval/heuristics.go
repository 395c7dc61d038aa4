package eval

import "github.com/herohde/morlock-evolve/pkg/board"

// Each heuristic below returns a raw centipawn score from White's perspective: positive
// favors White. Evaluate combines them via the weighted sum in §4.2.

// pawnStructure scores doubled/isolated/backward/passed/chained/candidate pawns, per file.
func pawnStructure(pos *board.Position) int {
	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		own := pos.Piece(c, board.Pawn)
		opp := pos.Piece(c.Opponent(), board.Pawn)

		var filesCount [8]int
		for _, sq := range own.ToSquares() {
			filesCount[sq.File()]++
		}

		for _, sq := range own.ToSquares() {
			f := int(sq.File())

			if filesCount[f] > 1 {
				score += sign * -15
			}

			isolated := (f == 0 || filesCount[f-1] == 0) && (f == 7 || filesCount[f+1] == 0)
			if isolated {
				score += sign * -20
			} else if isBackward(pos, c, sq) {
				score += sign * -10
			}

			advance := rankAdvance(c, sq)
			if isPassed(pos, c, sq, opp) {
				score += sign * 20 * advance
			} else if isCandidatePasser(pos, c, sq, opp) {
				score += sign * 10
			}

			if isChained(own, c, sq) {
				score += sign * 6
			}
		}
	}
	return score
}

func rankAdvance(c board.Color, sq board.Square) int {
	if c == board.White {
		return int(sq.Rank())
	}
	return 7 - int(sq.Rank())
}

func isPassed(pos *board.Position, c board.Color, sq board.Square, oppPawns board.Bitboard) bool {
	f := int(sq.File())
	for df := -1; df <= 1; df++ {
		nf := f + df
		if nf < 0 || nf > 7 {
			continue
		}
		for _, osq := range oppPawns.ToSquares() {
			if int(osq.File()) != nf {
				continue
			}
			if c == board.White && int(osq.Rank()) > int(sq.Rank()) {
				return false
			}
			if c == board.Black && int(osq.Rank()) < int(sq.Rank()) {
				return false
			}
		}
	}
	return true
}

func isCandidatePasser(pos *board.Position, c board.Color, sq board.Square, oppPawns board.Bitboard) bool {
	f := int(sq.File())
	blockers := 0
	for _, osq := range oppPawns.ToSquares() {
		if int(osq.File()) == f || int(osq.File()) == f-1 || int(osq.File()) == f+1 {
			blockers++
		}
	}
	return blockers == 1
}

func isBackward(pos *board.Position, c board.Color, sq board.Square) bool {
	own := pos.Piece(c, board.Pawn)
	f, r := int(sq.File()), int(sq.Rank())
	for df := -1; df <= 1; df += 2 {
		nf := f + df
		if nf < 0 || nf > 7 {
			continue
		}
		for _, osq := range own.ToSquares() {
			if int(osq.File()) != nf {
				continue
			}
			if c == board.White && int(osq.Rank()) <= r {
				return false
			}
			if c == board.Black && int(osq.Rank()) >= r {
				return false
			}
		}
	}
	return true
}

func isChained(own board.Bitboard, c board.Color, sq board.Square) bool {
	defenders := board.PawnCaptureboard(c.Opponent(), board.BitMask(sq)) & own
	return defenders != 0
}

// mobility sums legal destination squares for non-pawn, non-king pieces, weighted by role,
// and subtracts the opponent's.
func mobility(pos *board.Position) int {
	weight := func(p board.Piece) int {
		switch p {
		case board.Knight:
			return 4
		case board.Bishop:
			return 5
		case board.Rook:
			return 2
		case board.Queen:
			return 1
		default:
			return 0
		}
	}

	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		own := pos.Color(c)
		for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
			for _, sq := range pos.Piece(c, p).ToSquares() {
				dest := board.Attackboard(pos.Rotated(), sq, p) &^ own
				score += sign * weight(p) * dest.PopCount()
			}
		}
	}
	return score
}

// kingSafety scores pawn shield, open files near the king, and enemy pressure in the king zone.
func kingSafety(pos *board.Position) int {
	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		king := pos.Piece(c, board.King)
		if king == 0 {
			continue
		}
		ksq := king.LastPopSquare()
		kf, kr := int(ksq.File()), int(ksq.Rank())

		shield := 0
		openFilePenalty := 0
		for df := -1; df <= 1; df++ {
			f := kf + df
			if f < 0 || f > 7 {
				continue
			}
			fileMask := board.BitFile(board.File(f))

			inFront := 1
			if c == board.White {
				inFront = kr + 1
			} else {
				inFront = kr - 1
			}
			if inFront >= 0 && inFront <= 7 && (pos.Piece(c, board.Pawn)&fileMask&board.BitRank(board.Rank(inFront))) != 0 {
				shield += 10
			}

			ownOnFile := pos.Piece(c, board.Pawn) & fileMask
			oppRooksQueens := pos.Piece(c.Opponent(), board.Rook) | pos.Piece(c.Opponent(), board.Queen)
			if oppRooksQueens&fileMask != 0 {
				oppOnFile := pos.Piece(c.Opponent(), board.Pawn) & fileMask
				switch {
				case ownOnFile == 0 && oppOnFile == 0:
					openFilePenalty += 50
				case ownOnFile == 0 || oppOnFile == 0:
					openFilePenalty += 25
				}
			}
		}

		pressure := 0
		zone := board.KingAttackboard(ksq) | board.BitMask(ksq)
		for _, sq := range zone.ToSquares() {
			if pos.IsAttacked(c, sq) {
				_, attackerRole := attackerWeightAt(pos, c, sq)
				pressure += attackerRole
			}
		}

		score += sign * (shield - openFilePenalty - pressure)
	}
	return score
}

func attackerWeightAt(pos *board.Position, defender board.Color, sq board.Square) (board.Piece, int) {
	opp := defender.Opponent()
	for _, p := range []board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight, board.Pawn} {
		bb := board.PawnCaptureboard(opp, pos.Piece(opp, board.Pawn)) & board.BitMask(sq)
		if p != board.Pawn {
			bb = board.Attackboard(pos.Rotated(), sq, p) & pos.Piece(opp, p)
		}
		if bb != 0 {
			switch p {
			case board.Queen:
				return p, 5
			case board.Rook:
				return p, 3
			case board.Bishop, board.Knight:
				return p, 2
			case board.Pawn:
				return p, 1
			}
		}
	}
	return board.NoPiece, 0
}

// piecePlacement scores rook files/ranks, the bishop pair, and knight outposts. Bishops
// blocked by their own pawns ("bad" bishops) are not scored.
func piecePlacement(pos *board.Position) int {
	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		own := pos.Piece(c, board.Pawn)
		opp := pos.Piece(c.Opponent(), board.Pawn)

		for _, sq := range pos.Piece(c, board.Rook).ToSquares() {
			f := sq.File()
			fileMask := board.BitFile(f)
			ownOnFile := own & fileMask
			oppOnFile := opp & fileMask
			switch {
			case ownOnFile == 0 && oppOnFile == 0:
				score += sign * 15
			case ownOnFile == 0:
				score += sign * 10
			}

			seventh := board.Rank7
			if c == board.Black {
				seventh = board.Rank2
			}
			if sq.Rank() == seventh {
				score += sign * 20
			}
		}

		if pos.Piece(c, board.Bishop).PopCount() >= 2 {
			score += sign * 30
		}

		for _, sq := range pos.Piece(c, board.Knight).ToSquares() {
			rank := rankAdvance(c, sq)
			if rank < 3 || rank > 5 {
				continue
			}
			defended := board.PawnCaptureboard(c.Opponent(), board.BitMask(sq))&own != 0
			attackable := board.PawnCaptureboard(c, board.BitMask(sq))&opp != 0
			if defended && !attackable {
				score += sign * 20
			}
		}
	}
	return score
}

// development rewards developed minors and penalizes early queen moves, but only matters
// while material remains high (phase > 200).
func development(pos *board.Position, phase int) int {
	if phase <= 200 {
		return 0
	}

	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		homeRank := board.Rank1
		if c == board.Black {
			homeRank = board.Rank8
		}
		homeMask := board.BitRank(homeRank)

		minorsOut := 0
		for _, p := range []board.Piece{board.Knight, board.Bishop} {
			for _, sq := range pos.Piece(c, p).ToSquares() {
				if !homeMask.IsSet(sq) {
					minorsOut++
				}
			}
		}
		score += sign * 10 * minorsOut

		knightsOnHome := pos.Piece(c, board.Knight) & homeMask
		if knightsOnHome.PopCount() > 0 {
			queen := pos.Piece(c, board.Queen)
			if queen != 0 && !homeMask.IsSet(queen.LastPopSquare()) {
				score += sign * -20
			}
		}
	}
	return score
}

// threats rewards attacking an undefended enemy piece with an attacker of equal or lesser value.
func threats(pos *board.Position) int {
	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		opp := c.Opponent()
		for p := board.Pawn; p < board.King; p++ {
			for _, sq := range pos.Piece(opp, p).ToSquares() {
				if !pos.IsAttacked(opp, sq) {
					continue
				}
				attacker := board.NoPiece
				for _, ap := range []board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen} {
					bb := board.PawnCaptureboard(c, pos.Piece(c, board.Pawn)) & board.BitMask(sq)
					if ap != board.Pawn {
						bb = board.Attackboard(pos.Rotated(), sq, ap) & pos.Piece(c, ap)
					}
					if bb != 0 {
						attacker = ap
						break
					}
				}
				if attacker == board.NoPiece {
					continue
				}
				if materialValue(attacker) > materialValue(p) {
					continue
				}
				defended := pos.IsAttacked(c, sq)
				if defended {
					continue
				}
				score += sign * materialValue(p) / 4
			}
		}
	}
	return score
}

// space counts squares on the opponent's half of the board (ranks 5-8 for White, 1-4 for
// Black) that the side controls with pawns but the opponent does not.
func space(pos *board.Position) int {
	score := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		var zone board.Bitboard
		if c == board.White {
			zone = board.BitRank(board.Rank5) | board.BitRank(board.Rank6) | board.BitRank(board.Rank7) | board.BitRank(board.Rank8)
		} else {
			zone = board.BitRank(board.Rank1) | board.BitRank(board.Rank2) | board.BitRank(board.Rank3) | board.BitRank(board.Rank4)
		}

		own := board.PawnCaptureboard(c, pos.Piece(c, board.Pawn)) & zone
		opp := board.PawnCaptureboard(c.Opponent(), pos.Piece(c.Opponent(), board.Pawn))

		count := (own &^ opp).PopCount()
		score += sign * 2 * count
	}
	return score
}

// tempo rewards the side to move.
func tempo(turn board.Color) int {
	if turn == board.White {
		return 10
	}
	return -10
}
