package board

import "sort"

// nominalValue gives the static material value, in centipawns, used purely to order and
// terminate a static exchange sequence. It intentionally ignores positional factors.
func nominalValue(p Piece) int {
	switch p {
	case Pawn:
		return 100
	case Knight:
		return 320
	case Bishop:
		return 330
	case Rook:
		return 500
	case Queen:
		return 900
	case King:
		return 20000
	default:
		return 0
	}
}

// pin represents a pinned piece: Pinned cannot move off the Attacker-Target line without
// exposing Target (a King or Queen) to Attacker.
type pin struct {
	Attacker, Pinned, Target Square
}

// pins maps a pinned square to the attacker(s) of the piece it shields.
type pins map[Square][]Square

func findPinsOn(pos *Position, side Color, target Piece) []pin {
	var ret []pin

	bb := pos.Piece(side, target)
	for bb != 0 {
		sq := bb.LastPopSquare()
		bb ^= BitMask(sq)

		rooks := RookAttackboard(pos.Rotated(), sq)
		candidates := rooks & pos.Color(side)
		for c := candidates; c != 0; {
			pinned := c.LastPopSquare()
			c ^= BitMask(pinned)

			attackers := pos.Piece(side.Opponent(), Queen) | pos.Piece(side.Opponent(), Rook)
			behind := (RookAttackboard(pos.Rotated().Xor(pinned), sq) &^ rooks) & attackers
			if behind != 0 {
				ret = append(ret, pin{Attacker: behind.LastPopSquare(), Pinned: pinned, Target: sq})
			}
		}

		bishops := BishopAttackboard(pos.Rotated(), sq)
		candidates = bishops & pos.Color(side)
		for c := candidates; c != 0; {
			pinned := c.LastPopSquare()
			c ^= BitMask(pinned)

			attackers := pos.Piece(side.Opponent(), Queen) | pos.Piece(side.Opponent(), Bishop)
			behind := (BishopAttackboard(pos.Rotated().Xor(pinned), sq) &^ bishops) & attackers
			if behind != 0 {
				ret = append(ret, pin{Attacker: behind.LastPopSquare(), Pinned: pinned, Target: sq})
			}
		}
	}
	return ret
}

// findKingQueenPins returns all pins against either side's King or Queen, since both can be
// the fulcrum of a pin that restricts an exchange participant.
func findKingQueenPins(pos *Position) pins {
	ret := pins{}
	for side := ZeroColor; side < NumColors; side++ {
		for _, piece := range KingQueen {
			for _, pn := range findPinsOn(pos, side, piece) {
				ret[pn.Pinned] = append(ret[pn.Pinned], pn.Attacker)
			}
		}
	}
	return ret
}

// attacker represents a participant in a static exchange on some square, with any piece
// stacked behind it (an X-ray attacker revealed once this attacker moves).
type attacker struct {
	Color  Color
	Piece  Piece
	Square Square
	Behind *attacker
}

// findAttackers returns every direct and indirect (X-ray) attacker of sq, skipping attackers
// that are pinned away from the sq/attacker line.
func findAttackers(pos *Position, ps pins, sq Square) []*attacker {
	var ret []*attacker

	for _, piece := range KingQueenRookKnightBishop {
		board := Attackboard(pos.Rotated(), sq, piece)
		for side := ZeroColor; side < NumColors; side++ {
			bb := board & pos.Piece(side, piece)
			for bb != 0 {
				from := bb.LastPopSquare()
				bb ^= BitMask(from)

				if a, ok := addAttackerStack(pos, pos.Rotated(), ps, side, piece, from, sq); ok {
					ret = append(ret, a)
				}
			}
		}
	}

	for side := ZeroColor; side < NumColors; side++ {
		bb := PawnCaptureboard(side.Opponent(), BitMask(sq)) & pos.Piece(side, Pawn)
		for bb != 0 {
			from := bb.LastPopSquare()
			bb ^= BitMask(from)

			if a, ok := addAttackerStack(pos, pos.Rotated(), ps, side, Pawn, from, sq); ok {
				ret = append(ret, a)
			}
		}
	}

	return ret
}

func addAttackerStack(pos *Position, r RotatedBitboard, ps pins, side Color, piece Piece, from, target Square) (*attacker, bool) {
	if list := ps[from]; len(list) > 1 || (len(list) == 1 && list[0] != target) {
		return nil, false // pinned off the attack line
	}

	ret := &attacker{Color: side, Piece: piece, Square: from}
	if piece == King {
		return ret, true
	}

	next := r.Xor(from)

	var bb Bitboard
	switch {
	case IsSameRankOrFile(from, target):
		revealed := RookAttackboard(next, target) &^ RookAttackboard(r, target)
		bb = revealed & (pos.Piece(side, Queen) | pos.Piece(side, Rook))
	case IsSameDiagonal(from, target):
		revealed := BishopAttackboard(next, target) &^ BishopAttackboard(r, target)
		bb = revealed & (pos.Piece(side, Queen) | pos.Piece(side, Bishop))
	}

	if bb != 0 {
		xrayFrom := bb.LastPopSquare()
		_, xrayPiece, _ := pos.Square(xrayFrom)
		ret.Behind, _ = addAttackerStack(pos, next, ps, side, xrayPiece, xrayFrom, target)
	}

	return ret, true
}

func sideOf(all []*attacker, side Color) []*attacker {
	var ret []*attacker
	for _, a := range all {
		if a.Color == side {
			ret = append(ret, a)
		}
	}

	less := func(list []*attacker) func(i, j int) bool {
		return func(i, j int) bool { return nominalValue(list[i].Piece) < nominalValue(list[j].Piece) }
	}
	sort.SliceStable(ret, less(ret))
	for i := 0; i < len(ret); i++ {
		if ret[i].Behind == nil {
			continue
		}
		ret = append(ret, ret[i].Behind)
		sort.SliceStable(ret[i+1:], less(ret[i+1:]))
	}
	return ret
}

// StaticExchangeEval computes the net material gain, in centipawns, of playing the given
// capture from the perspective of the side making it, assuming both sides play the locally
// optimal sequence of recaptures on the destination square. Non-captures evaluate to 0.
func (p *Position) StaticExchangeEval(m Move) int {
	if !m.IsCapture() {
		return 0
	}

	side, _, ok := p.Square(m.From)
	if !ok {
		return 0
	}

	next, ok := p.Move(m)
	if !ok {
		return 0
	}

	target := m.Piece
	if m.IsPromotion() {
		target = m.Promotion
	}

	ps := findKingQueenPins(next)
	all := findAttackers(next, ps, m.To)

	whiteQ := sideOf(all, White)
	blackQ := sideOf(all, Black)

	return nominalValue(m.Capture) - see(whiteQ, blackQ, 0, 0, side.Opponent(), target)
}

// see recursively resolves the exchange on a single square: each side always recaptures with
// its next-cheapest remaining attacker (tracked via iw/ib, since the queues were precomputed
// in ascending value order with X-ray attackers already flattened into place), and a side
// "stands pat" (declines to recapture) whenever doing so would lose material.
func see(whiteQ, blackQ []*attacker, iw, ib int, side Color, occupant Piece) int {
	q, i := whiteQ, iw
	if side == Black {
		q, i = blackQ, ib
	}
	if i >= len(q) {
		return 0
	}

	niw, nib := iw, ib
	if side == White {
		niw++
	} else {
		nib++
	}

	gain := nominalValue(occupant) - see(whiteQ, blackQ, niw, nib, side.Opponent(), q[i].Piece)
	if gain < 0 {
		return 0
	}
	return gain
}
