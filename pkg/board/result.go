package board

import "fmt"

// Outcome represents the decided side of a finished game, if any.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Reason is the termination reason behind a Result.
type Reason uint8

const (
	None Reason = iota
	Checkmate
	Stalemate
	FiftyMove
	Threefold
	InsufficientMaterial
	MoveCap
)

func (r Reason) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMove:
		return "fifty_move"
	case Threefold:
		return "threefold"
	case InsufficientMaterial:
		return "insufficient_material"
	case MoveCap:
		return "move_cap"
	default:
		return "none"
	}
}

// Result represents the result of a game, if any, along with why.
type Result struct {
	Outcome Outcome
	Reason  Reason
}

// IsDecided returns true iff the game has concluded.
func (r Result) IsDecided() bool {
	return r.Outcome != Undecided
}

// Loss returns the Outcome in which the given color has lost, i.e., the opponent wins.
func Loss(c Color) Outcome {
	if c == White {
		return BlackWins
	}
	return WhiteWins
}

func (r Result) String() string {
	if r.Reason == None {
		return r.Outcome.String()
	}
	return fmt.Sprintf("%v (%v)", r.Outcome, r.Reason)
}
