package eval_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/herohde/morlock-evolve/pkg/board/fen"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mirrorFEN flips a FEN (with no castling rights or en passant target) vertically and swaps
// the color of every piece and the side to move, producing the "opposite" position.
func mirrorFEN(f string) string {
	parts := strings.Split(f, " ")
	ranks := strings.Split(parts[0], "/")

	mirrored := make([]string, len(ranks))
	for i, r := range ranks {
		var sb strings.Builder
		for _, ch := range r {
			if unicode.IsLetter(ch) {
				if unicode.IsUpper(ch) {
					sb.WriteRune(unicode.ToLower(ch))
				} else {
					sb.WriteRune(unicode.ToUpper(ch))
				}
			} else {
				sb.WriteRune(ch)
			}
		}
		mirrored[len(ranks)-1-i] = sb.String()
	}

	turn := "b"
	if parts[1] == "b" {
		turn = "w"
	}

	return strings.Join(mirrored, "/") + " " + turn + " - - " + parts[4] + " " + parts[5]
}

func TestEvaluateMirrorInvariant(t *testing.T) {
	cfg := eval.Default()

	positions := []string{
		"8/5k2/8/3P4/8/2N5/5K2/8 w - - 0 1",
		"r3k3/pp3ppp/8/8/8/8/PP3PPP/R3K3 w - - 0 1",
		"4k3/4p3/8/8/8/8/4P3/4K3 w - - 0 1",
	}

	for _, f := range positions {
		pos, turn, _, _, err := fen.Decode(f)
		require.NoError(t, err)

		mpos, mturn, _, _, err := fen.Decode(mirrorFEN(f))
		require.NoError(t, err)

		assert.Equal(t, eval.Evaluate(pos, turn, cfg), eval.Evaluate(mpos, mturn, cfg), "fen=%v", f)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := eval.Default()
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	first := eval.Evaluate(pos, turn, cfg)
	second := eval.Evaluate(pos, turn, cfg)
	assert.Equal(t, first, second)
}

func TestEvaluateTempoFavorsSideToMove(t *testing.T) {
	cfg := eval.Default()
	pos, white, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// Evaluate scores from the side to move's view; negate Black's to compare both from White's.
	assert.Greater(t, eval.Evaluate(pos, white, cfg), -eval.Evaluate(pos, white.Opponent(), cfg))
}
