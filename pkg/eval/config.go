package eval

import "math/rand"

// SearchConfig is the GA chromosome: an ordered tuple of named genes controlling both the
// Searcher's pruning behavior and the Evaluator's heuristic weighting. Values are always
// defined; crossover and mutation never produce a gene outside its documented range.
type SearchConfig struct {
	// Integer genes.
	SearchDepth       int `json:"search_depth"`        // 1..8
	NullMoveReduction int `json:"null_move_reduction"` // 2..4
	LMRThreshold      int `json:"lmr_threshold"`       // 2..6
	FutilityMargin    int `json:"futility_margin"`     // 0..500 cp

	// Boolean genes.
	EnableQuiescence  bool `json:"enable_quiescence"`
	EnableNMP         bool `json:"enable_nmp"`
	EnableLMR         bool `json:"enable_lmr"`
	EnableFutility    bool `json:"enable_futility"`
	EnableSEEOrdering bool `json:"enable_see_ordering"`
	EnableKiller      bool `json:"enable_killer"`
	EnableHistory     bool `json:"enable_history"`

	// Weight genes: unsigned percent, 0..400, default 100.
	WMaterial       int `json:"w_material"`
	WPST            int `json:"w_pst"`
	WMobility       int `json:"w_mobility"`
	WPawnStructure  int `json:"w_pawn_structure"`
	WKingSafety     int `json:"w_king_safety"`
	WPiecePlacement int `json:"w_piece_placement"`
	WDevelopment    int `json:"w_development"`
	WThreats        int `json:"w_threats"`
	WSpace          int `json:"w_space"`
	WTempo          int `json:"w_tempo"`
}

const (
	minSearchDepth, maxSearchDepth             = 1, 8
	minNullMoveReduction, maxNullMoveReduction = 2, 4
	minLMRThreshold, maxLMRThreshold           = 2, 6
	minFutilityMargin, maxFutilityMargin       = 0, 500
	minWeight, maxWeight                       = 0, 400
	defaultWeight                              = 100

	jitterLo = 0.8
	jitterHi = 1.2
)

// MutationRate is the per-gene mutation probability Mutate applies. It is one of the handful of
// GA knobs read once at process start (a -mutation-rate flag), not a compile-time constant.
var MutationRate = 0.1

// Default returns the conservative baseline chromosome: every pruning heuristic on, every
// weight nominal. Useful as a reference config and as a seed for hand-written tests.
func Default() SearchConfig {
	return SearchConfig{
		SearchDepth:       4,
		NullMoveReduction: 2,
		LMRThreshold:      3,
		FutilityMargin:    150,

		EnableQuiescence:  true,
		EnableNMP:         true,
		EnableLMR:         true,
		EnableFutility:    true,
		EnableSEEOrdering: true,
		EnableKiller:      true,
		EnableHistory:     true,

		WMaterial:       defaultWeight,
		WPST:            defaultWeight,
		WMobility:       defaultWeight,
		WPawnStructure:  defaultWeight,
		WKingSafety:     defaultWeight,
		WPiecePlacement: defaultWeight,
		WDevelopment:    defaultWeight,
		WThreats:        defaultWeight,
		WSpace:          defaultWeight,
		WTempo:          defaultWeight,
	}
}

// NewRandomConfig returns a freshly randomized chromosome, per the initial-population rule:
// booleans uniform, integers uniform in range, weights uniform in [50, 150].
func NewRandomConfig(r *rand.Rand) SearchConfig {
	return SearchConfig{
		SearchDepth:       minSearchDepth + r.Intn(maxSearchDepth-minSearchDepth+1),
		NullMoveReduction: minNullMoveReduction + r.Intn(maxNullMoveReduction-minNullMoveReduction+1),
		LMRThreshold:      minLMRThreshold + r.Intn(maxLMRThreshold-minLMRThreshold+1),
		FutilityMargin:    minFutilityMargin + r.Intn(maxFutilityMargin-minFutilityMargin+1),

		EnableQuiescence:  r.Intn(2) == 0,
		EnableNMP:         r.Intn(2) == 0,
		EnableLMR:         r.Intn(2) == 0,
		EnableFutility:    r.Intn(2) == 0,
		EnableSEEOrdering: r.Intn(2) == 0,
		EnableKiller:      r.Intn(2) == 0,
		EnableHistory:     r.Intn(2) == 0,

		WMaterial:       50 + r.Intn(101),
		WPST:            50 + r.Intn(101),
		WMobility:       50 + r.Intn(101),
		WPawnStructure:  50 + r.Intn(101),
		WKingSafety:     50 + r.Intn(101),
		WPiecePlacement: 50 + r.Intn(101),
		WDevelopment:    50 + r.Intn(101),
		WThreats:        50 + r.Intn(101),
		WSpace:          50 + r.Intn(101),
		WTempo:          50 + r.Intn(101),
	}
}

// intGene and boolGene give Crossover/Mutate a uniform way to walk every gene without
// reflection: each entry binds a gene's getter/setter pair plus, for numeric genes, its range.
type intGene struct {
	get      func(*SearchConfig) int
	set      func(*SearchConfig, int)
	min, max int
}

type boolGene struct {
	get func(*SearchConfig) bool
	set func(*SearchConfig, bool)
}

var intGenes = []intGene{
	{func(c *SearchConfig) int { return c.SearchDepth }, func(c *SearchConfig, v int) { c.SearchDepth = v }, minSearchDepth, maxSearchDepth},
	{func(c *SearchConfig) int { return c.NullMoveReduction }, func(c *SearchConfig, v int) { c.NullMoveReduction = v }, minNullMoveReduction, maxNullMoveReduction},
	{func(c *SearchConfig) int { return c.LMRThreshold }, func(c *SearchConfig, v int) { c.LMRThreshold = v }, minLMRThreshold, maxLMRThreshold},
	{func(c *SearchConfig) int { return c.FutilityMargin }, func(c *SearchConfig, v int) { c.FutilityMargin = v }, minFutilityMargin, maxFutilityMargin},

	{func(c *SearchConfig) int { return c.WMaterial }, func(c *SearchConfig, v int) { c.WMaterial = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WPST }, func(c *SearchConfig, v int) { c.WPST = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WMobility }, func(c *SearchConfig, v int) { c.WMobility = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WPawnStructure }, func(c *SearchConfig, v int) { c.WPawnStructure = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WKingSafety }, func(c *SearchConfig, v int) { c.WKingSafety = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WPiecePlacement }, func(c *SearchConfig, v int) { c.WPiecePlacement = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WDevelopment }, func(c *SearchConfig, v int) { c.WDevelopment = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WThreats }, func(c *SearchConfig, v int) { c.WThreats = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WSpace }, func(c *SearchConfig, v int) { c.WSpace = v }, minWeight, maxWeight},
	{func(c *SearchConfig) int { return c.WTempo }, func(c *SearchConfig, v int) { c.WTempo = v }, minWeight, maxWeight},
}

var boolGenes = []boolGene{
	{func(c *SearchConfig) bool { return c.EnableQuiescence }, func(c *SearchConfig, v bool) { c.EnableQuiescence = v }},
	{func(c *SearchConfig) bool { return c.EnableNMP }, func(c *SearchConfig, v bool) { c.EnableNMP = v }},
	{func(c *SearchConfig) bool { return c.EnableLMR }, func(c *SearchConfig, v bool) { c.EnableLMR = v }},
	{func(c *SearchConfig) bool { return c.EnableFutility }, func(c *SearchConfig, v bool) { c.EnableFutility = v }},
	{func(c *SearchConfig) bool { return c.EnableSEEOrdering }, func(c *SearchConfig, v bool) { c.EnableSEEOrdering = v }},
	{func(c *SearchConfig) bool { return c.EnableKiller }, func(c *SearchConfig, v bool) { c.EnableKiller = v }},
	{func(c *SearchConfig) bool { return c.EnableHistory }, func(c *SearchConfig, v bool) { c.EnableHistory = v }},
}

// Crossover produces an offspring chromosome via uniform (per-gene) crossover: each gene is
// taken from a or b with equal probability, independently.
func Crossover(a, b SearchConfig, r *rand.Rand) SearchConfig {
	var c SearchConfig
	for _, g := range intGenes {
		if r.Intn(2) == 0 {
			g.set(&c, g.get(&a))
		} else {
			g.set(&c, g.get(&b))
		}
	}
	for _, g := range boolGenes {
		if r.Intn(2) == 0 {
			g.set(&c, g.get(&a))
		} else {
			g.set(&c, g.get(&b))
		}
	}
	return c
}

// Mutate perturbs c in place: each gene independently mutates with probability MutationRate.
// Numeric genes are scaled by a U(0.8, 1.2) jitter and re-clamped; boolean genes are flipped.
func Mutate(c *SearchConfig, r *rand.Rand) {
	for _, g := range intGenes {
		if r.Float64() >= MutationRate {
			continue
		}
		jitter := jitterLo + r.Float64()*(jitterHi-jitterLo)
		v := int(float64(g.get(c))*jitter + 0.5)
		g.set(c, clamp(v, g.min, g.max))
	}
	for _, g := range boolGenes {
		if r.Float64() < MutationRate {
			g.set(c, !g.get(c))
		}
	}
}
