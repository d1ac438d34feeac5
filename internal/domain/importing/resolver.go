package importing

import (
	"sort"

	"github.com/google/uuid"
)

// Resolver defaults. Tunable via config, parameterized in tests.
const (
	DefaultMinScore      = 0.55
	DefaultAmbiguityBand = 0.08
)

// ResolverConfig carries the fuzzy-matching thresholds
type ResolverConfig struct {
	// MinScore is the minimum acceptance score for a candidate to be eligible
	MinScore float64
	// AmbiguityBand is the closeness band: two candidates scoring within
	// this distance of each other at the top are too close to auto-pick
	AmbiguityBand float64
}

// DefaultResolverConfig returns the default thresholds
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MinScore:      DefaultMinScore,
		AmbiguityBand: DefaultAmbiguityBand,
	}
}

// CandidateProduct is an existing catalog product considered as a merge target
type CandidateProduct struct {
	ID   uuid.UUID
	Name string
}

// Match is one scored candidate
type Match struct {
	Product CandidateProduct
	Score   float64
}

// Resolution is the resolver's verdict for one target name
type Resolution struct {
	// Matches holds every candidate, sorted descending by score
	Matches []Match
	// Eligible holds the candidates at or above the acceptance score
	Eligible []Match
	// Ambiguous is true when the two best candidates are too close to
	// auto-select; the caller must not silently pick one
	Ambiguous bool
}

// PotentialDuplicate reports the case where one match is clearly closest
// but more than one plausible duplicate exists in the catalog
func (r Resolution) PotentialDuplicate() bool {
	return len(r.Eligible) > 1 && !r.Ambiguous
}

// Best returns the top eligible candidate, or nil when there is none or
// the result is ambiguous
func (r Resolution) Best() *Match {
	if r.Ambiguous || len(r.Eligible) == 0 {
		return nil
	}
	return &r.Eligible[0]
}

// Resolver scores candidate products against a target base name. It
// never mutates the catalog; it only informs the override UI and the
// commit engine's create-or-update decision.
type Resolver struct {
	cfg ResolverConfig
}

// NewResolver creates a resolver with the given thresholds
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultMinScore
	}
	if cfg.AmbiguityBand <= 0 {
		cfg.AmbiguityBand = DefaultAmbiguityBand
	}
	return &Resolver{cfg: cfg}
}

// Resolve scores every candidate's name against the target base name.
// Candidates are expected to already be restricted to the same category.
func (r *Resolver) Resolve(candidates []CandidateProduct, targetBaseName string) Resolution {
	target := Tokenize(targetBaseName)

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		matches = append(matches, Match{
			Product: candidate,
			Score:   TokenSetScore(target, Tokenize(candidate.Name)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Product.Name < matches[j].Product.Name
	})

	resolution := Resolution{Matches: matches}
	for _, m := range matches {
		if m.Score >= r.cfg.MinScore {
			resolution.Eligible = append(resolution.Eligible, m)
		}
	}

	if len(resolution.Eligible) >= 2 {
		top, next := resolution.Eligible[0], resolution.Eligible[1]
		if top.Score-next.Score <= r.cfg.AmbiguityBand {
			resolution.Ambiguous = true
		}
	}

	return resolution
}

// TokenSetScore scores two token sets in [0,1], tolerant of word order
// and partial overlap: the mean of Jaccard similarity and containment
// (shared tokens over the smaller set).
func TokenSetScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}

	union := len(a) + len(b) - shared
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}

	jaccard := float64(shared) / float64(union)
	containment := float64(shared) / float64(smaller)
	return (jaccard + containment) / 2
}
