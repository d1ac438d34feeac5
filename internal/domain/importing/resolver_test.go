package importing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(name string) CandidateProduct {
	return CandidateProduct{ID: uuid.New(), Name: name}
}

func TestTokenSetScore(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		expect float64
	}{
		{"identical", "hex bolt m10", "hex bolt m10", 1.0},
		{"word order ignored", "bolt hex m10", "hex bolt m10", 1.0},
		{"no overlap", "hex bolt", "wood screw", 0.0},
		{"empty target", "", "hex bolt", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenSetScore(Tokenize(tt.a), Tokenize(tt.b))
			assert.InDelta(t, tt.expect, got, 1e-9)
		})
	}
}

func TestTokenSetScore_PartialOverlap(t *testing.T) {
	// "hex bolt" vs "hex bolt zinc": shared=2, union=3, smaller=2
	// jaccard=2/3, containment=1 -> 5/6
	got := TokenSetScore(Tokenize("hex bolt"), Tokenize("hex bolt zinc"))
	assert.InDelta(t, 5.0/6.0, got, 1e-9)
}

func TestResolve_SortsDescendingAndFiltersEligible(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())

	candidates := []CandidateProduct{
		candidate("Wood Screw 4x40"),
		candidate("Hex Bolt M10"),
		candidate("Hex Bolt M10 Zinc"),
	}

	res := resolver.Resolve(candidates, "Hex Bolt M10")
	require.Len(t, res.Matches, 3)
	assert.Equal(t, "Hex Bolt M10", res.Matches[0].Product.Name)
	assert.True(t, res.Matches[0].Score >= res.Matches[1].Score)
	assert.True(t, res.Matches[1].Score >= res.Matches[2].Score)

	for _, m := range res.Eligible {
		assert.GreaterOrEqual(t, m.Score, DefaultMinScore)
	}
}

func TestResolve_AmbiguityIsConservative(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())

	// Two candidates scoring identically against the target.
	res := resolver.Resolve([]CandidateProduct{
		candidate("Hex Bolt M10 Galvanized"),
		candidate("Hex Bolt M10 Stainless"),
	}, "Hex Bolt M10")

	require.Len(t, res.Eligible, 2)
	assert.True(t, res.Ambiguous)
	assert.Nil(t, res.Best(), "ambiguous results must not auto-select")
	assert.False(t, res.PotentialDuplicate())
}

func TestResolve_PotentialDuplicate(t *testing.T) {
	// Wide ambiguity band collapses everything; a narrow one separates
	// a clear winner from a plausible runner-up.
	resolver := NewResolver(ResolverConfig{MinScore: 0.4, AmbiguityBand: 0.01})

	res := resolver.Resolve([]CandidateProduct{
		candidate("Hex Bolt M10"),
		candidate("Hex Bolt M12 Zinc"),
	}, "Hex Bolt M10")

	require.Len(t, res.Eligible, 2)
	assert.False(t, res.Ambiguous)
	assert.True(t, res.PotentialDuplicate())
	require.NotNil(t, res.Best())
	assert.Equal(t, "Hex Bolt M10", res.Best().Product.Name)
}

func TestResolve_ThresholdsAreTunable(t *testing.T) {
	strict := NewResolver(ResolverConfig{MinScore: 0.99, AmbiguityBand: 0.001})

	res := strict.Resolve([]CandidateProduct{
		candidate("Hex Bolt M10 Zinc"),
	}, "Hex Bolt M10")

	assert.Empty(t, res.Eligible)
	assert.Nil(t, res.Best())
}

func TestResolve_NoCandidates(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	res := resolver.Resolve(nil, "Hex Bolt M10")
	assert.Empty(t, res.Matches)
	assert.Empty(t, res.Eligible)
	assert.False(t, res.Ambiguous)
}
