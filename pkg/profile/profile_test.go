package profile

import (
	"math"
	"testing"

	"github.com/stylemetry/engine/pkg/behavior"
	"github.com/stylemetry/engine/pkg/semantic"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

func successfulMetrics() *behavior.Metrics {
	return &behavior.Metrics{
		Clustering: behavior.ClusteringBehavior{
			Success:      true,
			ClusterCount: 3,
			AverageSize:  2.5,
			SizeVariance: 0.25,
			Organization: behavior.OrganizationGood,
		},
		Distance: behavior.DistancePatterns{
			Success:             true,
			AverageSimilarity:   0.7,
			SimilarityVariance:  0.04,
			HighSimilarityRatio: 0.5,
			SemanticSpan:        behavior.SpanTight,
			SemanticSpanCode:    behavior.SpanCodeTight,
			ConceptDistribution: behavior.DistributionEven,
			ClusteringTendency:  behavior.TendencyStrong,
		},
		Novelty: behavior.NoveltyAnalysis{
			Success:           true,
			AverageNovelty:    4.2,
			HighNoveltyCount:  2,
			CreativityDensity: 0.4,
			Candidates:        make([]behavior.NoveltyCandidate, 5),
		},
		Emotion: behavior.EmotionalBehavior{
			Success:          true,
			PositiveCount:    3,
			NegativeCount:    1,
			EmotionalRatio:   0.8,
			AverageIntensity: 4.5,
			Expressiveness:   behavior.ExpressivenessHigh,
			Balance:          behavior.BalanceSkewed,
		},
	}
}

func fullInput() Input {
	return Input{
		DocumentName: "essay",
		Units: &semantic.UnitSet{
			Concepts: make([]semantic.Concept, 10),
		},
		Encoded: &vectorspace.EncodeResult{
			Stats: vectorspace.EncodeStats{
				TotalVectors:  12,
				Norms:         map[string]float64{"a": 1, "b": 1},
				VectorDensity: 1.2,
			},
		},
		Metrics: successfulMetrics(),
	}
}

func TestComputeScores_Formulas(t *testing.T) {
	scores := computeScores(fullInput())

	// 3 clusters * 2.5 avg size / 3
	if math.Abs(scores[DimConceptualOrganization]-2.5) > 1e-9 {
		t.Fatalf("unexpected conceptual organization: %f", scores[DimConceptualOrganization])
	}
	// 0.7 * 5
	if math.Abs(scores[DimSemanticCoherence]-3.5) > 1e-9 {
		t.Fatalf("unexpected semantic coherence: %f", scores[DimSemanticCoherence])
	}
	if math.Abs(scores[DimCreativeAssociation]-4.2) > 1e-9 {
		t.Fatalf("unexpected creative association: %f", scores[DimCreativeAssociation])
	}
	if math.Abs(scores[DimEmotionalExpression]-4.5) > 1e-9 {
		t.Fatalf("unexpected emotional expression: %f", scores[DimEmotionalExpression])
	}
	// 10/5 + 1.2/2
	if math.Abs(scores[DimCognitiveComplexity]-2.6) > 1e-9 {
		t.Fatalf("unexpected cognitive complexity: %f", scores[DimCognitiveComplexity])
	}
	// 5 - tight span code 1
	if math.Abs(scores[DimThematicFocus]-4.0) > 1e-9 {
		t.Fatalf("unexpected thematic focus: %f", scores[DimThematicFocus])
	}
}

func TestComputeScores_DefaultsOnMissingInputs(t *testing.T) {
	scores := computeScores(Input{})
	for _, dim := range Dimensions {
		if scores[dim] != 3.0 {
			t.Fatalf("expected neutral default for %s, got %f", dim, scores[dim])
		}
	}
}

func TestComputeScores_Clamping(t *testing.T) {
	in := fullInput()
	in.Metrics.Clustering.ClusterCount = 50
	in.Metrics.Clustering.AverageSize = 10

	scores := computeScores(in)
	if scores[DimConceptualOrganization] != 5.0 {
		t.Fatalf("expected clamp to 5, got %f", scores[DimConceptualOrganization])
	}
}

func TestIntegrateFeatures_ZeroFillsFailedCategories(t *testing.T) {
	in := fullInput()
	in.Metrics.Novelty = behavior.NoveltyAnalysis{Success: false, Error: "boom"}

	features := integrateFeatures(in)
	if len(features) != len(featureCategories) {
		t.Fatalf("expected %d categories, got %d", len(featureCategories), len(features))
	}
	for _, v := range features[CategoryNovelty] {
		if v != 0 {
			t.Fatalf("expected zero-filled novelty features, got %v", features[CategoryNovelty])
		}
	}

	vec := flattenFeatures(features)
	if len(vec) != len(featureCategories)*featureArity {
		t.Fatalf("expected stable vector arity, got %d", len(vec))
	}
}

func TestBuild_ProfileShape(t *testing.T) {
	p := Build(fullInput())

	if p.ProfileID == "" {
		t.Fatal("expected profile id")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
	if len(p.FeatureVector) != len(featureCategories)*featureArity {
		t.Fatalf("unexpected feature vector length %d", len(p.FeatureVector))
	}
	for _, dim := range Dimensions {
		s := p.StyleScores[dim]
		if s < 1 || s > 5 {
			t.Fatalf("score %s out of range: %f", dim, s)
		}
	}
	if p.BehavioralIndicators.Organization != behavior.OrganizationGood {
		t.Fatalf("expected organization indicator carried over, got %q", p.BehavioralIndicators.Organization)
	}
	if p.Summary == "" {
		t.Fatal("expected profile summary")
	}
	if p.Comparative.FeatureNorm <= 0 {
		t.Fatalf("expected positive feature norm, got %f", p.Comparative.FeatureNorm)
	}
}

func TestClassify_PrimaryAndSecondary(t *testing.T) {
	scores := map[string]float64{
		DimConceptualOrganization: 4.8,
		DimSemanticCoherence:      3.9,
		DimCreativeAssociation:    3.0,
		DimEmotionalExpression:    2.0,
		DimCognitiveComplexity:    4.2,
		DimThematicFocus:          3.4,
	}

	cls := classify(scores)
	if cls.PrimaryStyle != "系统性思维型" {
		t.Fatalf("expected 系统性思维型 primary, got %q", cls.PrimaryStyle)
	}
	// cognitive (4.2) before coherence (3.9)
	if len(cls.SecondaryStyles) != 2 || cls.SecondaryStyles[0] != "复杂思辨型" || cls.SecondaryStyles[1] != "逻辑连贯型" {
		t.Fatalf("unexpected secondary styles: %v", cls.SecondaryStyles)
	}
	// dimensions above 4.0 contribute characteristics
	if len(cls.Characteristics) != 2 {
		t.Fatalf("unexpected characteristics: %v", cls.Characteristics)
	}
}

func TestClassify_NeutralScoresStayDeterministic(t *testing.T) {
	scores := map[string]float64{}
	for _, dim := range Dimensions {
		scores[dim] = 3.0
	}

	cls := classify(scores)
	if cls.PrimaryStyle != "系统性思维型" {
		t.Fatalf("expected tie to resolve to first dimension, got %q", cls.PrimaryStyle)
	}
	if len(cls.SecondaryStyles) != 0 || len(cls.Characteristics) != 0 {
		t.Fatalf("expected no secondaries or characteristics, got %+v", cls)
	}
}

func TestCompare_SelfComparison(t *testing.T) {
	p := Build(fullInput())

	cmp := Compare(p, p)
	if !cmp.SimilarityComputed {
		t.Fatal("expected similarity to be computed")
	}
	if math.Abs(cmp.SimilarityScore-1.0) > 1e-9 {
		t.Fatalf("expected self-similarity 1.0, got %f", cmp.SimilarityScore)
	}
	for _, d := range cmp.Dimensions {
		if d.Difference != 0 || math.Abs(d.Similarity-1.0) > 1e-9 {
			t.Fatalf("expected zero difference on %s, got %+v", d.Dimension, d)
		}
	}
	if cmp.Compatibility != CompatibilityHigh {
		t.Fatalf("expected 高度兼容, got %q", cmp.Compatibility)
	}
}

func TestCompare_EmptyProfilesSelfCompare(t *testing.T) {
	a := Build(Input{DocumentName: "empty"})

	cmp := Compare(a, a)
	if math.Abs(cmp.SimilarityScore-1.0) > 1e-9 {
		t.Fatalf("expected zero-vector self-similarity 1.0, got %f", cmp.SimilarityScore)
	}
	if cmp.Compatibility != CompatibilityHigh {
		t.Fatalf("expected 高度兼容, got %q", cmp.Compatibility)
	}
}

func TestCompare_NilProfiles(t *testing.T) {
	p := Build(fullInput())

	for name, cmp := range map[string]Comparison{
		"nil a":    Compare(nil, p),
		"nil b":    Compare(p, nil),
		"both nil": Compare(nil, nil),
	} {
		if cmp.SimilarityComputed {
			t.Fatalf("%s: expected no similarity for nil input", name)
		}
		if len(cmp.Dimensions) != 0 {
			t.Fatalf("%s: expected no dimension comparisons, got %v", name, cmp.Dimensions)
		}
		if cmp.ComparedAt.IsZero() {
			t.Fatalf("%s: expected comparison timestamp", name)
		}
	}
}

func TestCompare_DivergentProfiles(t *testing.T) {
	a := Build(fullInput())
	b := Build(Input{DocumentName: "other"})

	cmp := Compare(a, b)
	if len(cmp.Dimensions) != len(Dimensions) {
		t.Fatalf("expected %d dimension comparisons, got %d", len(Dimensions), len(cmp.Dimensions))
	}
	if len(cmp.MostSimilar) != 2 || len(cmp.MostDifferent) != 2 {
		t.Fatalf("expected 2 most-similar and 2 most-different dimensions, got %v / %v",
			cmp.MostSimilar, cmp.MostDifferent)
	}
	if cmp.MeanSimilarity < 0 || cmp.MeanSimilarity > 1 {
		t.Fatalf("expected mean similarity in [0,1], got %f", cmp.MeanSimilarity)
	}
	for _, d := range cmp.Dimensions {
		want := 1 - d.Difference/4
		if math.Abs(d.Similarity-want) > 1e-9 {
			t.Fatalf("dimension %s similarity mismatch: %+v", d.Dimension, d)
		}
	}
}

func TestComparativeMetrics_DistinctivenessCapped(t *testing.T) {
	scores := map[string]float64{
		DimConceptualOrganization: 5,
		DimSemanticCoherence:      1,
		DimCreativeAssociation:    5,
		DimEmotionalExpression:    1,
		DimCognitiveComplexity:    5,
		DimThematicFocus:          1,
	}

	m := comparativeMetrics([]float64{1, 2}, scores)
	if m.Distinctiveness != 1.0 {
		t.Fatalf("expected distinctiveness capped at 1.0, got %f", m.Distinctiveness)
	}
	if math.Abs(m.ScoreMean-3.0) > 1e-9 {
		t.Fatalf("expected mean 3.0, got %f", m.ScoreMean)
	}
	// 3 of 6 dimensions above the characteristic bar
	if math.Abs(m.Complexity-0.5) > 1e-9 {
		t.Fatalf("expected complexity 0.5, got %f", m.Complexity)
	}
}
