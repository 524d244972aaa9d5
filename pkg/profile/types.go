package profile

import "time"

// Style score dimension names. Dimensions is the canonical ordering used for
// feature vectors, classification and comparison.
const (
	DimConceptualOrganization = "conceptual_organization"
	DimSemanticCoherence      = "semantic_coherence"
	DimCreativeAssociation    = "creative_association"
	DimEmotionalExpression    = "emotional_expression"
	DimCognitiveComplexity    = "cognitive_complexity"
	DimThematicFocus          = "thematic_focus"
)

// Dimensions lists the six style score dimensions in canonical order.
var Dimensions = []string{
	DimConceptualOrganization,
	DimSemanticCoherence,
	DimCreativeAssociation,
	DimEmotionalExpression,
	DimCognitiveComplexity,
	DimThematicFocus,
}

// Feature categories, in the order they are concatenated into the feature
// vector. Each category contributes exactly featureArity values; missing
// categories are zero-filled so the vector length is stable across runs.
const (
	CategoryClustering = "clustering"
	CategoryDistance   = "distance"
	CategoryNovelty    = "novelty"
	CategoryEmotional  = "emotional"
	CategoryVector     = "vector"
	CategoryEvaluator  = "evaluator"
)

var featureCategories = []string{
	CategoryClustering,
	CategoryDistance,
	CategoryNovelty,
	CategoryEmotional,
	CategoryVector,
	CategoryEvaluator,
}

const featureArity = 3

// styleNames maps each dimension to its style classification name.
var styleNames = map[string]string{
	DimConceptualOrganization: "系统性思维型",
	DimSemanticCoherence:      "逻辑连贯型",
	DimCreativeAssociation:    "创造性思维型",
	DimEmotionalExpression:    "情感表达型",
	DimCognitiveComplexity:    "复杂思辨型",
	DimThematicFocus:          "主题聚焦型",
}

// characteristicLabels holds the qualitative label attached when a dimension
// scores above the characteristic bar.
var characteristicLabels = map[string]string{
	DimConceptualOrganization: "概念组织严密",
	DimSemanticCoherence:      "语义连贯性强",
	DimCreativeAssociation:    "联想新颖独特",
	DimEmotionalExpression:    "情感表达丰富",
	DimCognitiveComplexity:    "思维层次复杂",
	DimThematicFocus:          "主题高度聚焦",
}

// StyleName returns the classification name for a dimension.
func StyleName(dimension string) string {
	return styleNames[dimension]
}

// Classification is the profile's style category assignment.
type Classification struct {
	PrimaryStyle    string   `json:"primary_style"`
	SecondaryStyles []string `json:"secondary_styles"`
	Characteristics []string `json:"characteristics"`
}

// ComparativeMetrics are scalar measures positioning a profile relative to
// other profiles.
type ComparativeMetrics struct {
	FeatureNorm   float64 `json:"feature_norm"`
	ScoreMean     float64 `json:"score_mean"`
	ScoreVariance float64 `json:"score_variance"`
	// Distinctiveness is derived from score variance, capped at 1.0.
	Distinctiveness float64 `json:"distinctiveness"`
	// Complexity is the fraction of dimensions above the characteristic bar.
	Complexity float64 `json:"complexity"`
}

// BehavioralIndicators carries the categorical indicators forward from the
// behavior stage so a stored profile remains self-describing.
type BehavioralIndicators struct {
	Organization        string `json:"organization,omitempty"`
	SemanticSpan        string `json:"semantic_span,omitempty"`
	ConceptDistribution string `json:"concept_distribution,omitempty"`
	ClusteringTendency  string `json:"clustering_tendency,omitempty"`
	Expressiveness      string `json:"expressiveness,omitempty"`
	EmotionalBalance    string `json:"emotional_balance,omitempty"`
}

// StyleProfile is the final fused, comparable description of one document's
// semantic style. Profiles are immutable once created; comparisons produce a
// separate Comparison record.
type StyleProfile struct {
	ProfileID    string    `json:"profile_id"`
	DocumentName string    `json:"document_name"`
	CreatedAt    time.Time `json:"created_at"`

	// IntegratedFeatures keeps the per-category raw features; FeatureVector
	// is their concatenation in canonical category order. The vector is
	// deliberately NOT standardized: single-profile standardization
	// collapses the signal, so raw values are persisted and any population
	// normalization happens against an explicit corpus later.
	IntegratedFeatures map[string][]float64 `json:"integrated_features"`
	FeatureVector      []float64            `json:"feature_vector"`

	// StyleScores holds the six dimensions, each clamped to [1,5] with 3.0
	// substituted for any dimension whose inputs failed upstream.
	StyleScores map[string]float64 `json:"style_scores"`

	BehavioralIndicators BehavioralIndicators `json:"behavioral_indicators"`
	Classification       Classification       `json:"style_classification"`
	Comparative          ComparativeMetrics   `json:"comparative_metrics"`

	Summary string `json:"profile_summary"`
}

// DimensionComparison is the per-dimension outcome of comparing two profiles.
type DimensionComparison struct {
	Dimension  string  `json:"dimension"`
	ScoreA     float64 `json:"score_a"`
	ScoreB     float64 `json:"score_b"`
	Difference float64 `json:"difference"`
	Similarity float64 `json:"similarity"`
}

// Comparison is the record produced by comparing two profiles. It references
// the originals by ID and never mutates them.
type Comparison struct {
	ProfileA   string    `json:"profile_a"`
	ProfileB   string    `json:"profile_b"`
	ComparedAt time.Time `json:"compared_at"`

	// SimilarityScore is the cosine similarity of the raw feature vectors.
	// It is only computed when both vectors have the same length.
	SimilarityScore    float64 `json:"similarity_score"`
	SimilarityComputed bool    `json:"similarity_computed"`

	Dimensions     []DimensionComparison `json:"dimensions"`
	MeanSimilarity float64               `json:"mean_similarity"`
	Compatibility  string                `json:"compatibility"`

	MostSimilar   []string `json:"most_similar"`
	MostDifferent []string `json:"most_different"`
}
