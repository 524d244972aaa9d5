package behavior

// Categorical indicator labels. These are fixed vocabulary shared with the
// profile builder and downstream consumers.
const (
	OrganizationGood   = "良好"
	OrganizationFair   = "一般"
	OrganizationSimple = "简单"

	SpanTight     = "紧密"
	SpanModerate  = "适中"
	SpanScattered = "分散"

	DistributionEven     = "均匀"
	DistributionModerate = "适中"
	DistributionUneven   = "不均匀"

	TendencyStrong   = "强"
	TendencyModerate = "中等"
	TendencyWeak     = "弱"

	ExpressivenessHigh   = "高"
	ExpressivenessMedium = "中等"
	ExpressivenessLow    = "低"

	BalanceBalanced = "平衡"
	BalanceSkewed   = "偏向性"
	BalancePositive = "积极倾向"
	BalanceNegative = "消极倾向"
	BalanceNeutral  = "中性"
)

// Span codes pair each semantic span label with its ordinal used by the
// profile builder's thematic focus score.
const (
	SpanCodeTight     = 1
	SpanCodeModerate  = 2
	SpanCodeScattered = 3
)

// DistanceStats summarizes member-to-center distances inside clusters.
type DistanceStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ClusterTheme is the evaluator's qualitative reading of one cluster.
type ClusterTheme struct {
	ClusterID      int    `json:"cluster_id"`
	Theme          string `json:"theme"`
	Interpretation string `json:"interpretation"`
	Coherence      int    `json:"coherence"` // 1-5
}

// ClusteringBehavior captures quantitative clustering metrics plus the
// categorical conceptual-organization indicator.
type ClusteringBehavior struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	ClusterCount         int           `json:"cluster_count"`
	AverageSize          float64       `json:"average_size"`
	SizeVariance         float64       `json:"size_variance"`
	IntraClusterDistance DistanceStats `json:"intra_cluster_distance"`
	Inertia              float64       `json:"inertia"`

	Organization string         `json:"organization"` // 良好 | 一般 | 简单
	Themes       []ClusterTheme `json:"themes,omitempty"`
}

// DistancePatterns classifies the document's overall semantic geometry.
type DistancePatterns struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	AverageSimilarity   float64 `json:"average_similarity"`
	SimilarityVariance  float64 `json:"similarity_variance"`
	HighSimilarityRatio float64 `json:"high_similarity_ratio"`

	SemanticSpan        string `json:"semantic_span"` // 紧密 | 适中 | 分散
	SemanticSpanCode    int    `json:"semantic_span_code"`
	ConceptDistribution string `json:"concept_distribution"` // 均匀 | 适中 | 不均匀
	ClusteringTendency  string `json:"clustering_tendency"`  // 强 | 中等 | 弱
}

// NoveltyCandidate is a concept pair whose similarity falls in the
// interesting-but-not-obvious band.
type NoveltyCandidate struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`

	Scored bool   `json:"scored"`
	Score  int    `json:"score,omitempty"` // 1-5, evaluator judgment
	Label  string `json:"label,omitempty"`
}

// NoveltyAnalysis captures associative novelty candidates and aggregates.
type NoveltyAnalysis struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Candidates        []NoveltyCandidate `json:"candidates"`
	AverageNovelty    float64            `json:"average_novelty"`
	HighNoveltyCount  int                `json:"high_novelty_count"`
	CreativityDensity float64            `json:"creativity_density"`
}

// EmotionalBehavior tallies sentiment over descriptive words.
type EmotionalBehavior struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	PositiveCount int `json:"positive_count"`
	NegativeCount int `json:"negative_count"`
	NeutralCount  int `json:"neutral_count"`

	EmotionalRatio   float64 `json:"emotional_ratio"`
	AverageIntensity float64 `json:"average_intensity"`

	Expressiveness string `json:"expressiveness"` // 高 | 中等 | 低
	Balance        string `json:"balance"`        // 平衡 | 偏向性 | 积极倾向 | 消极倾向 | 中性
}

// Metrics bundles the four independent sub-analyses. Each slot carries its
// own success flag; a failed slot never affects the others.
type Metrics struct {
	Clustering ClusteringBehavior `json:"clustering"`
	Distance   DistancePatterns   `json:"distance"`
	Novelty    NoveltyAnalysis    `json:"novelty"`
	Emotion    EmotionalBehavior  `json:"emotion"`
}
