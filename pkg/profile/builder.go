package profile

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Build fuses the stage outputs into a StyleProfile. Build never fails:
// missing or degraded inputs produce neutral scores and zero-filled features,
// and the profile records which indicators could be derived.
func Build(in Input) *StyleProfile {
	features := integrateFeatures(in)
	vector := flattenFeatures(features)
	scores := computeScores(in)

	p := &StyleProfile{
		ProfileID:          newProfileID(),
		DocumentName:       in.DocumentName,
		CreatedAt:          time.Now().UTC(),
		IntegratedFeatures: features,
		FeatureVector:      vector,
		StyleScores:        scores,
		Classification:     classify(scores),
		Comparative:        comparativeMetrics(vector, scores),
	}
	p.BehavioralIndicators = indicators(in)
	p.Summary = summarize(p, in)
	return p
}

func newProfileID() string {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Sprintf("profile-%d", time.Now().UnixNano())
	}
	return "prof_" + id
}

func indicators(in Input) BehavioralIndicators {
	var ind BehavioralIndicators
	m := in.Metrics
	if m == nil {
		return ind
	}
	if m.Clustering.Success {
		ind.Organization = m.Clustering.Organization
	}
	if m.Distance.Success {
		ind.SemanticSpan = m.Distance.SemanticSpan
		ind.ConceptDistribution = m.Distance.ConceptDistribution
		ind.ClusteringTendency = m.Distance.ClusteringTendency
	}
	if m.Emotion.Success {
		ind.Expressiveness = m.Emotion.Expressiveness
		ind.EmotionalBalance = m.Emotion.Balance
	}
	return ind
}

// summarize renders a short human-readable account of the profile: the
// primary style, per-dimension scores and whichever indicators were derived.
func summarize(p *StyleProfile, in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "主要风格: %s", p.Classification.PrimaryStyle)
	if len(p.Classification.SecondaryStyles) > 0 {
		fmt.Fprintf(&b, " (次要: %s)", strings.Join(p.Classification.SecondaryStyles, ", "))
	}
	b.WriteString("。")

	parts := make([]string, 0, len(Dimensions))
	for _, dim := range Dimensions {
		parts = append(parts, fmt.Sprintf("%s=%.1f", dim, p.StyleScores[dim]))
	}
	fmt.Fprintf(&b, " 维度评分: %s。", strings.Join(parts, ", "))

	if ind := p.BehavioralIndicators; ind.Organization != "" || ind.SemanticSpan != "" {
		fmt.Fprintf(&b, " 行为指标: 概念组织%s, 语义跨度%s。", orDash(ind.Organization), orDash(ind.SemanticSpan))
	}
	if in.Units != nil && in.Units.Degraded {
		b.WriteString(" 注意: 本次分析使用了降级的启发式语义单元。")
	}
	if len(p.Classification.Characteristics) > 0 {
		fmt.Fprintf(&b, " 突出特征: %s。", strings.Join(p.Classification.Characteristics, ", "))
	}
	return b.String()
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
