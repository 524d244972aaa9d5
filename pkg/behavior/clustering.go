package behavior

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/logger"
)

func (a *Analyzer) analyzeClustering(ctx context.Context, in Input, opts Options) ClusteringBehavior {
	result := ClusteringBehavior{}
	if in.Clusters == nil || len(in.Clusters.Clusters) == 0 {
		result.Error = "no clusters available"
		return result
	}

	err := guard(func() {
		clusters := in.Clusters.Clusters
		result.ClusterCount = len(clusters)
		result.Inertia = in.Clusters.Inertia

		sizes := make([]float64, 0, len(clusters))
		distances := make([]float64, 0)
		for _, c := range clusters {
			sizes = append(sizes, float64(c.Size))
			for _, m := range c.Members {
				distances = append(distances, m.Distance)
			}
		}

		result.AverageSize = stat.Mean(sizes, nil)
		if len(sizes) > 1 {
			result.SizeVariance = stat.Variance(sizes, nil)
		}
		result.IntraClusterDistance = distanceStats(distances)
		result.Organization = classifyOrganization(result.ClusterCount, result.AverageSize)
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if opts.Enrich && a.client != nil {
		themes, err := a.evaluateClusterThemes(ctx, in)
		if err != nil {
			logger.Warn("Cluster theme evaluation failed", "err", err)
		} else {
			result.Themes = themes
		}
	}

	result.Success = true
	return result
}

// classifyOrganization derives the conceptual organization indicator from the
// cluster count and average cluster size.
func classifyOrganization(count int, avgSize float64) string {
	switch {
	case count >= 3 && avgSize >= 2:
		return OrganizationGood
	case count >= 2:
		return OrganizationFair
	default:
		return OrganizationSimple
	}
}

func distanceStats(distances []float64) DistanceStats {
	if len(distances) == 0 {
		return DistanceStats{}
	}
	stats := DistanceStats{Min: distances[0], Max: distances[0]}
	for _, d := range distances {
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	stats.Mean = stat.Mean(distances, nil)
	return stats
}

type clusterThemeRating struct {
	ClusterID      int    `json:"cluster_id" jsonschema_description:"ID of the cluster this interpretation is for"`
	Theme          string `json:"theme" jsonschema_description:"Concise theme label for the cluster, in Chinese"`
	Interpretation string `json:"interpretation" jsonschema_description:"One sentence on what the grouping reveals"`
	Coherence      int    `json:"coherence" jsonschema_description:"Cluster coherence from 1 (arbitrary) to 5 (tightly themed)"`
}

type clusterThemeResponse struct {
	Themes []clusterThemeRating `json:"themes" jsonschema_description:"One interpretation per cluster, in cluster order"`
}

func (a *Analyzer) evaluateClusterThemes(ctx context.Context, in Input) ([]ClusterTheme, error) {
	var b strings.Builder
	for _, c := range in.Clusters.Clusters {
		members := make([]string, 0, len(c.Members))
		for _, m := range c.Members {
			members = append(members, m.Text)
		}
		fmt.Fprintf(&b, "Cluster %d (%d members): %s\n", c.ID, c.Size, strings.Join(members, ", "))
	}

	prompt := fmt.Sprintf(ai.EvaluateClusterThemesPrompt, b.String())

	var res clusterThemeResponse
	err := a.client.GenerateCompletionWithFormat(
		ctx,
		"interpret_cluster_themes",
		"Interpret the common theme of each concept cluster.",
		prompt,
		&res,
	)
	if err != nil {
		return nil, err
	}

	themes := make([]ClusterTheme, 0, len(res.Themes))
	for _, t := range res.Themes {
		if t.Coherence < 1 || t.Coherence > 5 {
			t.Coherence = 3
		}
		themes = append(themes, ClusterTheme{
			ClusterID:      t.ClusterID,
			Theme:          t.Theme,
			Interpretation: t.Interpretation,
			Coherence:      t.Coherence,
		})
	}
	return themes, nil
}
