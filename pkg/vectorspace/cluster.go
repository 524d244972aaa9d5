package vectorspace

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ClusterMember is one concept assigned to a cluster with its distance to the
// cluster center.
type ClusterMember struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// Cluster is one discovered concept grouping.
type Cluster struct {
	ID      int             `json:"id"`
	Center  []float64       `json:"center"`
	Members []ClusterMember `json:"members"`
	Size    int             `json:"size"`
}

// ClusterResult holds the discovered clusters and the total inertia (sum of
// squared member-to-center distances).
type ClusterResult struct {
	K        int       `json:"k"`
	Clusters []Cluster `json:"clusters"`
	Inertia  float64   `json:"inertia"`
}

const (
	minClusters      = 2
	maxClusters      = 5
	kmeansIterations = 100
	kmeansRestarts   = 4
)

// AutoK selects the cluster count for n concepts: n/3 clamped to [2, 5].
func AutoK(conceptCount int) int {
	k := conceptCount / 3
	if k < minClusters {
		k = minClusters
	}
	if k > maxClusters {
		k = maxClusters
	}
	return k
}

// ClusterConcepts partitions the result's concept vectors with k-means.
// k <= 0 selects k automatically. Requires at least 2 concepts; returns
// ErrInsufficientData otherwise.
func ClusterConcepts(encoded *EncodeResult, k int) (*ClusterResult, error) {
	concepts := encoded.ByCategory(CategoryConcept)
	if len(concepts) < 2 {
		return nil, fmt.Errorf("%w: clustering needs at least 2 concepts, got %d", ErrInsufficientData, len(concepts))
	}

	if k <= 0 {
		k = AutoK(len(concepts))
	}
	if k > len(concepts) {
		k = len(concepts)
	}

	points := make([][]float64, len(concepts))
	for i, v := range concepts {
		points[i] = toFloat64(v.Values)
	}

	// Fixed seed keeps cluster assignments reproducible for identical input.
	rng := rand.New(rand.NewSource(1))

	best := kmeansRun(points, k, rng)
	for r := 1; r < kmeansRestarts; r++ {
		candidate := kmeansRun(points, k, rng)
		if candidate.inertia < best.inertia {
			best = candidate
		}
	}

	result := &ClusterResult{K: k, Inertia: best.inertia}
	for c := 0; c < k; c++ {
		cluster := Cluster{ID: c, Center: best.centers[c]}
		for i, assignment := range best.assignments {
			if assignment != c {
				continue
			}
			cluster.Members = append(cluster.Members, ClusterMember{
				Text:     concepts[i].Text,
				Distance: math.Sqrt(squaredDistance(points[i], best.centers[c])),
			})
		}
		cluster.Size = len(cluster.Members)
		if cluster.Size > 0 {
			result.Clusters = append(result.Clusters, cluster)
		}
	}
	return result, nil
}

type kmeansOutcome struct {
	centers     [][]float64
	assignments []int
	inertia     float64
}

func kmeansRun(points [][]float64, k int, rng *rand.Rand) kmeansOutcome {
	centers := initCenters(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < kmeansIterations; iter++ {
		changed := false
		for i, p := range points {
			bestCluster := 0
			bestDist := math.Inf(1)
			for c := range centers {
				d := squaredDistance(p, centers[c])
				if d < bestDist {
					bestDist = d
					bestCluster = c
				}
			}
			if assignments[i] != bestCluster {
				assignments[i] = bestCluster
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dim := len(points[0])
		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(next[assignments[i]], p)
			counts[assignments[i]]++
		}
		for c := range next {
			if counts[c] == 0 {
				// Reseed empty clusters from the point farthest from its
				// center, matching the usual k-means fixup.
				next[c] = append([]float64(nil), farthestPoint(points, centers, assignments)...)
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c])
		}
		centers = next
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centers[assignments[i]])
	}
	return kmeansOutcome{centers: centers, assignments: assignments, inertia: inertia}
}

// initCenters picks k distinct points via k-means++ style weighting.
func initCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	first := rng.Intn(len(points))
	centers = append(centers, append([]float64(nil), points[first]...))

	for len(centers) < k {
		weights := make([]float64, len(points))
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				if sq := squaredDistance(p, c); sq < d {
					d = sq
				}
			}
			weights[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a center.
			centers = append(centers, append([]float64(nil), points[rng.Intn(len(points))]...))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		chosen := len(points) - 1
		for i, w := range weights {
			acc += w
			if acc >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, append([]float64(nil), points[chosen]...))
	}
	return centers
}

func farthestPoint(points [][]float64, centers [][]float64, assignments []int) []float64 {
	bestIdx := 0
	bestDist := -1.0
	for i, p := range points {
		d := squaredDistance(p, centers[assignments[i]])
		if d > bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return points[bestIdx]
}

func squaredDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
