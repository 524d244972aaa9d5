package vectorspace

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/stylemetry/engine/internal/util"
	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/semantic"
)

const defaultDimensions = 1024

// Category labels vectors by the unit family they were encoded from.
const (
	CategoryConcept = "concept"
	CategoryEntity  = "entity"
	CategoryPhrase  = "phrase"
)

// Vector is an embedding of one semantic unit's text. Degraded vectors were
// synthesized from a text hash because the embedding service was unavailable;
// they are deterministic but carry no semantic meaning.
type Vector struct {
	Text     string    `json:"text"`
	Category string    `json:"category"`
	Values   []float32 `json:"values"`
	Degraded bool      `json:"degraded,omitempty"`
}

// EncodeStats summarizes one encode batch.
type EncodeStats struct {
	TotalVectors  int                `json:"total_vectors"`
	CategoryCount map[string]int     `json:"category_count"`
	CacheHits     int                `json:"cache_hits"`
	DegradedCount int                `json:"degraded_count"`
	Norms         map[string]float64 `json:"norms"`
	// VectorDensity is the mean pairwise Euclidean distance across all
	// vectors, excluding self-pairs. Zero when fewer than 2 vectors exist.
	VectorDensity float64 `json:"vector_density"`
}

// EncodeResult holds the vectors of one unit set plus batch statistics.
type EncodeResult struct {
	Vectors []Vector    `json:"vectors"`
	Stats   EncodeStats `json:"stats"`
}

// ByCategory returns the vectors of one category, preserving order.
func (r *EncodeResult) ByCategory(category string) []Vector {
	out := make([]Vector, 0, len(r.Vectors))
	for _, v := range r.Vectors {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out
}

// Encoder maps semantic units into the embedding vector space, serving repeat
// texts from the cache and batching misses to the embedding service. Service
// failures degrade to deterministic hashed vectors rather than failing the
// analysis.
type Encoder struct {
	client ai.StyleAIClient
	cache  *Cache
}

// NewEncoder creates an Encoder. A nil client forces the degraded hashed-
// vector path for every cache miss.
func NewEncoder(client ai.StyleAIClient, cache *Cache) *Encoder {
	return &Encoder{client: client, cache: cache}
}

type encodeInput struct {
	text     string
	category string
}

// Encode embeds every distinct unit text of the set, then flushes the cache.
func (e *Encoder) Encode(ctx context.Context, units *semantic.UnitSet) (*EncodeResult, error) {
	inputs := collectInputs(units)

	result := &EncodeResult{
		Vectors: make([]Vector, 0, len(inputs)),
		Stats: EncodeStats{
			CategoryCount: map[string]int{},
			Norms:         map[string]float64{},
		},
	}
	if len(inputs) == 0 {
		return result, nil
	}

	missTexts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if entry, ok := e.cache.Get(in.text); ok {
			// Degraded entries count as misses while a client is configured
			// so the cache heals once the embedding service recovers.
			if !entry.Degraded || e.client == nil {
				result.Stats.CacheHits++
				continue
			}
		}
		missTexts = append(missTexts, in.text)
	}

	if len(missTexts) > 0 {
		e.fillMisses(ctx, missTexts)
		if err := e.cache.Flush(); err != nil {
			logger.Warn("Failed to persist embedding cache", "err", err)
		}
	}

	for _, in := range inputs {
		entry, ok := e.cache.Get(in.text)
		if !ok {
			// fillMisses covers every miss, so this only guards against a
			// cache wiped under our feet. Synthesize to stay total.
			entry = CacheEntry{Vector: hashedVector(in.text, e.dimensions()), Degraded: true}
		}
		if entry.Degraded {
			result.Stats.DegradedCount++
		}
		result.Vectors = append(result.Vectors, Vector{
			Text:     in.text,
			Category: in.category,
			Values:   entry.Vector,
			Degraded: entry.Degraded,
		})
		result.Stats.CategoryCount[in.category]++
		result.Stats.Norms[in.text] = vectorNorm(entry.Vector)
	}
	result.Stats.TotalVectors = len(result.Vectors)
	result.Stats.VectorDensity = meanPairwiseDistance(result.Vectors)

	return result, nil
}

// fillMisses embeds missing texts in one batch, degrading every miss to a
// hashed vector when the service call fails.
func (e *Encoder) fillMisses(ctx context.Context, texts []string) {
	dim := e.dimensions()

	if e.client == nil {
		logger.Warn("No embedding client configured, synthesizing hashed vectors", "count", len(texts))
		for _, text := range texts {
			e.cache.Put(text, CacheEntry{Vector: hashedVector(text, dim), Degraded: true})
		}
		return
	}

	vectors, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) ([][]float32, error) {
		return e.client.GenerateEmbeddings(ctx, texts)
	})
	if err != nil || len(vectors) != len(texts) {
		logger.Warn("Embedding service failed, synthesizing hashed vectors", "count", len(texts), "err", err)
		for _, text := range texts {
			e.cache.Put(text, CacheEntry{Vector: hashedVector(text, dim), Degraded: true})
		}
		return
	}

	for i, text := range texts {
		e.cache.Put(text, CacheEntry{Vector: vectors[i]})
	}
}

func (e *Encoder) dimensions() int {
	return int(util.GetEnvNumeric("AI_EMBED_DIM", defaultDimensions))
}

func collectInputs(units *semantic.UnitSet) []encodeInput {
	if units == nil {
		return nil
	}
	seen := map[string]bool{}
	inputs := make([]encodeInput, 0, units.UnitCount())
	add := func(text, category string) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		inputs = append(inputs, encodeInput{text: text, category: category})
	}
	for _, c := range units.Concepts {
		add(c.Text, CategoryConcept)
	}
	for _, en := range units.Entities {
		add(en.Text, CategoryEntity)
	}
	for _, p := range units.Phrases {
		add(p.Text, CategoryPhrase)
	}
	return inputs
}

// hashedVector synthesizes a deterministic unit-norm vector from a hash chain
// over the text. Stable across runs and processes, not semantically
// meaningful.
func hashedVector(text string, dim int) []float32 {
	out := make([]float32, dim)
	var counter uint32
	sum := sha256.Sum256([]byte(text))
	for i := 0; i < dim; {
		for j := 0; j+4 <= len(sum) && i < dim; j += 4 {
			bits := binary.BigEndian.Uint32(sum[j : j+4])
			// map to [-1, 1)
			out[i] = float32(bits)/float32(math.MaxUint32)*2 - 1
			i++
		}
		counter++
		var next [sha256.Size + 4]byte
		copy(next[:], sum[:])
		binary.BigEndian.PutUint32(next[sha256.Size:], counter)
		sum = sha256.Sum256(next[:])
	}

	norm := vectorNorm(out)
	if norm > 0 {
		for i := range out {
			out[i] = float32(float64(out[i]) / norm)
		}
	}
	return out
}

func vectorNorm(v []float32) float64 {
	f := toFloat64(v)
	return floats.Norm(f, 2)
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func euclideanDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func meanPairwiseDistance(vectors []Vector) float64 {
	if len(vectors) < 2 {
		return 0
	}
	var total float64
	var pairs int
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			total += euclideanDistance(vectors[i].Values, vectors[j].Values)
			pairs++
		}
	}
	return total / float64(pairs)
}
