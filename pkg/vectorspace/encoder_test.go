package vectorspace

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/semantic"
)

type mockEmbedClient struct {
	fail  bool
	calls int
}

func (m *mockEmbedClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", errors.New("not used")
}

func (m *mockEmbedClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return errors.New("not used")
}

func (m *mockEmbedClient) GenerateEmbedding(ctx context.Context, input string) ([]float32, error) {
	vecs, err := m.GenerateEmbeddings(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedClient) GenerateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	m.calls++
	if m.fail {
		return nil, errors.New("embedding service down")
	}
	out := make([][]float32, len(inputs))
	for i := range inputs {
		// distinct direction per input so pairwise distances are nonzero
		v := make([]float32, 4)
		v[i%4] = 1
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedClient) ResetMetrics() {}
func (m *mockEmbedClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func testUnits() *semantic.UnitSet {
	return &semantic.UnitSet{
		Mode: semantic.ModeComprehensive,
		Concepts: []semantic.Concept{
			{Text: "人工智能", Category: "technology", Importance: 5},
			{Text: "伦理", Category: "philosophy", Importance: 4},
		},
		Entities: []semantic.NamedEntity{{Text: "图灵", Category: "person"}},
		Phrases:  []semantic.KeyPhrase{{Text: "人工智能", Importance: 4}}, // duplicate text
	}
}

func TestHashedVector_DeterministicUnitNorm(t *testing.T) {
	a := hashedVector("机器学习", 64)
	b := hashedVector("机器学习", 64)
	c := hashedVector("别的文本", 64)

	if len(a) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic vector, diverged at %d", i)
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different texts to hash to different vectors")
	}
	if norm := vectorNorm(a); math.Abs(norm-1) > 1e-5 {
		t.Fatalf("expected unit norm, got %f", norm)
	}
}

func TestEncode_DeduplicatesAndCategorizes(t *testing.T) {
	cache, _ := NewCache("")
	e := NewEncoder(&mockEmbedClient{}, cache)

	res, err := e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	// 人工智能 appears as concept and phrase but is encoded once, under the
	// category that saw it first.
	if res.Stats.TotalVectors != 3 {
		t.Fatalf("expected 3 vectors, got %d", res.Stats.TotalVectors)
	}
	if res.Stats.CategoryCount[CategoryConcept] != 2 || res.Stats.CategoryCount[CategoryEntity] != 1 {
		t.Fatalf("unexpected category counts: %v", res.Stats.CategoryCount)
	}
	if res.Stats.DegradedCount != 0 {
		t.Fatalf("expected no degraded vectors, got %d", res.Stats.DegradedCount)
	}
	if res.Stats.VectorDensity <= 0 {
		t.Fatalf("expected positive vector density, got %f", res.Stats.VectorDensity)
	}
	if len(res.ByCategory(CategoryEntity)) != 1 {
		t.Fatalf("expected 1 entity vector, got %d", len(res.ByCategory(CategoryEntity)))
	}
}

func TestEncode_SecondCallServedFromCache(t *testing.T) {
	cache, _ := NewCache("")
	client := &mockEmbedClient{}
	e := NewEncoder(client, cache)

	if _, err := e.Encode(context.Background(), testUnits()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	res, err := e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected a single embedding call, got %d", client.calls)
	}
	if res.Stats.CacheHits != 3 {
		t.Fatalf("expected 3 cache hits, got %d", res.Stats.CacheHits)
	}
}

func TestEncode_ServiceFailureDegrades(t *testing.T) {
	cache, _ := NewCache("")
	e := NewEncoder(&mockEmbedClient{fail: true}, cache)

	res, err := e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected degraded result, not error: %v", err)
	}
	if res.Stats.DegradedCount != res.Stats.TotalVectors {
		t.Fatalf("expected all vectors degraded, got %d of %d",
			res.Stats.DegradedCount, res.Stats.TotalVectors)
	}
	for _, v := range res.Vectors {
		if !v.Degraded {
			t.Fatalf("expected degraded flag on %q", v.Text)
		}
	}
}

func TestEncode_DegradedEntriesHealAfterRecovery(t *testing.T) {
	cache, _ := NewCache("")
	client := &mockEmbedClient{fail: true}
	e := NewEncoder(client, cache)

	res, err := e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected degraded result, not error: %v", err)
	}
	if res.Stats.DegradedCount != 3 {
		t.Fatalf("expected 3 degraded vectors, got %d", res.Stats.DegradedCount)
	}

	// Degraded cache entries are re-requested once the service recovers.
	client.fail = false
	res, err = e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Stats.CacheHits != 0 {
		t.Fatalf("expected degraded entries to count as misses, got %d hits", res.Stats.CacheHits)
	}
	if res.Stats.DegradedCount != 0 {
		t.Fatalf("expected recovered vectors, got %d degraded", res.Stats.DegradedCount)
	}

	// Upgraded entries serve subsequent encodes without new calls.
	callsAfterRecovery := client.calls
	res, err = e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Stats.CacheHits != 3 || client.calls != callsAfterRecovery {
		t.Fatalf("expected 3 cache hits and no new calls, got %d hits after %d calls",
			res.Stats.CacheHits, client.calls)
	}
}

func TestEncode_NilClientDegrades(t *testing.T) {
	cache, _ := NewCache("")
	e := NewEncoder(nil, cache)

	res, err := e.Encode(context.Background(), testUnits())
	if err != nil {
		t.Fatalf("expected degraded result, not error: %v", err)
	}
	if res.Stats.DegradedCount != 3 {
		t.Fatalf("expected 3 degraded vectors, got %d", res.Stats.DegradedCount)
	}
}

func TestEncode_EmptyUnits(t *testing.T) {
	cache, _ := NewCache("")
	e := NewEncoder(&mockEmbedClient{}, cache)

	res, err := e.Encode(context.Background(), &semantic.UnitSet{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Stats.TotalVectors != 0 {
		t.Fatalf("expected no vectors, got %d", res.Stats.TotalVectors)
	}
}
