package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stylemetry/engine/pkg/profile"
	"github.com/stylemetry/engine/pkg/store"
)

func testProfile(id string, createdAt time.Time, vector []float64) *profile.StyleProfile {
	return &profile.StyleProfile{
		ProfileID:     id,
		DocumentName:  "doc-" + id,
		CreatedAt:     createdAt,
		FeatureVector: vector,
		StyleScores: map[string]float64{
			profile.DimConceptualOrganization: 3.0,
			profile.DimSemanticCoherence:      3.0,
			profile.DimCreativeAssociation:    3.0,
			profile.DimEmotionalExpression:    3.0,
			profile.DimCognitiveComplexity:    3.0,
			profile.DimThematicFocus:          3.0,
		},
	}
}

func TestSaveAndGetProfile(t *testing.T) {
	s, err := NewProfileFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}
	ctx := context.Background()

	p := testProfile("prof_abc123", time.Now().UTC(), []float64{1, 2, 3})
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	got, err := s.GetProfile(ctx, "prof_abc123")
	if err != nil {
		t.Fatalf("expected profile, got error %v", err)
	}
	if got.ProfileID != p.ProfileID || got.DocumentName != p.DocumentName {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.FeatureVector) != 3 || got.FeatureVector[1] != 2 {
		t.Fatalf("feature vector not preserved: %v", got.FeatureVector)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	s, err := NewProfileFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}

	_, err = s.GetProfile(context.Background(), "prof_missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveProfile_RejectsMissingID(t *testing.T) {
	s, err := NewProfileFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}

	if err := s.SaveProfile(context.Background(), &profile.StyleProfile{}); err == nil {
		t.Fatal("expected error for profile without id")
	}
	if err := s.SaveProfile(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil profile")
	}
}

func TestSaveProfile_SanitizesID(t *testing.T) {
	dir := t.TempDir()
	s, err := NewProfileFileStorage(dir)
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}
	ctx := context.Background()

	p := testProfile("../escape/attempt", time.Now().UTC(), nil)
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "___escape_attempt.json")); err != nil {
		t.Fatalf("expected sanitized filename inside base dir: %v", err)
	}
	if _, err := s.GetProfile(ctx, "../escape/attempt"); err != nil {
		t.Fatalf("expected sanitized lookup to succeed, got %v", err)
	}
}

func TestListProfiles_SortedAndLimited(t *testing.T) {
	s, err := NewProfileFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"prof_a", "prof_b", "prof_c"} {
		p := testProfile(id, base.Add(time.Duration(i)*time.Hour), nil)
		if err := s.SaveProfile(ctx, p); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}
	}

	all, err := s.ListProfiles(ctx, 0)
	if err != nil {
		t.Fatalf("expected listing, got error %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(all))
	}
	if all[0].ProfileID != "prof_c" || all[2].ProfileID != "prof_a" {
		t.Fatalf("expected newest first, got %s .. %s", all[0].ProfileID, all[2].ProfileID)
	}

	limited, err := s.ListProfiles(ctx, 2)
	if err != nil {
		t.Fatalf("expected listing, got error %v", err)
	}
	if len(limited) != 2 || limited[0].ProfileID != "prof_c" {
		t.Fatalf("unexpected limited listing: %d entries", len(limited))
	}
}

func TestDeleteProfile(t *testing.T) {
	s, err := NewProfileFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}
	ctx := context.Background()

	p := testProfile("prof_del", time.Now().UTC(), nil)
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if err := s.DeleteProfile(ctx, "prof_del"); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if _, err := s.GetProfile(ctx, "prof_del"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteProfile(ctx, "prof_del"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestSaveComparison(t *testing.T) {
	dir := t.TempDir()
	s, err := NewProfileFileStorage(dir)
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}

	c := &profile.Comparison{ProfileA: "prof_a", ProfileB: "prof_b", ComparedAt: time.Now().UTC()}
	if err := s.SaveComparison(context.Background(), c); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "comparisons"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one comparison file, got %d (%v)", len(entries), err)
	}
}

func TestNearestProfiles(t *testing.T) {
	s, err := NewProfileFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("expected storage, got error %v", err)
	}
	ctx := context.Background()
	now := time.Now().UTC()

	query := testProfile("prof_query", now, []float64{1, 0, 0})
	near := testProfile("prof_near", now, []float64{0.9, 0.1, 0})
	far := testProfile("prof_far", now, []float64{0, 0, 1})
	for _, p := range []*profile.StyleProfile{query, near, far} {
		if err := s.SaveProfile(ctx, p); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}
	}

	got, err := s.NearestProfiles(ctx, query, 1)
	if err != nil {
		t.Fatalf("expected neighbors, got error %v", err)
	}
	if len(got) != 1 || got[0].ProfileID != "prof_near" {
		t.Fatalf("expected prof_near as nearest, got %+v", got)
	}

	all, err := s.NearestProfiles(ctx, query, 0)
	if err != nil {
		t.Fatalf("expected neighbors, got error %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected query itself excluded, got %d neighbors", len(all))
	}
}
