// Package file implements profile storage as one JSON document per profile
// under a base directory. Writes go through a temp file plus rename so a
// crash never leaves a half-written profile behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/stylemetry/engine/pkg/profile"
	"github.com/stylemetry/engine/pkg/store"
)

// ProfileFileStorage implements store.ProfileStorage on the local filesystem.
type ProfileFileStorage struct {
	mu  sync.Mutex
	dir string
}

// NewProfileFileStorage creates the base directory if needed.
func NewProfileFileStorage(dir string) (*ProfileFileStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("profile storage directory is empty")
	}
	if err := os.MkdirAll(filepath.Join(dir, "comparisons"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile storage directory: %w", err)
	}
	return &ProfileFileStorage{dir: dir}, nil
}

func (s *ProfileFileStorage) profilePath(profileID string) string {
	return filepath.Join(s.dir, sanitizeID(profileID)+".json")
}

// sanitizeID keeps ids filesystem safe. Nanoid alphabets include "_" and "-"
// which are fine; anything else is replaced.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}

func (s *ProfileFileStorage) SaveProfile(_ context.Context, p *profile.StyleProfile) error {
	if p == nil || p.ProfileID == "" {
		return fmt.Errorf("cannot save profile without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.profilePath(p.ProfileID), p)
}

func (s *ProfileFileStorage) GetProfile(_ context.Context, profileID string) (*profile.StyleProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.profilePath(profileID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", profileID, err)
	}
	var p profile.StyleProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", profileID, err)
	}
	return &p, nil
}

func (s *ProfileFileStorage) ListProfiles(_ context.Context, limit int) ([]*profile.StyleProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*profile.StyleProfile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var p profile.StyleProfile
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		profiles = append(profiles, &p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

func (s *ProfileFileStorage) DeleteProfile(_ context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.profilePath(profileID))
	if os.IsNotExist(err) {
		return store.ErrNotFound
	}
	return err
}

func (s *ProfileFileStorage) SaveComparison(_ context.Context, c *profile.Comparison) error {
	if c == nil {
		return fmt.Errorf("cannot save nil comparison")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("%s_%s_%d.json",
		sanitizeID(c.ProfileA), sanitizeID(c.ProfileB), c.ComparedAt.UnixNano())
	return writeJSON(filepath.Join(s.dir, "comparisons", name), c)
}

// NearestProfiles scans all stored profiles in memory. Fine for the file
// adapter's scale; the pgx adapter pushes this into pgvector.
func (s *ProfileFileStorage) NearestProfiles(ctx context.Context, p *profile.StyleProfile, limit int) ([]*profile.StyleProfile, error) {
	all, err := s.ListProfiles(ctx, 0)
	if err != nil {
		return nil, err
	}

	type scored struct {
		p     *profile.StyleProfile
		score float64
	}
	candidates := make([]scored, 0, len(all))
	for _, other := range all {
		if other.ProfileID == p.ProfileID {
			continue
		}
		cmp := profile.Compare(p, other)
		if !cmp.SimilarityComputed {
			continue
		}
		candidates = append(candidates, scored{p: other, score: cmp.SimilarityScore})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]*profile.StyleProfile, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.p)
	}
	return out, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}
