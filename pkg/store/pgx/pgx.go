// Package pgx implements profile storage on PostgreSQL. The full profile
// document is kept as JSONB while the feature vector is mirrored into a
// pgvector column so nearest-profile queries run in the database.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/profile"
	"github.com/stylemetry/engine/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// featureDimensions is the fixed arity of the profile feature vector: six
// categories, three values each.
const featureDimensions = 18

// ProfileDBStorage implements store.ProfileStorage using PostgreSQL with
// pgvector for feature-vector similarity search.
type ProfileDBStorage struct {
	conn pgxIConn
}

// NewProfileDBStorageWithConnection creates a ProfileDBStorage using an
// existing connection or pool and bootstraps the schema.
func NewProfileDBStorageWithConnection(ctx context.Context, conn pgxIConn) (*ProfileDBStorage, error) {
	s := &ProfileDBStorage{conn: conn}
	if err := s.bootstrap(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ProfileDBStorage) bootstrap(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS style_profiles (
			profile_id TEXT PRIMARY KEY,
			document_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			feature_vector vector(%d),
			document JSONB NOT NULL
		)`, featureDimensions),
		`CREATE TABLE IF NOT EXISTS style_comparisons (
			id BIGSERIAL PRIMARY KEY,
			profile_a TEXT NOT NULL,
			profile_b TEXT NOT NULL,
			compared_at TIMESTAMPTZ NOT NULL,
			document JSONB NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap profile schema: %w", err)
		}
	}
	return nil
}

func (s *ProfileDBStorage) SaveProfile(ctx context.Context, p *profile.StyleProfile) error {
	if p == nil || p.ProfileID == "" {
		return fmt.Errorf("cannot save profile without id")
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile %s: %w", p.ProfileID, err)
	}

	logger.Debug("[Store][SaveProfile] Upserting profile", "profile_id", p.ProfileID)
	_, err = s.conn.Exec(ctx, `
		INSERT INTO style_profiles (profile_id, document_name, created_at, feature_vector, document)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (profile_id) DO UPDATE SET
			document_name = EXCLUDED.document_name,
			feature_vector = EXCLUDED.feature_vector,
			document = EXCLUDED.document`,
		p.ProfileID, p.DocumentName, p.CreatedAt, featureVector(p), doc)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ProfileID, err)
	}
	return nil
}

func (s *ProfileDBStorage) GetProfile(ctx context.Context, profileID string) (*profile.StyleProfile, error) {
	var doc []byte
	err := s.conn.QueryRow(ctx,
		`SELECT document FROM style_profiles WHERE profile_id = $1`, profileID).Scan(&doc)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", profileID, err)
	}
	var p profile.StyleProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", profileID, err)
	}
	return &p, nil
}

func (s *ProfileDBStorage) ListProfiles(ctx context.Context, limit int) ([]*profile.StyleProfile, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.conn.Query(ctx,
		`SELECT document FROM style_profiles ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (s *ProfileDBStorage) DeleteProfile(ctx context.Context, profileID string) error {
	tag, err := s.conn.Exec(ctx,
		`DELETE FROM style_profiles WHERE profile_id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", profileID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProfileDBStorage) SaveComparison(ctx context.Context, c *profile.Comparison) error {
	if c == nil {
		return fmt.Errorf("cannot save nil comparison")
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode comparison: %w", err)
	}
	_, err = s.conn.Exec(ctx, `
		INSERT INTO style_comparisons (profile_a, profile_b, compared_at, document)
		VALUES ($1, $2, $3, $4)`,
		c.ProfileA, c.ProfileB, c.ComparedAt, doc)
	if err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

// NearestProfiles orders stored profiles by cosine distance of the pgvector
// column, excluding the profile itself.
func (s *ProfileDBStorage) NearestProfiles(ctx context.Context, p *profile.StyleProfile, limit int) ([]*profile.StyleProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.conn.Query(ctx, `
		SELECT document FROM style_profiles
		WHERE profile_id != $1
		ORDER BY feature_vector <=> $2
		LIMIT $3`,
		p.ProfileID, featureVector(p), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest profiles: %w", err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func scanProfiles(rows pgxv5.Rows) ([]*profile.StyleProfile, error) {
	var out []*profile.StyleProfile
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		var p profile.StyleProfile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("failed to decode profile row: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// featureVector pads or truncates to the fixed column arity so inserts never
// fail on a profile built from an older feature layout.
func featureVector(p *profile.StyleProfile) pgvector.Vector {
	vals := make([]float32, featureDimensions)
	for i := 0; i < featureDimensions && i < len(p.FeatureVector); i++ {
		vals[i] = float32(p.FeatureVector[i])
	}
	return pgvector.NewVector(vals)
}
