// Package storage wires the configured profile storage adapter from the
// environment. STORE_ADAPTER selects "pgx" for PostgreSQL with pgvector or
// the default JSON file store.
package storage

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/stylemetry/engine/internal/util"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/store"
	filestore "github.com/stylemetry/engine/pkg/store/file"
	pgxstore "github.com/stylemetry/engine/pkg/store/pgx"
)

// NewProfileStorage builds the configured adapter. The returned closer is a
// no-op for the file adapter and closes the connection pool for pgx.
func NewProfileStorage(ctx context.Context) (store.ProfileStorage, func(), error) {
	adapter := util.GetEnvString("STORE_ADAPTER", "file")

	switch adapter {
	case "pgx":
		config, err := pgxpool.ParseConfig(util.GetEnv("DATABASE_URL"))
		if err != nil {
			return nil, nil, err
		}
		config.AfterConnect = func(ctx context.Context, conn *pgxv5.Conn) error {
			return pgxvec.RegisterTypes(ctx, conn)
		}
		conn, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return nil, nil, err
		}
		s, err := pgxstore.NewProfileDBStorageWithConnection(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		logger.Info("Using pgx profile storage")
		return s, conn.Close, nil
	default:
		dir := util.GetEnvString("PROFILE_DIR", "data/profiles")
		s, err := filestore.NewProfileFileStorage(dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file profile storage", "dir", dir)
		return s, func() {}, nil
	}
}
