package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"slices"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-taskboard/internal/config"
	"github.com/adanyl0v/go-taskboard/migrations"
)

var globalPostgresPool *pgxpool.Pool

// MustConnectPostgres opens the pool, checks it and applies the embedded
// schema so the board can load its collections right after.
func MustConnectPostgres() {
	cfg := config.Global().Postgres

	poolCfg, err := pgxpool.ParseConfig(postgresURL(cfg))
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create postgres pool")
		panic(err)
	}

	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancelPing()

	err = globalPostgresPool.Ping(pingCtx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("host", cfg.Host).
			Msg("failed to ping postgres")
		panic(err)
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), cfg.LoadTimeout)
	defer cancelMigrate()

	applied, err := applyMigrations(migrateCtx, globalPostgresPool, migrations.FS)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to apply migrations")
		panic(err)
	}

	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Strs("migrations", applied).
		Msg("connected to postgres")
}

func DisconnectPostgres() {
	if globalPostgresPool == nil {
		return
	}
	globalPostgresPool.Close()
	globalLogger.Info().Msg("disconnected from postgres")
}

// postgresURL escapes the credentials, which may hold characters such as
// '@' or '/'.
func postgresURL(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// schemaExecer is the part of pgxpool.Pool the migrations need.
type schemaExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// applyMigrations runs every .sql file of fsys in name order and returns the
// names it ran. The files only create what is missing, so they are applied
// on every start.
func applyMigrations(ctx context.Context, db schemaExecer, fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		schema, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		_, err = db.Exec(ctx, string(schema))
		if err != nil {
			return nil, fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		globalLogger.Debug().
			Str("migration", name).
			Msg("applied migration")
	}
	return names, nil
}
