package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const createTable = `
CREATE TABLE IF NOT EXISTS translation_cache (
	hash        TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	lang        TEXT NOT NULL,
	provider    TEXT NOT NULL,
	translated  TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const getTranslation = `SELECT translated FROM translation_cache WHERE hash = $1`

const upsertTranslation = `
INSERT INTO translation_cache (hash, source, lang, provider, translated)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (hash) DO UPDATE
SET translated = EXCLUDED.translated, updated_at = now()`

const listTranslations = `SELECT hash, source, lang, provider, translated FROM translation_cache`

// PostgresBackend stores cache entries in PostgreSQL.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for databaseURL, verifies it and ensures the cache table.
func Connect(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	log.Info().Msg("Connected to PostgreSQL")
	return &PostgresBackend{pool: pool}, nil
}

// Close releases the pool.
func (b *PostgresBackend) Close() {
	b.pool.Close()
}

func (b *PostgresBackend) Get(ctx context.Context, hash string) (string, bool, error) {
	var translated string
	err := b.pool.QueryRow(ctx, getTranslation, hash).Scan(&translated)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query cached translation: %w", err)
	}
	return translated, true, nil
}

func (b *PostgresBackend) Upsert(ctx context.Context, e Entry) error {
	if _, err := b.pool.Exec(ctx, upsertTranslation, e.Hash, e.Source, e.Lang, e.Provider, e.Translated); err != nil {
		return fmt.Errorf("upsert cached translation: %w", err)
	}
	return nil
}

func (b *PostgresBackend) All(ctx context.Context) ([]Entry, error) {
	rows, err := b.pool.Query(ctx, listTranslations)
	if err != nil {
		return nil, fmt.Errorf("list cached translations: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.Hash, &e.Source, &e.Lang, &e.Provider, &e.Translated)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan cached translations: %w", err)
	}
	return entries, nil
}
