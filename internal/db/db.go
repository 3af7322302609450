// Package db keeps an optional Postgres ledger of scrape runs. Each ingest,
// import or plan job writes one row so operators can see what was scraped,
// when, and what was skipped, without querying the graph.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/tennisgraph/internal/config"
)

// Pool wraps pgxpool.Pool with the ledger's helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool and makes sure the ledger
// table exists.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.RunLogDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse run log URL: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.RunLogMaxConns)
	poolCfg.MaxConnLifetime = cfg.RunLogMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if err := ensureSchema(ctx, poolCfg.ConnConfig); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = registerPreparedStatements

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping run log: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// ensureSchema creates the ledger table on a throwaway connection, so the
// pool's prepared statements can be planned against it.
func ensureSchema(ctx context.Context, cfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect run log: %w", err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create run log table: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the ledger is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const schema = `
CREATE TABLE IF NOT EXISTS scrape_runs (
    run_id        UUID PRIMARY KEY,
    source        TEXT        NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT      NOT NULL,
    upserted      INTEGER     NOT NULL,
    skipped       JSONB       NOT NULL,
    errors        JSONB       NOT NULL,
    links         INTEGER     NOT NULL,
    nodes_created INTEGER     NOT NULL,
    rels_created  INTEGER     NOT NULL,
    props_set     INTEGER     NOT NULL,
    failure       TEXT
)`

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",
		"insert_run":   insertRun,
		"recent_runs": `SELECT run_id, source, started_at, duration_ms, upserted, skipped, errors,
       links, nodes_created, rels_created, props_set, failure
FROM scrape_runs ORDER BY started_at DESC LIMIT $1`,
	}
	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
