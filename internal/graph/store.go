// Package graph writes scraped records into Neo4j. A single driver is held
// for the life of the process; each batch opens its own write session and
// commits all of its statements in one transaction.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/albapepper/tennisgraph/internal/config"
)

// Writer commits a batch of statements atomically.
type Writer interface {
	WriteBatch(ctx context.Context, stmts []Statement) (BatchStats, error)
}

// BatchStats sums the update counters of every statement in a batch. A
// re-run of an already ingested page creates no nodes or relationships.
type BatchStats struct {
	Statements           int `json:"statements"`
	NodesCreated         int `json:"nodes_created"`
	RelationshipsCreated int `json:"relationships_created"`
	PropertiesSet        int `json:"properties_set"`
	LabelsAdded          int `json:"labels_added"`
}

// Add accumulates other into s.
func (s *BatchStats) Add(other BatchStats) {
	s.Statements += other.Statements
	s.NodesCreated += other.NodesCreated
	s.RelationshipsCreated += other.RelationshipsCreated
	s.PropertiesSet += other.PropertiesSet
	s.LabelsAdded += other.LabelsAdded
}

// Store wraps the process-wide Neo4j driver.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// Open creates the driver and verifies connectivity.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Store{driver: driver, database: cfg.Neo4jDatabase}, nil
}

// WriteBatch runs stmts in one write transaction. Either every statement is
// committed or none is.
func (s *Store) WriteBatch(ctx context.Context, stmts []Statement) (BatchStats, error) {
	if len(stmts) == 0 {
		return BatchStats{}, nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// The driver may retry this function; counters start over each time.
		var stats BatchStats
		for i, stmt := range stmts {
			result, err := tx.Run(ctx, stmt.Cypher, stmt.Params)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
			summary, err := result.Consume(ctx)
			if err != nil {
				return nil, fmt.Errorf("statement %d: consume: %w", i, err)
			}
			c := summary.Counters()
			stats.Add(BatchStats{
				Statements:           1,
				NodesCreated:         c.NodesCreated(),
				RelationshipsCreated: c.RelationshipsCreated(),
				PropertiesSet:        c.PropertiesSet(),
				LabelsAdded:          c.LabelsAdded(),
			})
		}
		return stats, nil
	})
	if err != nil {
		return BatchStats{}, fmt.Errorf("write batch: %w", err)
	}
	return out.(BatchStats), nil
}

// HealthCheck verifies the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// Close releases the driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

var _ Writer = (*Store)(nil)
