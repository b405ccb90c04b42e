package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PoolSize is the fixed number of connections the server keeps open. Callers
// beyond this capacity queue inside database/sql until a connection is
// released; there is no per-acquire timeout.
const PoolSize = 5

// killAcquireTimeout bounds how long a best-effort KILL QUERY may wait for a
// spare connection before being dropped.
const killAcquireTimeout = 5 * time.Second

// Pool hands out exclusive connections to the configured database.
type Pool struct {
	db *sql.DB
}

func NewPool(dsn string) (*Pool, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(PoolSize)
	db.SetMaxIdleConns(PoolSize)
	db.SetConnMaxLifetime(time.Hour)

	return &Pool{db: db}, nil
}

// Ping verifies database reachability at startup.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Acquire checks out a dedicated connection, blocking while the pool is
// saturated. The caller must hand the connection to Release exactly once.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	return p.db.Conn(ctx)
}

// Release returns a connection to the pool.
func (p *Pool) Release(conn *sql.Conn) {
	if err := conn.Close(); err != nil {
		logError("Failed to release connection: %v", err)
	}
}

// Kill issues a best-effort KILL QUERY for the given session id on a
// separate pooled connection. Failures are logged and dropped.
func (p *Pool) Kill(sessionID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), killAcquireTimeout)
	defer cancel()

	if _, err := p.db.ExecContext(ctx, fmt.Sprintf("KILL QUERY %d", sessionID)); err != nil {
		logError("Failed to kill query on session %d: %v", sessionID, err)
	}
}

// Close tears down all pooled connections.
func (p *Pool) Close() error {
	return p.db.Close()
}
