package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Executor runs one statement per call against a pooled connection, bounded
// by the configured deadline.
type Executor struct {
	pool    *Pool
	timeout time.Duration
	maxRows int
}

func NewExecutor(pool *Pool, cfg *Config) *Executor {
	return &Executor{
		pool:    pool,
		timeout: cfg.QueryTimeout,
		maxRows: cfg.MaxRows,
	}
}

type queryResult struct {
	rows []map[string]any
	err  error
}

// Execute runs a statement and returns its rows, failing with *TimeoutError
// when the deadline fires first. The statement races a timer: if the timer
// wins, the in-flight statement is killed server-side by session id on a
// second pooled connection. The borrowed connection is released exactly once,
// by the goroutine that owns it, after the statement resolves — on success,
// on error, or once the kill lands.
func (e *Executor) Execute(ctx context.Context, query string) ([]map[string]any, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	// The session id is what KILL QUERY targets later.
	var sessionID uint64
	if err := conn.QueryRowContext(ctx, "SELECT CONNECTION_ID()").Scan(&sessionID); err != nil {
		e.pool.Release(conn)
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}

	stmt := withMaxExecutionTime(query, e.timeout)

	// The statement runs under the server's lifetime context, not a
	// per-query deadline: timing out must not tear down the connection, it
	// must kill the statement by session id and hand the connection back.
	done := make(chan queryResult, 1)
	go func() {
		defer e.pool.Release(conn)
		rows, err := e.scanAll(ctx, conn, stmt)
		done <- queryResult{rows: rows, err: err}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.rows, res.err
	case <-timer.C:
		e.pool.Kill(sessionID)
		return nil, &TimeoutError{Timeout: e.timeout}
	}
}

// scanAll executes the statement and collects every row, converting []byte
// values to strings for JSON serialization. Results are capped at maxRows
// with a trailing warning row.
func (e *Executor) scanAll(ctx context.Context, conn *sql.Conn, query string) ([]map[string]any, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		if len(results) >= e.maxRows {
			results = append(results, map[string]any{
				"_warning": fmt.Sprintf("Result truncated at %d rows", e.maxRows),
			})
			break
		}

		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(results)+1, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
