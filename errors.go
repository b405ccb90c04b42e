package main

import (
	"fmt"
	"time"
)

// TimeoutError reports a query that exceeded the configured deadline. By the
// time it surfaces, a server-side KILL QUERY has already been attempted for
// the statement's session.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query timed out after %s; retry or raise DB_QUERY_TIMEOUT", e.Timeout)
}

// UnknownToolError reports a tools/call with a name this server does not expose.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
