package main

import (
	"fmt"
	"strings"
	"time"
)

const selectKeyword = "SELECT"

// withMaxExecutionTime inserts a MAX_EXECUTION_TIME optimizer hint after a
// leading SELECT keyword so MySQL aborts long reads on its own even when the
// client-side deadline race is delayed. The rewrite is deliberately naive:
// anything that does not start with the SELECT keyword (after whitespace)
// passes through untouched, including statements opening with a comment, and
// a statement that already carries a hint gains a second one (MySQL honors
// the first). Non-SELECT statements rely solely on the client-side race and
// the KILL QUERY path.
func withMaxExecutionTime(query string, timeout time.Duration) string {
	trimmed := strings.TrimLeft(query, " \t\r\n")
	if len(trimmed) < len(selectKeyword) || !strings.EqualFold(trimmed[:len(selectKeyword)], selectKeyword) {
		return query
	}
	// "SELECTION" and friends are some other token, not the keyword.
	if len(trimmed) > len(selectKeyword) && !isSpace(trimmed[len(selectKeyword)]) {
		return query
	}

	keywordEnd := len(query) - len(trimmed) + len(selectKeyword)
	return fmt.Sprintf("%s /*+ MAX_EXECUTION_TIME(%d) */%s",
		query[:keywordEnd], timeout.Milliseconds(), query[keywordEnd:])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
