package main

import (
	"testing"
	"time"
)

func TestWithMaxExecutionTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "uppercase select",
			input:    "SELECT * FROM users",
			expected: "SELECT /*+ MAX_EXECUTION_TIME(10000) */ * FROM users",
		},
		{
			name:     "lowercase select",
			input:    "select 1",
			expected: "select /*+ MAX_EXECUTION_TIME(10000) */ 1",
		},
		{
			name:     "mixed case select",
			input:    "Select id FROM t",
			expected: "Select /*+ MAX_EXECUTION_TIME(10000) */ id FROM t",
		},
		{
			name:     "leading whitespace preserved",
			input:    "  \tSELECT 1",
			expected: "  \tSELECT /*+ MAX_EXECUTION_TIME(10000) */ 1",
		},
		{
			name:     "newline after keyword",
			input:    "SELECT\n1",
			expected: "SELECT /*+ MAX_EXECUTION_TIME(10000) */\n1",
		},
		{
			name:     "bare select keyword",
			input:    "SELECT",
			expected: "SELECT /*+ MAX_EXECUTION_TIME(10000) */",
		},
		{
			// Known fragility: a statement opening with a comment is not
			// recognized as a SELECT and passes through unhinted.
			name:     "leading comment passes through",
			input:    "/* report */ SELECT * FROM users",
			expected: "/* report */ SELECT * FROM users",
		},
		{
			// Known fragility: a second hint block is prepended; MySQL
			// honors the first.
			name:     "already hinted gains second hint",
			input:    "SELECT /*+ MAX_EXECUTION_TIME(5) */ 1",
			expected: "SELECT /*+ MAX_EXECUTION_TIME(10000) */ /*+ MAX_EXECUTION_TIME(5) */ 1",
		},
		{
			name:     "show passes through",
			input:    "SHOW TABLES",
			expected: "SHOW TABLES",
		},
		{
			name:     "insert passes through",
			input:    "INSERT INTO t VALUES (1)",
			expected: "INSERT INTO t VALUES (1)",
		},
		{
			name:     "select-prefixed identifier passes through",
			input:    "SELECTION_LOG",
			expected: "SELECTION_LOG",
		},
		{
			name:     "empty string passes through",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only passes through",
			input:    "   ",
			expected: "   ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := withMaxExecutionTime(tc.input, 10*time.Second)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestWithMaxExecutionTime_TimeoutInMilliseconds(t *testing.T) {
	result := withMaxExecutionTime("SELECT 1", 1*time.Second)
	expected := "SELECT /*+ MAX_EXECUTION_TIME(1000) */ 1"
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
}
