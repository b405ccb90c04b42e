package main

import (
	"encoding/json"
	"fmt"
)

// The three exposed tools. Defined once at startup; tools/list always
// returns exactly this set.
var toolDescriptors = []Tool{
	{
		Name:        "query",
		Description: "Execute a SQL query against the configured MySQL database",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"sql": {
					Type:        "string",
					Description: "The SQL statement to execute",
				},
			},
			Required: []string{"sql"},
		},
	},
	{
		Name:        "list_tables",
		Description: "List all tables in the configured database with their comments",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
			Required:   []string{},
		},
	},
	{
		Name:        "describe_table",
		Description: "Show the full column definitions of a table",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"table": {
					Type:        "string",
					Description: "Name of the table to describe",
				},
			},
			Required: []string{"table"},
		},
	},
}

func (s *Server) handleInitialize() (any, *Error) {
	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}, nil
}

func (s *Server) handleListTools() (any, *Error) {
	return &ListToolsResult{Tools: toolDescriptors}, nil
}

func (s *Server) handleCallTool(params json.RawMessage) (any, *Error) {
	// Like every other handler failure on a request, bad parameters come
	// back as an internal error envelope.
	var callParams CallToolParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &Error{
			Code:    InternalError,
			Message: fmt.Sprintf("invalid tools/call parameters: %v", err),
		}
	}

	result, err := s.dispatchTool(&callParams)
	if err != nil {
		return nil, &Error{
			Code:    InternalError,
			Message: err.Error(),
		}
	}
	return result, nil
}

func (s *Server) dispatchTool(params *CallToolParams) (*CallToolResult, error) {
	switch params.Name {
	case "query":
		return s.toolQuery(params.Arguments)
	case "list_tables":
		return s.toolListTables()
	case "describe_table":
		return s.toolDescribeTable(params.Arguments)
	default:
		return nil, &UnknownToolError{Name: params.Name}
	}
}

func (s *Server) toolQuery(args map[string]any) (*CallToolResult, error) {
	sqlText, ok := args["sql"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'sql' argument")
	}

	rows, err := s.exec.Execute(s.ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return textResult(rows)
}

func (s *Server) toolListTables() (*CallToolResult, error) {
	rows, err := s.exec.Execute(s.ctx, "SHOW TABLE STATUS")
	if err != nil {
		return nil, err
	}

	tables := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		name, _ := row["Name"].(string)
		// Comment defaults to "" when NULL or absent.
		comment, _ := row["Comment"].(string)
		tables = append(tables, map[string]string{
			"name":    name,
			"comment": comment,
		})
	}
	return textResult(tables)
}

func (s *Server) toolDescribeTable(args map[string]any) (*CallToolResult, error) {
	table, ok := args["table"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'table' argument")
	}

	// The table name is interpolated raw: the caller is a trusted local
	// agent, and quoting would change the error MySQL reports for bad names.
	rows, err := s.exec.Execute(s.ctx, fmt.Sprintf("SHOW FULL COLUMNS FROM %s", table))
	if err != nil {
		return nil, err
	}
	return textResult(rows)
}

// textResult wraps a value as a single text content block of formatted JSON.
func textResult(v any) (*CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &CallToolResult{
		Content: []Content{{Type: "text", Text: string(data)}},
	}, nil
}
