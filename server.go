package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const ConnectionTimeout = 10 * time.Second

// statementRunner is the seam between the dispatcher and the executor.
type statementRunner interface {
	Execute(ctx context.Context, query string) ([]map[string]any, error)
}

// Server handles the MCP protocol over stdio.
type Server struct {
	exec   statementRunner
	pool   *Pool
	in     io.Reader
	out    io.Writer
	outMu  sync.Mutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer connects to the database described by cfg and verifies
// reachability before returning.
func NewServer(ctx context.Context, cfg *Config) (*Server, error) {
	pool, err := NewPool(cfg.DSN())
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer pingCancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	serverCtx, serverCancel := context.WithCancel(ctx)

	return &Server{
		exec:   NewExecutor(pool, cfg),
		pool:   pool,
		in:     os.Stdin,
		out:    os.Stdout,
		ctx:    serverCtx,
		cancel: serverCancel,
	}, nil
}

// Run reads newline-delimited JSON-RPC messages until the input stream
// closes. Each line is handled on its own goroutine so a slow query does not
// block the read loop; responses are written in completion order, which may
// differ from input order. Returns nil on EOF after in-flight handlers drain.
func (s *Server) Run() error {
	reader := bufio.NewReader(s.in)

	for {
		select {
		case <-s.ctx.Done():
			s.wg.Wait()
			return s.ctx.Err()
		default:
		}

		// ReadString grows with the line, so an oversized message costs
		// memory rather than aborting the loop.
		line, err := reader.ReadString('\n')
		if err != nil {
			s.wg.Wait()
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.wg.Add(1)
		go func(data []byte) {
			defer s.wg.Done()
			if response := s.handleMessage(data); response != nil {
				s.writeResponse(response)
			}
		}([]byte(line))
	}
}

// writeResponse emits one compact JSON line. Nothing else is ever written to
// the output stream.
func (s *Server) writeResponse(response *JSONRPCResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logError("Failed to marshal response: %v", err)
		return
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, string(data))
}

func (s *Server) handleMessage(data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		// Parse failure precedes id extraction, so this is the one error
		// reported with a null id.
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      nil,
			Error: &Error{
				Code:    ParseError,
				Message: "Parse error",
				Data:    err.Error(),
			},
		}
	}

	// An absent or null id marks a notification. Notifications never
	// produce output, recognized method or not, error or not.
	if req.ID == nil {
		s.handleNotification(&req)
		return nil
	}

	result, rpcErr := s.handleRequest(&req)
	if rpcErr != nil {
		return &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

// handleNotification discards the message. notifications/cancelled is
// accepted but deliberately not wired to any abort path; the executor's
// timeout is the only cancellation mechanism.
func (s *Server) handleNotification(_ *JSONRPCRequest) {}

func (s *Server) handleRequest(req *JSONRPCRequest) (any, *Error) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize()
	case "tools/list":
		return s.handleListTools()
	case "tools/call":
		return s.handleCallTool(req.Params)
	default:
		return nil, &Error{
			Code:    MethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}
}

// Shutdown cancels the server context, aborting in-flight handlers.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Close releases all resources.
func (s *Server) Close() error {
	s.Shutdown()
	if s.pool != nil {
		return s.pool.Close()
	}
	return nil
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[mysql-mcp] "+format+"\n", args...)
}
