package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/ditherpunk/internal/config"
	"github.com/ironsheep/ditherpunk/internal/imaging"
	"github.com/ironsheep/ditherpunk/internal/logging"
)

// JSON-RPC 2.0 error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// protocolVersion is the MCP revision the server speaks.
const protocolVersion = "2024-11-05"

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	cfg     config.Config
	version string
	logger  *slog.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server using cfg for output defaults. version is reported
// to clients in the initialize handshake.
func New(cfg config.Config, version string) *Server {
	return &Server{
		cache:   imaging.NewImageCache(),
		cfg:     cfg,
		version: version,
		logger:  logging.For(logging.ComponentServer),
	}
}

// Run serves MCP requests from stdin, writing responses to stdout, until
// stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC message per line from r and writes responses to
// w. Notifications get no response. It returns when r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Dither requests are small, but previews round-trip through clients
	// that may echo them back.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	encoder := json.NewEncoder(w)
	s.logger.Info("server ready", "version", s.version, "protocol", protocolVersion)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			resp = s.errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(&req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	s.logger.Info("input closed, shutting down")
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch {
	case req.Method == "initialize":
		return s.handleInitialize(req)
	case strings.HasPrefix(req.Method, "notifications/"):
		// Client notifications (initialized, cancelled, ...) get no response
		s.logger.Debug("notification", "method", req.Method)
		return nil
	case req.Method == "tools/list":
		return s.handleToolsList(req)
	case req.Method == "tools/call":
		return s.handleToolsCall(req)
	case req.Method == "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ditherpunk",
				"version": s.version,
			},
		},
	}
}

// errorResponse creates a JSON-RPC error response. An empty data string is
// omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}
