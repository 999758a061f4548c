package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/shilavakya/internal/logger"
	"github.com/ironsheep/shilavakya/internal/scriptorium"
)

// Server handles MCP protocol communication
type Server struct {
	svc            *scriptorium.Service
	maxUploadBytes int64
	requestTimeout time.Duration
	version        string
	log            *logrus.Logger
}

// Options tunes a Server. Zero values select the defaults.
type Options struct {
	// MaxUploadBytes caps images read from disk or decoded from base64.
	MaxUploadBytes int64

	// RequestTimeout bounds a single tools/call.
	RequestTimeout time.Duration

	// Version is reported in serverInfo.
	Version string

	Log *logrus.Logger
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

// New creates a new MCP server instance
func New(svc *scriptorium.Service, opts Options) *Server {
	s := &Server{
		svc:            svc,
		maxUploadBytes: opts.MaxUploadBytes,
		requestTimeout: opts.RequestTimeout,
		version:        opts.Version,
		log:            opts.Log,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = 20 * 1024 * 1024
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = 30 * time.Second
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.log == nil {
		s.log = logger.Logger
	}
	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted or ctx is canceled. A line longer than the request
// limit is discarded and answered with an Invalid Request error.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	limit := s.maxRequestBytes()
	encoder := json.NewEncoder(w)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, tooLong, readErr := readLine(reader, limit)
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("read error: %w", readErr)
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		if resp := s.handleLine(ctx, line, tooLong, limit); resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

// maxRequestBytes is the longest request line accepted. Base64 images
// inflate by 4/3; leave room for the envelope.
func (s *Server) maxRequestBytes() int {
	return int(s.maxUploadBytes/3*4) + 64*1024
}

// handleLine turns one input line into a response, or nil when nothing is owed.
func (s *Server) handleLine(ctx context.Context, line []byte, tooLong bool, limit int) *MCPResponse {
	if tooLong {
		id := recoverID(line)
		s.log.WithFields(logrus.Fields{"id": id, "limit": limit}).Warn("request too large")
		return s.errorResponse(id, -32600, "Invalid Request",
			fmt.Sprintf("request exceeds %d bytes; images may be at most %d bytes", limit, s.maxUploadBytes))
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.WithError(err).Warn("failed to parse request")
		return s.errorResponse(nil, -32700, "Parse error", err.Error())
	}
	return s.handleRequest(ctx, &req)
}

// readLine reads up to and including the next newline. Once a line grows past
// limit, the rest of it is read and dropped, tooLong is set and line holds
// only the first limit bytes.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				line = append(line, chunk[:limit-len(line)]...)
				tooLong = true
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, tooLong, err
	}
}

// recoverID pulls the "id" member out of the start of a truncated request.
// It returns nil if the id does not appear before the first value that
// cannot be decoded.
func recoverID(head []byte) interface{} {
	dec := json.NewDecoder(bytes.NewReader(head))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil
		}
		if key == "id" {
			return value
		}
	}
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "shilavakya",
				"version": s.version,
			},
		},
	}
}
