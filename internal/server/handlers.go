package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/report"
	"github.com/ironsheep/shilavakya/internal/scriptorium"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "inscription_enhance").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// argumentsError marks a tool call whose arguments could not be decoded.
type argumentsError struct {
	err error
}

func (e *argumentsError) Error() string { return "invalid arguments: " + e.err.Error() }
func (e *argumentsError) Unwrap() error { return e.err }

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return -32602. Other tool errors return a JSON-RPC
// error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var argErr *argumentsError
		if errors.As(err, &argErr) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Reads the photo from disk or base64 as needed
//  4. Calls the scriptorium service
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "inscription_enhance":
		return s.handleInscriptionEnhance(ctx, args)
	case "transcription_classify":
		return s.handleTranscriptionClassify(ctx, args)
	case "inscription_ocr":
		return s.handleInscriptionOCR(ctx, args)
	case "findspot_plot":
		return s.handleFindspotPlot(ctx, args)
	case "report_generate":
		return s.handleReportGenerate(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments are treated as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argumentsError{err: err}
	}
	return nil
}

// imageSource is embedded by every tool that takes a photo.
type imageSource struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

// load returns the raw photo bytes, capped at maxBytes.
func (src imageSource) load(maxBytes int64) ([]byte, error) {
	switch {
	case src.Path != "" && src.ImageBase64 != "":
		return nil, &argumentsError{err: errors.New("give either path or image_base64, not both")}
	case src.Path != "":
		return imaging.ReadFile(src.Path, maxBytes)
	case src.ImageBase64 != "":
		encoded := src.ImageBase64
		// Accept data URLs as pasted from a browser.
		if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
			encoded = encoded[i+len(";base64,"):]
		}
		if int64(base64.StdEncoding.DecodedLen(len(encoded))) > maxBytes+2 {
			return nil, fmt.Errorf("image exceeds %d bytes", maxBytes)
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, &argumentsError{err: fmt.Errorf("image_base64: %w", err)}
		}
		return raw, nil
	default:
		return nil, &argumentsError{err: errors.New("path or image_base64 is required")}
	}
}

// === Enhancement ===

type inscriptionEnhanceArgs struct {
	imageSource
	BlurSize       *int            `json:"blur_size"`
	ThresholdLow   *int            `json:"threshold_low"`
	ThresholdHigh  *int            `json:"threshold_high"`
	Region         *imaging.Region `json:"region"`
	StrokeWidth    int             `json:"stroke_width"`
	InkColor       string          `json:"ink_color"`
	PaperColor     string          `json:"paper_color"`
	OverlayOpacity float64         `json:"overlay_opacity"`
	LocateText     bool            `json:"locate_text"`
}

// params fills unset fields with the defaults. Zero is a valid threshold, so
// presence is tracked with pointers.
func (a inscriptionEnhanceArgs) params() imaging.Params {
	p := imaging.DefaultParams()
	if a.BlurSize != nil {
		p.BlurSize = *a.BlurSize
	}
	if a.ThresholdLow != nil {
		p.LowThreshold = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		p.HighThreshold = *a.ThresholdHigh
	}
	return p
}

func (s *Server) handleInscriptionEnhance(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a inscriptionEnhanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	raw, err := a.load(s.maxUploadBytes)
	if err != nil {
		return nil, err
	}

	return s.svc.Enhance(ctx, scriptorium.EnhanceRequest{
		Image:          raw,
		Params:         a.params(),
		Region:         a.Region,
		StrokeWidth:    a.StrokeWidth,
		InkColor:       a.InkColor,
		PaperColor:     a.PaperColor,
		OverlayOpacity: a.OverlayOpacity,
		LocateText:     a.LocateText,
	})
}

// === Paleography ===

type transcriptionClassifyArgs struct {
	Text string `json:"text"`
}

func (s *Server) handleTranscriptionClassify(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a transcriptionClassifyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.Classify(ctx, a.Text)
}

// === OCR ===

type inscriptionOCRArgs struct {
	imageSource
	Language string          `json:"language"`
	Region   *imaging.Region `json:"region"`
}

func (s *Server) handleInscriptionOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a inscriptionOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	raw, err := a.load(s.maxUploadBytes)
	if err != nil {
		return nil, err
	}
	return s.svc.Recognize(ctx, scriptorium.RecognizeRequest{
		Image:    raw,
		Language: a.Language,
		Region:   a.Region,
	})
}

// === Findspot and report ===

func (s *Server) handleFindspotPlot(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scriptorium.PlotRequest
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.Plot(ctx, a)
}

func (s *Server) handleReportGenerate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var d report.Dossier
	if err := decodeArgs(args, &d); err != nil {
		return nil, err
	}
	return s.svc.Report(ctx, d)
}
