// Package server implements the MCP (Model Context Protocol) server for the
// epigraphy tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the scriptorium
// service through the MCP protocol, so an assistant can enhance stone
// photographs and annotate them on a researcher's behalf.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - inscription_enhance: Edge-enhanced rubbing of a stone photo
//   - transcription_classify: Placeholder dynasty guess for a transcription
//   - inscription_ocr: OCR suggestion (Tesseract builds only)
//   - findspot_plot: GeoJSON marker and map link for a site
//   - report_generate: Report acknowledgement with a YAML summary
//
// Photos are passed either as an absolute path or as base64 bytes. Nothing is
// cached between calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for undecodable arguments, -32000 for tool failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(svc, server.Options{Version: version})
//	if err := srv.Run(ctx); err != nil {
//	    logger.WithError(err).Fatal("mcp server stopped")
//	}
package server
