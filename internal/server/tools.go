package server

import "github.com/ironsheep/shilavakya/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties are shared by every tool that takes a photo. Exactly
// one of path and image_base64 must be given.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a JPEG or PNG photograph of the stone",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded JPEG or PNG bytes, as an alternative to path",
		},
	}
}

func regionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required":    []string{"x1", "y1", "x2", "y2"},
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	enhanceProps := imageSourceProperties()
	enhanceProps["blur_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Side of the square Gaussian kernel; odd, 1 disables smoothing. Default 5",
		"default":     5,
		"minimum":     1,
		"maximum":     15,
	}
	enhanceProps["threshold_low"] = map[string]interface{}{
		"type":        "integer",
		"description": "Weak-edge gradient threshold (0-255). Default 50",
		"default":     50,
		"minimum":     0,
		"maximum":     255,
	}
	enhanceProps["threshold_high"] = map[string]interface{}{
		"type":        "integer",
		"description": "Strong-edge gradient threshold (0-255). Default 150",
		"default":     150,
		"minimum":     0,
		"maximum":     255,
	}
	enhanceProps["region"] = regionProperty("Optional area of the photo to enhance. If omitted, the whole photo is used.")
	enhanceProps["stroke_width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Widen strokes by this many pixels. Default 0",
		"default":     0,
	}
	enhanceProps["ink_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex color for strokes (#RRGGBB). If both colors are omitted the rubbing stays black on white; otherwise a missing ink color defaults to " + imaging.DefaultInkColor,
	}
	enhanceProps["paper_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex color for the background (#RRGGBB). If both colors are omitted the rubbing stays black on white; otherwise a missing paper color defaults to " + imaging.DefaultPaperColor,
	}
	enhanceProps["overlay_opacity"] = map[string]interface{}{
		"type":        "number",
		"description": "If > 0, also return the strokes drawn over the photo at this opacity (0-1)",
		"default":     0,
	}

	enhanceProps["locate_text"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also suggest regions of the photo that look like inscribed text",
		"default":     false,
	}

	ocrProps := imageSourceProperties()
	ocrProps["language"] = map[string]interface{}{
		"type":        "string",
		"description": "Tesseract language code, or several joined with '+' (e.g. tel+san). Defaults to the server setting",
	}
	ocrProps["region"] = regionProperty("Optional area of the photo to read.")

	return []Tool{
		{
			Name:        "inscription_enhance",
			Description: "Turn a photograph of an inscribed stone into a rubbing-like line drawing: grayscale, Gaussian blur, Canny edge detection, inverted so strokes are dark on a light field. Returns the original and the enhanced image as base64 PNG with the edge pixel count.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": enhanceProps,
			},
		},
		{
			Name:        "transcription_classify",
			Description: "Suggest a dynasty for a transcribed inscription. This is a keyword rule, not a trained model.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Transcription of the inscription",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "inscription_ocr",
			Description: "Suggest a transcription by running OCR over a stone photograph. Returns recognized text and word boxes. Not available in every build.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": ocrProps,
			},
		},
		{
			Name:        "findspot_plot",
			Description: "Place a findspot on a map. Returns a GeoJSON point feature and an OpenStreetMap link. Coordinates are not validated.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"site": map[string]interface{}{
						"type":        "string",
						"description": "Site name. Default 'Addanki Pillar' when no coordinates are given",
					},
					"lat": map[string]interface{}{
						"type":        "number",
						"description": "Latitude in decimal degrees. Default 15.8128",
					},
					"lon": map[string]interface{}{
						"type":        "number",
						"description": "Longitude in decimal degrees. Default 79.9699",
					},
					"zoom": map[string]interface{}{
						"type":        "integer",
						"description": "Map zoom level. Default 12",
						"default":     12,
					},
				},
			},
		},
		{
			Name:        "report_generate",
			Description: "Acknowledge a report request and echo the supplied findings as a YAML summary. No document is produced.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"findspot": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"site": map[string]interface{}{"type": "string"},
							"lat":  map[string]interface{}{"type": "number"},
							"lon":  map[string]interface{}{"type": "number"},
						},
					},
					"dynasty":    map[string]interface{}{"type": "string"},
					"confidence": map[string]interface{}{"type": "number"},
					"edge_count": map[string]interface{}{"type": "integer"},
					"width":      map[string]interface{}{"type": "integer"},
					"height":     map[string]interface{}{"type": "integer"},
					"notes":      map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
