package server

import (
	"strings"
	"testing"

	"github.com/ironsheep/shilavakya/internal/imaging"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"inscription_enhance",
		"transcription_classify",
		"inscription_ocr",
		"findspot_plot",
		"report_generate",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("expected %d tools, got %d", len(expectedTools), len(tools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			schemaType, ok := tool.InputSchema["type"]
			if !ok {
				t.Error("InputSchema missing 'type' field")
			}
			if schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Error("InputSchema missing 'properties' field")
			}
		})
	}
}

func TestToolDefinitions_ImageSource(t *testing.T) {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range []string{"inscription_enhance", "inscription_ocr"} {
		t.Run(name, func(t *testing.T) {
			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			for _, field := range []string{"path", "image_base64", "region"} {
				if _, ok := props[field]; !ok {
					t.Errorf("missing property %q", field)
				}
			}
		})
	}
}

func TestToolDefinitions_EnhanceDefaults(t *testing.T) {
	var enhance Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "inscription_enhance" {
			enhance = tool
		}
	}
	props := enhance.InputSchema["properties"].(map[string]interface{})

	want := map[string]int{"blur_size": 5, "threshold_low": 50, "threshold_high": 150}
	for field, def := range want {
		prop := props[field].(map[string]interface{})
		if prop["default"] != def {
			t.Errorf("%s default: got %v, want %d", field, prop["default"], def)
		}
	}
}

func TestToolDefinitions_ClassifyRequiresText(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "transcription_classify" {
			continue
		}
		required, ok := tool.InputSchema["required"].([]string)
		if !ok || len(required) != 1 || required[0] != "text" {
			t.Errorf("required: got %v", tool.InputSchema["required"])
		}
	}
}

func TestToolDefinitions_TintDefaults(t *testing.T) {
	var enhance Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "inscription_enhance" {
			enhance = tool
		}
	}
	props := enhance.InputSchema["properties"].(map[string]interface{})

	want := map[string]string{"ink_color": imaging.DefaultInkColor, "paper_color": imaging.DefaultPaperColor}
	for field, def := range want {
		desc := props[field].(map[string]interface{})["description"].(string)
		if !strings.Contains(desc, def) {
			t.Errorf("%s description %q does not name default %s", field, desc, def)
		}
		if !strings.Contains(desc, "black on white") {
			t.Errorf("%s description %q does not describe the untinted case", field, desc)
		}
	}
}
