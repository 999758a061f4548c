// Package paleography assigns a tentative dynasty label to a transcription.
//
// None of the classifiers here is a real model. They exist so that callers
// depend only on the Classifier interface and a trained model can be dropped
// in later without touching them.
package paleography

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTranscription is returned when there is no text to classify.
var ErrEmptyTranscription = errors.New("transcription is empty")

// Classifier names accepted by New.
const (
	SubstringName = "substring"
	LexiconName   = "lexicon"
)

// Labels produced by the built-in rules.
const (
	LabelVengiChalukya = "Vengi Chalukya"
	LabelUnknown       = "Unknown"
)

// DefaultMarker is the invocation "svasti" in Telugu script, which opens many
// Eastern Chalukya grants.
const DefaultMarker = "స్వస్తి"

// DefaultConfidence is the fixed score reported by the placeholder rules.
const DefaultConfidence = 0.942

// Classification is the result of classifying one transcription.
type Classification struct {
	// Label is the dynasty guess, or LabelUnknown.
	Label string `json:"label"`

	// Confidence is a score in [0, 1].
	Confidence float64 `json:"confidence"`

	// Matched is the text fragment that triggered the label, if any.
	Matched string `json:"matched,omitempty"`
}

// Classifier maps a transcription to a Classification.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Rule ties a marker string to the label it implies.
type Rule struct {
	Marker string `json:"marker" yaml:"marker"`
	Label  string `json:"label" yaml:"label"`
}

// DefaultRules returns the single built-in rule.
func DefaultRules() []Rule {
	return []Rule{{Marker: DefaultMarker, Label: LabelVengiChalukya}}
}

// New returns the classifier registered under name. An empty name selects
// the substring classifier.
func New(name string) (Classifier, error) {
	switch name {
	case "", SubstringName:
		return NewSubstringClassifier(DefaultRules()...), nil
	case LexiconName:
		return NewLexiconClassifier(DefaultLexiconDistance, DefaultRules()...), nil
	default:
		return nil, fmt.Errorf("unknown classifier %q (want %q or %q)", name, SubstringName, LexiconName)
	}
}

// normalize trims text and reports ErrEmptyTranscription for blank input.
func normalize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscription
	}
	return text, nil
}
