package paleography

import (
	"context"
	"strings"
)

// SubstringClassifier labels a transcription by the first rule whose marker
// occurs literally in the text. Text without any marker is LabelUnknown.
type SubstringClassifier struct {
	rules      []Rule
	confidence float64
}

// NewSubstringClassifier builds a classifier from rules, checked in order.
func NewSubstringClassifier(rules ...Rule) *SubstringClassifier {
	return &SubstringClassifier{
		rules:      rules,
		confidence: DefaultConfidence,
	}
}

// Classify implements Classifier.
func (c *SubstringClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{}, err
	}
	text, err := normalize(text)
	if err != nil {
		return Classification{}, err
	}

	for _, r := range c.rules {
		if r.Marker != "" && strings.Contains(text, r.Marker) {
			return Classification{Label: r.Label, Confidence: c.confidence, Matched: r.Marker}, nil
		}
	}
	return Classification{Label: LabelUnknown, Confidence: c.confidence}, nil
}
