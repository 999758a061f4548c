package paleography

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSubstringClassifier(t *testing.T) {
	c := NewSubstringClassifier(DefaultRules()...)

	tests := []struct {
		name      string
		text      string
		wantLabel string
	}{
		{"marker alone", "స్వస్తి", LabelVengiChalukya},
		{"marker in line", "[1] స్వస్తి శ్రీ విజయాభ్యుదయ", LabelVengiChalukya},
		{"marker inside Leiden brackets", "[స్వస్తి]", LabelVengiChalukya},
		{"no marker", "శ్రీ విజయాభ్యుదయ", LabelUnknown},
		{"latin", "svasti sri", LabelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label: got %s, want %s", got.Label, tt.wantLabel)
			}
			if got.Confidence != DefaultConfidence {
				t.Errorf("Confidence: got %f, want %f", got.Confidence, DefaultConfidence)
			}
		})
	}
}

func TestSubstringClassifier_Empty(t *testing.T) {
	c := NewSubstringClassifier(DefaultRules()...)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := c.Classify(context.Background(), text); !errors.Is(err, ErrEmptyTranscription) {
			t.Errorf("Classify(%q): got %v, want ErrEmptyTranscription", text, err)
		}
	}
}

func TestSubstringClassifier_RuleOrder(t *testing.T) {
	c := NewSubstringClassifier(
		Rule{Marker: "alpha", Label: "First"},
		Rule{Marker: "beta", Label: "Second"},
	)

	got, err := c.Classify(context.Background(), "beta alpha")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.Label != "First" || got.Matched != "alpha" {
		t.Errorf("got %+v, want first rule to win", got)
	}
}

func TestSubstringClassifier_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSubstringClassifier(DefaultRules()...).Classify(ctx, "స్వస్తి")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestLexiconClassifier(t *testing.T) {
	c := NewLexiconClassifier(DefaultLexiconDistance, DefaultRules()...)

	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantConf  float64
	}{
		{"exact", "స్వస్తి శ్రీ", LabelVengiChalukya, DefaultConfidence},
		// Missing final vowel sign: one edit.
		{"one edit", "స్వస్త శ్రీ", LabelVengiChalukya, DefaultConfidence * 6 / 7},
		{"bracketed", "[స్వస్తి]", LabelVengiChalukya, DefaultConfidence},
		// Marker fused with the following word.
		{"joined", "స్వస్తిశ్రీ విజయాదిత్య", LabelVengiChalukya, DefaultConfidence},
		// Fused and missing the final vowel sign.
		{"joined one edit", "స్వస్తశ్రీ", LabelVengiChalukya, DefaultConfidence * 6 / 7},
		{"unrelated", "విజయాభ్యుదయ", LabelUnknown, DefaultConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label: got %s, want %s", got.Label, tt.wantLabel)
			}
			if math.Abs(got.Confidence-tt.wantConf) > 1e-9 {
				t.Errorf("Confidence: got %f, want %f", got.Confidence, tt.wantConf)
			}
		})
	}
}

func TestLexiconClassifier_ZeroDistanceIsLiteral(t *testing.T) {
	c := NewLexiconClassifier(0, DefaultRules()...)

	got, err := c.Classify(context.Background(), "స్వస్త")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if got.Label != LabelUnknown {
		t.Errorf("Label: got %s, want %s", got.Label, LabelUnknown)
	}
}

func TestLexiconClassifier_AgreesWithSubstring(t *testing.T) {
	lexicon := NewLexiconClassifier(DefaultLexiconDistance, DefaultRules()...)
	substring := NewSubstringClassifier(DefaultRules()...)

	for _, text := range []string{
		"స్వస్తిశ్రీ విజయాదిత్య",
		"శ్రీస్వస్తి",
		"[స్వస్తి]శ్రీ",
		"స్వస్తి",
	} {
		want, err := substring.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("substring Classify(%q) failed: %v", text, err)
		}
		got, err := lexicon.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("lexicon Classify(%q) failed: %v", text, err)
		}
		if got != want {
			t.Errorf("Classify(%q): got %+v, want %+v", text, got, want)
		}
	}
}

func TestRunePrefix(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"స్వస్తిశ్రీ", 7, "స్వస్తి"},
		{"abc", 5, "abc"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := runePrefix(tt.s, tt.n); got != tt.want {
			t.Errorf("runePrefix(%q, %d): got %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("[1] స్వస్తి, శ్రీ (విజయ)|")
	want := []string{"1", "స్వస్తి", "శ్రీ", "విజయ"}

	if len(got) != len(want) {
		t.Fatalf("tokenize: got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{SubstringName, false},
		{LexiconName, false},
		{"neural", true},
	}
	for _, tt := range tests {
		c, err := New(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q): err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if !tt.wantErr && c == nil {
			t.Errorf("New(%q) returned nil classifier", tt.name)
		}
	}
}
