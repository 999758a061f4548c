package paleography

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"
)

// DefaultLexiconDistance is the edit distance tolerated by the lexicon classifier.
const DefaultLexiconDistance = 2

// LexiconClassifier is a lenient variant of SubstringClassifier. Text that
// contains a marker literally is labelled exactly as SubstringClassifier does.
// Otherwise it splits the transcription into tokens, dropping Leiden editorial
// brackets, and accepts a token, or the leading part of a token as long as the
// marker, within maxDistance edits of a marker. Confidence drops by a fixed
// step for every edit.
type LexiconClassifier struct {
	rules       []Rule
	maxDistance int
}

// NewLexiconClassifier builds a classifier that tolerates up to maxDistance
// character edits.
func NewLexiconClassifier(maxDistance int, rules ...Rule) *LexiconClassifier {
	if maxDistance < 0 {
		maxDistance = 0
	}
	return &LexiconClassifier{rules: rules, maxDistance: maxDistance}
}

// Classify implements Classifier.
func (c *LexiconClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{}, err
	}
	text, err := normalize(text)
	if err != nil {
		return Classification{}, err
	}

	for _, r := range c.rules {
		if r.Marker != "" && strings.Contains(text, r.Marker) {
			return Classification{Label: r.Label, Confidence: DefaultConfidence, Matched: r.Marker}, nil
		}
	}

	best := Classification{Label: LabelUnknown, Confidence: DefaultConfidence}
	bestDist := c.maxDistance + 1

	for _, tok := range tokenize(text) {
		for _, r := range c.rules {
			if r.Marker == "" {
				continue
			}
			n := utf8.RuneCountInString(r.Marker)
			for _, cand := range []string{tok, runePrefix(tok, n)} {
				d := levenshtein.Distance(cand, r.Marker)
				if d < bestDist {
					bestDist = d
					best = Classification{
						Label:      r.Label,
						Confidence: lexiconConfidence(d, n),
						Matched:    cand,
					}
				}
			}
		}
	}
	return best, nil
}

// runePrefix returns the first n runes of s, or s itself if it is shorter.
func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// lexiconConfidence scales DefaultConfidence by the share of the marker that
// survived unedited.
func lexiconConfidence(dist, markerLen int) float64 {
	if markerLen == 0 || dist >= markerLen {
		return 0
	}
	return DefaultConfidence * float64(markerLen-dist) / float64(markerLen)
}

// tokenize splits on whitespace and Leiden sigla ([ ] ( ) { } < > ⟨ ⟩ | / etc.).
// Combining marks are kept, since Indic vowel signs and viramas are part of
// the word.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		if unicode.IsSpace(r) {
			return true
		}
		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			return false
		}
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
