// Package report implements the "generate report" action. It does not write
// a document; it acknowledges the request and echoes back whatever the caller
// gathered as a YAML summary.
package report

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/shilavakya/internal/findspot"
)

// Message is the fixed acknowledgement returned for every report.
const Message = "Analysis complete. Documenting Consensus Coefficient..."

// Dossier collects the results a researcher has on screen when they ask for
// a report. Every field is optional.
type Dossier struct {
	Findspot   *findspot.Findspot `json:"findspot,omitempty" yaml:"findspot,omitempty"`
	Dynasty    string             `json:"dynasty,omitempty" yaml:"dynasty,omitempty"`
	Confidence float64            `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	EdgeCount  int                `json:"edge_count,omitempty" yaml:"edge_count,omitempty"`
	Width      int                `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int                `json:"height,omitempty" yaml:"height,omitempty"`
	Notes      string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Empty reports whether no field of d is set.
func (d Dossier) Empty() bool {
	return d == Dossier{}
}

// Report is the acknowledgement returned to the caller.
type Report struct {
	Message     string    `json:"message"`
	Summary     string    `json:"summary,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generate acknowledges a report request for d. Summary is empty when d
// carries no data.
func Generate(d Dossier) (*Report, error) {
	return generate(d, time.Now().UTC())
}

func generate(d Dossier, now time.Time) (*Report, error) {
	r := &Report{Message: Message, GeneratedAt: now}
	if d.Empty() {
		return r, nil
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode report summary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode report summary: %w", err)
	}
	r.Summary = b.String()
	return r, nil
}
