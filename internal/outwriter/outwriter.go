// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSynthesis prints an audit report using the configured output format.
func (ow *OutWriter) WriteSynthesis(result *schema.SynthesisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSynthesisResult(result, cfg, duration)
}

// WriteEstimate prints a cost quote using the configured output format.
func (ow *OutWriter) WriteEstimate(fp schema.ComplexityFingerprint, estimate schema.CostEstimate, cfg *contract.Config) error {
	return PrintCostEstimate(fp, estimate, cfg)
}

// WriteArchiveStatus prints archive store information using the configured output format.
func (ow *OutWriter) WriteArchiveStatus(status schema.ArchiveStatus, cfg *contract.Config) error {
	return PrintArchiveStatus(status, cfg)
}
