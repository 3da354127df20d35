// Package textsource acquires raw spec text from URLs, PDFs, spreadsheets
// and plain files. Sources hand text in and take nothing back: the parsing
// engine consumes their output and never performs I/O itself.
package textsource

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Source extracts plain text from one kind of reference.
type Source interface {
	Name() string
	Supports(ref string) bool
	Extract(ctx context.Context, ref string) (string, error)
}

// Chain tries sources in order; the first supporting source that succeeds
// wins. Failures are descriptive and never retried here; individual
// sources decide their own retry policy.
type Chain struct {
	sources []Source
}

// NewChain creates a Chain over the given sources, tried in order.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Extract resolves ref through the chain.
func (c *Chain) Extract(ctx context.Context, ref string) (string, error) {
	var lastErr error
	for _, s := range c.sources {
		if !s.Supports(ref) {
			continue
		}
		text, err := s.Extract(ctx, ref)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			zap.L().Debug("textsource: source failed, trying next",
				zap.String("source", s.Name()),
				zap.String("ref", ref),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return "", eris.Wrap(lastErr, "textsource: all sources failed")
	}
	return "", eris.Errorf("textsource: no source supports ref: %s", ref)
}
