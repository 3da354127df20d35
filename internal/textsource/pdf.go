package textsource

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// PDFSource extracts text from PDF spec sheets using the pdftotext CLI.
type PDFSource struct {
	binPath string
}

// NewPDFSource creates a PDFSource. Empty binPath means "pdftotext".
func NewPDFSource(binPath string) *PDFSource {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PDFSource{binPath: binPath}
}

func (p *PDFSource) Name() string { return "pdf" }

func (p *PDFSource) Supports(ref string) bool {
	return strings.HasSuffix(strings.ToLower(ref), ".pdf")
}

// Extract runs pdftotext -layout and returns stdout. -layout keeps the
// column alignment spec tables rely on.
func (p *PDFSource) Extract(ctx context.Context, ref string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", ref, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "pdf: pdftotext failed for %s: %s", ref, stderr.String())
	}
	return stdout.String(), nil
}
