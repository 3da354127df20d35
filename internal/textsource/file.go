package textsource

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
)

// FileSource reads plain text (or HTML saved to disk). It accepts any
// existing path, so it sits last in the chain.
type FileSource struct{}

// NewFileSource creates a FileSource.
func NewFileSource() *FileSource { return &FileSource{} }

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Supports(ref string) bool {
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

func (f *FileSource) Extract(_ context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", eris.Wrapf(err, "file: read %s", ref)
	}
	if len(data) == 0 {
		return "", eris.Errorf("file: %s is empty", ref)
	}
	return string(data), nil
}
