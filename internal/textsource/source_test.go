package textsource

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name     string
	supports bool
	text     string
	err      error
	calls    int
}

func (s *stubSource) Name() string             { return s.name }
func (s *stubSource) Supports(ref string) bool { return s.supports }
func (s *stubSource) Extract(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestChain_FirstSupportingSourceWins(t *testing.T) {
	t.Parallel()
	first := &stubSource{name: "first", supports: true, text: "from first"}
	second := &stubSource{name: "second", supports: true, text: "from second"}

	text, err := NewChain(first, second).Extract(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "from first", text)
	assert.Zero(t, second.calls)
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	t.Parallel()
	first := &stubSource{name: "first", supports: true, err: eris.New("boom")}
	second := &stubSource{name: "second", supports: true, text: "recovered"}

	text, err := NewChain(first, second).Extract(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 1, first.calls)
}

func TestChain_SkipsUnsupportingSources(t *testing.T) {
	t.Parallel()
	skipped := &stubSource{name: "skipped", supports: false, text: "never"}
	used := &stubSource{name: "used", supports: true, text: "ok"}

	text, err := NewChain(skipped, used).Extract(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Zero(t, skipped.calls)
}

func TestChain_AllFail(t *testing.T) {
	t.Parallel()
	first := &stubSource{name: "first", supports: true, err: eris.New("one")}
	second := &stubSource{name: "second", supports: true, err: eris.New("two")}

	_, err := NewChain(first, second).Extract(context.Background(), "ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all sources failed")
}

func TestChain_NoSourceSupports(t *testing.T) {
	t.Parallel()
	_, err := NewChain(&stubSource{supports: false}).Extract(context.Background(), "mystery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source supports")
}
