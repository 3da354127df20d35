package textsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/specsheet-cli/internal/resilience"
)

func newTestHTTPSource() *HTTPSource {
	src := NewHTTPSource(HTTPOptions{RatePerSecond: 1000})
	src.retryCfg.MaxAttempts = 1
	return src
}

func specPage() string {
	return "<html><body><table><tr><td>Weight</td><td>658 g</td></tr></table>" +
		strings.Repeat("<p>filler</p>", 20) + "</body></html>"
}

func TestHTTPSource_Supports(t *testing.T) {
	t.Parallel()
	src := newTestHTTPSource()
	assert.True(t, src.Supports("https://example.com/specs"))
	assert.True(t, src.Supports("http://example.com"))
	assert.False(t, src.Supports("/tmp/specs.txt"))
	assert.False(t, src.Supports("specs.pdf"))
}

func TestHTTPSource_Extract(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "SpecsheetBot")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(specPage()))
	}))
	defer srv.Close()

	text, err := newTestHTTPSource().Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "658 g")
}

func TestHTTPSource_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestHTTPSource().Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.False(t, resilience.IsTransient(err))
}

func TestHTTPSource_ServerErrorIsTransient(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestHTTPSource().Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestHTTPSource_RetriesTransientFailures(t *testing.T) {
	t.Parallel()
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(specPage()))
	}))
	defer srv.Close()

	src := newTestHTTPSource()
	src.retryCfg = resilience.RetryConfig{MaxAttempts: 2, InitialBackoff: 1, MaxBackoff: 1, Multiplier: 1}

	text, err := src.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "658 g")
	assert.Equal(t, 2, hits)
}

func TestHTTPSource_DetectsBlockPage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body := "Checking your browser before accessing " + strings.Repeat("x", 100)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := newTestHTTPSource().Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestHTTPSource_RejectsTinyPages(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("tiny"))
	}))
	defer srv.Close()

	_, err := newTestHTTPSource().Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty page")
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	t.Run("utf-8 passes through", func(t *testing.T) {
		t.Parallel()
		got, err := decodeBody([]byte("héllo"), "text/html; charset=utf-8")
		require.NoError(t, err)
		assert.Equal(t, "héllo", got)
	})

	t.Run("latin-1 is transcoded", func(t *testing.T) {
		t.Parallel()
		got, err := decodeBody([]byte{0x57, 0x65, 0x69, 0xDF}, "text/html; charset=iso-8859-1")
		require.NoError(t, err)
		assert.Equal(t, "Weiß", got)
	})

	t.Run("missing content type falls back", func(t *testing.T) {
		t.Parallel()
		got, err := decodeBody([]byte("plain"), "")
		require.NoError(t, err)
		assert.Equal(t, "plain", got)
	})

	t.Run("unknown charset falls back", func(t *testing.T) {
		t.Parallel()
		got, err := decodeBody([]byte("plain"), "text/html; charset=klingon")
		require.NoError(t, err)
		assert.Equal(t, "plain", got)
	})
}
