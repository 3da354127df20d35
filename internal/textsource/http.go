package textsource

import (
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"

	"github.com/sells-group/specsheet-cli/internal/resilience"
)

// HTTPSource fetches a product page over HTTP. It rate-limits requests,
// decodes the response charset, detects anti-bot blocks, and retries
// transient failures. The markup itself is left intact for the engine's
// normalizer.
type HTTPSource struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBytes  int64
	retryCfg  resilience.RetryConfig
}

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
	MaxBodyBytes  int64
	MaxRetries    int
}

// NewHTTPSource creates an HTTPSource with sensible defaults.
func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; SpecsheetBot/1.0)"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 2
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 512 * 1024
	}
	retryCfg := resilience.DefaultRetryConfig()
	if opts.MaxRetries > 0 {
		retryCfg.MaxAttempts = opts.MaxRetries + 1
	}
	return &HTTPSource{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBodyBytes,
		retryCfg:  retryCfg,
	}
}

func (h *HTTPSource) Name() string { return "http" }

func (h *HTTPSource) Supports(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Extract fetches ref and returns the decoded body.
func (h *HTTPSource) Extract(ctx context.Context, ref string) (string, error) {
	return resilience.DoVal(ctx, h.retryCfg, "http fetch", func(ctx context.Context) (string, error) {
		return h.fetch(ctx, ref)
	})
}

func (h *HTTPSource) fetch(ctx context.Context, ref string) (string, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "http: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", eris.Wrap(err, "http: create request")
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes))
	if err != nil {
		return "", eris.Wrap(err, "http: read body")
	}

	if blocked, kind := detectBlock(resp, body); blocked {
		return "", eris.Errorf("http: blocked (%s)", kind)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", resilience.NewTransientError(
			eris.Errorf("http: status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return "", eris.Errorf("http: status %d", resp.StatusCode)
	}
	if len(body) < 100 {
		return "", eris.New("http: empty page")
	}

	return decodeBody(body, resp.Header.Get("Content-Type"))
}

// decodeBody converts body to UTF-8 according to the Content-Type charset.
// Missing or unknown charsets fall back to the bytes as-is.
func decodeBody(body []byte, contentType string) (string, error) {
	if contentType == "" {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), nil
	}
	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" {
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrapf(err, "http: decode charset %q", charset)
	}
	return string(decoded), nil
}

// detectBlock checks a response for anti-bot protection markers.
func detectBlock(resp *http.Response, body []byte) (bool, string) {
	if resp.StatusCode == 403 || resp.StatusCode == 503 {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("server") == "cloudflare" {
			return true, "cloudflare"
		}
	}
	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") {
		return true, "cloudflare"
	}
	if strings.Contains(lower, "recaptcha") || strings.Contains(lower, "hcaptcha") {
		return true, "captcha"
	}
	return false, ""
}
