package generation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/soapgen/internal/logging"
	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

const (
	// GeneratePath is the generation service endpoint.
	GeneratePath = "/generate-soapui-project/"

	// DefaultTimeout covers the service's per-operation LLM calls.
	DefaultTimeout = 3 * time.Minute

	fieldFile = "wsdl_file"
	fieldText = "user_input"

	maxErrorBody = 2048
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Body)
}

// Client posts WSDL uploads to the generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithRateLimit throttles outbound calls to r per second with the given burst.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// NewClient creates a new generation client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the service root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

var _ submission.Generator = (*Client)(nil)

// Generate uploads req as multipart/form-data and returns the response body
// verbatim on any 2xx status.
func (c *Client) Generate(ctx context.Context, req submission.Request) (string, error) {
	logger := logging.New(ctx)
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		recordCall(time.Since(start), err)
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, contentType, err := encodeForm(req)
	if err != nil {
		logger.LogError("generate", err)
		recordCall(time.Since(start), err)
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, body)
	if err != nil {
		logger.LogError("generate", err)
		recordCall(time.Since(start), err)
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", submission.ArtifactMediaType)
	if rid := logging.RequestID(ctx); rid != "" {
		httpReq.Header.Set("X-Request-Id", rid)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.LogError("generate", err)
		recordCall(time.Since(start), err)
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
		logger.LogWarnf("generate", "upstream returned status %d", resp.StatusCode)
		recordCall(time.Since(start), serr)
		return "", serr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.LogError("generate", err)
		recordCall(time.Since(start), err)
		return "", fmt.Errorf("read response: %w", err)
	}

	recordCall(time.Since(start), nil)
	logger.LogDebugf("generate", "status=%d bytes=%d", resp.StatusCode, len(raw))
	return string(raw), nil
}

func encodeForm(req submission.Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := req.File.Name
	if name == "" {
		name = "upload.wsdl"
	}
	part, err := w.CreateFormFile(fieldFile, name)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(req.File.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.WriteField(fieldText, req.Text); err != nil {
		return nil, "", fmt.Errorf("write text part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
