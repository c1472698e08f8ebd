// Package scoreclient talks to the scoring service: POST /score for pasted
// transcripts and POST /score_audio for uploads that the service transcribes
// before scoring.
package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nirmaan/scorer/internal/submit"
)

const (
	TextPath  = "/score"
	AudioPath = "/score_audio"

	// RequestIDHeader carries a per-request UUID for correlating logs.
	RequestIDHeader = "X-Request-ID"
)

var version = "dev"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client implements [submit.Scorer] over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	userAgent  string
}

var _ submit.Scorer = (*Client)(nil)

// New creates a client for the service rooted at baseURL. A path in baseURL
// is kept as a prefix of both endpoints.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q: missing host", baseURL)
	}
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
		userAgent:  "scorer/" + version,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ScoreText posts the transcript as JSON and returns the response body. The
// body is decoded whatever the status code, so a JSON error payload from the
// service comes back as the score.
func (c *Client) ScoreText(ctx context.Context, transcript string, durationSec float64) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		Transcript  string   `json:"transcript"`
		DurationSec *float64 `json:"duration_sec"`
	}{transcript, finite(durationSec)})
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	status, body, err := c.post(ctx, TextPath, "application/json", payload)
	if err != nil {
		return nil, err
	}
	return decode(status, body)
}

// ScoreAudio uploads the audio as multipart/form-data with the parts file and
// duration_sec. A non-2xx status returns a [*ServerError] carrying the
// response text; the body is not parsed as JSON in that case.
func (c *Client) ScoreAudio(ctx context.Context, audio *submit.AudioFile, durationSec float64) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := writeFilePart(mw, audio); err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}
	if err := mw.WriteField("duration_sec", FormatDuration(durationSec)); err != nil {
		return nil, &TransportError{Op: "encode", Err: fmt.Errorf("write duration field: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: "encode", Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	status, body, err := c.post(ctx, AudioPath, mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &ServerError{StatusCode: status, Body: string(body)}
	}
	return decode(status, body)
}

// post sends body and reads the whole response.
func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (int, []byte, error) {
	requestID := uuid.NewString()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Score request failed", "requestID", requestID, "path", path, "error", err)
		return 0, nil, &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("Reading score response failed", "requestID", requestID, "path", path, "error", err)
		return 0, nil, &TransportError{Op: "read", Err: err}
	}

	c.logger.Debug("Score request completed",
		"requestID", requestID,
		"path", path,
		"status", resp.StatusCode,
		"requestBytes", len(body),
		"responseBytes", len(data),
		"elapsed", time.Since(start))

	return resp.StatusCode, data, nil
}

func decode(status int, body []byte) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{StatusCode: status, Err: err}
	}
	return raw, nil
}

func writeFilePart(mw *multipart.Writer, audio *submit.AudioFile) error {
	name := audio.Name
	if name == "" {
		name = "blob"
	}
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)

	w, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := w.Write(audio.Data); err != nil {
		return fmt.Errorf("write audio data: %w", err)
	}
	return nil
}

// FormatDuration renders seconds the way a form field stringifies a number:
// integers without a fraction, non-finite values as NaN or ±Infinity, -0 as
// 0, and exponent notation below 1e-6 or from 1e21 on.
func FormatDuration(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		// Go pads the exponent to two digits ("1e-07"); the form does not.
		mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// finite returns nil for values JSON cannot carry, which encode as null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
