package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/lifecycle"
	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/resilience"
)

const (
	defaultTimeout     = 5 * time.Minute
	defaultMaxAttempts = 2
	defaultBackoff     = time.Second
	defaultPath        = "/transcribe"
)

// EndpointSource supplies the freshest resolved endpoint. The client reads
// it on every attempt instead of caching a value at construction time,
// because the underlying port can change across restarts.
type EndpointSource interface {
	Current() (lifecycle.Endpoint, bool)
}

// StatusSource reports the current lifecycle state.
type StatusSource interface {
	State() lifecycle.State
}

// ClientConfig holds the retry/timeout policy. It is configured once at
// construction and immutable thereafter.
type ClientConfig struct {
	// Timeout bounds each transcription HTTP attempt.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// Backoff is the base delay between attempts.
	Backoff time.Duration `yaml:"backoff" mapstructure:"backoff"`
	// BackoffStrategy is "fixed" or "linear".
	BackoffStrategy string `yaml:"backoff_strategy" mapstructure:"backoff_strategy"`
	// Path is the transcription endpoint path on the service base URL.
	Path string `yaml:"path" mapstructure:"path"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *ClientConfig) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.Backoff == 0 {
		c.Backoff = defaultBackoff
	}
	if c.BackoffStrategy == "" {
		c.BackoffStrategy = resilience.BackoffFixed
	}
	if c.Path == "" {
		c.Path = defaultPath
	}
}

// Client sends transcription requests to the remote service. Any number of
// Transcribe calls may run concurrently; each gets its own retry loop and
// timeout.
type Client struct {
	cfg        ClientConfig
	endpoint   EndpointSource
	status     StatusSource
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a transcription client. The endpoint source is a
// read-only reference owned by the lifecycle controller.
func NewClient(cfg ClientConfig, endpoint EndpointSource, status StatusSource, log *logger.Logger) *Client {
	cfg.ApplyDefaults()
	return &Client{
		cfg:      cfg,
		endpoint: endpoint,
		status:   status,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.WithComponent("transcribe"),
	}
}

// CloseIdleConnections closes keep-alive connections held in the client's
// connection pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Transcribe validates the request, sends it to the remote service and
// normalizes the response. Validation failures and the not-Running gate are
// reported before any network I/O; transport failures are retried per the
// configured policy and only 4xx responses are terminal on first sight.
func (c *Client) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	if state := c.status.State(); state != lifecycle.StateRunning {
		return nil, errors.ServiceUnavailable(fmt.Sprintf("service is not running (state: %s)", state)).
			WithDetail("state", string(state))
	}

	requestID := uuid.NewString()
	log := c.log.WithFields(map[string]interface{}{
		logger.FieldRequestID: requestID,
		logger.FieldModel:     req.Model,
	})
	start := time.Now()

	retryCfg := resilience.RetryConfig{
		MaxAttempts: c.cfg.MaxAttempts,
		Backoff:     c.cfg.Backoff,
		Strategy:    c.cfg.BackoffStrategy,
		RetryIf:     errors.IsRetryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			log.Warn("retrying transcription", map[string]interface{}{
				logger.FieldAttempt: attempt,
				logger.FieldError:   err.Error(),
				"backoff_ms":        backoff.Milliseconds(),
			})
		},
	}

	result, err := resilience.Retry(ctx, retryCfg, func() (*Result, error) {
		return c.attempt(ctx, &req)
	})
	if err != nil {
		log.WithError(err).Error("transcription failed", map[string]interface{}{
			logger.FieldDuration: time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	result.ModelID = req.Model

	log.Info("transcription complete", map[string]interface{}{
		logger.FieldDuration: result.ProcessingTimeMs,
		"segments":           len(result.Segments),
		"language":           result.Language,
	})
	return result, nil
}

// attempt performs one HTTP round trip against the freshest endpoint.
func (c *Client) attempt(ctx context.Context, req *Request) (*Result, error) {
	endpoint, ok := c.endpoint.Current()
	if !ok {
		return nil, errors.ServiceUnavailable("no resolved endpoint")
	}

	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, errors.New(errors.KindInvalidRequest, "failed to encode request body").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.BaseURL+c.cfg.Path, body)
	if err != nil {
		return nil, errors.ServiceUnavailable("create request").WithCause(err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.ServiceUnavailable("transcription request failed").WithCause(err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp)
}

// decodeResponse classifies the HTTP status and normalizes the body.
func (c *Client) decodeResponse(resp *http.Response) (*Result, error) {
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// Application errors are terminal; never retried.
		return nil, errors.InvalidRequest(resp.StatusCode, remoteErrorMessage(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.ServiceUnavailable(fmt.Sprintf("remote service returned HTTP %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, errors.MalformedResponse("decode response body").WithCause(err)
	}
	if wire.Text == nil {
		return nil, errors.MalformedResponse("response missing transcribed text")
	}

	return normalize(&wire), nil
}

// encodeMultipart builds the multipart body carrying the audio payload and
// the transcription options as form fields.
func encodeMultipart(req *Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", req.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, "", err
	}

	_ = writer.WriteField("language", req.Language)
	_ = writer.WriteField("task", string(req.Task))
	_ = writer.WriteField("word_timestamps", strconv.FormatBool(req.WordTimestamps))
	if req.Model != "" {
		_ = writer.WriteField("model", req.Model)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

// remoteErrorMessage extracts the error field from a 4xx body, falling back
// to the raw body text.
func remoteErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "request rejected"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}

// --- wire types ---

type wireResponse struct {
	Text       *string       `json:"text"`
	Language   string        `json:"language"`
	Confidence *float64      `json:"confidence"`
	Segments   []wireSegment `json:"segments"`
	Duration   float64       `json:"duration"`
}

type wireSegment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// normalize converts the wire response into a Result: confidence values are
// clamped to [0, 1] and an absent segments field becomes an empty slice.
func normalize(wire *wireResponse) *Result {
	result := &Result{
		Text:     *wire.Text,
		Language: wire.Language,
		Duration: wire.Duration,
		Segments: make([]Segment, 0, len(wire.Segments)),
	}

	if wire.Confidence != nil {
		result.Confidence = clamp01(*wire.Confidence)
	}

	for _, seg := range wire.Segments {
		s := Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
		if seg.Confidence != nil {
			clamped := clamp01(*seg.Confidence)
			s.Confidence = &clamped
		}
		result.Segments = append(result.Segments, s)
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
