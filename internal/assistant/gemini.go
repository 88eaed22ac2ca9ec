// AngelaMos | 2026
// gemini.go

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/artvia-backend/internal/config"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/metrics"
)

const maxResponseBytes = 1 << 20

var (
	ErrNotConfigured = errors.New("gemini api key is not configured")
	ErrUnreachable   = errors.New("gemini endpoint unreachable")
	ErrEmptyReply    = errors.New("gemini returned no text")
)

// APIError is a non-2xx answer from the Gemini API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error (%d): %s", e.Status, e.Message)
}

type Message struct {
	Role string
	Text string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
}

func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Generate sends one system instruction plus the conversation and returns
// the text of the first candidate.
func (c *Client) Generate(
	ctx context.Context,
	system string,
	messages []Message,
) (reply string, err error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	ctx, span := core.StartSpan(ctx, "gemini.generate",
		attribute.String("gemini.model", c.model),
		attribute.Int("gemini.messages", len(messages)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ObserveAI(outcome(err), start)
		if err != nil {
			core.SetSpanError(ctx, err)
		}
	}()

	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		Contents:          make([]content, len(messages)),
	}
	for i, m := range messages {
		body.Contents[i] = content{Role: m.Role, Parts: []part{{Text: m.Text}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode gemini request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/models/%s:generateContent?key=%s",
		c.baseURL,
		url.PathEscape(c.model),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return "", fmt.Errorf("%w: %w", ErrUnreachable, stripKey(err))
		}
		return "", fmt.Errorf("call gemini: %w", stripKey(err))
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	var decoded generateResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "Unknown API error"
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode gemini response: %w", decodeErr)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyReply
	}

	text := decoded.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}

	return text, nil
}

func isConnectionError(err error) bool {
	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// stripKey drops the request URL, which carries the API key, from transport
// errors before they are logged.
func stripKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.Is(err, ErrEmptyReply):
		return "empty"
	default:
		return "error"
	}
}
