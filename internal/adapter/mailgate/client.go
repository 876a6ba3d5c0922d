package mailgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Message is a single outbound email handed to the mail gateway. The
// attachment is referenced by name; the gateway resolves it from shared
// storage.
type Message struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	HTMLBody       string `json:"html_body"`
	TextBody       string `json:"text_body"`
	AttachmentName string `json:"attachment_name,omitempty"`
}

// Client exposes synchronous mail dispatch. Any non-success outcome is a
// hard failure of the calling operation.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPClient implements Client via the mail gateway HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an HTTP mail gateway client with the given request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse mail gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mail gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Send posts the message to the gateway and treats anything but 2xx as failure.
func (c *HTTPClient) Send(ctx context.Context, msg Message) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/messages")

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("mail gateway rejected message",
		slog.Int("status", resp.StatusCode),
		slog.String("to", msg.To),
		slog.String("body", string(body)))
	return fmt.Errorf("mail gateway error: %s", resp.Status)
}
