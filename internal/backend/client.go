// Package backend is the REST client for the external itinerary API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/pkg/retry"
)

const maxResponseBytes = 1 << 20

// ErrMissingURL indicates an upload response without a file URL.
var ErrMissingURL = errors.New("upload response carried no url")

// Client calls the itinerary API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialProvider
	retryCfg   retry.Config
	logger     *zap.SugaredLogger
}

// New creates a backend client.
func New(cfg config.BackendConfig, creds CredentialProvider, logger *zap.SugaredLogger) *Client {
	if creds == nil {
		creds = ContextToken{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		creds:      creds,
		retryCfg:   retry.HTTPConfig(cfg.RetryAttempts, cfg.RetryInitialDelay),
		logger:     logger,
	}
}

// CreateItinerary posts the payload and returns the raw response body for id extraction.
func (c *Client) CreateItinerary(ctx context.Context, payload *model.Payload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/itineraries", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	c.logger.Debugw("Itinerary created", "bytes", len(resp))
	return json.RawMessage(resp), nil
}

type uploadResponse struct {
	URL  string `json:"url"`
	Data *struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload sends one file as multipart field "file" and returns its public URL.
func (c *Client) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var decoded uploadResponse
	if err := json.Unmarshal(resp, &decoded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	switch {
	case decoded.Data != nil && decoded.Data.URL != "":
		return decoded.Data.URL, nil
	case decoded.URL != "":
		return decoded.URL, nil
	default:
		return "", ErrMissingURL
	}
}

// AttachToCommunity links a published itinerary to a community. The attach is a POST
// and may already have been applied when a response is lost, so only failures to
// connect are retried. Any answer from the backend, 5xx included, is final.
func (c *Client) AttachToCommunity(ctx context.Context, slug, itineraryID string) error {
	body, err := json.Marshal(model.AttachRequest{ItineraryID: itineraryID})
	if err != nil {
		return fmt.Errorf("marshal attach request: %w", err)
	}
	path := "/communities/" + url.PathEscape(slug) + "/itineraries"

	return retry.Do(ctx, c.retryCfg, func() error {
		_, err := c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body))
		if err != nil && !dialFailed(err) {
			return retry.Permanent(err)
		}
		return err
	})
}

// dialFailed reports whether err happened before the request reached the backend.
func dialFailed(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// Ping checks backend reachability.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debugw("Backend rejected request", "method", method, "path", path, "status", resp.StatusCode)
		return nil, ParseAPIError(resp.StatusCode, data)
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
