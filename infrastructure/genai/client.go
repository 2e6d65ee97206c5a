package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/distribution"
	"product-media-pipeline/domain/generation"
)

const defaultTimeout = 120 * time.Second

// Client calls the AI generation backend over HTTP. The backend is a
// black box: it takes a product's text and image references and returns
// a video artifact plus blog text.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a generation client for the given backend endpoint.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateRequest is the wire shape sent to the backend.
type generateRequest struct {
	ListingID   string   `json:"listingId"`
	ProductID   string   `json:"productId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
	Images      []string `json:"images,omitempty"` // inline images, base64
}

// generateResponse is the wire shape returned on success.
type generateResponse struct {
	Video     string `json:"video"` // base64
	VideoMime string `json:"videoMime"`
	Blog      string `json:"blog"`
	Error     string `json:"error,omitempty"`
}

// Generate implements generation.Generator. Ordinary backend failures
// come back as the failure variant of the result; only precondition
// violations are returned as errors.
func (c *Client) Generate(ctx context.Context, record catalog.ProductRecord) (*generation.GenerationResult, error) {
	if strings.TrimSpace(record.Title) == "" {
		return nil, fmt.Errorf("%w: empty title for %s", generation.ErrInvalidRecord, record.Key())
	}

	req := generateRequest{
		ListingID:   record.ListingID,
		ProductID:   record.ProductID,
		Title:       record.Title,
		Description: record.Description,
	}
	for _, img := range record.Images {
		if img.Inline() {
			req.Images = append(req.Images, base64.StdEncoding.EncodeToString(img.Data))
		} else if img.URL != "" {
			req.ImageURLs = append(req.ImageURLs, img.URL)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return generation.Failed(generation.KindTimeout, err.Error()), nil
		}
		return generation.Failed(generation.KindBackend, err.Error()), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		kind := generation.KindBackend
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			kind = generation.KindRateLimit
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			kind = generation.KindMalformedPrompt
		case http.StatusGatewayTimeout:
			kind = generation.KindTimeout
		}
		return generation.Failed(kind, fmt.Sprintf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))), nil
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return generation.Failed(generation.KindBackend, fmt.Sprintf("malformed backend response: %v", err)), nil
	}
	if out.Error != "" {
		return generation.Failed(generation.KindBackend, out.Error), nil
	}

	video, err := base64.StdEncoding.DecodeString(out.Video)
	if err != nil {
		return generation.Failed(generation.KindBackend, fmt.Sprintf("malformed video payload: %v", err)), nil
	}
	if len(video) == 0 || out.Blog == "" {
		return generation.Failed(generation.KindBackend, "backend returned empty artifacts"), nil
	}

	mime := out.VideoMime
	if mime == "" {
		mime = distribution.MimeTypeMP4
	}
	return generation.Success(video, mime, out.Blog), nil
}

func isTimeout(err error) bool {
	var nerr interface{ Timeout() bool }
	return errors.As(err, &nerr) && nerr.Timeout()
}

// Ensure Client implements generation.Generator
var _ generation.Generator = (*Client)(nil)
