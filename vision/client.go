package vision

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
)

const (
	// DefaultModel is the Gemini model used when none is configured
	DefaultModel = "gemini-2.5-flash"

	// DefaultBaseURL is the Gemini REST endpoint root
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// PingPrompt is sent by Ping to check that the key and model work
	PingPrompt = "Say 'AI is working!' if you can read this. Reply with just that phrase."
)

// ErrNoAPIKey is returned when a client is created without a key
var ErrNoAPIKey = errors.New("no API key configured")

// APIError is an error payload returned by the Gemini API
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// Client talks to the Gemini generateContent endpoint
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	maxEdge    int
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithModel sets the model name
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at another endpoint root
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxEdge sets the longest image edge sent upstream. Zero disables downscaling.
func WithMaxEdge(px int) Option {
	return func(c *Client) {
		if px >= 0 {
			c.maxEdge = px
		}
	}
}

// NewClient creates a Gemini vision client
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	c := &Client{
		apiKey:     apiKey,
		model:      DefaultModel,
		baseURL:    DefaultBaseURL,
		maxEdge:    DefaultMaxEdge,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Describe sends the prompt and the image at imagePath and returns the
// model's text reply
func (c *Client) Describe(ctx context.Context, prompt, imagePath string) (string, error) {
	data, mimeType, err := prepareImage(imagePath, c.maxEdge)
	if err != nil {
		return "", err
	}

	return c.generate(ctx, []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
	})
}

// Ping sends a text-only request and returns the reply
func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.generate(ctx, []part{{Text: PingPrompt}})
}

func (c *Client) generate(ctx context.Context, parts []part) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Role: "user", Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil && parsed.Error.Message != "" {
		if parsed.Error.Code == 0 {
			parsed.Error.Code = resp.StatusCode
		}
		return "", parsed.Error
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 {
		if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("request blocked: %s", parsed.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in response")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response (finish reason %s)", parsed.Candidates[0].FinishReason)
	}
	return text.String(), nil
}
