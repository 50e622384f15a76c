// Package sdk provides a Go client for the searchlight answer API.
//
// The client posts a question and decodes the server-sent event stream
// incrementally:
//
//	client := sdk.New("http://localhost:8080")
//	err := client.Ask(ctx, sdk.AskRequest{Query: "what is searchlight?"},
//	    func(ev sdk.Event) error {
//	        if ev.Answer != "" {
//	            fmt.Print(ev.Answer)
//	        }
//	        return nil
//	    })
package sdk

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AskRequest is the question payload.
type AskRequest struct {
	Query    string `json:"query"`
	UseCache *bool  `json:"use_cache,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Model    string `json:"model,omitempty"`
	Source   string `json:"source,omitempty"`
}

// TextSource is one retrieved text result.
type TextSource struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// ImageSource is one retrieved image result.
type ImageSource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// Event is one decoded stream event. Exactly one field group is set:
// Sources, Images, or an Answer/Related token.
type Event struct {
	Sources []TextSource  `json:"sources"`
	Images  []ImageSource `json:"images"`
	Answer  string        `json:"answer"`
	Related string        `json:"related"`
}

// APIError is a non-streaming error response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("searchlight: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Client talks to a searchlight server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithAPIKey authenticates requests with a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No overall timeout: answer streams stay open for the whole generation.
		http: &http.Client{Timeout: 0},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask streams the answer for a question, invoking onEvent for every event
// until the terminal marker. An error from onEvent stops the stream and is
// returned.
func (c *Client) Ask(ctx context.Context, req AskRequest, onEvent func(Event) error) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ask", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return decodeStream(resp.Body, onEvent)
}

// Models returns the server's model allow-list and default.
func (c *Client) Models(ctx context.Context) (models []string, defaultModel string, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", decodeAPIError(resp)
	}

	var out struct {
		Models  []string `json:"models"`
		Default string   `json:"default"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}
	return out.Models, out.Default, nil
}

// decodeStream reads "data: ..." frames until the [DONE] marker or EOF.
func decodeStream(r io.Reader, onEvent func(Event) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			return nil
		}

		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		if err := onEvent(ev); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return fmt.Errorf("stream ended without terminal marker")
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		_ = json.Unmarshal(data, apiErr)
	}
	if apiErr.Code == "" {
		apiErr.Code = "unexpected_status"
	}
	return apiErr
}
