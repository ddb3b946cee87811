// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the chat-completion endpoint.
const (
	// DefaultTimeout is the end-to-end timeout used when a request does not
	// carry its own.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// Error variables for the adapter.
var (
	// ErrNoEndpoint indicates the client has no endpoint URL configured.
	ErrNoEndpoint = errors.New("endpoint URL not configured")

	// ErrMalformedResponse indicates the response body did not have the
	// expected {"choices":[{"message":{"content"}}]} shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestError is a non-2xx HTTP response, carrying the status and body
// verbatim for display.
type RequestError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (HTTP %d): %s", e.Status, e.Body)
}

// =============================================================================
// ENVELOPE
// =============================================================================

// requestsData is the inner body of the gateway envelope.
type requestsData struct {
	Messages       []Message       `json:"messages"`
	Model          string          `json:"model"`
	Stream         bool            `json:"stream,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// envelope is the provider-agnostic request body the gateway expects.
type envelope struct {
	Application  string       `json:"application"`
	Provider     string       `json:"provider"`
	RequestsData requestsData `json:"requests_data"`
}

// buildEnvelope assembles the request body for the given messages, model and
// options. Streaming is set explicitly by each transport.
func buildEnvelope(application string, messages []Message, model ModelSpec, opts Options, stream bool) envelope {
	data := requestsData{
		Messages:    messages,
		Model:       model.Model,
		Stream:      stream,
		Temperature: opts.Temperature,
	}
	if opts.ResponseFormat == FormatJSON {
		data.ResponseFormat = &responseFormat{Type: string(FormatJSON)}
	}
	return envelope{
		Application:  application,
		Provider:     model.Provider,
		RequestsData: data,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues chat-completion requests against a gateway endpoint. A single
// request is one attempt: no retries, no backoff; failures surface verbatim.
type Client struct {
	endpoint    string
	application string
	apiKey      string
	timeout     time.Duration
	httpClient  *http.Client
}

// NewClient creates a client for the given endpoint and application id.
func NewClient(endpoint, application string) *Client {
	return &Client{
		endpoint:    strings.TrimSpace(endpoint),
		application: application,
		timeout:     DefaultTimeout,
		httpClient:  &http.Client{},
	}
}

// WithAPIKey attaches a bearer credential. This exists to call third-party
// compatible endpoints directly, bypassing the gateway's own auth.
func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = strings.TrimSpace(key)
	return c
}

// WithTimeout sets the default end-to-end request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured reports whether the client can issue requests.
func (c *Client) IsConfigured() bool {
	return c.endpoint != ""
}

// chatResponse is the non-streaming response shape.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Send issues a single non-streaming request and returns the full text of the
// first choice.
func (c *Client) Send(ctx context.Context, messages []Message, model ModelSpec, opts Options) (string, error) {
	resp, err := c.post(ctx, buildEnvelope(c.application, messages, model, opts, false), opts.Timeout)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Status: resp.StatusCode, Body: string(body)}
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: missing choices", ErrMalformedResponse)
	}
	return chat.Choices[0].Message.Content, nil
}

// post marshals the envelope and issues one POST. The timeout is applied
// end to end via the request context; the streaming transport relies on the
// same deadline covering the whole body read.
func (c *Client) post(ctx context.Context, env envelope, timeout time.Duration) (*http.Response, error) {
	if !c.IsConfigured() {
		return nil, ErrNoEndpoint
	}

	bodyBytes, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// Release the deadline timer once the body is fully consumed.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// setHeaders sets the request headers. The bearer header is attached only
// when an API key is configured.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// readResponse reads a response body with a size cap.
func readResponse(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// cancelReadCloser cancels the request context when the body is closed, so
// the end-to-end deadline covers the full body read and no timer leaks.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
