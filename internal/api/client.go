// Package api is the HTTP client for the knowledge-base backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client talks to the backend. Request/response calls go through a
// retrying client; the query stream uses a plain client because a
// half-consumed stream must never be silently replayed.
type Client struct {
	baseURL string
	http    *http.Client
	stream  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc.StandardClient(),
		// No timeout: the stream stays open for the whole response and is
		// torn down by canceling the request context.
		stream: &http.Client{},
	}
}

func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var out conversationList
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	var out Conversation
	req := createConversationRequest{Title: title}
	if err := c.do(ctx, http.MethodPost, "/api/conversations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateConversation(ctx context.Context, id string, upd UpdateConversation) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodPatch, "/api/conversations/"+id, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations/"+id, nil, nil)
}

// Messages returns the persisted history for a conversation, oldest first.
func (c *Client) Messages(ctx context.Context, id string) ([]Message, error) {
	var out messagesResponse
	if err := c.do(ctx, http.MethodGet, "/api/conversations/"+id+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// ResetMessages truncates the history, keeping messages up to and
// including index.
func (c *Client) ResetMessages(ctx context.Context, id string, index int) error {
	req := resetMessagesRequest{Index: index}
	return c.do(ctx, http.MethodPost, "/api/conversations/"+id+"/messages/reset", req, nil)
}

// GraphStatus reports whether the conversation's knowledge graph is ready
// for querying.
func (c *Client) GraphStatus(ctx context.Context, id string) (*GraphStatus, error) {
	var out GraphStatus
	if err := c.do(ctx, http.MethodGet, "/api/conversations/"+id+"/graph/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do runs one JSON request/response round trip. A nil out discards the
// response body; a nil in sends no body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encoding %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api: %s %s returned %d: %s", method, path, resp.StatusCode, errorDetail(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("api: parsing response of %s %s: %w", method, path, err)
		}
	}
	return nil
}

// errorDetail pulls the backend's detail message out of an error body,
// falling back to the truncated raw body.
func errorDetail(raw []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return truncate(string(raw), 200)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
