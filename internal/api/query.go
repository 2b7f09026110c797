package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Query modes supported by the backend. Only ModeAgent emits tool events
// in the stream; the retrieval modes stream plain text.
const (
	ModeNaive  = "naive"
	ModeLocal  = "local"
	ModeGlobal = "global"
	ModeMix    = "mix"
	ModeAgent  = "agent"
)

// StreamQuery opens the NDJSON response stream for one query. The caller
// owns the returned body and must close it; canceling ctx aborts the
// stream mid-flight.
func (c *Client) StreamQuery(ctx context.Context, conversationID, query, mode string) (io.ReadCloser, error) {
	if mode == "" {
		mode = ModeNaive
	}
	payload, err := json.Marshal(queryRequest{Query: query, Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("api: encoding query: %w", err)
	}

	url := c.baseURL + "/api/conversations/" + conversationID + "/query/stream"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: opening query stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("api: query stream returned %d: %s", resp.StatusCode, errorDetail(raw))
	}
	return resp.Body, nil
}
