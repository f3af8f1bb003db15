package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout bounds a judgment call when the caller supplies none.
const defaultTimeout = 10 * time.Second

// HTTPClient is a reference Service implementation speaking JSON over HTTP:
// POST {query, candidates} to the endpoint, receive {index, reasoning}. Any
// other transport can be plugged in by implementing Service directly.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a judgment client for the given endpoint. A
// non-positive timeout falls back to the default.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Choose implements Service. Transport and decoding failures are returned as
// errors for the engine to log and degrade on; an out-of-range index is not
// an error and is normalized to NoMatch.
func (c *HTTPClient) Choose(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{Index: NoMatch}, fmt.Errorf("judge: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{Index: NoMatch}, fmt.Errorf("judge: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{Index: NoMatch}, fmt.Errorf("judge: call %s: %w", c.endpoint, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		io.Copy(io.Discard, httpResp.Body)
		return Response{Index: NoMatch}, fmt.Errorf("judge: %s returned status %d", c.endpoint, httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Response{Index: NoMatch}, fmt.Errorf("judge: decode response: %w", err)
	}
	if !ValidIndex(resp.Index, len(req.Candidates)) {
		resp.Index = NoMatch
	}
	return resp, nil
}
