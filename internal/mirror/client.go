// Package mirror reads eventually-consistent game state back from the
// indexer. Everything here is advisory: polls feed rendering and displays,
// never authoritative local state, and a failed poll leaves the previous
// snapshot in place.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Querier is the opaque state-mirror boundary: a GraphQL query plus
// variables, returning the raw data document.
type Querier interface {
	Query(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error)
}

// Client talks to the indexer's GraphQL endpoint over HTTP POST.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{endpoint: endpoint, http: &http.Client{}}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) Query(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, oops.Wrapf(err, "encode query")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, oops.Wrapf(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, oops.Wrapf(err, "post query")
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, oops.Wrapf(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("status", resp.StatusCode).Errorf("mirror returned %s", resp.Status)
	}
	var decoded gqlResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, oops.Wrapf(err, "decode response")
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("mirror query failed: %s", decoded.Errors[0].Message)
	}
	return decoded.Data, nil
}

// Probe checks reachability at startup with a bounded backoff. Gameplay
// polls never retry; only this one-shot boot probe does.
func (c *Client) Probe(ctx context.Context) error {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := c.Query(ctx, `query { __typename }`, nil)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
