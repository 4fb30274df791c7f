// Package netx holds the JSON-over-HTTP plumbing shared by the remote
// service clients.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/admindash/internal/common"
)

// MaxResponseSize caps how much of a response body is read.
const MaxResponseSize = 1 << 20

// DoJSON sends body as JSON (no body when nil) and returns the status code and
// the response body. A bearer token, when non-empty, goes into the
// Authorization header. Only transport-level failures are returned as
// errors; any HTTP status is a successful exchange.
func DoJSON(ctx context.Context, hc *http.Client, method, url, bearer string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, b, nil
}
