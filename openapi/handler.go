package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/loopwork-ai/toolrpc/tool"
)

// httpHandler invokes the operation backing a derived tool. Arguments are
// sent as the JSON request body for methods that carry one and as query
// parameters otherwise.
type httpHandler struct {
	method string
	url    string
	client *http.Client
}

var _ tool.Handler = (*httpHandler)(nil)

func (h *httpHandler) Invoke(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var body io.Reader
	target := h.url

	switch h.method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if len(args) > 0 {
			body = bytes.NewReader(args)
		}
	default:
		query, err := queryString(args)
		if err != nil {
			return nil, tool.InvalidArgumentf("invalid arguments: %v", err)
		}
		if query != "" {
			target += "?" + query
		}
	}

	req, err := http.NewRequestWithContext(ctx, h.method, target, body)
	if err != nil {
		return nil, tool.ExecutionFailuref("error creating request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, tool.ExecutionFailuref("error making request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tool.ExecutionFailuref("error reading response: %v", err)
	}

	if resp.StatusCode >= 400 {
		return nil, tool.ExecutionFailuref("%s %s: %s", h.method, h.url, resp.Status)
	}

	// Pass the response through as JSON when possible, as text otherwise
	var result interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		result = string(respBody)
	}
	return result, nil
}

// queryString flattens a JSON object of scalar arguments into a URL query
func queryString(args json.RawMessage) (string, error) {
	if len(args) == 0 {
		return "", nil
	}

	var params map[string]interface{}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", err
	}

	values := url.Values{}
	for name, value := range params {
		switch v := value.(type) {
		case string:
			values.Set(name, v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			values.Set(name, string(encoded))
		}
	}
	return values.Encode(), nil
}
