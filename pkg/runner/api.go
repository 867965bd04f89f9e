package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schemaui/actioneer/pkg/schema"
)

const (
	defaultAPITimeout      = 30 * time.Second
	defaultMaxResponseBody = 10 * 1024 * 1024 // 10MB
)

// Doer is the single-request HTTP client abstraction used by the api
// dispatcher. *http.Client satisfies it; tests inject fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// dispatchAPI performs exactly one HTTP request. No retry, no backoff: a
// failed attempt is a failed action, and retry policy belongs to the host.
func (r *Runner) dispatchAPI(ctx context.Context, action *schema.ActionDef) *schema.ActionResult {
	spec := action.API
	if spec == nil && action.Endpoint != "" {
		spec = &schema.APISpec{URL: action.Endpoint}
	}
	if spec == nil || spec.URL == "" {
		return schema.NewError(schema.ErrCodeValidation, "No API endpoint").Result()
	}

	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	reqURL := spec.URL
	if len(spec.QueryParams) > 0 {
		u, err := url.Parse(reqURL)
		if err != nil {
			return schema.NewError(schema.ErrCodeInvalidURL, "Invalid URL").Result()
		}
		q := u.Query()
		for k, v := range spec.QueryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		reqURL = u.String()
	}

	var bodyReader io.Reader
	if spec.Body != nil {
		b, err := json.Marshal(spec.Body)
		if err != nil {
			return schema.NewErrorf(schema.ErrCodeValidation, "failed to encode request body: %v", err).Result()
		}
		bodyReader = bytes.NewReader(b)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.apiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, reqURL, bodyReader)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeValidation, "failed to create request: %v", err).Result()
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		// Transport failure: the exception message passes through verbatim.
		return schema.Failed(err.Error())
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, defaultMaxResponseBody))
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeNetwork, "failed to read response body: %v", err).Result()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return schema.NewErrorf(schema.ErrCodeHTTP, "API request failed with status %d", resp.StatusCode).Result()
	}

	var parsed any
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
			parsed = string(bodyBytes)
		}
	}
	return schema.SucceededWith(parsed)
}
