package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// requestOptions are the per-call transport overrides: extra headers merged
// over the session's, and an optional pinned session index (-1 = round-robin).
type requestOptions struct {
	headers      map[string]string
	sessionIndex int
}

// makeRequest performs one GET against an internal API path and decodes the
// body into a raw JSON object. No retries: TikTok's failure modes (expired
// msToken, captcha wall, fingerprint rejection) don't heal on replay, so the
// first failure is surfaced as-is.
func (c *Client) makeRequest(ctx context.Context, path string, params url.Values, ro requestOptions) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := c.pool.pick(ro.sessionIndex)
	if err != nil {
		return nil, err
	}
	if sess.limiter != nil {
		if err := sess.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	for k, v := range sess.queryParams() {
		q.Set(k, v)
	}
	for k, vs := range params {
		q[k] = vs
	}
	if sess.msToken != "" {
		q.Set("msToken", sess.msToken)
	}

	headers := make(map[string]string, len(sess.headers)+len(ro.headers))
	for k, v := range sess.headers {
		headers[k] = v
	}
	for k, v := range ro.headers {
		headers[k] = v
	}

	reqURL := c.baseURL + path + "?" + q.Encode()

	body, status, err := c.transport.Do("GET", reqURL, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("tiktok: %s: %w", path, err)
	}
	if status != http.StatusOK {
		return nil, &StatusError{Code: status}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}

	var page map[string]json.RawMessage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, invalidResponse(body, "undecodable body: "+err.Error())
	}
	if page == nil {
		// literal JSON null, TikTok's way of saying the token is stale
		return nil, invalidResponse(body, "null body")
	}
	return page, nil
}

// pageBool reads an optional boolean field from a raw page. Absent or
// malformed reads as false.
func pageBool(page map[string]json.RawMessage, field string) bool {
	raw, ok := page[field]
	if !ok {
		return false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v
}

// pageInt reads an optional integer field from a raw page, falling back to
// def when absent or malformed.
func pageInt(page map[string]json.RawMessage, field string, def int) int {
	raw, ok := page[field]
	if !ok {
		return def
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}
