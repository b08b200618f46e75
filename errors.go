package tiktok

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when TikTok answers 200 with no body at all,
// which usually means the msToken has expired or never searched.
var ErrEmptyResponse = errors.New("tiktok: empty response body")

// InvalidResponseError is returned when a response body cannot be decoded or
// is missing the list field the endpoint is documented (by observation) to
// carry. A short prefix of the offending body is kept for debugging.
type InvalidResponseError struct {
	Raw     []byte
	Message string
}

func (e *InvalidResponseError) Error() string {
	return "tiktok: invalid response: " + e.Message
}

// StatusError wraps a non-200 HTTP status. 403 typically means the TLS
// fingerprint or msToken was rejected, 429 that the session is rate limited.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tiktok: HTTP %d", e.Code)
}

const rawSnippetLen = 256

// invalidResponse builds an InvalidResponseError keeping at most
// rawSnippetLen bytes of the body, and counts it in the metrics.
func invalidResponse(raw []byte, message string) *InvalidResponseError {
	if len(raw) > rawSnippetLen {
		raw = raw[:rawSnippetLen]
	}
	metrics.InvalidResponses.Add(1)
	return &InvalidResponseError{Raw: raw, Message: message}
}
