package tiktok

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across all clients.
var metrics struct {
	SearchRequests     atomic.Int64
	UserDetailRequests atomic.Int64
	BootstrapRequests  atomic.Int64
	InvalidResponses   atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":      metrics.SearchRequests.Load(),
		"user_detail_requests": metrics.UserDetailRequests.Load(),
		"bootstrap_requests":   metrics.BootstrapRequests.Load(),
		"invalid_responses":    metrics.InvalidResponses.Load(),
	}
}

// FormatMetrics returns counters as a simple text format for scraping.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"search_requests", "user_detail_requests",
		"bootstrap_requests", "invalid_responses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
