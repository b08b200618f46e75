package tiktok

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	stealth "github.com/anatolykoptev/go-stealth"
)

// Doer is the transport surface the client needs: one request in, body bytes,
// HTTP status and error out. *stealth.BrowserClient satisfies it; tests
// inject fakes.
type Doer interface {
	Do(method, url string, headers map[string]string, body io.Reader) ([]byte, int, error)
}

const defaultBaseURL = "https://www.tiktok.com"

// ClientConfig holds client construction parameters. The zero value is
// usable: one anonymous session over a fresh stealth transport.
type ClientConfig struct {
	// MSTokens are msToken cookie values harvested from browser sessions.
	// Each token gets its own session; tokens cycle when NumSessions is
	// larger than the token count.
	MSTokens []string

	// NumSessions is the session pool size. Defaults to len(MSTokens),
	// minimum 1.
	NumSessions int

	// Timeout applies to the default stealth transport. Ignored when
	// Transport is set. Defaults to 15s.
	Timeout time.Duration

	// UserAgent overrides the randomized Chrome user agent on every session.
	UserAgent string

	// RequestsPerMinute throttles each session independently. 0 = unlimited.
	RequestsPerMinute int

	// Transport replaces the default stealth browser client.
	Transport Doer
}

// Client talks to TikTok's internal web API through a pool of sessions.
// Safe for concurrent use; independent searches share nothing but the
// transport.
type Client struct {
	transport Doer
	pool      *sessionPool
	baseURL   string
}

// NewClient builds a client from cfg, creating the stealth browser transport
// when none is injected.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.NumSessions <= 0 {
		cfg.NumSessions = len(cfg.MSTokens)
		if cfg.NumSessions == 0 {
			cfg.NumSessions = 1
		}
	}

	transport := cfg.Transport
	if transport == nil {
		bc, err := stealth.NewClient(stealth.WithTimeout(int(cfg.Timeout / time.Second)))
		if err != nil {
			return nil, fmt.Errorf("tiktok: stealth client init: %w", err)
		}
		transport = bc
	}

	pool := newSessionPool(cfg)

	return &Client{
		transport: transport,
		pool:      pool,
		baseURL:   defaultBaseURL,
	}, nil
}

// NewClientFromEnv builds a client from TIKTOK_* environment variables:
// TIKTOK_MS_TOKENS (comma-separated), TIKTOK_SESSIONS, TIKTOK_TIMEOUT,
// TIKTOK_USER_AGENT, TIKTOK_REQUESTS_PER_MINUTE.
func NewClientFromEnv() (*Client, error) {
	return NewClient(ClientConfig{
		MSTokens:          env.List("TIKTOK_MS_TOKENS", ""),
		NumSessions:       env.Int("TIKTOK_SESSIONS", 0),
		Timeout:           env.Duration("TIKTOK_TIMEOUT", 15*time.Second),
		UserAgent:         env.Str("TIKTOK_USER_AGENT", ""),
		RequestsPerMinute: env.Int("TIKTOK_REQUESTS_PER_MINUTE", 0),
	})
}

// ParseTokens splits a comma-separated msToken list, dropping blanks.
func ParseTokens(s string) []string {
	var tokens []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
