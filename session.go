package tiktok

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	stealth "github.com/anatolykoptev/go-stealth"
	"golang.org/x/time/rate"
)

// session carries the per-connection identity TikTok tracks: an msToken, a
// stable device_id, a browser header set and the common web app query params.
type session struct {
	msToken  string
	deviceID string
	headers  map[string]string

	mu     sync.Mutex
	params map[string]string

	limiter *rate.Limiter
}

func newSession(msToken string, cfg ClientConfig) *session {
	deviceID := randomDeviceID()

	headers := stealth.ChromeHeaders()
	headers["accept"] = "application/json, text/plain, */*"
	headers["referer"] = defaultBaseURL + "/"
	if cfg.UserAgent != "" {
		headers["user-agent"] = cfg.UserAgent
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &session{
		msToken:  msToken,
		deviceID: deviceID,
		headers:  headers,
		params:   defaultWebParams(deviceID),
		limiter:  limiter,
	}
}

// defaultWebParams are the query parameters the web app sends on every API
// call. Values mirror what a desktop Chrome session reports.
func defaultWebParams(deviceID string) map[string]string {
	return map[string]string{
		"aid":              "1988",
		"app_language":     "en",
		"app_name":         "tiktok_web",
		"browser_language": "en-US",
		"browser_name":     "Mozilla",
		"browser_online":   "true",
		"browser_platform": "MacIntel",
		"channel":          "tiktok_web",
		"cookie_enabled":   "true",
		"device_id":        deviceID,
		"device_platform":  "web_pc",
		"os":               "mac",
		"region":           "US",
		"screen_height":    "1080",
		"screen_width":     "1920",
		"tz_name":          "America/New_York",
		"webcast_language": "en",
	}
}

// setParam updates one web app parameter. Used by Bootstrap.
func (s *session) setParam(key, value string) {
	s.mu.Lock()
	s.params[key] = value
	s.mu.Unlock()
}

// queryParams snapshots the session params for one request.
func (s *session) queryParams() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]string, len(s.params))
	for k, v := range s.params {
		snap[k] = v
	}
	return snap
}

// randomDeviceID generates a 19-digit web device_id.
func randomDeviceID() string {
	const digits = "0123456789"
	b := make([]byte, 19)
	b[0] = digits[1+rand.Intn(9)] //nolint:gosec // non-cryptographic use
	for i := 1; i < len(b); i++ {
		b[i] = digits[rand.Intn(len(digits))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

// sessionPool hands out sessions round-robin unless the caller pins one.
type sessionPool struct {
	mu       sync.Mutex
	sessions []*session
	next     int
}

func newSessionPool(cfg ClientConfig) *sessionPool {
	sessions := make([]*session, 0, cfg.NumSessions)
	for i := 0; i < cfg.NumSessions; i++ {
		token := ""
		if len(cfg.MSTokens) > 0 {
			token = cfg.MSTokens[i%len(cfg.MSTokens)]
		}
		sessions = append(sessions, newSession(token, cfg))
	}
	return &sessionPool{sessions: sessions}
}

// pick returns the session at index, or the next one round-robin when index
// is negative.
func (p *sessionPool) pick(index int) (*session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sessions) == 0 {
		return nil, errors.New("tiktok: no sessions configured")
	}
	if index >= 0 {
		if index >= len(p.sessions) {
			return nil, fmt.Errorf("tiktok: session index %d out of range (%d sessions)", index, len(p.sessions))
		}
		return p.sessions[index], nil
	}
	s := p.sessions[p.next%len(p.sessions)]
	p.next++
	return s, nil
}

func (p *sessionPool) all() []*session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*session(nil), p.sessions...)
}
