// Package tiktok is a client for TikTok's internal web API.
//
// The endpoints are reverse engineered and carry no schema guarantee; your
// msToken cookie needs to have performed a search in a real browser session
// before the search endpoints return data. Search results are streamed page
// by page as pull-driven iterators, so a session costs exactly as many
// upstream requests as the consumer drains.
//
// Transport goes through github.com/anatolykoptev/go-stealth (Chrome TLS
// fingerprint), since TikTok blocks non-browser fingerprints outright.
package tiktok
