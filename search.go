package tiktok

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"net/url"
	"strconv"
)

// webSearchCode is an opaque configuration blob the search endpoints require
// verbatim on every request.
const webSearchCode = `{"tiktok":{"client_params_x":{"search_engine":{"ies_mt_user_live_video_card_use_libra":1,"mt_search_general_user_live_card":1}},"search_server":{}}}`

// searchKind binds a logical search variant to its endpoint path and the
// list field its pages carry.
type searchKind struct {
	path      string
	listField string
}

var (
	userSearch       = searchKind{path: "user/full", listField: "user_list"}
	generalSearch    = searchKind{path: "general/full", listField: "video_list"}
	suggestionSearch = searchKind{path: "general/preview", listField: "suggestion_list"}
)

const (
	defaultUserCount       = 10
	defaultGeneralCount    = 9
	defaultSuggestionCount = 8

	// maxUnauthGeneralCount is TikTok's per-request video cap without login.
	maxUnauthGeneralCount = 9
)

type searchOptions struct {
	count   int
	cursor  int
	request requestOptions
}

// SearchOption configures one search session.
type SearchOption func(*searchOptions)

// WithCount sets how many results to accumulate before stopping. The count
// threshold is checked between pages, so the last page is always emitted in
// full.
func WithCount(n int) SearchOption {
	return func(o *searchOptions) { o.count = n }
}

// WithCursor starts pagination at an upstream cursor instead of 0.
func WithCursor(cursor int) SearchOption {
	return func(o *searchOptions) { o.cursor = cursor }
}

// WithHeaders merges extra request headers over the session's for every page
// of this search.
func WithHeaders(headers map[string]string) SearchOption {
	return func(o *searchOptions) { o.request.headers = headers }
}

// WithSession pins the search to one session in the pool instead of
// round-robin selection.
func WithSession(index int) SearchOption {
	return func(o *searchOptions) { o.request.sessionIndex = index }
}

func newSearchOptions(defaultCount int, opts []SearchOption) searchOptions {
	o := searchOptions{
		count:   defaultCount,
		request: requestOptions{sessionIndex: -1},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.count <= 0 {
		o.count = defaultCount
	}
	if o.cursor < 0 {
		o.cursor = 0
	}
	return o
}

// SearchUsers searches for users matching term, streaming results until
// count is satisfied or TikTok reports no more pages.
//
//	for user, err := range client.SearchUsers(ctx, "david teather") {
//		if err != nil {
//			return err
//		}
//		fmt.Println(user.Username)
//	}
func (c *Client) SearchUsers(ctx context.Context, term string, opts ...SearchOption) iter.Seq2[*User, error] {
	o := newSearchOptions(defaultUserCount, opts)
	return searchPages(ctx, c, term, userSearch, o, c.decodeSearchUser)
}

// SearchGeneral searches the home feed for videos matching term. Without
// login TikTok returns at most 9 videos per request; asking for more is
// allowed but logged.
func (c *Client) SearchGeneral(ctx context.Context, term string, opts ...SearchOption) iter.Seq2[*Video, error] {
	o := newSearchOptions(defaultGeneralCount, opts)
	if o.count > maxUnauthGeneralCount {
		slog.Warn("tiktok: general search returns at most 9 videos per request without login",
			slog.Int("count", o.count))
	}
	return searchPages(ctx, c, term, generalSearch, o, c.decodeSearchVideo)
}

// SearchKeywordSuggestions returns related search keywords for term.
func (c *Client) SearchKeywordSuggestions(ctx context.Context, term string, opts ...SearchOption) iter.Seq2[*KeywordSuggestion, error] {
	o := newSearchOptions(defaultSuggestionCount, opts)
	return searchPages(ctx, c, term, suggestionSearch, o, c.decodeSuggestion)
}

// searchParams builds the per-page request parameters.
func searchParams(term string, cursor int) url.Values {
	params := url.Values{}
	params.Set("keyword", term)
	params.Set("cursor", strconv.Itoa(cursor))
	params.Set("from_page", "search")
	params.Set("web_search_code", webSearchCode)
	return params
}

// searchPages drives pagination for one search session: fetch a page, emit
// every record, then either stop (count satisfied, has_more false, or an
// error) or advance to the cursor the page reported. The returned iterator
// is single-consumer and pull-driven: breaking out of the range abandons
// the session with no further requests, and at most one page is ever in
// flight. Any error ends the sequence; items yielded before it stay valid.
func searchPages[T any](ctx context.Context, c *Client, term string, kind searchKind, o searchOptions, decode func(json.RawMessage) T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if term == "" {
			yield(zero, errors.New("tiktok: empty search term"))
			return
		}
		cursor := o.cursor
		found := 0
		for found < o.count {
			metrics.SearchRequests.Add(1)
			page, err := c.makeRequest(ctx, "/api/search/"+kind.path+"/", searchParams(term, cursor), o.request)
			if err != nil {
				yield(zero, err)
				return
			}

			records, err := pageRecords(page, kind.listField)
			if err != nil {
				yield(zero, err)
				return
			}

			for _, rec := range records {
				if !yield(decode(rec), nil) {
					return
				}
				found++
			}

			if found >= o.count {
				return
			}
			if !pageBool(page, "has_more") {
				return
			}
			cursor = pageInt(page, "cursor", cursor)
		}
	}
}

// pageRecords extracts the result list from a raw page. A missing or
// malformed list field is an invalid response; an empty list is not.
func pageRecords(page map[string]json.RawMessage, field string) ([]json.RawMessage, error) {
	raw, ok := page[field]
	if !ok || string(raw) == "null" {
		return nil, invalidResponse(nil, "missing "+field)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, invalidResponse(raw, "malformed "+field+": "+err.Error())
	}
	return records, nil
}
