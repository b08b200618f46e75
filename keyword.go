package tiktok

import "encoding/json"

// KeywordSuggestion is one related-search keyword from a preview search page.
type KeywordSuggestion struct {
	Keyword string
	Raw     json.RawMessage
}

// decodeSuggestion builds a KeywordSuggestion from one suggestion_list
// entry. The endpoint has shipped both bare strings and objects with a
// "keyword" field.
func (c *Client) decodeSuggestion(rec json.RawMessage) *KeywordSuggestion {
	s := &KeywordSuggestion{Raw: rec}

	var word string
	if err := json.Unmarshal(rec, &word); err == nil {
		s.Keyword = word
		return s
	}

	var obj struct {
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal(rec, &obj); err == nil {
		s.Keyword = obj.Keyword
	}
	return s
}
