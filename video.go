package tiktok

import "encoding/json"

// VideoStats are the engagement counters on a video record.
type VideoStats struct {
	DiggCount    int64 `json:"diggCount"`
	ShareCount   int64 `json:"shareCount"`
	CommentCount int64 `json:"commentCount"`
	PlayCount    int64 `json:"playCount"`
}

// Video is a reference to one video from a general search page. The field
// mapping tracks what the endpoint is observed to return; Raw always keeps
// the complete record for fields this struct doesn't model.
type Video struct {
	ID         string
	Desc       string
	CreateTime int64
	Author     string
	Stats      VideoStats
	Raw        json.RawMessage

	client *Client
}

// videoRecord is the observed shape of one video_list entry. Author shows up
// as either an object or a bare username string depending on the surface.
type videoRecord struct {
	ID         string          `json:"id"`
	Desc       string          `json:"desc"`
	CreateTime int64           `json:"createTime"`
	Author     json.RawMessage `json:"author"`
	Stats      VideoStats      `json:"stats"`
}

// decodeSearchVideo builds a Video from one raw video_list record. General
// search wraps the video inside an "item" envelope; both shapes are
// accepted, and missing fields decode to zero values.
func (c *Client) decodeSearchVideo(rec json.RawMessage) *Video {
	body := rec
	var envelope struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(rec, &envelope); err == nil && len(envelope.Item) > 0 {
		body = envelope.Item
	}

	var r videoRecord
	_ = json.Unmarshal(body, &r)

	return &Video{
		ID:         r.ID,
		Desc:       r.Desc,
		CreateTime: r.CreateTime,
		Author:     parseAuthor(r.Author),
		Stats:      r.Stats,
		Raw:        rec,
		client:     c,
	}
}

func parseAuthor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		UniqueID string `json:"uniqueId"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.UniqueID
	}
	return ""
}
