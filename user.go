package tiktok

import (
	"context"
	"encoding/json"
	"net/url"
)

// User is a lightweight reference to a TikTok account, built from one search
// record. Any identifier may be empty; search records routinely omit
// fields. Full profile data comes from Info.
type User struct {
	SecUID   string `json:"sec_uid"`
	ID       string `json:"user_id"`
	Username string `json:"unique_id"`

	client *Client
}

// searchUserRecord is the nested shape of one user_list entry.
type searchUserRecord struct {
	UserInfo struct {
		SecUID   string `json:"sec_uid"`
		UserID   string `json:"user_id"`
		UniqueID string `json:"unique_id"`
	} `json:"user_info"`
}

// decodeSearchUser builds a User from one raw user_list record. Missing or
// null nested fields decode to empty strings; this never fails.
func (c *Client) decodeSearchUser(rec json.RawMessage) *User {
	var r searchUserRecord
	_ = json.Unmarshal(rec, &r) // partial data is expected upstream behavior
	return &User{
		SecUID:   r.UserInfo.SecUID,
		ID:       r.UserInfo.UserID,
		Username: r.UserInfo.UniqueID,
		client:   c,
	}
}

// UserInfo is the full profile detail for a user.
type UserInfo struct {
	User struct {
		ID             string `json:"id"`
		SecUID         string `json:"secUid"`
		UniqueID       string `json:"uniqueId"`
		Nickname       string `json:"nickname"`
		Signature      string `json:"signature"`
		Verified       bool   `json:"verified"`
		PrivateAccount bool   `json:"privateAccount"`
	} `json:"user"`
	Stats struct {
		FollowerCount  int64 `json:"followerCount"`
		FollowingCount int64 `json:"followingCount"`
		HeartCount     int64 `json:"heartCount"`
		VideoCount     int64 `json:"videoCount"`
	} `json:"stats"`
}

// Info fetches the full profile for this user from the user detail endpoint.
func (u *User) Info(ctx context.Context) (*UserInfo, error) {
	metrics.UserDetailRequests.Add(1)

	params := url.Values{}
	params.Set("secUid", u.SecUID)
	params.Set("uniqueId", u.Username)
	params.Set("from_page", "user")

	page, err := u.client.makeRequest(ctx, "/api/user/detail/", params, requestOptions{sessionIndex: -1})
	if err != nil {
		return nil, err
	}

	raw, ok := page["userInfo"]
	if !ok {
		return nil, invalidResponse(nil, "missing userInfo")
	}
	var info UserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, invalidResponse(raw, "malformed userInfo: "+err.Error())
	}
	return &info, nil
}
