package model

import "time"

// Provenance of a channel's uploads playlist id. The authoritative value comes
// from the channels.list contentDetails lookup; imported share links may only
// carry the channel id, in which case the playlist id is reconstructed by
// prefix substitution.
const (
	UploadsFromLookup    = "lookup"
	UploadsFromHeuristic = "heuristic"
)

// Channel is a tracked YouTube channel. Identity is the canonical,
// platform-assigned ID; duplicates are rejected at add time.
type Channel struct {
	ID                string `json:"id"`
	FolderID          string `json:"folder_id"`
	Title             string `json:"title"`
	Handle            string `json:"handle,omitempty"`
	Thumbnail         string `json:"thumbnail,omitempty"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
	UploadsProvenance string `json:"uploads_provenance,omitempty"`
}

// Folder groups tracked channels. IDs are client-generated and time-based.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Video is one recent upload from a tracked channel. Videos are ephemeral:
// replaced wholesale on refresh, appended on channel add, cascade-deleted on
// channel removal.
type Video struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	Duration     string    `json:"duration"`
	IsShort      bool      `json:"is_short"`
}

// URL returns the public watch URL for the video.
func (v Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// DashboardState is the aggregate application state owned by the dashboard
// usecase. DataPeriod and LastFetchedAt always describe the current Videos
// contents and are updated atomically with them.
type DashboardState struct {
	APIKey        string     `json:"api_key"`
	Channels      []Channel  `json:"channels"`
	Folders       []Folder   `json:"folders"`
	Period        int        `json:"period"`
	Videos        []Video    `json:"videos"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	DataPeriod    *int       `json:"data_period,omitempty"`
}

// PersistedState is the whole-document settings record (store key A).
type PersistedState struct {
	APIKey   string    `json:"api_key"`
	Channels []Channel `json:"channels"`
	Folders  []Folder  `json:"folders"`
	Period   int       `json:"period"`
}

// VideoCacheRecord is the whole-document video cache record (store key B).
type VideoCacheRecord struct {
	Data      []Video   `json:"data"`
	Timestamp time.Time `json:"timestamp"`
	Period    int       `json:"period"`
}

// SharedState is the subset of state carried by a share link token. APIKey is
// empty when the exporting build had a pinned credential.
type SharedState struct {
	APIKey   string    `json:"api_key,omitempty"`
	Channels []Channel `json:"channels"`
	Folders  []Folder  `json:"folders"`
}
