package dto

import "github.com/Idkwii/Cycle-youtube-analytics/domain/model"

// AddFolderRequest creates a folder
type AddFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddChannelRequest tracks a new channel. Identifier accepts a handle
// (@name), a canonical channel id, or free text resolved via search.
// FolderID is optional; the first existing folder (or an auto-created default
// folder) is used when absent.
type AddChannelRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	FolderID   string `json:"folder_id,omitempty"`
}

// MoveChannelRequest reassigns a channel to another folder
type MoveChannelRequest struct {
	FolderID string `json:"folder_id" binding:"required"`
}

// SetPeriodRequest changes the analysis window (trailing days)
type SetPeriodRequest struct {
	Days int `json:"days" binding:"required"`
}

// ImportRequest carries a share link token
type ImportRequest struct {
	Token string `json:"token" binding:"required"`
}

// StateResponse is the full application state snapshot read by the
// presentation layer
type StateResponse struct {
	APIKeySet     bool            `json:"api_key_set"`
	Channels      []model.Channel `json:"channels"`
	Folders       []model.Folder  `json:"folders"`
	Period        int             `json:"period"`
	Videos        []VideoItem     `json:"videos"`
	LastFetchedAt *string         `json:"last_fetched_at,omitempty"`
	DataPeriod    *int            `json:"data_period,omitempty"`
	Loading       bool            `json:"loading"`
}

// VideoItem is a video row with its derived watch URL
type VideoItem struct {
	model.Video
	URL string `json:"url"`
}

// ShareLinkResponse carries the generated shareable link and its raw token
type ShareLinkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// SummaryResponse aggregates metrics over the currently loaded videos
type SummaryResponse struct {
	VideoCount    int   `json:"video_count"`
	TotalViews    int64 `json:"total_views"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
}

// ChannelRank is one row of the top-channels view
type ChannelRank struct {
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	TotalViews   int64  `json:"total_views"`
}

// RefreshResponse reports the outcome of a refresh pass
type RefreshResponse struct {
	Refreshed  bool `json:"refreshed"`
	VideoCount int  `json:"video_count"`
}

// NotificationItem is one active toast entry
type NotificationItem struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	CreatedAt string `json:"created_at"`
}
