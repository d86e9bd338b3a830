package repository

import (
	"context"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
)

// PlaylistEntry is one row of a playlistItems.list page, the minimum needed to
// apply the client-side cutoff filter before the details batch call.
type PlaylistEntry struct {
	VideoID     string
	PublishedAt string // RFC 3339 as returned by the API
}

// IYouTube defines the upstream metadata-provider operations consumed by the
// resolver and the fetcher. An empty result slice is a valid "not found"
// signal, not an error.
type IYouTube interface {
	// Channel lookups. ChannelByID and ChannelByHandle return full channel
	// records including the uploads playlist id.
	ChannelByID(ctx context.Context, channelID string) (*model.Channel, error)
	ChannelByHandle(ctx context.Context, handle string) (*model.Channel, error)
	// SearchChannel returns the canonical id of the top channel-type search
	// result, or "" when the search matched nothing.
	SearchChannel(ctx context.Context, query string) (string, error)

	// PlaylistItems lists up to maxResults most recent entries of an uploads
	// playlist.
	PlaylistItems(ctx context.Context, playlistID string, maxResults int64) ([]PlaylistEntry, error)
	// VideosByID batch-fetches snippet, statistics and contentDetails for the
	// given video ids.
	VideosByID(ctx context.Context, ids []string) ([]model.Video, error)
}
