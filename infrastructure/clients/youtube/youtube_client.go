package youtube

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
)

// Metrics is the subset of the metrics collector the client reports to.
type Metrics interface {
	RecordAPICall(endpoint string)
}

// Client wraps the YouTube Data API v3 in API-key mode. Calls pass through a
// shared rate limiter to keep bursts from burning quota. The key can change
// at runtime (a share link may carry a different credential), so the service
// handle sits behind a mutex.
type Client struct {
	mu      sync.RWMutex
	service *youtube.Service
	limiter *rate.Limiter
	metrics Metrics
}

// NewClient creates a read-only YouTube client. The key may be empty; calls
// fail until UpdateKey provides one.
func NewClient(ctx context.Context, apiKey string, metrics Metrics) (*Client, error) {
	c := &Client{
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		metrics: metrics,
	}
	if apiKey != "" {
		if err := c.UpdateKey(ctx, apiKey); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var _ repository.IYouTube = (*Client)(nil)

// UpdateKey swaps the underlying service for one bound to the new key.
func (c *Client) UpdateKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("youtube API key is required")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.mu.Lock()
	c.service = service
	c.mu.Unlock()
	return nil
}

func (c *Client) svc() (*youtube.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.service == nil {
		return nil, fmt.Errorf("youtube API key not configured")
	}
	return c.service, nil
}

func (c *Client) wait(ctx context.Context, endpoint string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordAPICall(endpoint)
	}
	return nil
}

// ChannelByID looks a channel up by its canonical id.
func (c *Client) ChannelByID(ctx context.Context, channelID string) (*model.Channel, error) {
	svc, err := c.svc()
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "channels.list"); err != nil {
		return nil, err
	}
	resp, err := svc.Channels.List([]string{"snippet", "contentDetails"}).
		Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, model.ClassifyAPIError(err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return convertChannel(resp.Items[0]), nil
}

// ChannelByHandle looks a channel up by its @handle.
func (c *Client) ChannelByHandle(ctx context.Context, handle string) (*model.Channel, error) {
	svc, err := c.svc()
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "channels.list"); err != nil {
		return nil, err
	}
	resp, err := svc.Channels.List([]string{"snippet", "contentDetails"}).
		ForHandle(handle).Context(ctx).Do()
	if err != nil {
		return nil, model.ClassifyAPIError(err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return convertChannel(resp.Items[0]), nil
}

// SearchChannel returns the top channel-type search hit's canonical id, or ""
// when nothing matched.
func (c *Client) SearchChannel(ctx context.Context, query string) (string, error) {
	svc, err := c.svc()
	if err != nil {
		return "", err
	}
	if err := c.wait(ctx, "search.list"); err != nil {
		return "", err
	}
	resp, err := svc.Search.List([]string{"snippet"}).
		Q(query).Type("channel").MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", model.ClassifyAPIError(err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", nil
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

// PlaylistItems lists the most recent entries of an uploads playlist. The API
// has no server-side date filter on this endpoint, so callers filter by
// publish time themselves.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, maxResults int64) ([]repository.PlaylistEntry, error) {
	svc, err := c.svc()
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "playlistItems.list"); err != nil {
		return nil, err
	}
	resp, err := svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, model.ClassifyAPIError(err)
	}
	entries := make([]repository.PlaylistEntry, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails == nil || item.Snippet == nil {
			continue
		}
		entries = append(entries, repository.PlaylistEntry{
			VideoID:     item.ContentDetails.VideoId,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return entries, nil
}

// VideosByID batch-fetches snippet, statistics and contentDetails for up to 50
// video ids in one call.
func (c *Client) VideosByID(ctx context.Context, ids []string) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	svc, err := c.svc()
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "videos.list"); err != nil {
		return nil, err
	}
	resp, err := svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(ids, ",")).Context(ctx).Do()
	if err != nil {
		return nil, model.ClassifyAPIError(err)
	}
	videos := make([]model.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, convertVideo(item))
	}
	return videos, nil
}

func convertChannel(ch *youtube.Channel) *model.Channel {
	out := &model.Channel{ID: ch.Id}
	if ch.Snippet != nil {
		out.Title = ch.Snippet.Title
		out.Handle = ch.Snippet.CustomUrl
		if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
			out.Thumbnail = ch.Snippet.Thumbnails.Default.Url
		}
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		out.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
		out.UploadsProvenance = model.UploadsFromLookup
	}
	return out
}

func convertVideo(v *youtube.Video) model.Video {
	out := model.Video{ID: v.Id}
	if v.Snippet != nil {
		out.Title = v.Snippet.Title
		out.ChannelID = v.Snippet.ChannelId
		out.ChannelTitle = v.Snippet.ChannelTitle
		publishedAt, _ := time.Parse(time.RFC3339, v.Snippet.PublishedAt)
		out.PublishedAt = publishedAt
		if v.Snippet.Thumbnails != nil {
			if v.Snippet.Thumbnails.Medium != nil {
				out.Thumbnail = v.Snippet.Thumbnails.Medium.Url
			} else if v.Snippet.Thumbnails.Default != nil {
				out.Thumbnail = v.Snippet.Thumbnails.Default.Url
			}
		}
	}
	if v.Statistics != nil {
		out.ViewCount = int64(v.Statistics.ViewCount)
		out.LikeCount = int64(v.Statistics.LikeCount)
		out.CommentCount = int64(v.Statistics.CommentCount)
	}
	if v.ContentDetails != nil {
		out.Duration = v.ContentDetails.Duration
	}
	return out
}
