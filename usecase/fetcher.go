package usecase

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/logger"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/utils"
)

// Playlist page caps. The playlistItems endpoint cannot filter by date
// server-side, so wider windows pull a deeper page.
const (
	playlistCapWide   = 50
	playlistCapNarrow = 20
	wideWindowDays    = 7
)

// FetcherMetrics is the subset of the metrics collector the fetcher reports
// to.
type FetcherMetrics interface {
	RecordChannelFetchFailure()
	RecordVideosFetched(n int)
	RecordFetchLatency(d time.Duration)
}

// VideoFetcher retrieves each tracked channel's recent uploads inside the
// analysis window. Per-channel pipelines run concurrently and fail
// independently: one channel's error never aborts its siblings or the
// aggregate call.
type VideoFetcher struct {
	youtubeRepo repository.IYouTube
	metrics     FetcherMetrics
	now         func() time.Time
}

func NewVideoFetcher(youtubeRepo repository.IYouTube, metrics FetcherMetrics) *VideoFetcher {
	return &VideoFetcher{
		youtubeRepo: youtubeRepo,
		metrics:     metrics,
		now:         time.Now,
	}
}

// FetchRecent returns all videos published within the trailing windowDays
// across the given channels, sorted by publish time descending. It never
// fails as a whole; a channel whose pipeline errors contributes an empty
// list.
func (f *VideoFetcher) FetchRecent(ctx context.Context, channels []model.Channel, windowDays int) []model.Video {
	if len(channels) == 0 {
		return nil
	}
	started := f.now()
	cutoff := started.AddDate(0, 0, -windowDays)

	results := make([][]model.Video, len(channels))
	g, ctx := errgroup.WithContext(ctx)
	for i, ch := range channels {
		i, ch := i, ch
		g.Go(func() error {
			videos, err := f.fetchChannel(ctx, ch, cutoff, windowDays)
			if err != nil {
				logger.GetLogger().WithFields(map[string]interface{}{
					"channel": ch.Title,
					"error":   err.Error(),
				}).Warn("channel fetch failed, skipping")
				if f.metrics != nil {
					f.metrics.RecordChannelFetchFailure()
				}
				return nil
			}
			results[i] = videos
			return nil
		})
	}
	// Workers always return nil; Wait only gathers completion.
	_ = g.Wait()

	var all []model.Video
	for _, videos := range results {
		all = append(all, videos...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	if f.metrics != nil {
		f.metrics.RecordVideosFetched(len(all))
		f.metrics.RecordFetchLatency(f.now().Sub(started))
	}
	return all
}

// fetchChannel is one sequential pipeline: page the uploads playlist, filter
// by cutoff, then batch-fetch details for the survivors.
func (f *VideoFetcher) fetchChannel(ctx context.Context, ch model.Channel, cutoff time.Time, windowDays int) ([]model.Video, error) {
	pageSize := int64(playlistCapNarrow)
	if windowDays > wideWindowDays {
		pageSize = playlistCapWide
	}
	entries, err := f.youtubeRepo.PlaylistItems(ctx, ch.UploadsPlaylistID, pageSize)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		publishedAt, err := time.Parse(time.RFC3339, entry.PublishedAt)
		if err != nil {
			continue
		}
		if !publishedAt.Before(cutoff) {
			ids = append(ids, entry.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	videos, err := f.youtubeRepo.VideosByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		videos[i].ChannelID = ch.ID
		videos[i].ChannelTitle = ch.Title
		videos[i].IsShort = utils.IsShortDuration(utils.ParseISODuration(videos[i].Duration))
	}
	return videos, nil
}
