package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
)

var fetchNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestFetcher(yt *MockYouTube) *VideoFetcher {
	f := NewVideoFetcher(yt, nil)
	f.now = func() time.Time { return fetchNow }
	return f
}

func chanFixture(id, title string) model.Channel {
	return model.Channel{
		ID:                id,
		Title:             title,
		UploadsPlaylistID: "UU" + id[2:],
	}
}

func TestFetchRecentFiltersByCutoff(t *testing.T) {
	ch := chanFixture("UCaaaaaaaaaaaaaaaaaaaaaa", "A")
	yt := new(MockYouTube)
	yt.On("PlaylistItems", mock.Anything, ch.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "recent", PublishedAt: fetchNow.Add(-24 * time.Hour).Format(time.RFC3339)},
		{VideoID: "stale", PublishedAt: fetchNow.Add(-10 * 24 * time.Hour).Format(time.RFC3339)},
		{VideoID: "badstamp", PublishedAt: "not-a-date"},
	}, nil).Once()
	yt.On("VideosByID", mock.Anything, []string{"recent"}).Return([]model.Video{
		{ID: "recent", Duration: "PT10M", PublishedAt: fetchNow.Add(-24 * time.Hour)},
	}, nil).Once()

	videos := newTestFetcher(yt).FetchRecent(context.Background(), []model.Channel{ch}, 7)

	require.Len(t, videos, 1)
	assert.Equal(t, "recent", videos[0].ID)
	assert.Equal(t, ch.ID, videos[0].ChannelID)
	assert.Equal(t, "A", videos[0].ChannelTitle)
	assert.False(t, videos[0].IsShort)
	yt.AssertExpectations(t)
}

func TestFetchRecentUsesDeeperPageForWideWindows(t *testing.T) {
	ch := chanFixture("UCaaaaaaaaaaaaaaaaaaaaaa", "A")
	yt := new(MockYouTube)
	yt.On("PlaylistItems", mock.Anything, ch.UploadsPlaylistID, int64(50)).Return([]repository.PlaylistEntry{}, nil).Once()

	newTestFetcher(yt).FetchRecent(context.Background(), []model.Channel{ch}, 30)
	yt.AssertExpectations(t)
}

func TestFetchRecentClassifiesShorts(t *testing.T) {
	ch := chanFixture("UCaaaaaaaaaaaaaaaaaaaaaa", "A")
	published := fetchNow.Add(-time.Hour)
	yt := new(MockYouTube)
	yt.On("PlaylistItems", mock.Anything, ch.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "short", PublishedAt: published.Format(time.RFC3339)},
		{VideoID: "long", PublishedAt: published.Format(time.RFC3339)},
	}, nil).Once()
	yt.On("VideosByID", mock.Anything, []string{"short", "long"}).Return([]model.Video{
		{ID: "short", Duration: "PT2M30S", PublishedAt: published},
		{ID: "long", Duration: "PT3M1S", PublishedAt: published},
	}, nil).Once()

	videos := newTestFetcher(yt).FetchRecent(context.Background(), []model.Channel{ch}, 7)

	require.Len(t, videos, 2)
	byID := map[string]model.Video{videos[0].ID: videos[0], videos[1].ID: videos[1]}
	assert.True(t, byID["short"].IsShort)
	assert.False(t, byID["long"].IsShort)
}

func TestFetchRecentIsolatesChannelFailures(t *testing.T) {
	chA := chanFixture("UCaaaaaaaaaaaaaaaaaaaaaa", "A")
	chB := chanFixture("UCbbbbbbbbbbbbbbbbbbbbbb", "B")
	chC := chanFixture("UCcccccccccccccccccccccc", "C")
	published := fetchNow.Add(-time.Hour).Format(time.RFC3339)

	yt := new(MockYouTube)
	yt.On("PlaylistItems", mock.Anything, chA.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "a1", PublishedAt: published},
	}, nil).Once()
	yt.On("PlaylistItems", mock.Anything, chB.UploadsPlaylistID, int64(20)).Return(nil, errors.New("boom")).Once()
	yt.On("PlaylistItems", mock.Anything, chC.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "c1", PublishedAt: published},
	}, nil).Once()
	yt.On("VideosByID", mock.Anything, []string{"a1"}).Return([]model.Video{
		{ID: "a1", Duration: "PT5M", PublishedAt: fetchNow.Add(-time.Hour)},
	}, nil).Once()
	yt.On("VideosByID", mock.Anything, []string{"c1"}).Return([]model.Video{
		{ID: "c1", Duration: "PT5M", PublishedAt: fetchNow.Add(-2 * time.Hour)},
	}, nil).Once()

	videos := newTestFetcher(yt).FetchRecent(context.Background(), []model.Channel{chA, chB, chC}, 7)

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	assert.ElementsMatch(t, []string{"a1", "c1"}, ids)
	yt.AssertExpectations(t)
}

func TestFetchRecentSortsByPublishedAtDescending(t *testing.T) {
	chA := chanFixture("UCaaaaaaaaaaaaaaaaaaaaaa", "A")
	chB := chanFixture("UCbbbbbbbbbbbbbbbbbbbbbb", "B")

	older := fetchNow.Add(-48 * time.Hour)
	newer := fetchNow.Add(-2 * time.Hour)
	yt := new(MockYouTube)
	yt.On("PlaylistItems", mock.Anything, chA.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "older", PublishedAt: older.Format(time.RFC3339)},
	}, nil).Once()
	yt.On("PlaylistItems", mock.Anything, chB.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "newer", PublishedAt: newer.Format(time.RFC3339)},
	}, nil).Once()
	yt.On("VideosByID", mock.Anything, []string{"older"}).Return([]model.Video{
		{ID: "older", Duration: "PT5M", PublishedAt: older},
	}, nil).Once()
	yt.On("VideosByID", mock.Anything, []string{"newer"}).Return([]model.Video{
		{ID: "newer", Duration: "PT5M", PublishedAt: newer},
	}, nil).Once()

	videos := newTestFetcher(yt).FetchRecent(context.Background(), []model.Channel{chA, chB}, 7)

	require.Len(t, videos, 2)
	assert.Equal(t, "newer", videos[0].ID)
	assert.Equal(t, "older", videos[1].ID)
}

func TestFetchRecentEmptyPlaylistIsNotAnError(t *testing.T) {
	ch := chanFixture("UCaaaaaaaaaaaaaaaaaaaaaa", "A")
	yt := new(MockYouTube)
	yt.On("PlaylistItems", mock.Anything, ch.UploadsPlaylistID, int64(20)).Return([]repository.PlaylistEntry{
		{VideoID: "stale", PublishedAt: fetchNow.Add(-30 * 24 * time.Hour).Format(time.RFC3339)},
	}, nil).Once()

	videos := newTestFetcher(yt).FetchRecent(context.Background(), []model.Channel{ch}, 7)
	assert.Empty(t, videos)
	// Zero survivors means the details batch is skipped entirely.
	yt.AssertNotCalled(t, "VideosByID", mock.Anything, mock.Anything)
}

func TestFetchRecentNoChannels(t *testing.T) {
	videos := newTestFetcher(new(MockYouTube)).FetchRecent(context.Background(), nil, 7)
	assert.Nil(t, videos)
}
