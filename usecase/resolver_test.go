package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
)

const testChannelID = "UCabcdefghijklmnopqrstuv"

func testChannel() *model.Channel {
	return &model.Channel{
		ID:                testChannelID,
		Title:             "Test Channel",
		Handle:            "@testchannel",
		UploadsPlaylistID: "UUabcdefghijklmnopqrstuv",
		UploadsProvenance: model.UploadsFromLookup,
	}
}

func TestResolveEmptyIdentifier(t *testing.T) {
	yt := new(MockYouTube)
	r := NewChannelResolver(yt)

	for _, in := range []string{"", "   ", "\t"} {
		_, err := r.Resolve(context.Background(), in)
		assert.ErrorIs(t, err, model.ErrEmptyIdentifier, "input %q", in)
	}
	yt.AssertNotCalled(t, "ChannelByHandle")
	yt.AssertNotCalled(t, "ChannelByID")
	yt.AssertNotCalled(t, "SearchChannel")
}

func TestResolveHandle(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelByHandle", mock.Anything, "@testchannel").Return(testChannel(), nil).Once()
	r := NewChannelResolver(yt)

	ch, err := r.Resolve(context.Background(), "@testchannel")
	require.NoError(t, err)
	assert.Equal(t, testChannelID, ch.ID)
	assert.Equal(t, model.UploadsFromLookup, ch.UploadsProvenance)

	yt.AssertExpectations(t)
	yt.AssertNotCalled(t, "ChannelByID", mock.Anything, mock.Anything)
	yt.AssertNotCalled(t, "SearchChannel", mock.Anything, mock.Anything)
}

func TestResolveHandleFallsBackToSearch(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelByHandle", mock.Anything, "@ghost").Return(nil, nil).Once()
	yt.On("SearchChannel", mock.Anything, "@ghost").Return(testChannelID, nil).Once()
	yt.On("ChannelByID", mock.Anything, testChannelID).Return(testChannel(), nil).Once()
	r := NewChannelResolver(yt)

	ch, err := r.Resolve(context.Background(), "@ghost")
	require.NoError(t, err)
	assert.Equal(t, testChannelID, ch.ID)
	yt.AssertExpectations(t)
}

func TestResolveCanonicalID(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelByID", mock.Anything, testChannelID).Return(testChannel(), nil).Once()
	r := NewChannelResolver(yt)

	ch, err := r.Resolve(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, "Test Channel", ch.Title)

	yt.AssertExpectations(t)
	yt.AssertNotCalled(t, "ChannelByHandle", mock.Anything, mock.Anything)
	yt.AssertNotCalled(t, "SearchChannel", mock.Anything, mock.Anything)
}

func TestResolveShortUCStringGoesToSearch(t *testing.T) {
	// "UC" prefix but not long enough for the canonical shape.
	yt := new(MockYouTube)
	yt.On("SearchChannel", mock.Anything, "UCLA sports").Return(testChannelID, nil).Once()
	yt.On("ChannelByID", mock.Anything, testChannelID).Return(testChannel(), nil).Once()
	r := NewChannelResolver(yt)

	_, err := r.Resolve(context.Background(), "UCLA sports")
	require.NoError(t, err)
	yt.AssertExpectations(t)
}

func TestResolveFreeTextSearch(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("SearchChannel", mock.Anything, "some channel").Return(testChannelID, nil).Once()
	yt.On("ChannelByID", mock.Anything, testChannelID).Return(testChannel(), nil).Once()
	r := NewChannelResolver(yt)

	ch, err := r.Resolve(context.Background(), "some channel")
	require.NoError(t, err)
	assert.Equal(t, "UUabcdefghijklmnopqrstuv", ch.UploadsPlaylistID)
	yt.AssertExpectations(t)
}

func TestResolveSearchNoResults(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("SearchChannel", mock.Anything, "nobody here").Return("", nil).Once()
	r := NewChannelResolver(yt)

	_, err := r.Resolve(context.Background(), "nobody here")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
	assert.Contains(t, err.Error(), "nobody here")
}

func TestResolveIDNotFound(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelByID", mock.Anything, testChannelID).Return(nil, nil).Once()
	r := NewChannelResolver(yt)

	_, err := r.Resolve(context.Background(), testChannelID)
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}

func TestResolvePropagatesAPIError(t *testing.T) {
	apiErr := &model.APIError{Kind: model.APIErrorQuota, Message: "API key rejected: invalid key or daily quota exhausted"}
	yt := new(MockYouTube)
	yt.On("ChannelByHandle", mock.Anything, "@testchannel").Return(nil, apiErr).Once()
	r := NewChannelResolver(yt)

	_, err := r.Resolve(context.Background(), "@testchannel")
	require.Error(t, err)
	var got *model.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, model.APIErrorQuota, got.Kind)
	// An upstream failure is not a fallback trigger.
	yt.AssertNotCalled(t, "SearchChannel", mock.Anything, mock.Anything)
}
