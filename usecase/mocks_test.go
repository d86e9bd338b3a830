package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
)

// Mock implementations

type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) ChannelByID(ctx context.Context, channelID string) (*model.Channel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Channel), args.Error(1)
}

func (m *MockYouTube) ChannelByHandle(ctx context.Context, handle string) (*model.Channel, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Channel), args.Error(1)
}

func (m *MockYouTube) SearchChannel(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockYouTube) PlaylistItems(ctx context.Context, playlistID string, maxResults int64) ([]repository.PlaylistEntry, error) {
	args := m.Called(ctx, playlistID, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PlaylistEntry), args.Error(1)
}

func (m *MockYouTube) VideosByID(ctx context.Context, ids []string) ([]model.Video, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

// memStateStore is an in-memory whole-document store.
type memStateStore struct {
	mu    sync.Mutex
	doc   *model.PersistedState
	saves int
}

func (s *memStateStore) Load(ctx context.Context) (*model.PersistedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, nil
}

func (s *memStateStore) Save(ctx context.Context, state *model.PersistedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.doc = &copied
	s.saves++
	return nil
}

type memVideoCache struct {
	mu    sync.Mutex
	doc   *model.VideoCacheRecord
	saves int
}

func (c *memVideoCache) Load(ctx context.Context) (*model.VideoCacheRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc, nil
}

func (c *memVideoCache) Save(ctx context.Context, record *model.VideoCacheRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *record
	c.doc = &copied
	c.saves++
	return nil
}

// memNotifier records notifications in order.
type memNotifier struct {
	mu         sync.Mutex
	messages   []string
	severities []string
}

func (n *memNotifier) Notify(message, severity string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.severities = append(n.severities, severity)
}

func (n *memNotifier) last() (string, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return "", ""
	}
	return n.messages[len(n.messages)-1], n.severities[len(n.severities)-1]
}
