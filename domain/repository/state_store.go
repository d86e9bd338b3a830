package repository

import (
	"context"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
)

// IStateStore persists the settings document (API key, channels, folders,
// period) as a whole-document read/write. Load returns (nil, nil) when no
// document has been written yet.
type IStateStore interface {
	Load(ctx context.Context) (*model.PersistedState, error)
	Save(ctx context.Context, state *model.PersistedState) error
}

// IVideoCache persists the fetched-videos document together with the fetch
// timestamp and the analysis window it was fetched for. Load returns
// (nil, nil) on a cache miss.
type IVideoCache interface {
	Load(ctx context.Context) (*model.VideoCacheRecord, error)
	Save(ctx context.Context, record *model.VideoCacheRecord) error
}
