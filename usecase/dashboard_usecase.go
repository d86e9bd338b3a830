package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/logger"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/sharelink"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/utils"
)

// StalenessThreshold is how old the last successful fetch may be before an
// unforced refresh is allowed to hit the network again.
const StalenessThreshold = 30 * time.Minute

// DefaultFolderName is used when a channel is added with no folder in place.
const DefaultFolderName = "Default"

// RefreshMetrics is the subset of the metrics collector refresh passes report
// to.
type RefreshMetrics interface {
	RecordRefresh(outcome string)
}

// CredentialSink receives the effective API key whenever it changes, so the
// upstream client can rebind its service.
type CredentialSink interface {
	UpdateKey(ctx context.Context, apiKey string) error
}

// IDashboardUseCase owns the application state and exposes the enumerated
// transition operations. All mutations are serialized; reads get snapshots.
type IDashboardUseCase interface {
	Bootstrap(ctx context.Context, shareToken string) error
	ImportShareLink(ctx context.Context, token string) error
	State() model.DashboardState
	AddFolder(ctx context.Context, name string) (*model.Folder, error)
	DeleteFolder(ctx context.Context, folderID string) error
	AddChannel(ctx context.Context, identifier, folderID string) (*model.Channel, error)
	DeleteChannel(ctx context.Context, channelID string) error
	MoveChannel(ctx context.Context, channelID, folderID string) error
	SetPeriod(ctx context.Context, days int) error
	RefreshData(ctx context.Context, forced bool) (bool, error)
	GetShareLink() (token, url string, err error)
	Loading() bool
}

// DashboardUseCase reconciles the tracked-channel dashboard state against the
// upstream platform and the persistence layer.
type DashboardUseCase struct {
	resolver   *ChannelResolver
	fetcher    *VideoFetcher
	stateStore repository.IStateStore
	videoCache repository.IVideoCache
	notifier   repository.INotifier
	metrics    RefreshMetrics

	// pinnedKey is the build-level credential; when set it wins over both
	// persisted and shared credentials and never leaves via share links.
	pinnedKey string
	baseURL   string
	credSink  CredentialSink

	mu      sync.Mutex
	state   model.DashboardState
	loading bool
	now     func() time.Time
}

// NewDashboardUseCase wires the controller. pinnedKey may be empty; baseURL
// is the dashboard address used for generated share links.
func NewDashboardUseCase(
	resolver *ChannelResolver,
	fetcher *VideoFetcher,
	stateStore repository.IStateStore,
	videoCache repository.IVideoCache,
	notifier repository.INotifier,
	metrics RefreshMetrics,
	pinnedKey, baseURL string,
	defaultPeriod int,
) *DashboardUseCase {
	if defaultPeriod <= 0 {
		defaultPeriod = 7
	}
	return &DashboardUseCase{
		resolver:   resolver,
		fetcher:    fetcher,
		stateStore: stateStore,
		videoCache: videoCache,
		notifier:   notifier,
		metrics:    metrics,
		pinnedKey:  pinnedKey,
		baseURL:    baseURL,
		state:      model.DashboardState{APIKey: pinnedKey, Period: defaultPeriod},
		now:        time.Now,
	}
}

// WithCredentialSink wires the upstream client's key updater (fluent).
func (u *DashboardUseCase) WithCredentialSink(sink CredentialSink) *DashboardUseCase {
	u.credSink = sink
	return u
}

// Bootstrap loads persisted state, then lets a share token override
// channels/folders (and the credential, unless one is pinned). The token
// itself is consumed here and never persisted. Cached video data is loaded
// afterwards regardless of which source won.
func (u *DashboardUseCase) Bootstrap(ctx context.Context, shareToken string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	persisted, err := u.stateStore.Load(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to load persisted state, starting fresh")
	} else if persisted != nil {
		u.state.Channels = persisted.Channels
		u.state.Folders = persisted.Folders
		if persisted.Period > 0 {
			u.state.Period = persisted.Period
		}
		if u.pinnedKey == "" && persisted.APIKey != "" {
			u.state.APIKey = persisted.APIKey
		}
	}

	if shareToken != "" {
		if err := u.applySharedLocked(ctx, shareToken); err != nil {
			logger.GetLogger().WithField("error", err).Warn("ignoring undecodable share token")
			u.notifier.Notify("Shared link could not be read; using saved settings", repository.SeverityWarning)
		}
	}
	u.pushCredentialLocked(ctx)

	cached, err := u.videoCache.Load(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to load video cache")
	} else if cached != nil && len(cached.Data) > 0 {
		ts := cached.Timestamp
		period := cached.Period
		u.state.Videos = cached.Data
		u.state.LastFetchedAt = &ts
		u.state.DataPeriod = &period
	}
	return nil
}

// ImportShareLink applies a shared configuration to a running dashboard. The
// token is consumed, never stored.
func (u *DashboardUseCase) ImportShareLink(ctx context.Context, token string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.applySharedLocked(ctx, token); err != nil {
		u.notifier.Notify("Shared link could not be read", repository.SeverityError)
		return err
	}
	u.pushCredentialLocked(ctx)
	return nil
}

// applySharedLocked decodes a token and overrides channels/folders (and the
// credential, unless pinned).
func (u *DashboardUseCase) applySharedLocked(ctx context.Context, token string) error {
	shared, err := sharelink.Decode(token)
	if err != nil {
		return err
	}
	u.state.Channels = shared.Channels
	u.state.Folders = shared.Folders
	if u.pinnedKey == "" && shared.APIKey != "" {
		u.state.APIKey = shared.APIKey
	}
	u.persistSettingsLocked(ctx)
	u.notifier.Notify("Dashboard imported from shared link", repository.SeveritySuccess)
	return nil
}

// pushCredentialLocked forwards the effective key to the upstream client.
func (u *DashboardUseCase) pushCredentialLocked(ctx context.Context) {
	if u.credSink == nil || u.state.APIKey == "" {
		return
	}
	if err := u.credSink.UpdateKey(ctx, u.state.APIKey); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed to apply API key")
	}
}

// State returns a snapshot of the application state.
func (u *DashboardUseCase) State() model.DashboardState {
	u.mu.Lock()
	defer u.mu.Unlock()
	snapshot := u.state
	snapshot.Channels = append([]model.Channel(nil), u.state.Channels...)
	snapshot.Folders = append([]model.Folder(nil), u.state.Folders...)
	snapshot.Videos = append([]model.Video(nil), u.state.Videos...)
	return snapshot
}

// Loading reports whether a refresh is in flight.
func (u *DashboardUseCase) Loading() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loading
}

// AddFolder creates a folder with a time-based id.
func (u *DashboardUseCase) AddFolder(ctx context.Context, name string) (*model.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is empty")
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	folder := model.Folder{ID: utils.NewFolderID(u.now()), Name: name}
	u.state.Folders = append(u.state.Folders, folder)
	u.persistSettingsLocked(ctx)
	u.notifier.Notify(fmt.Sprintf("Folder %q added", name), repository.SeveritySuccess)
	return &folder, nil
}

// DeleteFolder removes a folder; channels assigned to it move to the first
// remaining folder, or to a freshly created default folder when that was the
// last one.
func (u *DashboardUseCase) DeleteFolder(ctx context.Context, folderID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := -1
	for i, f := range u.state.Folders {
		if f.ID == folderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrFolderNotFound, folderID)
	}
	name := u.state.Folders[idx].Name
	u.state.Folders = append(u.state.Folders[:idx], u.state.Folders[idx+1:]...)

	if hasOrphans(u.state.Channels, folderID) {
		if len(u.state.Folders) == 0 {
			u.state.Folders = append(u.state.Folders, model.Folder{
				ID:   utils.NewFolderID(u.now()),
				Name: DefaultFolderName,
			})
		}
		target := u.state.Folders[0].ID
		for i := range u.state.Channels {
			if u.state.Channels[i].FolderID == folderID {
				u.state.Channels[i].FolderID = target
			}
		}
	}

	u.persistSettingsLocked(ctx)
	u.notifier.Notify(fmt.Sprintf("Folder %q deleted", name), repository.SeverityInfo)
	return nil
}

// AddChannel resolves the identifier, rejects duplicates, assigns the folder
// and fetches the new channel's recent videos additively.
func (u *DashboardUseCase) AddChannel(ctx context.Context, identifier, folderID string) (*model.Channel, error) {
	resolved, err := u.resolver.Resolve(ctx, identifier)
	if err != nil {
		u.notifyResolutionError(identifier, err)
		return nil, err
	}

	u.mu.Lock()
	for _, existing := range u.state.Channels {
		if existing.ID == resolved.ID {
			u.mu.Unlock()
			u.notifier.Notify(fmt.Sprintf("%q is already tracked", existing.Title), repository.SeverityWarning)
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateChannel, resolved.ID)
		}
	}

	resolved.FolderID = u.assignFolderLocked(folderID)
	u.state.Channels = append(u.state.Channels, *resolved)
	u.persistSettingsLocked(ctx)
	channels := []model.Channel{*resolved}
	period := u.state.Period
	u.mu.Unlock()

	// Additive fetch: only the new channel's videos append to the list.
	videos := u.fetcher.FetchRecent(ctx, channels, period)

	u.mu.Lock()
	u.state.Videos = append(u.state.Videos, videos...)
	u.persistVideosLocked(ctx)
	u.mu.Unlock()

	u.notifier.Notify(fmt.Sprintf("Channel %q added", resolved.Title), repository.SeveritySuccess)
	return resolved, nil
}

// DeleteChannel removes the channel and cascades to its videos. No network
// call.
func (u *DashboardUseCase) DeleteChannel(ctx context.Context, channelID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := -1
	for i, ch := range u.state.Channels {
		if ch.ID == channelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrChannelNotFound, channelID)
	}
	title := u.state.Channels[idx].Title
	u.state.Channels = append(u.state.Channels[:idx], u.state.Channels[idx+1:]...)

	kept := u.state.Videos[:0]
	for _, v := range u.state.Videos {
		if v.ChannelID != channelID {
			kept = append(kept, v)
		}
	}
	u.state.Videos = kept

	u.persistSettingsLocked(ctx)
	u.persistVideosLocked(ctx)
	u.notifier.Notify(fmt.Sprintf("Channel %q removed", title), repository.SeverityInfo)
	return nil
}

// MoveChannel reassigns the channel's folder. No network call, no refetch.
func (u *DashboardUseCase) MoveChannel(ctx context.Context, channelID, folderID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	found := false
	for _, f := range u.state.Folders {
		if f.ID == folderID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", model.ErrFolderNotFound, folderID)
	}
	for i := range u.state.Channels {
		if u.state.Channels[i].ID == channelID {
			u.state.Channels[i].FolderID = folderID
			u.persistSettingsLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", model.ErrChannelNotFound, channelID)
}

// SetPeriod changes the analysis window. It does not refetch by itself; the
// mismatch between Period and DataPeriod makes the next refresh pass act as
// forced.
func (u *DashboardUseCase) SetPeriod(ctx context.Context, days int) error {
	if days <= 0 {
		return fmt.Errorf("period must be positive, got %d", days)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.Period = days
	u.persistSettingsLocked(ctx)
	return nil
}

// RefreshData fetches recent videos for every tracked channel unless the
// staleness gate says the current data is fresh enough. On success the video
// set, its window and its timestamp swap in together; on failure the previous
// data stays untouched. Returns whether a fetch was performed.
func (u *DashboardUseCase) RefreshData(ctx context.Context, forced bool) (bool, error) {
	u.mu.Lock()
	if u.loading {
		u.mu.Unlock()
		return false, nil
	}
	if len(u.state.Channels) == 0 {
		u.mu.Unlock()
		return false, nil
	}
	if u.state.APIKey == "" {
		u.mu.Unlock()
		if u.metrics != nil {
			u.metrics.RecordRefresh("failed")
		}
		u.notifier.Notify("Set a YouTube API key before refreshing", repository.SeverityError)
		return false, fmt.Errorf("api key not configured")
	}
	if !forced && !u.staleLocked() {
		u.mu.Unlock()
		if u.metrics != nil {
			u.metrics.RecordRefresh("skipped")
		}
		return false, nil
	}
	u.loading = true
	channels := append([]model.Channel(nil), u.state.Channels...)
	period := u.state.Period
	u.mu.Unlock()

	videos := u.fetcher.FetchRecent(ctx, channels, period)
	fetchedAt := u.now()

	if err := ctx.Err(); err != nil {
		u.mu.Lock()
		u.loading = false
		u.mu.Unlock()
		if u.metrics != nil {
			u.metrics.RecordRefresh("failed")
		}
		u.notifier.Notify("Refresh aborted", repository.SeverityError)
		return false, err
	}

	u.mu.Lock()
	u.loading = false
	u.state.Videos = videos
	u.state.DataPeriod = &period
	u.state.LastFetchedAt = &fetchedAt
	u.persistVideosLocked(ctx)
	u.mu.Unlock()

	if u.metrics != nil {
		u.metrics.RecordRefresh("performed")
	}
	u.notifier.Notify(fmt.Sprintf("Fetched %d videos from %d channels", len(videos), len(channels)), repository.SeveritySuccess)
	return true, nil
}

// GetShareLink encodes the exportable state into a token and a full URL. The
// credential rides along only when it is not pinned at build level.
func (u *DashboardUseCase) GetShareLink() (string, string, error) {
	u.mu.Lock()
	exportKey := ""
	if u.pinnedKey == "" {
		exportKey = u.state.APIKey
	}
	channels := append([]model.Channel(nil), u.state.Channels...)
	folders := append([]model.Folder(nil), u.state.Folders...)
	u.mu.Unlock()

	token, err := sharelink.Encode(exportKey, channels, folders)
	if err != nil {
		return "", "", fmt.Errorf("encode share link: %w", err)
	}
	url, err := sharelink.ShareURL(u.baseURL, token)
	if err != nil {
		return "", "", err
	}
	return token, url, nil
}

// staleLocked implements the refresh gate: refresh when there is no prior
// fetch, when the fetched window no longer matches the selected period, or
// when the last fetch is older than the staleness threshold.
func (u *DashboardUseCase) staleLocked() bool {
	if u.state.LastFetchedAt == nil || u.state.DataPeriod == nil {
		return true
	}
	if *u.state.DataPeriod != u.state.Period {
		return true
	}
	return u.now().Sub(*u.state.LastFetchedAt) > StalenessThreshold
}

// assignFolderLocked picks the folder for a new channel: the requested one if
// it exists, else the first existing folder, else a freshly created default
// folder.
func (u *DashboardUseCase) assignFolderLocked(requested string) string {
	if requested != "" {
		for _, f := range u.state.Folders {
			if f.ID == requested {
				return f.ID
			}
		}
	}
	if len(u.state.Folders) > 0 {
		return u.state.Folders[0].ID
	}
	folder := model.Folder{ID: utils.NewFolderID(u.now()), Name: DefaultFolderName}
	u.state.Folders = append(u.state.Folders, folder)
	return folder.ID
}

// persistSettingsLocked writes the settings document. Persistence failures
// are logged, not propagated: in-memory state stays authoritative.
func (u *DashboardUseCase) persistSettingsLocked(ctx context.Context) {
	doc := &model.PersistedState{
		APIKey:   u.state.APIKey,
		Channels: u.state.Channels,
		Folders:  u.state.Folders,
		Period:   u.state.Period,
	}
	if err := u.stateStore.Save(ctx, doc); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed to persist settings")
	}
}

// persistVideosLocked writes the video cache document when there is data.
func (u *DashboardUseCase) persistVideosLocked(ctx context.Context) {
	if len(u.state.Videos) == 0 {
		return
	}
	ts := u.now()
	if u.state.LastFetchedAt != nil {
		ts = *u.state.LastFetchedAt
	}
	period := u.state.Period
	if u.state.DataPeriod != nil {
		period = *u.state.DataPeriod
	}
	doc := &model.VideoCacheRecord{
		Data:      u.state.Videos,
		Timestamp: ts,
		Period:    period,
	}
	if err := u.videoCache.Save(ctx, doc); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed to persist video cache")
	}
}

func (u *DashboardUseCase) notifyResolutionError(identifier string, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyIdentifier):
		u.notifier.Notify("Enter a channel handle, id or name first", repository.SeverityWarning)
	case errors.Is(err, model.ErrChannelNotFound):
		u.notifier.Notify(fmt.Sprintf("No channel found for %q", identifier), repository.SeverityError)
	default:
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			u.notifier.Notify(apiErr.Message, repository.SeverityError)
			return
		}
		u.notifier.Notify(fmt.Sprintf("Could not add %q: %v", identifier, err), repository.SeverityError)
	}
}

func hasOrphans(channels []model.Channel, folderID string) bool {
	for _, ch := range channels {
		if ch.FolderID == folderID {
			return true
		}
	}
	return false
}
