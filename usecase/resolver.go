package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/logger"
)

// canonicalIDPrefix and canonicalIDMinLen describe the shape of a
// platform-assigned channel id.
const (
	canonicalIDPrefix = "UC"
	canonicalIDMinLen = 21
)

// ChannelResolver turns a free-form identifier (handle, canonical id, or
// plain text) into a canonical channel record using ordered, shape-specific
// strategies with fallback.
type ChannelResolver struct {
	youtubeRepo repository.IYouTube
}

func NewChannelResolver(youtubeRepo repository.IYouTube) *ChannelResolver {
	return &ChannelResolver{youtubeRepo: youtubeRepo}
}

// Resolve applies the lookup strategies in order, first match wins:
// handles go through the handle lookup (falling back to name search when the
// handle matches nothing), canonical-id-shaped input goes straight to the id
// lookup, and everything else is treated as a name search whose top hit is
// then fetched by id for the full record.
func (r *ChannelResolver) Resolve(ctx context.Context, identifier string) (*model.Channel, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, model.ErrEmptyIdentifier
	}

	if strings.HasPrefix(identifier, "@") {
		ch, err := r.youtubeRepo.ChannelByHandle(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("handle lookup %q: %w", identifier, err)
		}
		if ch != nil {
			return ch, nil
		}
		// Dead handle, retry the same input as a name search.
		logger.GetLogger().WithField("identifier", identifier).Debug("handle lookup empty, falling back to search")
		return r.resolveBySearch(ctx, identifier)
	}

	if isCanonicalID(identifier) {
		ch, err := r.youtubeRepo.ChannelByID(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("id lookup %q: %w", identifier, err)
		}
		if ch == nil {
			return nil, fmt.Errorf("%w: %s", model.ErrChannelNotFound, identifier)
		}
		return ch, nil
	}

	return r.resolveBySearch(ctx, identifier)
}

// resolveBySearch finds the top channel-type hit for the query, then performs
// an id lookup: search results do not carry the contentDetails needed for the
// uploads playlist id.
func (r *ChannelResolver) resolveBySearch(ctx context.Context, query string) (*model.Channel, error) {
	channelID, err := r.youtubeRepo.SearchChannel(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("channel search %q: %w", query, err)
	}
	if channelID == "" {
		return nil, fmt.Errorf("%w: %s", model.ErrChannelNotFound, query)
	}
	ch, err := r.youtubeRepo.ChannelByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("id lookup after search %q: %w", query, err)
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrChannelNotFound, query)
	}
	return ch, nil
}

func isCanonicalID(s string) bool {
	return strings.HasPrefix(s, canonicalIDPrefix) && len(s) >= canonicalIDMinLen
}
