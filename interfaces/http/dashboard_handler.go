package http

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/dto"
	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/notification"
	"github.com/Idkwii/Cycle-youtube-analytics/usecase"
)

// IDashboardHandler defines the dashboard HTTP handlers
type IDashboardHandler interface {
	// State
	GetState(ctx *gin.Context)

	// Folder operations
	AddFolder(ctx *gin.Context)
	DeleteFolder(ctx *gin.Context)

	// Channel operations
	AddChannel(ctx *gin.Context)
	DeleteChannel(ctx *gin.Context)
	MoveChannel(ctx *gin.Context)

	// Period and refresh
	SetPeriod(ctx *gin.Context)
	Refresh(ctx *gin.Context)

	// Sharing
	GetShareLink(ctx *gin.Context)
	ImportShareLink(ctx *gin.Context)

	// Read views
	GetNotifications(ctx *gin.Context)
	GetVideos(ctx *gin.Context)
	GetSummary(ctx *gin.Context)
	GetTopChannels(ctx *gin.Context)
}

// DashboardHandler implements the dashboard HTTP handlers
type DashboardHandler struct {
	dashboardUseCase usecase.IDashboardUseCase
	notifications    *notification.Queue
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(dashboardUseCase usecase.IDashboardUseCase, notifications *notification.Queue) IDashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		notifications:    notifications,
	}
}

// GetState handles GET /api/state
func (h *DashboardHandler) GetState(ctx *gin.Context) {
	state := h.dashboardUseCase.State()

	res := dto.StateResponse{
		APIKeySet: state.APIKey != "",
		Channels:  state.Channels,
		Folders:   state.Folders,
		Period:    state.Period,
		Videos:    toVideoItems(state.Videos),
		Loading:   h.dashboardUseCase.Loading(),
	}
	if state.LastFetchedAt != nil {
		ts := state.LastFetchedAt.Format(time.RFC3339)
		res.LastFetchedAt = &ts
	}
	res.DataPeriod = state.DataPeriod

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// AddFolder handles POST /api/folders
func (h *DashboardHandler) AddFolder(ctx *gin.Context) {
	var req dto.AddFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Folder name is required"})
		return
	}

	folder, err := h.dashboardUseCase.AddFolder(ctx.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": folder})
}

// DeleteFolder handles DELETE /api/folders/:id
func (h *DashboardHandler) DeleteFolder(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.dashboardUseCase.DeleteFolder(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// AddChannel handles POST /api/channels
func (h *DashboardHandler) AddChannel(ctx *gin.Context) {
	var req dto.AddChannelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Channel identifier is required"})
		return
	}

	channel, err := h.dashboardUseCase.AddChannel(ctx.Request.Context(), req.Identifier, req.FolderID)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": channel})
}

// DeleteChannel handles DELETE /api/channels/:id
func (h *DashboardHandler) DeleteChannel(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.dashboardUseCase.DeleteChannel(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// MoveChannel handles PUT /api/channels/:id/folder
func (h *DashboardHandler) MoveChannel(ctx *gin.Context) {
	var req dto.MoveChannelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Target folder is required"})
		return
	}

	if err := h.dashboardUseCase.MoveChannel(ctx.Request.Context(), ctx.Param("id"), req.FolderID); err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// SetPeriod handles PUT /api/period
func (h *DashboardHandler) SetPeriod(ctx *gin.Context) {
	var req dto.SetPeriodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Period in days is required"})
		return
	}

	if err := h.dashboardUseCase.SetPeriod(ctx.Request.Context(), req.Days); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Refresh handles POST /api/refresh. The forced query parameter bypasses the
// staleness gate.
func (h *DashboardHandler) Refresh(ctx *gin.Context) {
	forced := ctx.Query("forced") == "true" || ctx.Query("forced") == "1"

	refreshed, err := h.dashboardUseCase.RefreshData(ctx.Request.Context(), forced)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	state := h.dashboardUseCase.State()
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": dto.RefreshResponse{
		Refreshed:  refreshed,
		VideoCount: len(state.Videos),
	}})
}

// GetShareLink handles GET /api/share-link
func (h *DashboardHandler) GetShareLink(ctx *gin.Context) {
	token, url, err := h.dashboardUseCase.GetShareLink()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": dto.ShareLinkResponse{Token: token, URL: url}})
}

// ImportShareLink handles POST /api/import
func (h *DashboardHandler) ImportShareLink(ctx *gin.Context) {
	var req dto.ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Share token is required"})
		return
	}

	if err := h.dashboardUseCase.ImportShareLink(ctx.Request.Context(), req.Token); err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// GetNotifications handles GET /api/notifications
func (h *DashboardHandler) GetNotifications(ctx *gin.Context) {
	entries := h.notifications.Active()
	items := make([]dto.NotificationItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.NotificationItem{
			ID:        e.ID,
			Message:   e.Message,
			Severity:  e.Severity,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// GetVideos handles GET /api/videos. Optional folder_id, channel_id and form
// (short|regular) query parameters narrow the list.
func (h *DashboardHandler) GetVideos(ctx *gin.Context) {
	state := h.dashboardUseCase.State()
	videos := filterVideos(state, ctx.Query("folder_id"), ctx.Query("channel_id"), ctx.Query("form"))
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": toVideoItems(videos)})
}

// GetSummary handles GET /api/summary. Optional folder_id, channel_id and
// form (short|regular) query parameters narrow the aggregation.
func (h *DashboardHandler) GetSummary(ctx *gin.Context) {
	state := h.dashboardUseCase.State()
	videos := filterVideos(state, ctx.Query("folder_id"), ctx.Query("channel_id"), ctx.Query("form"))

	res := dto.SummaryResponse{VideoCount: len(videos)}
	for _, v := range videos {
		res.TotalViews += v.ViewCount
		res.TotalLikes += v.LikeCount
		res.TotalComments += v.CommentCount
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// GetTopChannels handles GET /api/top-channels: the five tracked channels
// with the most views over the currently loaded videos.
func (h *DashboardHandler) GetTopChannels(ctx *gin.Context) {
	state := h.dashboardUseCase.State()

	totals := make(map[string]*dto.ChannelRank)
	for _, v := range state.Videos {
		rank, ok := totals[v.ChannelID]
		if !ok {
			rank = &dto.ChannelRank{ChannelID: v.ChannelID, ChannelTitle: v.ChannelTitle}
			totals[v.ChannelID] = rank
		}
		rank.TotalViews += v.ViewCount
	}

	ranks := make([]dto.ChannelRank, 0, len(totals))
	for _, r := range totals {
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].TotalViews != ranks[j].TotalViews {
			return ranks[i].TotalViews > ranks[j].TotalViews
		}
		return ranks[i].ChannelID < ranks[j].ChannelID
	})
	if len(ranks) > 5 {
		ranks = ranks[:5]
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": ranks})
}

// renderError maps domain errors to HTTP statuses.
func (h *DashboardHandler) renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrChannelNotFound), errors.Is(err, model.ErrFolderNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrDuplicateChannel):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrEmptyIdentifier), errors.Is(err, model.ErrDecode):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			status := http.StatusBadGateway
			if apiErr.Kind == model.APIErrorBadRequest {
				status = http.StatusBadRequest
			}
			ctx.JSON(status, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func toVideoItems(videos []model.Video) []dto.VideoItem {
	items := make([]dto.VideoItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, dto.VideoItem{Video: v, URL: v.URL()})
	}
	return items
}

// filterVideos narrows the loaded video set by folder, channel and form.
func filterVideos(state model.DashboardState, folderID, channelID, form string) []model.Video {
	inFolder := map[string]bool{}
	if folderID != "" {
		for _, ch := range state.Channels {
			if ch.FolderID == folderID {
				inFolder[ch.ID] = true
			}
		}
	}

	out := make([]model.Video, 0, len(state.Videos))
	for _, v := range state.Videos {
		if folderID != "" && !inFolder[v.ChannelID] {
			continue
		}
		if channelID != "" && v.ChannelID != channelID {
			continue
		}
		switch form {
		case "short":
			if !v.IsShort {
				continue
			}
		case "regular":
			if v.IsShort {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
