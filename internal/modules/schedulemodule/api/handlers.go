// Package api exposes live channels and program guides over HTTP
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/core/builder"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/models"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/service"
)

// Handler provides HTTP handlers for live channels
type Handler struct {
	schedule *service.ScheduleService
}

// NewHandler creates a new API handler
func NewHandler(schedule *service.ScheduleService) *Handler {
	return &Handler{schedule: schedule}
}

// ListChannels handles GET /api/live/channels
func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.schedule.ListChannels(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"channels": channels,
		"count":    len(channels),
	})
}

// GetChannel handles GET /api/live/channels/:id
func (h *Handler) GetChannel(c *gin.Context) {
	ch, err := h.schedule.GetChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// CreateChannel handles POST /api/live/channels
func (h *Handler) CreateChannel(c *gin.Context) {
	var ch models.LiveChannel
	if err := c.ShouldBindJSON(&ch); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.schedule.CreateChannel(c.Request.Context(), &ch); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// ReplaceChannel handles PUT /api/live/channels/:id
// The body's revision, or the revision query parameter, must match the stored one.
func (h *Handler) ReplaceChannel(c *gin.Context) {
	var ch models.LiveChannel
	if err := c.ShouldBindJSON(&ch); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	revision, ok := revisionParam(c, ch.Revision)
	if !ok {
		return
	}

	updated, err := h.schedule.ReplaceChannel(c.Request.Context(), c.Param("id"), &ch, revision)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteChannel handles DELETE /api/live/channels/:id
func (h *Handler) DeleteChannel(c *gin.Context) {
	if err := h.schedule.DeleteChannel(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSlot handles POST /api/live/channels/:id/slots?revision=
//
// Request:
//
//	{"content_id": "...", "start_time": "2026-05-04T20:00:00Z", "duration_minutes": 90}
func (h *Handler) AddSlot(c *gin.Context) {
	var req builder.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}

	ch, slot, err := h.schedule.AddSlot(c.Request.Context(), c.Param("id"), revision, req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"channel": ch, "slot": slot})
}

// RemoveSlot handles DELETE /api/live/channels/:id/slots/:slotId?revision=
func (h *Handler) RemoveSlot(c *gin.Context) {
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}
	ch, err := h.schedule.RemoveSlot(c.Request.Context(), c.Param("id"), revision, c.Param("slotId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// RemoveSlotAt handles DELETE /api/live/channels/:id/slots?index=&revision=
// The revision is required so the index refers to the schedule the caller saw.
func (h *Handler) RemoveSlotAt(c *gin.Context) {
	index, err := strconv.Atoi(c.Query("index"))
	if err != nil {
		apperrors.HandleValidationError(c, "index must be an integer", "index")
		return
	}
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}
	if revision == 0 {
		apperrors.HandleValidationError(c, "revision is required when removing by index", "revision")
		return
	}

	ch, err := h.schedule.RemoveSlotAt(c.Request.Context(), c.Param("id"), revision, index)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// GetGuide handles GET /api/live/channels/:id/guide?from=&to=
// from and to are RFC 3339 instants and both optional.
func (h *Handler) GetGuide(c *gin.Context) {
	from, ok := timeParam(c, "from")
	if !ok {
		return
	}
	to, ok := timeParam(c, "to")
	if !ok {
		return
	}

	entries, err := h.schedule.Guide(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"channel_id": c.Param("id"),
		"slots":      entries,
		"count":      len(entries),
	})
}

// GetOnAir handles GET /api/live/channels/:id/on-air?at=
func (h *Handler) GetOnAir(c *gin.Context) {
	at, ok := timeParam(c, "at")
	if !ok {
		return
	}
	status, err := h.schedule.OnAir(c.Request.Context(), c.Param("id"), at)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetDefaultDuration handles GET /api/live/default-duration?contentType=
func (h *Handler) GetDefaultDuration(c *gin.Context) {
	ct := catalog.ContentType(c.Query("contentType"))
	minutes, err := h.schedule.DefaultDurationMinutes(ct)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content_type":     ct,
		"duration_minutes": minutes,
	})
}

func revisionParam(c *gin.Context, fallback int64) (int64, bool) {
	raw := c.Query("revision")
	if raw == "" {
		raw = strings.Trim(c.GetHeader("If-Match"), `"`)
	}
	if raw == "" {
		return fallback, true
	}
	rev, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || rev < 0 {
		apperrors.HandleValidationError(c, "revision must be a non-negative integer", "revision")
		return 0, false
	}
	return rev, true
}

func timeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		apperrors.HandleValidationError(c, name+" must be an RFC 3339 time", name)
		return time.Time{}, false
	}
	return t, true
}
