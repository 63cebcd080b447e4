// Package builder assembles and edits channel schedules. It works on a
// channel value in memory; persistence is the caller's concern.
package builder

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/classifier"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/models"
)

// ErrSlotOverlap marks a slot whose interval intersects another slot
var ErrSlotOverlap = stderrors.New("slot overlaps an existing slot")

// MaxSlotMinutes bounds a requested slot duration to one day
const MaxSlotMinutes = 24 * 60

// Options control schedule rules
type Options struct {
	// AllowOverlap permits slots whose intervals intersect
	AllowOverlap bool
}

// SlotRequest describes a slot to add
type SlotRequest struct {
	ContentID       string      `json:"content_id" binding:"required"`
	StartTime       time.Time   `json:"start_time" binding:"required"`
	DurationMinutes int         `json:"duration_minutes"`
	AdLocations     []time.Time `json:"ad_locations"`
	IsOriginal      bool        `json:"is_original"`
}

// AddSlot appends a slot for asset to the channel. A non-positive duration
// uses the asset's default duration. The slot is appended, not inserted in
// order; use Guide for display order.
func AddSlot(ch *models.LiveChannel, asset *catalog.MediaAsset, req SlotRequest, opts Options) (models.ScheduledContent, error) {
	const op = "add_slot"

	if asset == nil || asset.ID != req.ContentID {
		return models.ScheduledContent{}, apperrors.NotFound(op, "asset", req.ContentID)
	}
	if !classifier.IsLiveEligible(asset) {
		return models.ScheduledContent{}, apperrors.Validationf(op, "content_id", "%s content is not eligible for live", asset.ContentType)
	}
	if req.StartTime.IsZero() {
		return models.ScheduledContent{}, apperrors.Validation(op, "start_time", "start time is required")
	}

	if req.DurationMinutes > MaxSlotMinutes {
		return models.ScheduledContent{}, apperrors.Validationf(op, "duration_minutes", "duration must not exceed %d minutes", MaxSlotMinutes)
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = classifier.DefaultDuration(asset.ContentType)
	}

	slot := models.ScheduledContent{
		ID:          uuid.NewString(),
		ContentID:   asset.ID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.StartTime.UTC().Add(duration),
		AdLocations: normalizeAdLocations(req.AdLocations),
		IsOriginal:  req.IsOriginal,
	}
	if err := validateSlot(op, slot); err != nil {
		return models.ScheduledContent{}, err
	}
	if !opts.AllowOverlap {
		for _, existing := range ch.Schedule {
			if slot.Overlaps(existing) {
				return models.ScheduledContent{}, overlapError(op, existing)
			}
		}
	}

	ch.Schedule = append(ch.Schedule, slot)
	return slot, nil
}

// RemoveSlot removes the slot with the given id
func RemoveSlot(ch *models.LiveChannel, slotID string) (models.ScheduledContent, error) {
	for i, slot := range ch.Schedule {
		if slot.ID == slotID {
			return removeAt(ch, i), nil
		}
	}
	return models.ScheduledContent{}, apperrors.NotFound("remove_slot", "slot", slotID)
}

// RemoveSlotAt removes the slot at a position in storage order. Callers
// should pair it with a revision check so the position is not stale.
func RemoveSlotAt(ch *models.LiveChannel, index int) (models.ScheduledContent, error) {
	if index < 0 || index >= len(ch.Schedule) {
		return models.ScheduledContent{}, apperrors.NotFound("remove_slot_at", "slot", strconv.Itoa(index))
	}
	return removeAt(ch, index), nil
}

func removeAt(ch *models.LiveChannel, i int) models.ScheduledContent {
	removed := ch.Schedule[i]
	next := make([]models.ScheduledContent, 0, len(ch.Schedule)-1)
	next = append(next, ch.Schedule[:i]...)
	next = append(next, ch.Schedule[i+1:]...)
	ch.Schedule = next
	return removed
}

// Validate checks a whole channel document and assigns missing slot ids
func Validate(ch *models.LiveChannel, opts Options) error {
	const op = "validate_channel"

	ch.Name = strings.TrimSpace(ch.Name)
	if ch.Name == "" {
		return apperrors.Validation(op, "name", "name is required")
	}
	if ch.Schedule == nil {
		ch.Schedule = []models.ScheduledContent{}
	}

	seen := make(map[string]bool, len(ch.Schedule))
	for i := range ch.Schedule {
		slot := &ch.Schedule[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if seen[slot.ID] {
			return apperrors.Validationf(op, "schedule", "slot %s appears more than once", slot.ID)
		}
		seen[slot.ID] = true
		if strings.TrimSpace(slot.ContentID) == "" {
			return apperrors.Validation(op, "content_id", "slot content is required")
		}
		slot.StartTime = slot.StartTime.UTC()
		slot.EndTime = slot.EndTime.UTC()
		slot.AdLocations = normalizeAdLocations(slot.AdLocations)
		if err := validateSlot(op, *slot); err != nil {
			return err
		}
	}

	if !opts.AllowOverlap {
		sorted := Guide(ch, time.Time{}, time.Time{})
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Overlaps(sorted[i-1]) {
				return overlapError(op, sorted[i-1])
			}
		}
	}
	return nil
}

func validateSlot(op string, slot models.ScheduledContent) error {
	if !slot.EndTime.After(slot.StartTime) {
		return apperrors.Validation(op, "end_time", "end time must be after start time")
	}
	for _, at := range slot.AdLocations {
		if !slot.Contains(at) {
			return apperrors.Validationf(op, "ad_locations", "ad break at %s is outside the slot", at.Format(time.RFC3339))
		}
	}
	return nil
}

func normalizeAdLocations(in []time.Time) []time.Time {
	if len(in) == 0 {
		return nil
	}
	out := make([]time.Time, len(in))
	for i, at := range in {
		out[i] = at.UTC()
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Before(out[b]) })
	return out
}

func overlapError(op string, existing models.ScheduledContent) error {
	return (&apperrors.DomainError{
		Type:  apperrors.ErrorTypeValidation,
		Op:    op,
		Field: "start_time",
		Err:   fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSlotOverlap),
	}).WithDetail("conflicting_slot", existing.ID)
}

// Guide returns the slots sorted by start time. Non-zero from and to keep
// only slots intersecting [from, to).
func Guide(ch *models.LiveChannel, from, to time.Time) []models.ScheduledContent {
	out := make([]models.ScheduledContent, 0, len(ch.Schedule))
	for _, slot := range ch.Schedule {
		if !from.IsZero() && !slot.EndTime.After(from) {
			continue
		}
		if !to.IsZero() && !slot.StartTime.Before(to) {
			continue
		}
		out = append(out, slot)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// OnAir returns the slot playing at and the first slot starting after it.
// Either may be nil.
func OnAir(ch *models.LiveChannel, at time.Time) (current, next *models.ScheduledContent) {
	for _, slot := range Guide(ch, time.Time{}, time.Time{}) {
		slot := slot
		switch {
		case current == nil && slot.Contains(at):
			current = &slot
		case slot.StartTime.After(at) && next == nil:
			next = &slot
		}
		if next != nil {
			break
		}
	}
	return current, next
}
