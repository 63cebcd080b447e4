// Package service runs schedule edits against stored channels and resolves
// program guides with catalog data.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/classifier"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/core/builder"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/models"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

// ScheduleService manages live channels
type ScheduleService struct {
	channels *database.Repository[models.LiveChannel, *models.LiveChannel]
	catalog  services.CatalogService
	overlap  atomic.Bool
	bus      events.EventBus
	metrics  *metrics.Metrics
	logger   hclog.Logger
	now      func() time.Time
}

// NewScheduleService creates the service. bus and m may be nil.
func NewScheduleService(db *gorm.DB, cat services.CatalogService, opts builder.Options, bus events.EventBus, m *metrics.Metrics, logger hclog.Logger) *ScheduleService {
	if bus == nil {
		bus = events.NopBus{}
	}
	s := &ScheduleService{
		channels: database.NewRepository[models.LiveChannel, *models.LiveChannel](db, "channel"),
		catalog:  cat,
		bus:      bus,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
	s.overlap.Store(opts.AllowOverlap)
	return s
}

// Migrate creates the channels table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.LiveChannel{})
}

// SetAllowOverlap changes the overlap rule, used on config reload
func (s *ScheduleService) SetAllowOverlap(allow bool) {
	s.overlap.Store(allow)
}

func (s *ScheduleService) options() builder.Options {
	return builder.Options{AllowOverlap: s.overlap.Load()}
}

// GuideEntry is a slot with the asset it plays. Asset is nil when the
// referenced asset no longer exists.
type GuideEntry struct {
	models.ScheduledContent
	Asset *catalog.MediaAsset `json:"asset,omitempty"`
}

// OnAirStatus is what a channel is playing now and next
type OnAirStatus struct {
	ChannelID string      `json:"channel_id"`
	At        time.Time   `json:"at"`
	Current   *GuideEntry `json:"current"`
	Next      *GuideEntry `json:"next"`
}

// ListChannels returns every channel ordered by name
func (s *ScheduleService) ListChannels(ctx context.Context) ([]models.LiveChannel, error) {
	return s.channels.List(ctx, func(q *gorm.DB) *gorm.DB { return q.Order("name").Order("id") })
}

// GetChannel returns one channel
func (s *ScheduleService) GetChannel(ctx context.Context, id string) (*models.LiveChannel, error) {
	return s.channels.Get(ctx, id)
}

// CreateChannel validates and stores a new channel
func (s *ScheduleService) CreateChannel(ctx context.Context, ch *models.LiveChannel) (err error) {
	defer s.record("create_channel", &err)

	if err := s.validate(ctx, "create_channel", ch); err != nil {
		return err
	}
	ch.ID = ""
	ch.Revision = 0
	if err := s.channels.Create(ctx, ch); err != nil {
		return err
	}
	s.publish(ctx, events.EventCreated, ch.ID)
	s.logger.Info("channel created", "id", ch.ID, "name", ch.Name, "slots", len(ch.Schedule))
	return nil
}

// ReplaceChannel overwrites a whole channel. revision must match the stored one.
func (s *ScheduleService) ReplaceChannel(ctx context.Context, id string, ch *models.LiveChannel, revision int64) (_ *models.LiveChannel, err error) {
	defer s.record("replace_channel", &err)

	if revision <= 0 {
		return nil, apperrors.Validation("replace_channel", "revision", "revision is required")
	}
	if err := s.validate(ctx, "replace_channel", ch); err != nil {
		return nil, err
	}
	if err := s.channels.ReplaceRevision(ctx, id, ch, revision); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventReplaced, id)
	return s.channels.Get(ctx, id)
}

// DeleteChannel removes a channel and its schedule
func (s *ScheduleService) DeleteChannel(ctx context.Context, id string) (err error) {
	defer s.record("delete_channel", &err)

	if err := s.channels.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventDeleted, id)
	return nil
}

// AddSlot schedules an asset on a channel. A revision of 0 edits whatever
// is currently stored.
func (s *ScheduleService) AddSlot(ctx context.Context, channelID string, revision int64, req builder.SlotRequest) (_ *models.LiveChannel, _ *models.ScheduledContent, err error) {
	defer s.record("add_slot", &err)

	asset, err := s.catalog.GetAsset(ctx, req.ContentID)
	if err != nil {
		return nil, nil, err
	}

	var added models.ScheduledContent
	ch, err := s.mutate(ctx, "add_slot", channelID, revision, func(ch *models.LiveChannel) error {
		var err error
		added, err = builder.AddSlot(ch, asset, req, s.options())
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return ch, &added, nil
}

// RemoveSlot removes a slot by id
func (s *ScheduleService) RemoveSlot(ctx context.Context, channelID string, revision int64, slotID string) (_ *models.LiveChannel, err error) {
	defer s.record("remove_slot", &err)

	return s.mutate(ctx, "remove_slot", channelID, revision, func(ch *models.LiveChannel) error {
		_, err := builder.RemoveSlot(ch, slotID)
		return err
	})
}

// RemoveSlotAt removes the slot at a storage position. The position is only
// meaningful against the revision the caller read.
func (s *ScheduleService) RemoveSlotAt(ctx context.Context, channelID string, revision int64, index int) (_ *models.LiveChannel, err error) {
	defer s.record("remove_slot_at", &err)

	return s.mutate(ctx, "remove_slot_at", channelID, revision, func(ch *models.LiveChannel) error {
		_, err := builder.RemoveSlotAt(ch, index)
		return err
	})
}

// Guide returns the channel's slots in start order with their assets.
// Zero from and to mean unbounded.
func (s *ScheduleService) Guide(ctx context.Context, channelID string, from, to time.Time) ([]GuideEntry, error) {
	ch, err := s.channels.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	slots := builder.Guide(ch, from, to)
	entries := make([]GuideEntry, 0, len(slots))
	cache := make(map[string]*catalog.MediaAsset)
	for _, slot := range slots {
		entry, err := s.entry(ctx, slot, cache)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// OnAir returns the current and next slot at the given instant. A zero
// instant means now.
func (s *ScheduleService) OnAir(ctx context.Context, channelID string, at time.Time) (*OnAirStatus, error) {
	if at.IsZero() {
		at = s.now()
	}
	ch, err := s.channels.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}

	status := &OnAirStatus{ChannelID: ch.ID, At: at.UTC()}
	current, next := builder.OnAir(ch, at)
	cache := make(map[string]*catalog.MediaAsset)
	if current != nil {
		if status.Current, err = s.entry(ctx, *current, cache); err != nil {
			return nil, err
		}
	}
	if next != nil {
		if status.Next, err = s.entry(ctx, *next, cache); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// DefaultDurationMinutes returns the suggested slot length for a content type
func (s *ScheduleService) DefaultDurationMinutes(ct catalog.ContentType) (int, error) {
	if !ct.Valid() {
		return 0, apperrors.Validationf("default_duration", "contentType", "unknown content type %q", ct)
	}
	return int(classifier.DefaultDuration(ct) / time.Minute), nil
}

func (s *ScheduleService) entry(ctx context.Context, slot models.ScheduledContent, cache map[string]*catalog.MediaAsset) (*GuideEntry, error) {
	asset, ok := cache[slot.ContentID]
	if !ok {
		a, err := s.catalog.GetAsset(ctx, slot.ContentID)
		switch {
		case apperrors.IsNotFound(err):
			s.logger.Debug("guide slot references missing asset", "slot", slot.ID, "content", slot.ContentID)
		case err != nil:
			return nil, err
		default:
			asset = a
		}
		cache[slot.ContentID] = asset
	}
	return &GuideEntry{ScheduledContent: slot, Asset: asset}, nil
}

// validate checks the document and that every slot plays live-eligible content
func (s *ScheduleService) validate(ctx context.Context, op string, ch *models.LiveChannel) error {
	if err := builder.Validate(ch, s.options()); err != nil {
		return err
	}
	checked := make(map[string]bool)
	for _, slot := range ch.Schedule {
		if checked[slot.ContentID] {
			continue
		}
		asset, err := s.catalog.GetAsset(ctx, slot.ContentID)
		if err != nil {
			return err
		}
		if !classifier.IsLiveEligible(asset) {
			return apperrors.Validationf(op, "content_id", "asset %s is not eligible for live", asset.ID)
		}
		checked[slot.ContentID] = true
	}
	return nil
}

// mutate runs fetch, edit and guarded replace for a slot edit
func (s *ScheduleService) mutate(ctx context.Context, op, id string, revision int64, edit func(*models.LiveChannel) error) (*models.LiveChannel, error) {
	current, err := s.channels.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if revision > 0 && revision != current.Revision {
		return nil, apperrors.StaleWrite(op, "channel", id, revision)
	}

	expected := current.Revision
	if err := edit(current); err != nil {
		return nil, err
	}
	if err := s.channels.ReplaceRevision(ctx, id, current, expected); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventReplaced, id)
	s.logger.Debug("channel edited", "op", op, "id", id, "revision", current.Revision)
	return current, nil
}

func (s *ScheduleService) publish(ctx context.Context, t events.EventType, id string) {
	s.bus.Publish(ctx, events.NewEntityEvent(t, events.EntityChannel, id))
}

func (s *ScheduleService) record(op string, err *error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ScheduleMutations.WithLabelValues(op, metrics.Result(*err)).Inc()
	if apperrors.IsStaleWrite(*err) {
		s.metrics.StaleWrites.WithLabelValues(events.EntityChannel).Inc()
	}
}
