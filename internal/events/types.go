// Package events carries catalog change notifications from modules to
// subscribers such as the websocket hub.
package events

import (
	"context"
	"time"
)

// EventType identifies what happened
type EventType string

const (
	EventCreated  EventType = "created"
	EventReplaced EventType = "replaced"
	EventDeleted  EventType = "deleted"

	// Module lifecycle events
	EventModuleInitialized EventType = "module.initialized"
)

// Entity names used in events
const (
	EntityAsset        = "asset"
	EntitySeries       = "series"
	EntityChannel      = "channel"
	EntityAd           = "ad"
	EntityAdAssignment = "ad_assignment"
	EntityBrand        = "brand"
	EntityUser         = "user"
	EntityModule       = "module"
)

// Event is a single change notification
type Event struct {
	Type   EventType              `json:"type"`
	Entity string                 `json:"entity"`
	ID     string                 `json:"id"`
	At     time.Time              `json:"at"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// EventBus fans events out to subscribers
type EventBus interface {
	// Publish delivers the event to current subscribers without blocking
	Publish(ctx context.Context, event Event)

	// Subscribe returns a channel of events and a function that ends the subscription
	Subscribe(buffer int) (<-chan Event, func())

	// Close ends every subscription
	Close()
}
