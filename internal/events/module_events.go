package events

import (
	"time"
)

// NewEntityEvent creates an event describing a change to a stored entity
func NewEntityEvent(eventType EventType, entity, id string) Event {
	return Event{
		Type:   eventType,
		Entity: entity,
		ID:     id,
		At:     time.Now().UTC(),
	}
}

// NewModuleLifecycleEvent creates a new module lifecycle event
func NewModuleLifecycleEvent(eventType EventType, moduleID, moduleName string) Event {
	return Event{
		Type:   eventType,
		Entity: EntityModule,
		ID:     moduleID,
		At:     time.Now().UTC(),
		Data: map[string]interface{}{
			"module_name": moduleName,
		},
	}
}
