// Package events defines the domain events exchanged between modules.
package events

import (
	"time"

	platformevents "crm_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-exported platform types so modules only import internal/events.
type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
)

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// LeadCreated is published when a new lead enters the system.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Status string    `json:"status"`
}

// EventName returns the unique event identifier.
func (LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published when a lead moves to a new status.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

// EventName returns the unique event identifier.
func (LeadStatusChanged) EventName() string { return "leads.status_changed" }

// NoteAdded is published when an interaction note is recorded on a lead.
type NoteAdded struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	NoteID        uuid.UUID `json:"noteId"`
	NoteType      string    `json:"noteType"`
	InteractionAt time.Time `json:"interactionAt"`
}

// EventName returns the unique event identifier.
func (NoteAdded) EventName() string { return "leads.note_added" }
