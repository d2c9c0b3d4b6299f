package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
	Type string `json:"type" validate:"omitempty,oneof=note call email"`
	// OccurredAt is when the interaction happened, not when it was recorded.
	// Defaults to the time of the request.
	OccurredAt *time.Time `json:"occurredAt"`
}

type LeadNoteResponse struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"leadId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Type       string    `json:"type"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LeadNotesResponse struct {
	Items []LeadNoteResponse `json:"items"`
}
