package repository

import (
	"context"

	"github.com/google/uuid"
)

// Consumer-driven interfaces. Services declare the slice of the repository
// they actually use, which keeps fakes small in tests.

// LeadReader provides read access to leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListLeadsParams) ([]Lead, error)
	ListOpen(ctx context.Context) ([]Lead, error)
}

// LeadWriter provides write access to leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error)
	AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID) (Lead, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// NoteStore provides access to lead notes.
type NoteStore interface {
	CreateLeadNote(ctx context.Context, params CreateLeadNoteParams) (LeadNote, error)
	ListLeadNotes(ctx context.Context, leadID uuid.UUID) ([]LeadNote, error)
	ListNotesForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]LeadNote, error)
}
