// Package notes handles lead note operations.
// This is a vertically sliced feature package containing service logic
// for recording and listing interactions on leads.
package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

// Operations, used to tag returned errors.
const (
	opAddNote   = "notes.add"
	opListNotes = "notes.list"
)

// ValidNoteTypes defines the allowed note types.
var ValidNoteTypes = map[string]bool{
	"note":  true,
	"call":  true,
	"email": true,
}

// Repository defines the data access interface needed by the notes service.
// This is a consumer-driven interface - only what notes needs.
type Repository interface {
	// Lead existence check
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	repository.NoteStore
}

// Service handles lead note operations.
type Service struct {
	repo     Repository
	eventBus events.Bus
	now      func() time.Time
}

// New creates a new notes service.
func New(repo Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus, now: time.Now}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Add records a new interaction note on a lead. Notes are immutable once
// created. Publishes NoteAdded.
func (s *Service) Add(ctx context.Context, leadID uuid.UUID, authorID uuid.UUID, req transport.CreateLeadNoteRequest) (transport.LeadNoteResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" || len(body) > 2000 {
		return transport.LeadNoteResponse{}, apperr.Validation("note body must be between 1 and 2000 characters").WithOp(opAddNote)
	}

	noteType := strings.TrimSpace(req.Type)
	if noteType == "" {
		noteType = "note"
	}
	if !ValidNoteTypes[noteType] {
		return transport.LeadNoteResponse{}, apperr.Validation("invalid note type").WithOp(opAddNote)
	}

	occurredAt := s.now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	if occurredAt.After(s.now()) {
		return transport.LeadNoteResponse{}, apperr.Validation("note cannot occur in the future").WithOp(opAddNote)
	}

	// Verify lead exists
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadNoteResponse{}, apperr.NotFound("lead not found").WithOp(opAddNote)
		}
		return transport.LeadNoteResponse{}, err
	}

	note, err := s.repo.CreateLeadNote(ctx, repository.CreateLeadNoteParams{
		LeadID:     leadID,
		AuthorID:   authorID,
		Type:       noteType,
		Body:       body,
		OccurredAt: occurredAt,
	})
	if err != nil {
		return transport.LeadNoteResponse{}, err
	}

	s.eventBus.Publish(ctx, events.NoteAdded{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        note.LeadID,
		NoteID:        note.ID,
		NoteType:      note.Type,
		InteractionAt: note.OccurredAt,
	})

	return toLeadNoteResponse(note), nil
}

// List retrieves all notes for a lead, most recent interaction first.
func (s *Service) List(ctx context.Context, leadID uuid.UUID) (transport.LeadNotesResponse, error) {
	// Verify lead exists
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadNotesResponse{}, apperr.NotFound("lead not found").WithOp(opListNotes)
		}
		return transport.LeadNotesResponse{}, err
	}

	notesList, err := s.repo.ListLeadNotes(ctx, leadID)
	if err != nil {
		return transport.LeadNotesResponse{}, err
	}

	items := make([]transport.LeadNoteResponse, len(notesList))
	for i, note := range notesList {
		items[i] = toLeadNoteResponse(note)
	}

	return transport.LeadNotesResponse{Items: items}, nil
}

func toLeadNoteResponse(note repository.LeadNote) transport.LeadNoteResponse {
	return transport.LeadNoteResponse{
		ID:         note.ID,
		LeadID:     note.LeadID,
		AuthorID:   note.AuthorID,
		Type:       note.Type,
		Body:       note.Body,
		OccurredAt: note.OccurredAt,
		CreatedAt:  note.CreatedAt,
	}
}
