package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeadNote struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	AuthorID   uuid.UUID
	Type       string
	Body       string
	OccurredAt time.Time
	CreatedAt  time.Time
}

type CreateLeadNoteParams struct {
	LeadID     uuid.UUID
	AuthorID   uuid.UUID
	Type       string
	Body       string
	OccurredAt time.Time
}

func (r *Repository) CreateLeadNote(ctx context.Context, params CreateLeadNoteParams) (LeadNote, error) {
	var note LeadNote
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_notes (lead_id, author_id, type, body, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, author_id, type, body, occurred_at, created_at
	`, params.LeadID, params.AuthorID, params.Type, params.Body, params.OccurredAt).Scan(
		&note.ID,
		&note.LeadID,
		&note.AuthorID,
		&note.Type,
		&note.Body,
		&note.OccurredAt,
		&note.CreatedAt,
	)
	return note, err
}

// ListLeadNotes returns the notes for a lead, most recent interaction first.
func (r *Repository) ListLeadNotes(ctx context.Context, leadID uuid.UUID) ([]LeadNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, author_id, type, body, occurred_at, created_at
		FROM lead_notes
		WHERE lead_id = $1
		ORDER BY occurred_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]LeadNote, 0)
	for rows.Next() {
		var note LeadNote
		if err := rows.Scan(
			&note.ID,
			&note.LeadID,
			&note.AuthorID,
			&note.Type,
			&note.Body,
			&note.OccurredAt,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return notes, nil
}

// ListNotesForLeads returns the notes for a set of leads keyed by lead ID,
// most recent interaction first within each lead.
func (r *Repository) ListNotesForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]LeadNote, error) {
	grouped := make(map[uuid.UUID][]LeadNote, len(leadIDs))
	if len(leadIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, author_id, type, body, occurred_at, created_at
		FROM lead_notes
		WHERE lead_id = ANY($1)
		ORDER BY occurred_at DESC
	`, leadIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var note LeadNote
		if err := rows.Scan(
			&note.ID,
			&note.LeadID,
			&note.AuthorID,
			&note.Type,
			&note.Body,
			&note.OccurredAt,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		grouped[note.LeadID] = append(grouped[note.LeadID], note)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return grouped, nil
}
