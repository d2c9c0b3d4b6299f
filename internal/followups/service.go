// Package followups provides the dashboard widget that surfaces the leads
// most in need of attention. It evaluates the pipeline cadence policy over
// all open leads; closed leads never appear.
package followups

import (
	"context"
	"sort"
	"strings"
	"time"

	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// DefaultLimit is the widget size when the caller does not specify one.
const DefaultLimit = 10

// MaxLimit caps the widget size.
const MaxLimit = 100

// Repository defines the data access interface needed by the follow-ups service.
// This is a consumer-driven interface - only what followups needs.
type Repository interface {
	ListOpen(ctx context.Context) ([]repository.Lead, error)
	ListNotesForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]repository.LeadNote, error)
}

// FollowUpResponse is one due follow-up in the widget.
type FollowUpResponse struct {
	LeadID      uuid.UUID `json:"leadId"`
	LeadName    string    `json:"leadName"`
	Status      string    `json:"status"`
	Urgency     string    `json:"urgency"`
	NextAction  string    `json:"nextAction"`
	DueAt       time.Time `json:"dueAt"`
	OverdueDays int       `json:"overdueDays"`
	Reason      string    `json:"reason"`
}

// FollowUpsResponse is the widget payload.
type FollowUpsResponse struct {
	Items []FollowUpResponse `json:"items"`
}

// Service computes the top due follow-ups.
type Service struct {
	repo   Repository
	policy cadence.Policy
	now    func() time.Time
}

// New creates a new follow-ups service driven by the given cadence policy.
func New(repo Repository, policy cadence.Policy) *Service {
	return &Service{repo: repo, policy: policy, now: time.Now}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Top returns the limit most urgent due follow-ups, ordered by urgency and
// then by how long they have been overdue.
func (s *Service) Top(ctx context.Context, limit int) (FollowUpsResponse, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	leads, err := s.repo.ListOpen(ctx)
	if err != nil {
		return FollowUpsResponse{}, err
	}

	ids := make([]uuid.UUID, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}
	notesByLead, err := s.repo.ListNotesForLeads(ctx, ids)
	if err != nil {
		return FollowUpsResponse{}, err
	}

	now := s.now()
	items := make([]FollowUpResponse, 0, len(leads))
	for _, lead := range leads {
		notes := notesByLead[lead.ID]
		interactions := make([]cadence.Interaction, len(notes))
		for i, note := range notes {
			interactions[i] = cadence.Interaction{Type: note.Type, OccurredAt: note.OccurredAt}
		}

		assessment, due := s.policy.Evaluate(lead.Status, interactions, now)
		if !due {
			continue
		}

		items = append(items, FollowUpResponse{
			LeadID:      lead.ID,
			LeadName:    strings.TrimSpace(lead.FirstName + " " + lead.LastName),
			Status:      lead.Status,
			Urgency:     string(assessment.Priority),
			NextAction:  string(assessment.NextAction),
			DueAt:       assessment.NextActionAt,
			OverdueDays: overdueDays(assessment.NextActionAt, now),
			Reason:      assessment.Reason,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		rankI := cadence.Tier(items[i].Urgency).Rank()
		rankJ := cadence.Tier(items[j].Urgency).Rank()
		if rankI != rankJ {
			return rankI > rankJ
		}
		return items[i].DueAt.Before(items[j].DueAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return FollowUpsResponse{Items: items}, nil
}

func overdueDays(dueAt, now time.Time) int {
	overdue := now.Sub(dueAt)
	if overdue < 0 {
		return 0
	}
	return int(overdue / (24 * time.Hour))
}
