package followups

import (
	"context"
	"testing"
	"time"

	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	leads []repository.Lead
	notes map[uuid.UUID][]repository.LeadNote
}

func (f *fakeRepo) ListOpen(ctx context.Context) ([]repository.Lead, error) {
	return f.leads, nil
}

func (f *fakeRepo) ListNotesForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]repository.LeadNote, error) {
	return f.notes, nil
}

func newService(repo *fakeRepo) *Service {
	return New(repo, cadence.NewPipelinePolicy()).WithClock(func() time.Time { return testNow })
}

func lead(first, last, status string) repository.Lead {
	return repository.Lead{ID: uuid.New(), FirstName: first, LastName: last, Status: status}
}

func callNote(leadID uuid.UUID, daysAgo int) repository.LeadNote {
	return repository.LeadNote{
		ID:         uuid.New(),
		LeadID:     leadID,
		Type:       "call",
		OccurredAt: testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}
}

func TestTopEmptyWhenNothingDue(t *testing.T) {
	fresh := lead("Ada", "Lovelace", repository.StatusContacted)
	repo := &fakeRepo{
		leads: []repository.Lead{fresh},
		notes: map[uuid.UUID][]repository.LeadNote{
			fresh.ID: {callNote(fresh.ID, 1)},
		},
	}

	got, err := newService(repo).Top(context.Background(), 5)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected no due follow-ups, got %d", len(got.Items))
	}
}

func TestTopOrdersByUrgencyThenOverdue(t *testing.T) {
	noContact := lead("Grace", "Hopper", repository.StatusNew)
	barelyDue := lead("Alan", "Turing", repository.StatusContacted)
	longOverdue := lead("Edsger", "Dijkstra", repository.StatusContacted)
	repo := &fakeRepo{
		leads: []repository.Lead{barelyDue, noContact, longOverdue},
		notes: map[uuid.UUID][]repository.LeadNote{
			barelyDue.ID:   {callNote(barelyDue.ID, 3)},
			longOverdue.ID: {callNote(longOverdue.ID, 20)},
		},
	}

	got, err := newService(repo).Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}

	// Never contacted and long overdue are both high urgency. The long
	// overdue lead has the earlier due moment so it comes first.
	if got.Items[0].LeadID != longOverdue.ID {
		t.Errorf("first item = %s, want long overdue lead", got.Items[0].LeadName)
	}
	if got.Items[1].LeadID != noContact.ID {
		t.Errorf("second item = %s, want never contacted lead", got.Items[1].LeadName)
	}
	if got.Items[2].LeadID != barelyDue.ID {
		t.Errorf("third item = %s, want barely due lead", got.Items[2].LeadName)
	}
	if got.Items[2].Urgency != string(cadence.TierMedium) {
		t.Errorf("barely due urgency = %s, want %s", got.Items[2].Urgency, cadence.TierMedium)
	}
}

func TestTopRespectsLimit(t *testing.T) {
	repo := &fakeRepo{notes: map[uuid.UUID][]repository.LeadNote{}}
	for i := 0; i < 5; i++ {
		repo.leads = append(repo.leads, lead("Lead", "Untouched", repository.StatusNew))
	}

	got, err := newService(repo).Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items with limit 2, got %d", len(got.Items))
	}
}

func TestTopDefaultsLimit(t *testing.T) {
	repo := &fakeRepo{notes: map[uuid.UUID][]repository.LeadNote{}}
	for i := 0; i < DefaultLimit+3; i++ {
		repo.leads = append(repo.leads, lead("Lead", "Untouched", repository.StatusNew))
	}

	got, err := newService(repo).Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(got.Items) != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, len(got.Items))
	}
}

func TestTopOverdueDays(t *testing.T) {
	overdue := lead("Barbara", "Liskov", repository.StatusContacted)
	repo := &fakeRepo{
		leads: []repository.Lead{overdue},
		notes: map[uuid.UUID][]repository.LeadNote{
			overdue.ID: {callNote(overdue.ID, 5)},
		},
	}

	got, err := newService(repo).Top(context.Background(), 5)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	// Call five days ago, follow-up was due after two. Three days overdue.
	if got.Items[0].OverdueDays != 3 {
		t.Errorf("OverdueDays = %d, want 3", got.Items[0].OverdueDays)
	}
	wantDue := testNow.Add(-3 * 24 * time.Hour)
	if !got.Items[0].DueAt.Equal(wantDue) {
		t.Errorf("DueAt = %v, want %v", got.Items[0].DueAt, wantDue)
	}
}
