package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	leads map[uuid.UUID]repository.Lead
	notes map[uuid.UUID][]repository.LeadNote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads: make(map[uuid.UUID]repository.Lead),
		notes: make(map[uuid.UUID][]repository.LeadNote),
	}
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListLeadsParams) ([]repository.Lead, error) {
	leads := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		if params.Status != "" && lead.Status != params.Status {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (f *fakeRepo) ListOpen(ctx context.Context) ([]repository.Lead, error) {
	leads := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		if lead.Status != repository.StatusClosed {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:              uuid.New(),
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Phone:           params.Phone,
		Email:           params.Email,
		Company:         params.Company,
		City:            params.City,
		Status:          params.Status,
		AssignedAgentID: params.AssignedAgentID,
		Source:          params.Source,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = status
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.AssignedAgentID = agentID
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) CreateLeadNote(ctx context.Context, params repository.CreateLeadNoteParams) (repository.LeadNote, error) {
	note := repository.LeadNote{
		ID:         uuid.New(),
		LeadID:     params.LeadID,
		AuthorID:   params.AuthorID,
		Type:       params.Type,
		Body:       params.Body,
		OccurredAt: params.OccurredAt,
		CreatedAt:  testNow,
	}
	f.notes[params.LeadID] = append(f.notes[params.LeadID], note)
	return note, nil
}

func (f *fakeRepo) ListLeadNotes(ctx context.Context, leadID uuid.UUID) ([]repository.LeadNote, error) {
	return f.notes[leadID], nil
}

func (f *fakeRepo) ListNotesForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]repository.LeadNote, error) {
	grouped := make(map[uuid.UUID][]repository.LeadNote)
	for _, id := range leadIDs {
		if notes, ok := f.notes[id]; ok {
			grouped[id] = notes
		}
	}
	return grouped, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func newTestService(repo *fakeRepo, bus *recordingBus) *Service {
	policy := cadence.NewStandardPolicy(cadence.DefaultThresholds())
	return New(repo, bus, policy).WithClock(func() time.Time { return testNow })
}

func seedLead(repo *fakeRepo, status string, notes ...repository.LeadNote) repository.Lead {
	lead := repository.Lead{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "Lead",
		Phone:     "+14155552671",
		Status:    status,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	repo.leads[lead.ID] = lead
	for _, note := range notes {
		note.LeadID = lead.ID
		repo.notes[lead.ID] = append(repo.notes[lead.ID], note)
	}
	return lead
}

func noteAgo(noteType string, d time.Duration) repository.LeadNote {
	return repository.LeadNote{
		ID:         uuid.New(),
		AuthorID:   uuid.New(),
		Type:       noteType,
		OccurredAt: testNow.Add(-d),
		CreatedAt:  testNow.Add(-d),
	}
}

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func assertValidationErr(t *testing.T, err error) {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDefaultsStatusAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "  Ada ",
		LastName:  "Lovelace",
		Phone:     "(415) 555-2671",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Status != repository.StatusNew {
		t.Errorf("status = %s, want %s", resp.Status, repository.StatusNew)
	}
	if resp.FirstName != "Ada" {
		t.Errorf("first name = %q, want trimmed %q", resp.FirstName, "Ada")
	}
	if resp.Phone != "+14155552671" {
		t.Errorf("phone = %s, want normalized +14155552671", resp.Phone)
	}
	if resp.FollowUp.Priority != string(cadence.TierHigh) {
		t.Errorf("follow-up priority = %s, want high for a lead with no contact", resp.FollowUp.Priority)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	created, ok := bus.published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("expected LeadCreated, got %T", bus.published[0])
	}
	if created.LeadID != resp.ID {
		t.Errorf("event lead = %s, want %s", created.LeadID, resp.ID)
	}
}

func TestCreateRejectsInvalidStatus(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+14155552671",
		Status:    "bogus",
	})
	assertValidationErr(t, err)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	_, err := svc.Get(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetIncludesNotesAndLastContact(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})
	lead := seedLead(repo, repository.StatusContacted, noteAgo("call", days(1)), noteAgo("email", days(3)))

	detail, err := svc.Get(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(detail.Notes))
	}
	if detail.LastContactAt == nil {
		t.Fatal("expected last contact to be set")
	}
	want := testNow.Add(-days(1))
	if !detail.LastContactAt.Equal(want) {
		t.Errorf("last contact = %v, want %v", detail.LastContactAt, want)
	}
}

func TestListFiltersByDerivedPriority(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	interested := seedLead(repo, repository.StatusInterested, noteAgo("call", days(2)))
	seedLead(repo, repository.StatusContacted, noteAgo("call", days(1)))

	got, err := svc.List(context.Background(), ListParams{Priority: "high"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 high-priority lead, got %d", len(got.Items))
	}
	if got.Items[0].ID != interested.ID {
		t.Errorf("filtered lead = %s, want the interested lead", got.Items[0].ID)
	}
}

func TestListRejectsInvalidFilters(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	_, err := svc.List(context.Background(), ListParams{Status: "bogus"})
	assertValidationErr(t, err)

	_, err = svc.List(context.Background(), ListParams{Priority: "urgent"})
	assertValidationErr(t, err)

	_, err = svc.List(context.Background(), ListParams{Sort: "name"})
	assertValidationErr(t, err)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Details == nil {
		t.Errorf("expected the sort error to carry allowed values, got %v", err)
	}
}

func TestListPrioritySortTieBreak(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	// All three leads are high priority under the default thresholds. The
	// more recently contacted one sorts first; never contacted sorts last.
	recent := seedLead(repo, repository.StatusInterested, noteAgo("call", days(2)))
	stale := seedLead(repo, repository.StatusInterested, noteAgo("call", days(4)))
	untouched := seedLead(repo, repository.StatusNew)

	got, err := svc.List(context.Background(), ListParams{Sort: SortPriority})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(got.Items))
	}
	if got.Items[0].ID != recent.ID {
		t.Errorf("first = %s, want most recently contacted high-priority lead", got.Items[0].ID)
	}
	if got.Items[1].ID != stale.ID {
		t.Errorf("second = %s, want stale high-priority lead", got.Items[1].ID)
	}
	if got.Items[2].ID != untouched.ID {
		t.Errorf("last = %s, want never contacted lead", got.Items[2].ID)
	}
}

func TestListPagination(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})
	for i := 0; i < 5; i++ {
		seedLead(repo, repository.StatusNew)
	}

	got, err := svc.List(context.Background(), ListParams{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 lead at offset 4 of 5, got %d", len(got.Items))
	}

	got, err = svc.List(context.Background(), ListParams{Offset: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(got.Items))
	}
}

func TestUpdateStatusPublishesOnlyOnChange(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)
	lead := seedLead(repo, repository.StatusNew)

	if _, err := svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: repository.StatusContacted}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event after status change, got %d", len(bus.published))
	}
	changed, ok := bus.published[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("expected LeadStatusChanged, got %T", bus.published[0])
	}
	if changed.OldStatus != repository.StatusNew || changed.NewStatus != repository.StatusContacted {
		t.Errorf("transition = %s->%s, want new->contacted", changed.OldStatus, changed.NewStatus)
	}

	// Same status again: no event
	if _, err := svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: repository.StatusContacted}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected no event for unchanged status, got %d", len(bus.published))
	}
}

func TestAssignAndUnassign(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})
	lead := seedLead(repo, repository.StatusNew)

	agentID := uuid.New().String()
	resp, err := svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{AgentID: &agentID})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if resp.AssignedAgentID == nil || resp.AssignedAgentID.String() != agentID {
		t.Errorf("assigned agent = %v, want %s", resp.AssignedAgentID, agentID)
	}

	resp, err = svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{AgentID: nil})
	if err != nil {
		t.Fatalf("Assign (unassign): %v", err)
	}
	if resp.AssignedAgentID != nil {
		t.Errorf("expected agent cleared, got %v", resp.AssignedAgentID)
	}

	bad := "not-a-uuid"
	_, err = svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{AgentID: &bad})
	assertValidationErr(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	err := svc.Delete(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAssessReportsDueFollowUp(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})
	lead := seedLead(repo, repository.StatusContacted, noteAgo("call", days(3)))

	assessment, ok, err := svc.Assess(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if !ok {
		t.Fatal("expected an assessment for an open lead")
	}
	if assessment.NextAction != cadence.ActionEmail {
		t.Errorf("next action = %s, want email after a call", assessment.NextAction)
	}
}
