// Package management handles lead lifecycle operations: creation, listing,
// status transitions, assignment, and deletion. Listing output is enriched
// with follow-up assessments derived by the cadence engine.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.NoteStore
}

// Service handles lead management operations.
type Service struct {
	repo     Repository
	eventBus events.Bus
	policy   cadence.Policy
	now      func() time.Time
}

// New creates a new lead management service. The cadence policy drives the
// derived follow-up fields on every read.
func New(repo Repository, eventBus events.Bus, policy cadence.Policy) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		policy:   policy,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registers a new lead and publishes LeadCreated.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	status := req.Status
	if status == "" {
		status = repository.StatusNew
	}
	if !repository.ValidStatuses[status] {
		return transport.LeadResponse{}, apperr.Validation("invalid lead status")
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     phone.NormalizeE164(req.Phone),
		Email:     req.Email,
		Company:   req.Company,
		City:      req.City,
		Status:    status,
		Source:    req.Source,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Status:    lead.Status,
	})

	return s.toResponse(lead, nil), nil
}

// Get returns a single lead with its notes and derived follow-up fields.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadDetailResponse{}, err
	}

	notes, err := s.repo.ListLeadNotes(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	detail := transport.LeadDetailResponse{
		LeadResponse: s.toResponse(lead, notes),
		Notes:        make([]transport.LeadNoteResponse, len(notes)),
	}
	for i, note := range notes {
		detail.Notes[i] = toNoteResponse(note)
	}

	return detail, nil
}

// Sort orders accepted by List.
const (
	SortPriority = "priority"
	SortRecent   = "recent"
)

// ListParams filters and orders the lead listing.
type ListParams struct {
	Status   string
	Priority string
	Sort     string
	Limit    int
	Offset   int
}

// List returns leads enriched with follow-up assessments.
//
// Priority filtering and ordering operate on derived values, so they are
// applied after evaluation; pagination slices the final ordering.
func (s *Service) List(ctx context.Context, params ListParams) (transport.LeadsResponse, error) {
	if params.Status != "" && !repository.ValidStatuses[params.Status] {
		return transport.LeadsResponse{}, apperr.Validation("invalid lead status").
			WithDetails("expected one of: new, contacted, interested, qualified, closed")
	}

	var priorityFilter cadence.Tier
	if params.Priority != "" {
		tier, ok := cadence.ParseTier(params.Priority)
		if !ok {
			return transport.LeadsResponse{}, apperr.Validation("invalid priority").
				WithDetails("expected one of: high, medium, low, dormant")
		}
		priorityFilter = tier
	}

	sortOrder := params.Sort
	if sortOrder == "" {
		sortOrder = SortPriority
	}
	if sortOrder != SortPriority && sortOrder != SortRecent {
		return transport.LeadsResponse{}, apperr.Validation("invalid sort order").
			WithDetails("expected priority or recent")
	}

	leads, err := s.repo.List(ctx, repository.ListLeadsParams{Status: params.Status})
	if err != nil {
		return transport.LeadsResponse{}, err
	}

	ids := make([]uuid.UUID, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}
	notesByLead, err := s.repo.ListNotesForLeads(ctx, ids)
	if err != nil {
		return transport.LeadsResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		item := s.toResponse(lead, notesByLead[lead.ID])
		if priorityFilter != "" && item.FollowUp.Priority != string(priorityFilter) {
			continue
		}
		items = append(items, item)
	}

	sortLeads(items, sortOrder)
	items = paginate(items, params.Limit, params.Offset)

	return transport.LeadsResponse{Items: items}, nil
}

// UpdateStatus transitions a lead to a new status and publishes LeadStatusChanged.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	if !repository.ValidStatuses[req.Status] {
		return transport.LeadResponse{}, apperr.Validation("invalid lead status")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if current.Status != lead.Status {
		s.eventBus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			OldStatus: current.Status,
			NewStatus: lead.Status,
		})
	}

	notes, err := s.repo.ListLeadNotes(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return s.toResponse(lead, notes), nil
}

// Assign sets or clears the agent responsible for a lead.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, req transport.AssignLeadRequest) (transport.LeadResponse, error) {
	var agentID *uuid.UUID
	if req.AgentID != nil {
		parsed, err := uuid.Parse(*req.AgentID)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation("invalid agent id")
		}
		agentID = &parsed
	}

	lead, err := s.repo.AssignAgent(ctx, id, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	notes, err := s.repo.ListLeadNotes(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return s.toResponse(lead, notes), nil
}

// Delete soft deletes a lead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}

// Assess evaluates the configured cadence policy for a stored lead.
// Used by the reminder worker to re-check whether a follow-up is still due.
// The bool is false when the policy has no recommendation for the lead.
func (s *Service) Assess(ctx context.Context, id uuid.UUID) (cadence.Assessment, bool, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return cadence.Assessment{}, false, apperr.NotFound("lead not found")
		}
		return cadence.Assessment{}, false, err
	}

	notes, err := s.repo.ListLeadNotes(ctx, id)
	if err != nil {
		return cadence.Assessment{}, false, err
	}

	assessment, ok := s.policy.Evaluate(lead.Status, toInteractions(notes), s.now())
	return assessment, ok, nil
}
