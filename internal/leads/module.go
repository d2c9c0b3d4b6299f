// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"
	"time"

	"crm_portal_backend/internal/events"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/handler"
	"crm_portal_backend/internal/leads/management"
	"crm_portal_backend/internal/leads/notes"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderScheduler schedules a follow-up reminder for a lead. Implemented by
// the asynq scheduler client; nil disables reminder scheduling.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, leadID uuid.UUID, runAt time.Time) error
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	notes      *notes.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg *config.Config, log *logger.Logger, reminders ReminderScheduler) (*Module, error) {
	// Create shared repository
	repo := repository.New(pool)

	thresholds, err := cadence.LoadThresholds(cfg.CadencePolicyFile)
	if err != nil {
		return nil, err
	}
	policy := cadence.NewStandardPolicy(thresholds)

	// Create focused services (vertical slices)
	mgmtSvc := management.New(repo, eventBus, policy)
	notesSvc := notes.New(repo, eventBus)

	if reminders != nil {
		scheduleOnEvent := func(leadID uuid.UUID) {
			go func() {
				ctx := context.Background()
				assessment, ok, err := mgmtSvc.Assess(ctx, leadID)
				if err != nil {
					log.Error("follow-up assessment failed", "error", err, "leadId", leadID)
					return
				}
				if !ok {
					return
				}
				if err := reminders.ScheduleFollowUpReminder(ctx, leadID, assessment.NextActionAt); err != nil {
					log.Error("follow-up reminder scheduling failed", "error", err, "leadId", leadID)
				}
			}()
		}

		eventBus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			if e, ok := event.(events.LeadCreated); ok {
				scheduleOnEvent(e.LeadID)
			}
			return nil
		}))

		eventBus.Subscribe(events.NoteAdded{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			if e, ok := event.(events.NoteAdded); ok {
				scheduleOnEvent(e.LeadID)
			}
			return nil
		}))
	}

	// Create handlers
	notesHandler := handler.NewNotesHandler(notesSvc, val)
	h := handler.New(mgmtSvc, notesHandler, val)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		notes:      notesSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// NotesService returns the lead notes service for external use.
func (m *Module) NotesService() *notes.Service {
	return m.notes
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
