package followups

import (
	internalhttp "crm_portal_backend/internal/http"
	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the follow-ups widget into the application.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the follow-ups module backed by the pipeline cadence policy.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := New(repo, cadence.NewPipelinePolicy())
	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module name for registration logging.
func (m *Module) Name() string { return "followups" }

// RegisterRoutes mounts the module routes under the protected API group.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/followups"))
}

// Service exposes the widget service for background workers.
func (m *Module) Service() *Service { return m.service }
