package followups

import (
	"net/http"
	"strconv"

	"crm_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the follow-ups widget endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a new follow-ups handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the widget route on the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Top)
}

// Top handles GET /followups?limit=N.
func (h *Handler) Top(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	resp, err := h.svc.Top(c.Request.Context(), limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}
