package adaptor

import (
	"net/http"

	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	service usecase.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service usecase.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		log:     log.With(zap.String("handler", "dashboard")),
	}
}

// Admin handles GET /dashboard/admin
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Admin(r.Context(), p)
	if err != nil {
		handleServiceError(w, h.log, err, "admin dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// Owner handles GET /dashboard/owner
func (h *DashboardHandler) Owner(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Owner(r.Context(), p)
	if err != nil {
		handleServiceError(w, h.log, err, "owner dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
