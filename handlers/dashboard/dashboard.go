package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
)

// DashboardHandler serves the aggregated progress view
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	stats, err := h.dashboardService.GetStats(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, stats)
}
