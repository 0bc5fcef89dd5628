package export

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams planner data as a spreadsheet
type ExportHandler struct {
	exportService *services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Planner handles GET /api/export/planner.xlsx
func (h *ExportHandler) Planner(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var buf bytes.Buffer
	if err := h.exportService.WritePlanner(c.UserContext(), userID, &buf); err != nil {
		log.Errorf("export: user %d: %v", userID, err)
		return response.FromError(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="study-planner-%d.xlsx"`, userID))
	return c.Send(buf.Bytes())
}
