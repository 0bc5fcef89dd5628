package doubt

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/handlers"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// DoubtHandler handles doubt assistant requests
type DoubtHandler struct {
	validator    *validation.Validator
	doubtService *services.DoubtService
}

// NewDoubtHandler creates a new doubt handler
func NewDoubtHandler(doubtService *services.DoubtService) *DoubtHandler {
	return &DoubtHandler{
		validator:    validation.NewValidator(),
		doubtService: doubtService,
	}
}

// AskRequest represents a question for the assistant
type AskRequest struct {
	Question  string `json:"question" validate:"max=2000"`
	SubjectID *uint  `json:"subjectId"`
}

// FeedbackRequest records whether an answer helped
type FeedbackRequest struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

// Ask handles POST /api/doubts/ask
func (h *DoubtHandler) Ask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Question = validation.SanitizeString(req.Question)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	doubt, err := h.doubtService.AskDoubt(c.UserContext(), userID, req.Question, req.SubjectID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, doubt)
}

// History handles GET /api/doubts/history
func (h *DoubtHandler) History(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	doubts, err := h.doubtService.History(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, doubts)
}

// Feedback handles PUT /api/doubts/:id/feedback
func (h *DoubtHandler) Feedback(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid doubt ID")
	}

	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	doubt, err := h.doubtService.SetFeedback(c.UserContext(), userID, id, *req.Helpful)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, doubt)
}
