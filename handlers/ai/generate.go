package ai

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// AIHandler exposes question and study plan generation
type AIHandler struct {
	validator *validation.Validator
	aiService *services.AIService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{
		validator: validation.NewValidator(),
		aiService: aiService,
	}
}

// GenerateQuestionsRequest represents a question generation request
type GenerateQuestionsRequest struct {
	Subject    string `json:"subject" validate:"required,max=100"`
	Topic      string `json:"topic" validate:"required,max=255"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=20"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// GeneratePlanRequest represents a study plan generation request
type GeneratePlanRequest struct {
	Subjects       []string `json:"subjects" validate:"required,min=1,dive,required,max=100"`
	AvailableHours float64  `json:"availableHours" validate:"required,gt=0,lte=24"`
	ExamDate       string   `json:"examDate"`
	Save           bool     `json:"save"`
}

// GenerateQuestions handles POST /api/ai/generate-questions
func (h *AIHandler) GenerateQuestions(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Subject = validation.SanitizeString(req.Subject)
	req.Topic = validation.SanitizeString(req.Topic)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	questions, err := h.aiService.GenerateQuestions(c.UserContext(), userID, services.GenerateQuestionsInput{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Count:      req.Count,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"questions": questions})
}

// GeneratePlan handles POST /api/ai/generate-plan
func (h *AIHandler) GeneratePlan(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req GeneratePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	for i := range req.Subjects {
		req.Subjects[i] = validation.SanitizeString(req.Subjects[i])
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.aiService.GeneratePlan(c.UserContext(), userID, services.GeneratePlanInput{
		Subjects:       req.Subjects,
		AvailableHours: req.AvailableHours,
		ExamDate:       req.ExamDate,
		Save:           req.Save,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}
