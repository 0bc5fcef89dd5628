package test

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/handlers"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// TestHandler handles practice test requests
type TestHandler struct {
	validator   *validation.Validator
	testService *services.TestService
}

// NewTestHandler creates a new test handler
func NewTestHandler(testService *services.TestService) *TestHandler {
	return &TestHandler{
		validator:   validation.NewValidator(),
		testService: testService,
	}
}

// CreateTestRequest represents the request body for creating a test.
// Per-question rules are checked by the service so the error names the
// offending question.
type CreateTestRequest struct {
	SubjectID uint                     `json:"subjectId" validate:"required"`
	Title     string                   `json:"title" validate:"required,max=255"`
	Questions []services.QuestionInput `json:"questions" validate:"required,min=1"`
}

// SubmitTestRequest carries one answer per question; null means skipped
type SubmitTestRequest struct {
	TestID  uint   `json:"testId" validate:"required"`
	Answers []*int `json:"answers"`
}

// CreateTest handles POST /api/tests/create
func (h *TestHandler) CreateTest(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req CreateTestRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	test, err := h.testService.CreateTest(c.UserContext(), userID, services.CreateTestInput{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Questions: req.Questions,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, test.ToResponse())
}

// SubmitTest handles POST /api/tests/submit
func (h *TestHandler) SubmitTest(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req SubmitTestRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.testService.SubmitTest(c.UserContext(), userID, req.TestID, req.Answers)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}

// History handles GET /api/tests/history
func (h *TestHandler) History(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	tests, err := h.testService.ListHistory(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, services.ToResponses(tests))
}

// ListBySubject handles GET /api/tests/subject/:subjectId
func (h *TestHandler) ListBySubject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	subjectID, ok := handlers.ParseID(c, "subjectId")
	if !ok {
		return response.BadRequest(c, "Invalid subject ID")
	}

	tests, err := h.testService.ListBySubject(c.UserContext(), userID, subjectID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, services.ToResponses(tests))
}

// GetTest handles GET /api/tests/:id
func (h *TestHandler) GetTest(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid test ID")
	}

	test, err := h.testService.GetTest(c.UserContext(), userID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, test.ToResponse())
}

// DeleteTest handles DELETE /api/tests/:id
func (h *TestHandler) DeleteTest(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid test ID")
	}

	if err := h.testService.DeleteTest(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Test deleted successfully"})
}
