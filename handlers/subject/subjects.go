package subject

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/handlers"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// SubjectHandler handles subject-related requests
type SubjectHandler struct {
	validator      *validation.Validator
	subjectService *services.SubjectService
	location       *time.Location
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(subjectService *services.SubjectService, location *time.Location) *SubjectHandler {
	return &SubjectHandler{
		validator:      validation.NewValidator(),
		subjectService: subjectService,
		location:       location,
	}
}

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name             string  `json:"name" validate:"required,max=100"`
	DailyTargetHours float64 `json:"dailyTargetHours" validate:"required,gte=0.5,lte=12"`
	ExamDate         string  `json:"examDate" validate:"required"`
	Color            string  `json:"color" validate:"omitempty,rgbhex"`
}

// UpdateSubjectRequest represents the request body for updating a subject
type UpdateSubjectRequest struct {
	Name             *string  `json:"name" validate:"omitnil,min=1,max=100"`
	DailyTargetHours *float64 `json:"dailyTargetHours" validate:"omitnil,gte=0.5,lte=12"`
	ExamDate         *string  `json:"examDate"`
	Color            *string  `json:"color" validate:"omitnil,rgbhex"`
}

// ListSubjects handles GET /api/subjects
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	subjects, err := h.subjectService.ListSubjects(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, subjects)
}

// GetSubject handles GET /api/subjects/:id
func (h *SubjectHandler) GetSubject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid subject ID")
	}

	subject, err := h.subjectService.GetSubject(c.UserContext(), userID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, subject)
}

// CreateSubject handles POST /api/subjects
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	examDate, err := handlers.ParseDate(req.ExamDate, h.location)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	subject, err := h.subjectService.CreateSubject(c.UserContext(), userID, services.SubjectInput{
		Name:             &req.Name,
		DailyTargetHours: &req.DailyTargetHours,
		ExamDate:         &examDate,
		Color:            &req.Color,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, subject)
}

// UpdateSubject handles PUT /api/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	in := services.SubjectInput{Name: req.Name, DailyTargetHours: req.DailyTargetHours, Color: req.Color}
	if req.ExamDate != nil {
		examDate, err := handlers.ParseDate(*req.ExamDate, h.location)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		in.ExamDate = &examDate
	}

	subject, err := h.subjectService.UpdateSubject(c.UserContext(), userID, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, subject)
}

// DeleteSubject handles DELETE /api/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid subject ID")
	}

	if err := h.subjectService.DeleteSubject(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Subject deleted successfully"})
}

// AISuggestions handles GET /api/subjects/ai-suggestions
func (h *SubjectHandler) AISuggestions(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	suggestions, err := h.subjectService.Suggestions(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	if len(suggestions) == 0 {
		return response.Success(c, fiber.Map{
			"suggestions": suggestions,
			"message":     "Add subjects to get AI suggestions",
		})
	}
	return response.Success(c, fiber.Map{"suggestions": suggestions})
}
