package revision

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/handlers"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// RevisionHandler handles spaced-revision requests
type RevisionHandler struct {
	validator       *validation.Validator
	revisionService *services.RevisionService
	location        *time.Location
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(revisionService *services.RevisionService, location *time.Location) *RevisionHandler {
	return &RevisionHandler{
		validator:       validation.NewValidator(),
		revisionService: revisionService,
		location:        location,
	}
}

// CreateRevisionRequest represents the request body for scheduling a topic
type CreateRevisionRequest struct {
	SubjectID uint   `json:"subjectId" validate:"required"`
	Topic     string `json:"topic" validate:"required,max=255"`
	StudyDate string `json:"studyDate"`
}

// CreateRevision handles POST /api/revisions
func (h *RevisionHandler) CreateRevision(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req CreateRevisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Topic = validation.SanitizeString(req.Topic)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	in := services.CreateRevisionInput{SubjectID: req.SubjectID, Topic: req.Topic}
	if req.StudyDate != "" {
		date, err := handlers.ParseDate(req.StudyDate, h.location)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		in.StudyDate = &date
	}

	revision, err := h.revisionService.CreateRevision(c.UserContext(), userID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, revision)
}

// Pending handles GET /api/revisions/pending
func (h *RevisionHandler) Pending(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	revisions, err := h.revisionService.ListPendingToday(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, revisions)
}

// All handles GET /api/revisions/all
func (h *RevisionHandler) All(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	revisions, err := h.revisionService.ListAll(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, revisions)
}

// Complete handles PUT /api/revisions/:id/complete
func (h *RevisionHandler) Complete(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid revision ID")
	}

	result, err := h.revisionService.CompleteRevision(c.UserContext(), userID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}

// DeleteRevision handles DELETE /api/revisions/:id
func (h *RevisionHandler) DeleteRevision(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid revision ID")
	}

	if err := h.revisionService.DeleteRevision(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Revision deleted successfully"})
}
