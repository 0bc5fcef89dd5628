package task

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/handlers"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// TaskHandler handles study task requests
type TaskHandler struct {
	validator   *validation.Validator
	taskService *services.TaskService
	location    *time.Location
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, location *time.Location) *TaskHandler {
	return &TaskHandler{
		validator:   validation.NewValidator(),
		taskService: taskService,
		location:    location,
	}
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	SubjectID uint    `json:"subjectId" validate:"required"`
	Title     string  `json:"title" validate:"required,max=255"`
	Date      string  `json:"date" validate:"required"`
	Duration  float64 `json:"duration" validate:"required,gte=0.25"`
}

// UpdateTaskRequest represents the request body for updating a task
type UpdateTaskRequest struct {
	Completed *bool    `json:"completed"`
	Title     *string  `json:"title" validate:"omitnil,min=1,max=255"`
	Date      *string  `json:"date"`
	Duration  *float64 `json:"duration" validate:"omitnil,gte=0.25"`
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	tasks, err := h.taskService.ListTasks(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, tasks)
}

// Today handles GET /api/tasks/today
func (h *TaskHandler) Today(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	view, err := h.taskService.Today(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, view)
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	date, err := handlers.ParseDate(req.Date, h.location)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	task, err := h.taskService.CreateTask(c.UserContext(), userID, services.CreateTaskInput{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Date:      date,
		Duration:  req.Duration,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, task)
}

// UpdateTask handles PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid task ID")
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	in := services.UpdateTaskInput{Completed: req.Completed, Title: req.Title, Duration: req.Duration}
	if req.Date != nil {
		date, err := handlers.ParseDate(*req.Date, h.location)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		in.Date = &date
	}

	task, err := h.taskService.UpdateTask(c.UserContext(), userID, id, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Task deleted successfully"})
}
