package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

// MinTaskDuration is the shortest task that can be scheduled, in hours
const MinTaskDuration = 0.25

// TaskService manages scheduled study tasks
type TaskService struct {
	db    *gorm.DB
	clock Clock
}

// NewTaskService creates a new task service
func NewTaskService(db *gorm.DB, clock Clock) *TaskService {
	return &TaskService{db: db, clock: clock}
}

// CreateTaskInput holds the fields for a new task
type CreateTaskInput struct {
	SubjectID uint
	Title     string
	Date      time.Time
	Duration  float64
}

// UpdateTaskInput carries task changes; nil fields are left unchanged
type UpdateTaskInput struct {
	Completed *bool
	Title     *string
	Date      *time.Time
	Duration  *float64
}

// TodayStats summarises the tasks scheduled for today
type TodayStats struct {
	TotalTasks           int     `json:"totalTasks"`
	CompletedTasks       int     `json:"completedTasks"`
	TotalHours           float64 `json:"totalHours"`
	CompletedHours       float64 `json:"completedHours"`
	RemainingHours       float64 `json:"remainingHours"`
	CompletionPercentage int     `json:"completionPercentage"`
}

// TodayView is today's task list with its summary
type TodayView struct {
	Tasks []model.Task `json:"tasks"`
	Stats TodayStats   `json:"stats"`
}

// ListTasks returns all tasks, latest date first
func (s *TaskService) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Today returns the tasks dated within the current local day
func (s *TaskService) Today(ctx context.Context, userID uint) (*TodayView, error) {
	start := s.clock.StartOfDay(s.clock.Now())
	end := s.clock.AddDays(start, 1)

	var tasks []model.Task
	if err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start.UTC(), end.UTC()).
		Order("date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load today's tasks: %w", err)
	}

	return &TodayView{Tasks: tasks, Stats: SummariseTasks(tasks)}, nil
}

// SummariseTasks computes counts and hour totals over tasks
func SummariseTasks(tasks []model.Task) TodayStats {
	var stats TodayStats
	for _, task := range tasks {
		stats.TotalTasks++
		stats.TotalHours += task.Duration
		if task.Completed {
			stats.CompletedTasks++
			stats.CompletedHours += task.Duration
		}
	}
	stats.RemainingHours = roundTo1(stats.TotalHours - stats.CompletedHours)
	stats.TotalHours = roundTo1(stats.TotalHours)
	stats.CompletedHours = roundTo1(stats.CompletedHours)
	stats.CompletionPercentage = percentage(stats.CompletedTasks, stats.TotalTasks)
	return stats
}

// CreateTask validates and stores a task
func (s *TaskService) CreateTask(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.InvalidInput("title is required")
	}
	if in.Date.IsZero() {
		return nil, apperror.InvalidInput("date is required")
	}
	if in.Duration < MinTaskDuration {
		return nil, apperror.InvalidInput("duration must be at least %.2f hours", MinTaskDuration)
	}

	subject, err := findOwnedSubject(ctx, s.db, userID, in.SubjectID)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:    userID,
		SubjectID: subject.ID,
		Title:     title,
		Date:      in.Date.UTC(),
		Duration:  in.Duration,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.Subject = subject

	return &task, nil
}

// UpdateTask applies changes to a task. completedAt is stamped only when a
// task goes from open to completed and cleared when it is reopened.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.findOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Completed != nil {
		switch {
		case *in.Completed && !task.Completed:
			updates["completed"] = true
			updates["completed_at"] = s.clock.Now().UTC()
		case !*in.Completed:
			updates["completed"] = false
			updates["completed_at"] = nil
		}
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.InvalidInput("title cannot be empty")
		}
		updates["title"] = title
	}
	if in.Date != nil {
		updates["date"] = in.Date.UTC()
	}
	if in.Duration != nil {
		if *in.Duration < MinTaskDuration {
			return nil, apperror.InvalidInput("duration must be at least %.2f hours", MinTaskDuration)
		}
		updates["duration"] = *in.Duration
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&model.Task{}).
			Where("id = ? AND user_id = ?", taskID, userID).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	return s.findOwnedTask(ctx, userID, taskID)
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Task not found")
	}
	return nil
}

func (s *TaskService) findOwnedTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return &task, nil
}
