package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
)

const (
	upcomingTasksLimit    = 5
	recentTestsLimit      = 10
	pendingRevisionsLimit = 5
	subjectStatsWindow    = 30 // days
)

// DashboardService computes the dashboard snapshot. Nothing is cached:
// every call reads straight from the database.
type DashboardService struct {
	db    *gorm.DB
	clock Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, clock Clock) *DashboardService {
	return &DashboardService{db: db, clock: clock}
}

// TaskCounts summarises today's tasks
type TaskCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// TestPerformance is one completed test on the dashboard chart
type TestPerformance struct {
	Subject    string     `json:"subject"`
	Score      int        `json:"score"`
	Total      int        `json:"total"`
	Percentage int        `json:"percentage"`
	Date       *time.Time `json:"date"`
}

// SubjectHours is the study time spent on one subject in the last 30 days
type SubjectHours struct {
	SubjectID uint    `json:"subjectId"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Hours     float64 `json:"hours"`
}

// DashboardStats is the consolidated dashboard snapshot
type DashboardStats struct {
	TotalStudyHours           float64           `json:"totalStudyHours"`
	TodayCompletionPercentage int               `json:"todayCompletionPercentage"`
	TodayTasks                TaskCounts        `json:"todayTasks"`
	UpcomingTasks             []model.Task      `json:"upcomingTasks"`
	TestPerformance           []TestPerformance `json:"testPerformance"`
	AverageTestScore          int               `json:"averageTestScore"`
	PendingRevisions          int64             `json:"pendingRevisions"`
	PendingRevisionsList      []model.Revision  `json:"pendingRevisionsList"`
	SubjectStats              []SubjectHours    `json:"subjectStats"`
}

// GetStats builds the dashboard for userID as of the clock's current time
func (s *DashboardService) GetStats(ctx context.Context, userID uint) (*DashboardStats, error) {
	now := s.clock.current()
	startOfToday := s.clock.StartOfDay(now)
	startOfTomorrow := s.clock.AddDays(startOfToday, 1)
	weekEnd := s.clock.AddDays(startOfToday, 7)

	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	// Total hours over every completed task
	var totalHours float64
	if err := db.Model(&model.Task{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&totalHours).Error; err != nil {
		return nil, fmt.Errorf("failed to sum study hours: %w", err)
	}
	stats.TotalStudyHours = roundTo1(totalHours)

	// Today's completion
	var todayTasks []model.Task
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, startOfToday.UTC(), startOfTomorrow.UTC()).
		Find(&todayTasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load today's tasks: %w", err)
	}
	stats.TodayTasks.Total = len(todayTasks)
	for _, task := range todayTasks {
		if task.Completed {
			stats.TodayTasks.Completed++
		}
	}
	stats.TodayCompletionPercentage = percentage(stats.TodayTasks.Completed, stats.TodayTasks.Total)

	// Upcoming week, starting tomorrow
	if err := db.Preload("Subject").
		Where("user_id = ? AND completed = ? AND date >= ? AND date < ?", userID, false, startOfTomorrow.UTC(), weekEnd.UTC()).
		Order("date ASC, id ASC").
		Limit(upcomingTasksLimit).
		Find(&stats.UpcomingTasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load upcoming tasks: %w", err)
	}

	if err := s.fillTestPerformance(db, userID, stats); err != nil {
		return nil, err
	}

	// Revisions due now or earlier
	pending := db.Model(&model.Revision{}).
		Where("user_id = ? AND completed = ? AND next_revision_date <= ?", userID, false, now.UTC())
	if err := pending.Session(&gorm.Session{}).Count(&stats.PendingRevisions).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending revisions: %w", err)
	}
	if err := pending.Session(&gorm.Session{}).
		Preload("Subject").
		Order("next_revision_date ASC, id ASC").
		Limit(pendingRevisionsLimit).
		Find(&stats.PendingRevisionsList).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending revisions: %w", err)
	}

	if err := s.fillSubjectStats(db, userID, now, stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardService) fillTestPerformance(db *gorm.DB, userID uint, stats *DashboardStats) error {
	var tests []model.Test
	if err := db.Preload("Subject").
		Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC, id DESC").
		Limit(recentTestsLimit).
		Find(&tests).Error; err != nil {
		return fmt.Errorf("failed to load recent tests: %w", err)
	}

	stats.TestPerformance = make([]TestPerformance, 0, len(tests))
	percentages := make([]float64, 0, len(tests))
	for _, test := range tests {
		entry := TestPerformance{
			Score:      test.Score,
			Total:      test.TotalQuestions,
			Percentage: percentage(test.Score, test.TotalQuestions),
			Date:       test.CompletedAt,
		}
		if test.Subject != nil {
			entry.Subject = test.Subject.Name
		}
		stats.TestPerformance = append(stats.TestPerformance, entry)
		if test.TotalQuestions > 0 {
			percentages = append(percentages, 100*float64(test.Score)/float64(test.TotalQuestions))
		} else {
			percentages = append(percentages, 0)
		}
	}
	stats.AverageTestScore = AverageScore(percentages)
	return nil
}

func (s *DashboardService) fillSubjectStats(db *gorm.DB, userID uint, now time.Time, stats *DashboardStats) error {
	since := s.clock.AddDays(now, -subjectStatsWindow)

	var tasks []model.Task
	if err := db.Preload("Subject").
		Where("user_id = ? AND completed = ? AND completed_at >= ?", userID, true, since.UTC()).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return fmt.Errorf("failed to load recent study time: %w", err)
	}

	stats.SubjectStats = GroupHoursBySubject(tasks)
	return nil
}

// GroupHoursBySubject sums task durations per subject in order of first
// appearance. Tasks whose subject no longer exists are grouped under an
// empty name.
func GroupHoursBySubject(tasks []model.Task) []SubjectHours {
	buckets := make([]SubjectHours, 0)
	index := make(map[uint]int)

	for _, task := range tasks {
		i, ok := index[task.SubjectID]
		if !ok {
			bucket := SubjectHours{SubjectID: task.SubjectID}
			if task.Subject != nil {
				bucket.Name = task.Subject.Name
				bucket.Color = task.Subject.Color
			}
			buckets = append(buckets, bucket)
			i = len(buckets) - 1
			index[task.SubjectID] = i
		}
		buckets[i].Hours += task.Duration
	}

	for i := range buckets {
		buckets[i].Hours = roundTo1(buckets[i].Hours)
	}
	return buckets
}

// AverageScore is the rounded mean of per-test percentages, 0 for none.
// Each test weighs the same regardless of its question count.
func AverageScore(percentages []float64) int {
	if len(percentages) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range percentages {
		sum += p
	}
	return int(math.Round(sum / float64(len(percentages))))
}
