package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
)

// Sheet names of the planner export workbook, in order
const (
	SheetSubjects  = "Subjects"
	SheetTasks     = "Tasks"
	SheetTests     = "Tests"
	SheetRevisions = "Revisions"
)

// ExportService renders a user's planner data as an Excel workbook
type ExportService struct {
	db    *gorm.DB
	clock Clock
}

// NewExportService creates a new export service
func NewExportService(db *gorm.DB, clock Clock) *ExportService {
	return &ExportService{db: db, clock: clock}
}

// WritePlanner builds the workbook and writes it to w
func (s *ExportService) WritePlanner(ctx context.Context, userID uint, w io.Writer) error {
	f, err := s.BuildWorkbook(ctx, userID)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook returns a workbook with one sheet per record type.
// The caller must Close it.
func (s *ExportService) BuildWorkbook(ctx context.Context, userID uint) (*excelize.File, error) {
	db := s.db.WithContext(ctx)

	var subjects []model.Subject
	if err := db.Where("user_id = ?", userID).Order("name ASC, id ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	var tasks []model.Task
	if err := db.Preload("Subject").Where("user_id = ?", userID).Order("date ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	var tests []model.Test
	if err := db.Preload("Subject").Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to load tests: %w", err)
	}
	var revisions []model.Revision
	if err := db.Preload("Subject").Where("user_id = ?", userID).Order("next_revision_date ASC, id ASC").Find(&revisions).Error; err != nil {
		return nil, fmt.Errorf("failed to load revisions: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSubjects); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetTasks, SheetTests, SheetRevisions} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E7FF"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{SheetSubjects, []interface{}{"Name", "Daily Target (h)", "Exam Date", "Color"}, s.subjectRows(subjects)},
		{SheetTasks, []interface{}{"Date", "Subject", "Title", "Duration (h)", "Completed", "Completed At"}, s.taskRows(tasks)},
		{SheetTests, []interface{}{"Title", "Subject", "Questions", "Score", "Percentage", "Completed At"}, s.testRows(tests)},
		{SheetRevisions, []interface{}{"Topic", "Subject", "Study Date", "Next Revision", "Revision Count", "Completed"}, s.revisionRows(revisions)},
	}

	for _, sheet := range sheets {
		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func (s *ExportService) subjectRows(subjects []model.Subject) [][]interface{} {
	rows := make([][]interface{}, 0, len(subjects))
	for _, subject := range subjects {
		rows = append(rows, []interface{}{subject.Name, subject.DailyTargetHours, s.day(subject.ExamDate), subject.Color})
	}
	return rows
}

func (s *ExportService) taskRows(tasks []model.Task) [][]interface{} {
	rows := make([][]interface{}, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []interface{}{
			s.day(task.Date), subjectName(task.Subject), task.Title, task.Duration,
			yesNo(task.Completed), s.stamp(task.CompletedAt),
		})
	}
	return rows
}

func (s *ExportService) testRows(tests []model.Test) [][]interface{} {
	rows := make([][]interface{}, 0, len(tests))
	for _, test := range tests {
		score, pct := "", ""
		if test.Completed {
			score = fmt.Sprintf("%d/%d", test.Score, test.TotalQuestions)
			pct = fmt.Sprintf("%d%%", percentage(test.Score, test.TotalQuestions))
		}
		rows = append(rows, []interface{}{
			test.Title, subjectName(test.Subject), test.TotalQuestions, score, pct, s.stamp(test.CompletedAt),
		})
	}
	return rows
}

func (s *ExportService) revisionRows(revisions []model.Revision) [][]interface{} {
	rows := make([][]interface{}, 0, len(revisions))
	for _, rev := range revisions {
		rows = append(rows, []interface{}{
			rev.Topic, subjectName(rev.Subject), s.day(rev.StudyDate), s.day(rev.NextRevisionDate),
			rev.RevisionCount, yesNo(rev.Completed),
		})
	}
	return rows
}

func (s *ExportService) day(t time.Time) string {
	return t.In(s.clock.Location).Format("2006-01-02")
}

func (s *ExportService) stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.clock.Location).Format("2006-01-02 15:04")
}

func subjectName(subject *model.Subject) string {
	if subject == nil {
		return ""
	}
	return subject.Name
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
