package services

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sahilchouksey/study-planner/model"
)

// StudyTier classifies how close an exam is
type StudyTier string

const (
	TierExamPassed StudyTier = "exam_passed"
	TierUrgent     StudyTier = "urgent"
	TierIntensive  StudyTier = "intensive"
	TierMaintain   StudyTier = "maintain"
	TierSteady     StudyTier = "steady"
)

// StudyAdvice is the recommendation for one subject
type StudyAdvice struct {
	DaysUntilExam    int       `json:"daysUntilExam"`
	RecommendedHours float64   `json:"recommendedHours"`
	Tier             StudyTier `json:"tier"`
	Suggestion       string    `json:"suggestion"`
}

// SubjectSuggestion is the advisor output for a stored subject
type SubjectSuggestion struct {
	SubjectID        uint      `json:"subjectId"`
	SubjectName      string    `json:"subjectName"`
	DaysUntilExam    int       `json:"daysUntilExam"`
	CurrentTarget    float64   `json:"currentTarget"`
	RecommendedHours float64   `json:"recommendedHours"`
	Suggestion       string    `json:"suggestion"`
	Tier             StudyTier `json:"tier"`
}

// AdviseStudyTime recommends daily study hours from the time left before an
// exam. It is a pure function of its arguments.
func AdviseStudyTime(examDate time.Time, dailyTargetHours float64, now time.Time) StudyAdvice {
	days := int(math.Ceil(examDate.Sub(now).Hours() / 24))
	target := formatHours(dailyTargetHours)

	advice := StudyAdvice{DaysUntilExam: days, RecommendedHours: dailyTargetHours}
	switch {
	case days < 0:
		advice.Tier = TierExamPassed
		advice.Suggestion = "Exam has passed. Consider updating the exam date."
	case days <= 7:
		advice.Tier = TierUrgent
		advice.RecommendedHours = math.Min(dailyTargetHours*1.5, 8)
		advice.Suggestion = fmt.Sprintf("⚠️ Only %d days left! Increase study time to %.1f hours/day. Focus on revision and practice tests.",
			days, advice.RecommendedHours)
	case days <= 14:
		advice.Tier = TierIntensive
		advice.RecommendedHours = math.Min(dailyTargetHours*1.2, 6)
		advice.Suggestion = fmt.Sprintf("📚 %d days remaining. Suggested %.1f hours/day. Start intensive revision.",
			days, advice.RecommendedHours)
	case days <= 30:
		advice.Tier = TierMaintain
		advice.Suggestion = fmt.Sprintf("✅ %d days to prepare. Current target of %s hours/day is good. Maintain consistency.", days, target)
	default:
		advice.Tier = TierSteady
		advice.Suggestion = fmt.Sprintf("📖 %d days available. %s hours/day is perfect for steady progress.", days, target)
	}

	advice.RecommendedHours = roundTo1(advice.RecommendedHours)
	return advice
}

// SuggestForSubjects applies AdviseStudyTime to each subject
func SuggestForSubjects(subjects []model.Subject, now time.Time) []SubjectSuggestion {
	suggestions := make([]SubjectSuggestion, 0, len(subjects))
	for _, subject := range subjects {
		advice := AdviseStudyTime(subject.ExamDate, subject.DailyTargetHours, now)
		suggestions = append(suggestions, SubjectSuggestion{
			SubjectID:        subject.ID,
			SubjectName:      subject.Name,
			DaysUntilExam:    advice.DaysUntilExam,
			CurrentTarget:    subject.DailyTargetHours,
			RecommendedHours: advice.RecommendedHours,
			Suggestion:       advice.Suggestion,
			Tier:             advice.Tier,
		})
	}
	return suggestions
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
