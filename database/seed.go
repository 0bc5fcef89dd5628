package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/auth"
)

// SeedUser holds the credentials of the demo account
type SeedUser struct {
	Name     string
	Email    string
	Password string
}

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	now time.Time
	loc *time.Location
}

// NewSeeder creates a new seeder instance. Seeded dates are laid out
// relative to now in loc.
func NewSeeder(db *gorm.DB, now time.Time, loc *time.Location) *Seeder {
	if loc == nil {
		loc = time.UTC
	}
	return &Seeder{db: db, now: now.In(loc), loc: loc}
}

type seedSubject struct {
	name        string
	hours       float64
	examInDays  int
	color       string
	todayTask   string
	taskHours   float64
	recentTopic string
}

var demoSubjects = []seedSubject{
	{"Mathematics", 2, 20, "#6366f1", "Practice integration by parts", 1.5, "Limits and continuity"},
	{"Physics", 1.5, 5, "#f59e0b", "Newton's laws numericals", 1, "Work, energy and power"},
	{"Chemistry", 1, 30, "#10b981", "Periodic table trends", 0.5, "Acids, bases and salts"},
}

// SeedAll creates the demo user with subjects, today's tasks, a practice
// test and revisions that are due. It does nothing when the user already exists.
func (s *Seeder) SeedAll(user SeedUser) error {
	log.Info("Starting database seeding...")

	if user.Email == "" || user.Password == "" {
		log.Warn("SEED_EMAIL and SEED_PASSWORD not set, skipping demo user creation")
		return nil
	}

	var existing model.User
	err := s.db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		log.Infof("Demo user %s already exists, skipping...", user.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := auth.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		demo := model.User{
			Name:          user.Name,
			Email:         user.Email,
			PasswordHash:  passwordHash,
			AcademicLevel: model.DefaultAcademicLevel,
		}
		if err := tx.Create(&demo).Error; err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}

		for i, seed := range demoSubjects {
			subject, err := s.seedSubject(tx, demo.ID, seed)
			if err != nil {
				return err
			}
			if i == 0 {
				if err := s.seedTest(tx, demo.ID, subject); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infof("Seeded demo user %s with %d subjects", user.Email, len(demoSubjects))
	return nil
}

func (s *Seeder) seedSubject(tx *gorm.DB, userID uint, seed seedSubject) (*model.Subject, error) {
	today := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, s.loc)

	subject := model.Subject{
		UserID:           userID,
		Name:             seed.name,
		DailyTargetHours: seed.hours,
		ExamDate:         today.AddDate(0, 0, seed.examInDays).UTC(),
		Color:            seed.color,
	}
	if err := tx.Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("failed to create subject %s: %w", seed.name, err)
	}

	task := model.Task{
		UserID:    userID,
		SubjectID: subject.ID,
		Title:     seed.todayTask,
		Date:      today.Add(9 * time.Hour).UTC(),
		Duration:  seed.taskHours,
	}
	if err := tx.Omit("Subject").Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task for %s: %w", seed.name, err)
	}

	studied := today.AddDate(0, 0, -3)
	revision := model.Revision{
		UserID:           userID,
		SubjectID:        subject.ID,
		Topic:            seed.recentTopic,
		StudyDate:        studied.UTC(),
		NextRevisionDate: today.UTC(),
	}
	if err := tx.Omit("Subject").Create(&revision).Error; err != nil {
		return nil, fmt.Errorf("failed to create revision for %s: %w", seed.name, err)
	}
	return &subject, nil
}

// seedTest adds an open practice test so the tests screen is not empty
func (s *Seeder) seedTest(tx *gorm.DB, userID uint, subject *model.Subject) error {
	questions := []model.TestQuestion{
		{Question: "What is the derivative of x^2?", Options: []string{"x", "2x", "x^2", "2"}, CorrectAnswer: 1},
		{Question: "What is the integral of 2x dx?", Options: []string{"x^2 + C", "2x^2 + C", "x + C", "2 + C"}, CorrectAnswer: 0},
		{Question: "What is the limit of 1/x as x approaches infinity?", Options: []string{"1", "Infinity", "0", "Undefined"}, CorrectAnswer: 2},
	}
	test := model.Test{
		UserID:         userID,
		SubjectID:      subject.ID,
		Title:          subject.Name + " warm-up",
		Questions:      datatypes.NewJSONSlice(questions),
		TotalQuestions: len(questions),
	}
	if err := tx.Omit("Subject").Create(&test).Error; err != nil {
		return fmt.Errorf("failed to create test for %s: %w", subject.Name, err)
	}
	return nil
}
