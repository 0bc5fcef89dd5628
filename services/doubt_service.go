package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

// DoubtHistoryLimit caps the history endpoint
const DoubtHistoryLimit = 50

// DoubtService records questions and their generated answers
type DoubtService struct {
	db        *gorm.DB
	responder Responder
}

// NewDoubtService creates a new doubt service
func NewDoubtService(db *gorm.DB, responder Responder) *DoubtService {
	if responder == nil {
		responder = NewKeywordResponder()
	}
	return &DoubtService{db: db, responder: responder}
}

// AskDoubt answers question and stores the exchange. subjectID is optional.
func (s *DoubtService) AskDoubt(ctx context.Context, userID uint, question string, subjectID *uint) (*model.Doubt, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperror.InvalidInput("Question cannot be empty")
	}

	doubt := model.Doubt{UserID: userID, Question: question}
	if subjectID != nil && *subjectID != 0 {
		subject, err := findOwnedSubject(ctx, s.db, userID, *subjectID)
		if err != nil {
			return nil, err
		}
		doubt.SubjectID = &subject.ID
		doubt.Subject = subject
	}

	answer, err := s.responder.Respond(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to answer doubt: %w", err)
	}
	doubt.AIResponse = answer

	if err := s.db.WithContext(ctx).Omit("Subject").Create(&doubt).Error; err != nil {
		return nil, fmt.Errorf("failed to save doubt: %w", err)
	}
	return &doubt, nil
}

// History returns the most recent doubts, newest first
func (s *DoubtService) History(ctx context.Context, userID uint) ([]model.Doubt, error) {
	var doubts []model.Doubt
	if err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(DoubtHistoryLimit).
		Find(&doubts).Error; err != nil {
		return nil, fmt.Errorf("failed to load doubt history: %w", err)
	}
	return doubts, nil
}

// SetFeedback records whether the answer helped. Later calls overwrite it.
func (s *DoubtService) SetFeedback(ctx context.Context, userID, doubtID uint, helpful bool) (*model.Doubt, error) {
	result := s.db.WithContext(ctx).Model(&model.Doubt{}).
		Where("id = ? AND user_id = ?", doubtID, userID).
		Update("helpful", helpful)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("Doubt not found")
	}

	var doubt model.Doubt
	err := s.db.WithContext(ctx).Preload("Subject").First(&doubt, doubtID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Doubt not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load doubt: %w", err)
	}
	return &doubt, nil
}
