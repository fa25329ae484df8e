package repository

import (
	"context"
	"errors"
	"fmt"

	"english_hub/internal/middleware"
	"english_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *model.QuizAttempt) error
	FindAttemptByID(ctx context.Context, db *gorm.DB, attemptID uuid.UUID) (*model.QuizAttempt, error)
	FindAttemptsByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.QuizAttempt, error)
	UpdateAttemptScore(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID, score int) error
	CreateAnswers(ctx context.Context, tx *gorm.DB, answers []*model.QuizAttemptAnswer) error
	FindAnswersByAttemptID(ctx context.Context, db *gorm.DB, attemptID uuid.UUID) ([]*model.QuizAttemptAnswer, error)
}

type gormQuizRepository struct{}

func NewGormQuizRepository() QuizRepository {
	return &gormQuizRepository{}
}

func (r *gormQuizRepository) CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *model.QuizAttempt) error {
	result := tx.WithContext(ctx).Create(attempt)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating quiz attempt in DB",
			"error", result.Error,
			"user_id", attempt.UserID.String(),
		)
		return fmt.Errorf("gormQuizRepository.CreateAttempt: %w", result.Error)
	}
	return nil
}

func (r *gormQuizRepository) FindAttemptByID(ctx context.Context, db *gorm.DB, attemptID uuid.UUID) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	result := db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&attempt)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding quiz attempt by ID in DB",
			"error", result.Error,
			"attempt_id", attemptID.String(),
		)
		return nil, fmt.Errorf("gormQuizRepository.FindAttemptByID: %w", result.Error)
	}
	return &attempt, nil
}

func (r *gormQuizRepository) FindAttemptsByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.QuizAttempt, error) {
	var attempts []*model.QuizAttempt
	result := db.WithContext(ctx).
		Preload("Answers").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&attempts)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding quiz attempts by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormQuizRepository.FindAttemptsByUserID: %w", result.Error)
	}
	return attempts, nil
}

func (r *gormQuizRepository) UpdateAttemptScore(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID, score int) error {
	result := tx.WithContext(ctx).Model(&model.QuizAttempt{}).
		Where("attempt_id = ?", attemptID).
		Update("score", score)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating quiz attempt score in DB",
			"error", result.Error,
			"attempt_id", attemptID.String(),
		)
		return fmt.Errorf("gormQuizRepository.UpdateAttemptScore: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormQuizRepository) CreateAnswers(ctx context.Context, tx *gorm.DB, answers []*model.QuizAttemptAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Create(answers)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			// 同一設問への再解答
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating quiz answers in DB", "error", result.Error)
		return fmt.Errorf("gormQuizRepository.CreateAnswers: %w", result.Error)
	}
	return nil
}

func (r *gormQuizRepository) FindAnswersByAttemptID(ctx context.Context, db *gorm.DB, attemptID uuid.UUID) ([]*model.QuizAttemptAnswer, error) {
	var answers []*model.QuizAttemptAnswer
	result := db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("created_at ASC").
		Find(&answers)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding quiz answers by attempt in DB",
			"error", result.Error,
			"attempt_id", attemptID.String(),
		)
		return nil, fmt.Errorf("gormQuizRepository.FindAnswersByAttemptID: %w", result.Error)
	}
	return answers, nil
}
