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

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *model.Question) error
	FindByID(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (*model.Question, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Question, error)
	FindByContent(ctx context.Context, db *gorm.DB, contentType string, contentID uuid.UUID) ([]*model.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *model.Question) error
	Delete(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error
}

type gormQuestionRepository struct{}

func NewGormQuestionRepository() QuestionRepository {
	return &gormQuestionRepository{}
}

func (r *gormQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	result := tx.WithContext(ctx).Create(question)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating question in DB", "error", result.Error)
		return fmt.Errorf("gormQuestionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormQuestionRepository) FindByID(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (*model.Question, error) {
	var question model.Question
	result := db.WithContext(ctx).Where("question_id = ?", questionID).First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding question by ID in DB",
			"error", result.Error,
			"question_id", questionID.String(),
		)
		return nil, fmt.Errorf("gormQuestionRepository.FindByID: %w", result.Error)
	}
	return &question, nil
}

func (r *gormQuestionRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Question, error) {
	var questions []*model.Question
	result := db.WithContext(ctx).Order("created_at ASC").Find(&questions)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding all questions in DB", "error", result.Error)
		return nil, fmt.Errorf("gormQuestionRepository.FindAll: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) FindByContent(ctx context.Context, db *gorm.DB, contentType string, contentID uuid.UUID) ([]*model.Question, error) {
	var questions []*model.Question
	result := db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Order("created_at ASC").
		Find(&questions)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding questions by content in DB",
			"error", result.Error,
			"content_type", contentType,
			"content_id", contentID.String(),
		)
		return nil, fmt.Errorf("gormQuestionRepository.FindByContent: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) Update(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	result := tx.WithContext(ctx).Model(&model.Question{}).
		Where("question_id = ?", question.QuestionID).
		Updates(map[string]interface{}{
			"content_name":   question.ContentName,
			"question_text":  question.QuestionText,
			"option1":        question.Option1,
			"option2":        question.Option2,
			"option3":        question.Option3,
			"option4":        question.Option4,
			"correct_answer": question.CorrectAnswer,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating question in DB",
			"error", result.Error,
			"question_id", question.QuestionID.String(),
		)
		return fmt.Errorf("gormQuestionRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormQuestionRepository) Delete(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("question_id = ?", questionID).Delete(&model.Question{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting question in DB",
			"error", result.Error,
			"question_id", questionID.String(),
		)
		return fmt.Errorf("gormQuestionRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
