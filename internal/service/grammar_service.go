package service

import (
	"context"
	"errors"

	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrammarService interface {
	PostGrammarLesson(ctx context.Context, req *model.PostGrammarLessonRequest) (*model.GrammarLesson, error)
	GetGrammarLesson(ctx context.Context, lessonID uuid.UUID) (*model.GrammarLesson, error)
	GetGrammarLessons(ctx context.Context) ([]*model.GrammarLesson, error)
	PutGrammarLesson(ctx context.Context, lessonID uuid.UUID, req *model.PutGrammarLessonRequest) (*model.GrammarLesson, error)
	DeleteGrammarLesson(ctx context.Context, lessonID uuid.UUID) error
}

type grammarService struct {
	db          *gorm.DB
	grammarRepo repository.GrammarRepository
}

// NewGrammarService は GrammarService の新しいインスタンスを生成します
func NewGrammarService(db *gorm.DB, grammarRepo repository.GrammarRepository) GrammarService {
	return &grammarService{
		db:          db,
		grammarRepo: grammarRepo,
	}
}

func (s *grammarService) PostGrammarLesson(ctx context.Context, req *model.PostGrammarLessonRequest) (*model.GrammarLesson, error) {
	logger := middleware.GetLogger(ctx)

	lesson := &model.GrammarLesson{
		LessonID: uuid.New(),
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.grammarRepo.Create(ctx, tx, lesson); err != nil {
			logger.Error("Failed to create grammar lesson", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "文法レッスンの作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Grammar lesson created", "lesson_id", lesson.LessonID)
	return lesson, nil
}

func (s *grammarService) GetGrammarLesson(ctx context.Context, lessonID uuid.UUID) (*model.GrammarLesson, error) {
	logger := middleware.GetLogger(ctx)

	lesson, err := s.grammarRepo.FindByID(ctx, s.db, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("LESSON_NOT_FOUND", "文法レッスンが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding grammar lesson", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return lesson, nil
}

func (s *grammarService) GetGrammarLessons(ctx context.Context) ([]*model.GrammarLesson, error) {
	logger := middleware.GetLogger(ctx)

	lessons, err := s.grammarRepo.FindAll(ctx, s.db)
	if err != nil {
		logger.Error("Error listing grammar lessons", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return lessons, nil
}

func (s *grammarService) PutGrammarLesson(ctx context.Context, lessonID uuid.UUID, req *model.PutGrammarLessonRequest) (*model.GrammarLesson, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.GrammarLesson

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson := &model.GrammarLesson{
			LessonID: lessonID,
			Title:    req.Title,
			Content:  req.Content,
			VideoURL: req.VideoURL,
		}
		if err := s.grammarRepo.Update(ctx, tx, lesson); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("LESSON_NOT_FOUND", "文法レッスンが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to update grammar lesson", "error", err, "lesson_id", lessonID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "文法レッスンの更新に失敗しました。", "", err)
		}

		fresh, err := s.grammarRepo.FindByID(ctx, tx, lessonID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Grammar lesson updated", "lesson_id", lessonID)
	return updated, nil
}

func (s *grammarService) DeleteGrammarLesson(ctx context.Context, lessonID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.grammarRepo.Delete(ctx, tx, lessonID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("LESSON_NOT_FOUND", "文法レッスンが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to delete grammar lesson", "error", err, "lesson_id", lessonID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "文法レッスンの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Grammar lesson deleted", "lesson_id", lessonID)
	return nil
}
