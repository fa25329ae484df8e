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

type FlashcardService interface {
	PostFlashcard(ctx context.Context, req *model.PostFlashcardRequest) (*model.Flashcard, error)
	GetFlashcard(ctx context.Context, cardID uuid.UUID) (*model.Flashcard, error)
	GetFlashcardsByTopic(ctx context.Context, topicID uuid.UUID) ([]*model.Flashcard, error)
	PutFlashcard(ctx context.Context, cardID uuid.UUID, req *model.PutFlashcardRequest) (*model.Flashcard, error)
	DeleteFlashcard(ctx context.Context, cardID uuid.UUID) error
}

type flashcardService struct {
	db            *gorm.DB
	flashcardRepo repository.FlashcardRepository
	topicRepo     repository.TopicRepository
}

// NewFlashcardService は FlashcardService の新しいインスタンスを生成します
func NewFlashcardService(db *gorm.DB, flashcardRepo repository.FlashcardRepository, topicRepo repository.TopicRepository) FlashcardService {
	return &flashcardService{
		db:            db,
		flashcardRepo: flashcardRepo,
		topicRepo:     topicRepo,
	}
}

func (s *flashcardService) PostFlashcard(ctx context.Context, req *model.PostFlashcardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	card := &model.Flashcard{
		FlashcardID: uuid.New(),
		TopicID:     req.TopicID,
		Vocabulary:  req.Vocabulary,
		Phonetics:   req.Phonetics,
		Meaning:     req.Meaning,
		Description: req.Description,
		Example:     req.Example,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 親トピックの存在確認
		if _, err := s.topicRepo.FindByID(ctx, tx, req.TopicID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TOPIC_NOT_FOUND", "指定されたトピックが見つかりません。", "topic_id", model.ErrInvalidInput)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		if err := s.flashcardRepo.Create(ctx, tx, card); err != nil {
			if errors.Is(err, model.ErrInvalidInput) {
				return model.NewAppError("TOPIC_NOT_FOUND", "指定されたトピックが見つかりません。", "topic_id", model.ErrInvalidInput)
			}
			logger.Error("Failed to create flashcard", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Flashcard created", "flashcard_id", card.FlashcardID, "topic_id", card.TopicID)
	return card, nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, cardID uuid.UUID) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	card, err := s.flashcardRepo.FindByID(ctx, s.db, cardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("FLASHCARD_NOT_FOUND", "フラッシュカードが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding flashcard", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return card, nil
}

func (s *flashcardService) GetFlashcardsByTopic(ctx context.Context, topicID uuid.UUID) ([]*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)

	// トピックが存在しない場合は404を返す
	if _, err := s.topicRepo.FindByID(ctx, s.db, topicID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("TOPIC_NOT_FOUND", "トピックが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	cards, err := s.flashcardRepo.FindByTopicID(ctx, s.db, topicID)
	if err != nil {
		logger.Error("Error listing flashcards by topic", "error", err, "topic_id", topicID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return cards, nil
}

func (s *flashcardService) PutFlashcard(ctx context.Context, cardID uuid.UUID, req *model.PutFlashcardRequest) (*model.Flashcard, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.Flashcard

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card := &model.Flashcard{
			FlashcardID: cardID,
			Vocabulary:  req.Vocabulary,
			Phonetics:   req.Phonetics,
			Meaning:     req.Meaning,
			Description: req.Description,
			Example:     req.Example,
		}
		if err := s.flashcardRepo.Update(ctx, tx, card); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("FLASHCARD_NOT_FOUND", "フラッシュカードが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to update flashcard", "error", err, "flashcard_id", cardID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの更新に失敗しました。", "", err)
		}

		fresh, err := s.flashcardRepo.FindByID(ctx, tx, cardID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Flashcard updated", "flashcard_id", cardID)
	return updated, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, cardID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.flashcardRepo.Delete(ctx, tx, cardID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("FLASHCARD_NOT_FOUND", "フラッシュカードが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to delete flashcard", "error", err, "flashcard_id", cardID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Flashcard deleted", "flashcard_id", cardID)
	return nil
}
