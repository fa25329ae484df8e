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

type TopicService interface {
	PostTopic(ctx context.Context, req *model.PostTopicRequest) (*model.Topic, error)
	GetTopic(ctx context.Context, topicID uuid.UUID) (*model.Topic, error)
	GetTopics(ctx context.Context) ([]*model.Topic, error)
	PutTopic(ctx context.Context, topicID uuid.UUID, req *model.PutTopicRequest) (*model.Topic, error)
	DeleteTopic(ctx context.Context, topicID uuid.UUID) error
}

type topicService struct {
	db        *gorm.DB
	topicRepo repository.TopicRepository
}

// NewTopicService は TopicService の新しいインスタンスを生成します
func NewTopicService(db *gorm.DB, topicRepo repository.TopicRepository) TopicService {
	return &topicService{
		db:        db,
		topicRepo: topicRepo,
	}
}

func (s *topicService) PostTopic(ctx context.Context, req *model.PostTopicRequest) (*model.Topic, error) {
	logger := middleware.GetLogger(ctx)

	topic := &model.Topic{
		TopicID:     uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.topicRepo.Create(ctx, tx, topic); err != nil {
			logger.Error("Failed to create topic", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "トピックの作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Topic created", "topic_id", topic.TopicID)
	return topic, nil
}

func (s *topicService) GetTopic(ctx context.Context, topicID uuid.UUID) (*model.Topic, error) {
	logger := middleware.GetLogger(ctx)

	topic, err := s.topicRepo.FindByIDWithFlashcards(ctx, s.db, topicID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("TOPIC_NOT_FOUND", "トピックが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding topic", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return topic, nil
}

func (s *topicService) GetTopics(ctx context.Context) ([]*model.Topic, error) {
	logger := middleware.GetLogger(ctx)

	topics, err := s.topicRepo.FindAll(ctx, s.db)
	if err != nil {
		logger.Error("Error listing topics", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return topics, nil
}

func (s *topicService) PutTopic(ctx context.Context, topicID uuid.UUID, req *model.PutTopicRequest) (*model.Topic, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.Topic

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topic := &model.Topic{
			TopicID:     topicID,
			Name:        req.Name,
			Description: req.Description,
		}
		if err := s.topicRepo.Update(ctx, tx, topic); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TOPIC_NOT_FOUND", "トピックが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to update topic", "error", err, "topic_id", topicID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "トピックの更新に失敗しました。", "", err)
		}

		fresh, err := s.topicRepo.FindByID(ctx, tx, topicID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Topic updated", "topic_id", topicID)
	return updated, nil
}

func (s *topicService) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.topicRepo.Delete(ctx, tx, topicID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TOPIC_NOT_FOUND", "トピックが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to delete topic", "error", err, "topic_id", topicID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "トピックの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Topic deleted", "topic_id", topicID)
	return nil
}
