package service

import (
	"context"
	"math"

	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressService interface {
	GetStats(ctx context.Context, userID uuid.UUID, contentType string) (*model.ProgressStatsResponse, error)
	GetAllStats(ctx context.Context, userID uuid.UUID) ([]*model.ProgressStatsResponse, error)
	GetProgressList(ctx context.Context, userID uuid.UUID) ([]*model.UserProgress, error)
}

type progressService struct {
	db           *gorm.DB
	progressRepo repository.ProgressRepository
	topicRepo    repository.TopicRepository
	grammarRepo  repository.GrammarRepository
}

// NewProgressService は ProgressService の新しいインスタンスを生成します
func NewProgressService(db *gorm.DB, progressRepo repository.ProgressRepository, topicRepo repository.TopicRepository, grammarRepo repository.GrammarRepository) ProgressService {
	return &progressService{
		db:           db,
		progressRepo: progressRepo,
		topicRepo:    topicRepo,
		grammarRepo:  grammarRepo,
	}
}

// GetStats はコンテンツ種別ごとの進捗集計を返します。
// "grammar_lesson" は旧クライアント互換のエイリアスとして受理します。
func (s *progressService) GetStats(ctx context.Context, userID uuid.UUID, contentType string) (*model.ProgressStatsResponse, error) {
	logger := middleware.GetLogger(ctx)

	normalized := model.NormalizeContentType(contentType)
	if normalized == "" {
		return nil, model.NewAppError("INVALID_CONTENT_TYPE", "コンテンツ種別が不正です。", "content_type", model.ErrInvalidInput)
	}

	var total int64
	var err error
	switch normalized {
	case model.ContentTypeTopic:
		total, err = s.topicRepo.Count(ctx, s.db)
	case model.ContentTypeGrammar:
		total, err = s.grammarRepo.Count(ctx, s.db)
	}
	if err != nil {
		logger.Error("Error counting content for progress stats", "error", err, "content_type", normalized)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	completed, err := s.progressRepo.CountCompletedByType(ctx, s.db, userID, normalized)
	if err != nil {
		logger.Error("Error counting completed progress", "error", err, "content_type", normalized)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	return &model.ProgressStatsResponse{
		ContentType: normalized,
		Total:       total,
		Completed:   completed,
		Percentage:  completionPercentage(completed, total),
	}, nil
}

// GetAllStats はトピックと文法の両方の進捗集計を返します
func (s *progressService) GetAllStats(ctx context.Context, userID uuid.UUID) ([]*model.ProgressStatsResponse, error) {
	stats := make([]*model.ProgressStatsResponse, 0, 2)
	for _, contentType := range []string{model.ContentTypeTopic, model.ContentTypeGrammar} {
		stat, err := s.GetStats(ctx, userID, contentType)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// GetProgressList はユーザーの進捗レコード一覧を返します
func (s *progressService) GetProgressList(ctx context.Context, userID uuid.UUID) ([]*model.UserProgress, error) {
	logger := middleware.GetLogger(ctx)

	rows, err := s.progressRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Error listing user progress", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return rows, nil
}

// completionPercentage は完了率 (四捨五入) を返します。
// コンテンツ総数が0なら0、進捗が総数を上回っても100を超えません。
func completionPercentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
