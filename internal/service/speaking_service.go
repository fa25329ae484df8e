package service

import (
	"context"
	"errors"
	"fmt"

	"english_hub/internal/config"
	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpeakingService interface {
	CreatePractice(ctx context.Context, userID uuid.UUID, req *model.PostSpeakingPracticeRequest) (*model.SpeakingPractice, error)
	GetPractice(ctx context.Context, userID uuid.UUID, role string, practiceID uuid.UUID) (*model.SpeakingPractice, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]*model.SpeakingPractice, error)
}

type speakingService struct {
	db           *gorm.DB
	speakingRepo repository.SpeakingRepository
	generator    Generator
	cfg          *config.Config
}

// NewSpeakingService は SpeakingService の新しいインスタンスを生成します
func NewSpeakingService(db *gorm.DB, speakingRepo repository.SpeakingRepository, generator Generator, cfg *config.Config) SpeakingService {
	return &speakingService{
		db:           db,
		speakingRepo: speakingRepo,
		generator:    generator,
		cfg:          cfg,
	}
}

// CreatePractice はAIにフィードバックを生成させ、結果を履歴に保存します。
// 生成APIの呼び出しはトランザクション外で行い、保存だけをトランザクションにします。
func (s *speakingService) CreatePractice(ctx context.Context, userID uuid.UUID, req *model.PostSpeakingPracticeRequest) (*model.SpeakingPractice, error) {
	logger := middleware.GetLogger(ctx)

	prompt := buildSpeakingPrompt(req)
	aiResponse, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Error("Failed to generate AI feedback", "error", err, "user_id", userID)
		return nil, err
	}

	practice := &model.SpeakingPractice{
		PracticeID: uuid.New(),
		UserID:     userID,
		Context:    req.Context,
		Tone:       req.Tone,
		Audience:   req.Audience,
		Content:    req.Content,
		AIResponse: aiResponse,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.speakingRepo.Create(ctx, tx, practice); err != nil {
			logger.Error("Failed to save speaking practice", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "練習履歴の保存に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Speaking practice created", "practice_id", practice.PracticeID, "user_id", userID)
	return practice, nil
}

// GetPractice は練習履歴1件を返します。本人か管理者のみ閲覧できます。
func (s *speakingService) GetPractice(ctx context.Context, userID uuid.UUID, role string, practiceID uuid.UUID) (*model.SpeakingPractice, error) {
	logger := middleware.GetLogger(ctx)

	practice, err := s.speakingRepo.FindByID(ctx, s.db, practiceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PRACTICE_NOT_FOUND", "練習履歴が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding speaking practice", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	if practice.UserID != userID && role != model.RoleAdmin {
		logger.Warn("Speaking practice access rejected: not the owner",
			"practice_id", practiceID,
			"user_id", userID,
		)
		return nil, model.NewAppError("FORBIDDEN", "この練習履歴を閲覧する権限がありません。", "", model.ErrForbidden)
	}
	return practice, nil
}

// GetHistory はユーザーの練習履歴を新しい順で返します (上限は設定値)
func (s *speakingService) GetHistory(ctx context.Context, userID uuid.UUID) ([]*model.SpeakingPractice, error) {
	logger := middleware.GetLogger(ctx)

	practices, err := s.speakingRepo.FindByUserID(ctx, s.db, userID, s.cfg.App.SpeakingHistoryLimit)
	if err != nil {
		logger.Error("Error listing speaking practices", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return practices, nil
}

// buildSpeakingPrompt は練習条件からAIへのプロンプトを組み立てます
func buildSpeakingPrompt(req *model.PostSpeakingPracticeRequest) string {
	prompt := "You are an English speaking coach. Review the learner's utterance and give concise, encouraging feedback on grammar, word choice and naturalness.\n"
	if req.Context != "" {
		prompt += fmt.Sprintf("Situation: %s\n", req.Context)
	}
	if req.Tone != "" {
		prompt += fmt.Sprintf("Desired tone: %s\n", req.Tone)
	}
	if req.Audience != "" {
		prompt += fmt.Sprintf("Audience: %s\n", req.Audience)
	}
	prompt += fmt.Sprintf("Learner's utterance: %s", req.Content)
	return prompt
}
