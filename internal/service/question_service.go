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

type QuestionService interface {
	PostQuestion(ctx context.Context, req *model.PostQuestionRequest) (*model.Question, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*model.Question, error)
	GetQuestions(ctx context.Context) ([]*model.Question, error)
	GetQuestionsByContent(ctx context.Context, contentType string, contentID uuid.UUID) ([]*model.Question, error)
	PutQuestion(ctx context.Context, questionID uuid.UUID, req *model.PutQuestionRequest) (*model.Question, error)
	DeleteQuestion(ctx context.Context, questionID uuid.UUID) error
}

type questionService struct {
	db           *gorm.DB
	questionRepo repository.QuestionRepository
	topicRepo    repository.TopicRepository
	grammarRepo  repository.GrammarRepository
}

// NewQuestionService は QuestionService の新しいインスタンスを生成します
func NewQuestionService(db *gorm.DB, questionRepo repository.QuestionRepository, topicRepo repository.TopicRepository, grammarRepo repository.GrammarRepository) QuestionService {
	return &questionService{
		db:           db,
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		grammarRepo:  grammarRepo,
	}
}

// verifyContentExists は設問の紐付け先コンテンツが実在するか確認します
func (s *questionService) verifyContentExists(ctx context.Context, db *gorm.DB, contentType string, contentID uuid.UUID) error {
	switch contentType {
	case model.ContentTypeTopic:
		if _, err := s.topicRepo.FindByID(ctx, db, contentID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("CONTENT_NOT_FOUND", "指定されたコンテンツが見つかりません。", "content_id", model.ErrInvalidInput)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
	case model.ContentTypeGrammar:
		if _, err := s.grammarRepo.FindByID(ctx, db, contentID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("CONTENT_NOT_FOUND", "指定されたコンテンツが見つかりません。", "content_id", model.ErrInvalidInput)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
	default:
		return model.NewAppError("INVALID_CONTENT_TYPE", "コンテンツ種別が不正です。", "content_type", model.ErrInvalidInput)
	}
	return nil
}

func (s *questionService) PostQuestion(ctx context.Context, req *model.PostQuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx)

	question := &model.Question{
		QuestionID:    uuid.New(),
		ContentType:   req.ContentType,
		ContentID:     req.ContentID,
		ContentName:   req.ContentName,
		QuestionText:  req.QuestionText,
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       req.Option3,
		Option4:       req.Option4,
		CorrectAnswer: req.CorrectAnswer,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.verifyContentExists(ctx, tx, req.ContentType, req.ContentID); err != nil {
			return err
		}
		if err := s.questionRepo.Create(ctx, tx, question); err != nil {
			logger.Error("Failed to create question", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "設問の作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Question created", "question_id", question.QuestionID)
	return question, nil
}

func (s *questionService) GetQuestion(ctx context.Context, questionID uuid.UUID) (*model.Question, error) {
	logger := middleware.GetLogger(ctx)

	question, err := s.questionRepo.FindByID(ctx, s.db, questionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("QUESTION_NOT_FOUND", "設問が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding question", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return question, nil
}

func (s *questionService) GetQuestions(ctx context.Context) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)

	questions, err := s.questionRepo.FindAll(ctx, s.db)
	if err != nil {
		logger.Error("Error listing questions", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return questions, nil
}

// GetQuestionsByContent は指定コンテンツの出題一覧を返します。
// 設問が1問もないコンテンツは空配列を返します (404ではない)。
func (s *questionService) GetQuestionsByContent(ctx context.Context, contentType string, contentID uuid.UUID) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)

	normalized := model.NormalizeContentType(contentType)
	if normalized == "" {
		return nil, model.NewAppError("INVALID_CONTENT_TYPE", "コンテンツ種別が不正です。", "content_type", model.ErrInvalidInput)
	}

	questions, err := s.questionRepo.FindByContent(ctx, s.db, normalized, contentID)
	if err != nil {
		logger.Error("Error listing questions by content", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return questions, nil
}

func (s *questionService) PutQuestion(ctx context.Context, questionID uuid.UUID, req *model.PutQuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.Question

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question := &model.Question{
			QuestionID:    questionID,
			ContentName:   req.ContentName,
			QuestionText:  req.QuestionText,
			Option1:       req.Option1,
			Option2:       req.Option2,
			Option3:       req.Option3,
			Option4:       req.Option4,
			CorrectAnswer: req.CorrectAnswer,
		}
		if err := s.questionRepo.Update(ctx, tx, question); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("QUESTION_NOT_FOUND", "設問が見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to update question", "error", err, "question_id", questionID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "設問の更新に失敗しました。", "", err)
		}

		fresh, err := s.questionRepo.FindByID(ctx, tx, questionID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Question updated", "question_id", questionID)
	return updated, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, questionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.questionRepo.Delete(ctx, tx, questionID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("QUESTION_NOT_FOUND", "設問が見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to delete question", "error", err, "question_id", questionID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "設問の削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Question deleted", "question_id", questionID)
	return nil
}
