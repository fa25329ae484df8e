package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptOutcome は1回の受験の採点結果です。
// スコア(20点満点)とパーセンテージは必ずここから導出し、
// 別々の場所で再計算しないこと。
type AttemptOutcome struct {
	TotalQuestions int
	AnsweredCount  int
	CorrectCount   int
}

// Score は 20点満点スコア (四捨五入) を返します。設問ゼロなら0。
func (o AttemptOutcome) Score() int {
	if o.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(o.CorrectCount) / float64(o.TotalQuestions) * 20))
}

// Percentage は 100点換算の正答率 (四捨五入) を返します。設問ゼロなら0。
func (o AttemptOutcome) Percentage() int {
	if o.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(o.CorrectCount) / float64(o.TotalQuestions) * 100))
}

type QuizService interface {
	CreateAttempt(ctx context.Context, userID uuid.UUID, req *model.PostQuizAttemptRequest) (*model.QuizAttempt, error)
	SubmitAnswers(ctx context.Context, userID uuid.UUID, attemptID uuid.UUID, req *model.SubmitAnswersRequest) (*model.SubmitAnswersResponse, error)
	GetAttempt(ctx context.Context, userID uuid.UUID, role string, attemptID uuid.UUID) (*model.QuizAttemptDetailResponse, error)
	GetAttemptAnswers(ctx context.Context, userID uuid.UUID, role string, attemptID uuid.UUID) (*model.QuizAttemptAnswersResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]*model.QuizHistoryItem, error)
}

type quizService struct {
	db           *gorm.DB
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	topicRepo    repository.TopicRepository
	grammarRepo  repository.GrammarRepository
	progressRepo repository.ProgressRepository
}

// NewQuizService は QuizService の新しいインスタンスを生成します
func NewQuizService(
	db *gorm.DB,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	topicRepo repository.TopicRepository,
	grammarRepo repository.GrammarRepository,
	progressRepo repository.ProgressRepository,
) QuizService {
	return &quizService{
		db:           db,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		grammarRepo:  grammarRepo,
		progressRepo: progressRepo,
	}
}

// CreateAttempt は受験レコードを作成します。スコアは未採点 (null) で始まります。
func (s *quizService) CreateAttempt(ctx context.Context, userID uuid.UUID, req *model.PostQuizAttemptRequest) (*model.QuizAttempt, error) {
	logger := middleware.GetLogger(ctx)

	attempt := &model.QuizAttempt{
		AttemptID:   uuid.New(),
		UserID:      userID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Score:       nil,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.verifyContentExists(ctx, tx, req.ContentType, req.ContentID); err != nil {
			return err
		}
		if err := s.quizRepo.CreateAttempt(ctx, tx, attempt); err != nil {
			logger.Error("Failed to create quiz attempt", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "受験の作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Quiz attempt created",
		"attempt_id", attempt.AttemptID,
		"user_id", userID,
		"content_type", req.ContentType,
	)
	return attempt, nil
}

// SubmitAnswers は解答を一括保存して採点します。
// 解答保存・採点・進捗更新は1トランザクションで行い、途中で失敗した場合は
// 受験は未採点のまま残ります。
func (s *quizService) SubmitAnswers(ctx context.Context, userID uuid.UUID, attemptID uuid.UUID, req *model.SubmitAnswersRequest) (*model.SubmitAnswersResponse, error) {
	logger := middleware.GetLogger(ctx)
	var resp *model.SubmitAnswersResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := s.quizRepo.FindAttemptByID(ctx, tx, attemptID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("ATTEMPT_NOT_FOUND", "受験が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		if attempt.UserID != userID {
			logger.Warn("Answer submission rejected: not the attempt owner",
				"attempt_id", attemptID,
				"user_id", userID,
			)
			return model.NewAppError("FORBIDDEN", "この受験に解答する権限がありません。", "", model.ErrForbidden)
		}

		// 対象コンテンツの全設問をロードし、解答の設問IDを検証する
		questions, err := s.questionRepo.FindByContent(ctx, tx, attempt.ContentType, attempt.ContentID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		questionSet := make(map[uuid.UUID]*model.Question, len(questions))
		for _, q := range questions {
			questionSet[q.QuestionID] = q
		}

		answers := make([]*model.QuizAttemptAnswer, 0, len(req.Answers))
		seen := make(map[uuid.UUID]bool, len(req.Answers))
		for _, a := range req.Answers {
			if _, ok := questionSet[a.QuestionID]; !ok {
				logger.Warn("Answer references question outside attempt content",
					"attempt_id", attemptID,
					"question_id", a.QuestionID,
				)
				return model.NewAppError("INVALID_QUESTION", "この受験の対象ではない設問への解答が含まれています。", "question_id", model.ErrInvalidInput)
			}
			if seen[a.QuestionID] {
				return model.NewAppError("DUPLICATE_ANSWER", "同じ設問への解答が重複しています。", "question_id", model.ErrConflict)
			}
			seen[a.QuestionID] = true

			answers = append(answers, &model.QuizAttemptAnswer{
				AnswerID:       uuid.New(),
				AttemptID:      attemptID,
				QuestionID:     a.QuestionID,
				SelectedOption: a.SelectedOption,
			})
		}

		if err := s.quizRepo.CreateAnswers(ctx, tx, answers); err != nil {
			// 過去の送信と同じ設問への再解答は一意制約で拒否される
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Duplicate answer submission rejected", "attempt_id", attemptID)
				return model.NewAppError("DUPLICATE_ANSWER", "既に解答済みの設問が含まれています。", "", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "解答の保存に失敗しました。", "", err)
		}

		// 採点は保存済みの全解答に対して行う (分割送信にも対応)
		allAnswers, err := s.quizRepo.FindAnswersByAttemptID(ctx, tx, attemptID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		outcome := computeOutcome(questions, allAnswers)
		score := outcome.Score()
		if err := s.quizRepo.UpdateAttemptScore(ctx, tx, attemptID, score); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "採点結果の保存に失敗しました。", "", err)
		}

		// 進捗マーカーの upsert (スコアではなく完了の記録)
		progress := &model.UserProgress{
			ProgressID:  uuid.New(),
			UserID:      userID,
			ContentType: attempt.ContentType,
			ContentID:   attempt.ContentID,
			CompletedAt: time.Now(),
		}
		if err := s.progressRepo.Upsert(ctx, tx, progress); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の更新に失敗しました。", "", err)
		}

		resp = &model.SubmitAnswersResponse{
			AttemptID:      attemptID,
			Score:          score,
			CorrectCount:   outcome.CorrectCount,
			TotalQuestions: outcome.TotalQuestions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Answers submitted and scored",
		"attempt_id", attemptID,
		"score", resp.Score,
		"correct", resp.CorrectCount,
		"total", resp.TotalQuestions,
	)
	return resp, nil
}

// GetAttempt は受験の概要を返します。本人か管理者のみ閲覧できます。
func (s *quizService) GetAttempt(ctx context.Context, userID uuid.UUID, role string, attemptID uuid.UUID) (*model.QuizAttemptDetailResponse, error) {
	logger := middleware.GetLogger(ctx)

	attempt, err := s.quizRepo.FindAttemptByID(ctx, s.db, attemptID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("ATTEMPT_NOT_FOUND", "受験が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding quiz attempt", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	if attempt.UserID != userID && role != model.RoleAdmin {
		return nil, model.NewAppError("FORBIDDEN", "この受験を閲覧する権限がありません。", "", model.ErrForbidden)
	}

	contentName, _ := s.resolveContent(ctx, attempt.ContentType, attempt.ContentID)
	return &model.QuizAttemptDetailResponse{
		AttemptID:   attempt.AttemptID,
		ContentType: attempt.ContentType,
		ContentID:   attempt.ContentID,
		ContentName: contentName,
		Score:       attempt.Score,
		SubmittedAt: attempt.SubmittedAt,
	}, nil
}

// GetAttemptAnswers は設問と解答を突き合わせた詳細ビューを返します
func (s *quizService) GetAttemptAnswers(ctx context.Context, userID uuid.UUID, role string, attemptID uuid.UUID) (*model.QuizAttemptAnswersResponse, error) {
	logger := middleware.GetLogger(ctx)

	attempt, err := s.quizRepo.FindAttemptByID(ctx, s.db, attemptID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("ATTEMPT_NOT_FOUND", "受験が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding quiz attempt", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	if attempt.UserID != userID && role != model.RoleAdmin {
		return nil, model.NewAppError("FORBIDDEN", "この受験を閲覧する権限がありません。", "", model.ErrForbidden)
	}

	questions, err := s.questionRepo.FindByContent(ctx, s.db, attempt.ContentType, attempt.ContentID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	answers, err := s.quizRepo.FindAnswersByAttemptID(ctx, s.db, attemptID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	questionSet := make(map[uuid.UUID]*model.Question, len(questions))
	for _, q := range questions {
		questionSet[q.QuestionID] = q
	}

	outcome := computeOutcome(questions, answers)
	details := make([]model.AnswerDetail, 0, len(answers))
	for _, a := range answers {
		q, ok := questionSet[a.QuestionID]
		if !ok {
			// 解答後に設問が削除されたケース。スキップして残りを返す。
			continue
		}
		details = append(details, model.AnswerDetail{
			QuestionID:     a.QuestionID,
			QuestionText:   q.QuestionText,
			SelectedOption: a.SelectedOption,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      a.SelectedOption == q.CorrectAnswer,
			Options: model.QuestionOptions{
				Option1: q.Option1,
				Option2: q.Option2,
				Option3: q.Option3,
				Option4: q.Option4,
			},
		})
	}

	contentName, contentURL := s.resolveContent(ctx, attempt.ContentType, attempt.ContentID)
	return &model.QuizAttemptAnswersResponse{
		AttemptID:       attempt.AttemptID,
		UserID:          attempt.UserID,
		ContentType:     attempt.ContentType,
		ContentID:       attempt.ContentID,
		ContentName:     contentName,
		ContentURL:      contentURL,
		Score:           attempt.Score,
		PercentageScore: outcome.Percentage(),
		TotalQuestions:  outcome.TotalQuestions,
		CorrectAnswers:  outcome.CorrectCount,
		SubmittedAt:     attempt.SubmittedAt,
		Answers:         details,
	}, nil
}

// GetHistory はユーザーの受験履歴を新しい順で返します
func (s *quizService) GetHistory(ctx context.Context, userID uuid.UUID) ([]*model.QuizHistoryItem, error) {
	logger := middleware.GetLogger(ctx)

	attempts, err := s.quizRepo.FindAttemptsByUserID(ctx, s.db, userID)
	if err != nil {
		logger.Error("Error finding quiz attempts for history", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	// コンテンツごとの設問・名前は一度だけ引く
	type contentKey struct {
		contentType string
		contentID   uuid.UUID
	}
	questionCache := make(map[contentKey][]*model.Question)
	nameCache := make(map[contentKey]string)
	urlCache := make(map[contentKey]string)

	items := make([]*model.QuizHistoryItem, 0, len(attempts))
	for _, attempt := range attempts {
		key := contentKey{attempt.ContentType, attempt.ContentID}

		questions, ok := questionCache[key]
		if !ok {
			questions, err = s.questionRepo.FindByContent(ctx, s.db, attempt.ContentType, attempt.ContentID)
			if err != nil {
				return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
			}
			questionCache[key] = questions
			nameCache[key], urlCache[key] = s.resolveContent(ctx, attempt.ContentType, attempt.ContentID)
		}

		answers := make([]*model.QuizAttemptAnswer, len(attempt.Answers))
		for i := range attempt.Answers {
			answers[i] = &attempt.Answers[i]
		}
		outcome := computeOutcome(questions, answers)

		score := 0
		if attempt.Score != nil {
			score = *attempt.Score
		}

		items = append(items, &model.QuizHistoryItem{
			AttemptID:       attempt.AttemptID,
			UserID:          attempt.UserID,
			ContentType:     attempt.ContentType,
			ContentID:       attempt.ContentID,
			ContentName:     nameCache[key],
			ContentURL:      urlCache[key],
			Score:           score,
			PercentageScore: outcome.Percentage(),
			CorrectAnswers:  outcome.CorrectCount,
			TotalQuestions:  outcome.TotalQuestions,
			AnswerCount:     outcome.AnsweredCount,
			SubmittedAt:     attempt.SubmittedAt,
		})
	}
	return items, nil
}

// computeOutcome は設問と解答を突き合わせて採点します。
// 設問側に存在しない解答 (削除済み設問) は数えません。
func computeOutcome(questions []*model.Question, answers []*model.QuizAttemptAnswer) AttemptOutcome {
	questionSet := make(map[uuid.UUID]*model.Question, len(questions))
	for _, q := range questions {
		questionSet[q.QuestionID] = q
	}

	outcome := AttemptOutcome{TotalQuestions: len(questions)}
	for _, a := range answers {
		q, ok := questionSet[a.QuestionID]
		if !ok {
			continue
		}
		outcome.AnsweredCount++
		if a.SelectedOption == q.CorrectAnswer {
			outcome.CorrectCount++
		}
	}
	return outcome
}

func (s *quizService) verifyContentExists(ctx context.Context, db *gorm.DB, contentType string, contentID uuid.UUID) error {
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

// resolveContent はコンテンツ名と画面遷移用URLを解決します。
// コンテンツが削除済みの場合はフォールバック名を返します。
func (s *quizService) resolveContent(ctx context.Context, contentType string, contentID uuid.UUID) (string, string) {
	switch contentType {
	case model.ContentTypeTopic:
		topic, err := s.topicRepo.FindByID(ctx, s.db, contentID)
		if err != nil {
			return "不明なトピック", ""
		}
		return topic.Name, fmt.Sprintf("/topics/%s", contentID)
	case model.ContentTypeGrammar:
		lesson, err := s.grammarRepo.FindByID(ctx, s.db, contentID)
		if err != nil {
			return "不明な文法レッスン", ""
		}
		return lesson.Title, fmt.Sprintf("/grammar/%s", contentID)
	default:
		return "不明なコンテンツ", ""
	}
}
