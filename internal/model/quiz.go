package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt はユーザーの1回のクイズ受験を表します。
// 作成後に変更されるのは score と submitted_at のみです。
type QuizAttempt struct {
	AttemptID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ContentType string    `gorm:"type:varchar(20);not null" json:"content_type"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null" json:"content_id"`
	Score       *int      `json:"score"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`

	// 関連 (Preload用)
	Answers []QuizAttemptAnswer `gorm:"foreignKey:AttemptID;references:AttemptID" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizAttemptAnswer は受験中の1問への解答を表します。
// (attempt_id, question_id) の複合ユニーク制約により、同一設問への
// 再解答は上書きではなく拒否されます。
type QuizAttemptAnswer struct {
	AnswerID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID      uuid.UUID `gorm:"type:uuid;not null;index:uq_attempt_question,unique" json:"attempt_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index:uq_attempt_question,unique" json:"question_id"`
	SelectedOption int       `gorm:"not null" json:"selected_option"`
	CreatedAt      time.Time `json:"-"`
}

func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}

// 受験作成リクエストDTO
type PostQuizAttemptRequest struct {
	ContentType string    `json:"content_type" validate:"required,oneof=topic grammar"`
	ContentID   uuid.UUID `json:"content_id" validate:"required"`
}

// 解答一括送信リクエストDTO
type SubmitAnswersRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
}

type SubmittedAnswer struct {
	QuestionID     uuid.UUID `json:"question_id" validate:"required"`
	SelectedOption int       `json:"selected_option" validate:"required,min=1,max=4"`
}

// SubmitAnswersResponse は採点結果を返します
type SubmitAnswersResponse struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
}

// QuizAttemptDetailResponse は受験の概要 (コンテンツ名解決済み) を返します
type QuizAttemptDetailResponse struct {
	AttemptID   uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	ContentName string    `json:"content_name"`
	Score       *int      `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AnswerDetail は解答詳細ビューの1問分
type AnswerDetail struct {
	QuestionID     uuid.UUID       `json:"question_id"`
	QuestionText   string          `json:"question_text"`
	SelectedOption int             `json:"selected_option"`
	CorrectAnswer  int             `json:"correct_answer"`
	IsCorrect      bool            `json:"is_correct"`
	Options        QuestionOptions `json:"options"`
}

// QuizAttemptAnswersResponse は設問と解答を突き合わせた詳細ビュー
type QuizAttemptAnswersResponse struct {
	AttemptID       uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	ContentType     string         `json:"content_type"`
	ContentID       uuid.UUID      `json:"content_id"`
	ContentName     string         `json:"content_name"`
	ContentURL      string         `json:"content_url"`
	Score           *int           `json:"score"`
	PercentageScore int            `json:"percentage_score"`
	TotalQuestions  int            `json:"total_questions"`
	CorrectAnswers  int            `json:"correct_answers"`
	SubmittedAt     time.Time      `json:"submitted_at"`
	Answers         []AnswerDetail `json:"answers"`
}

// QuizHistoryItem は受験履歴一覧の1件分
type QuizHistoryItem struct {
	AttemptID       uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ContentType     string    `json:"content_type"`
	ContentID       uuid.UUID `json:"content_id"`
	ContentName     string    `json:"content_name"`
	ContentURL      string    `json:"content_url"`
	Score           int       `json:"score"`
	PercentageScore int       `json:"percentage_score"`
	CorrectAnswers  int       `json:"correct_answers"`
	TotalQuestions  int       `json:"total_questions"`
	AnswerCount     int       `json:"answer_count"`
	SubmittedAt     time.Time `json:"submitted_at"`
}
