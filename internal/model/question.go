package model

import (
	"time"

	"github.com/google/uuid"
)

// Question は4択クイズの設問を表します。
// (content_type, content_id) でトピックまたは文法レッスンに紐づきます。
type Question struct {
	QuestionID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType   string    `gorm:"type:varchar(20);not null;index:idx_question_content" json:"content_type"`
	ContentID     uuid.UUID `gorm:"type:uuid;not null;index:idx_question_content" json:"content_id"`
	ContentName   *string   `json:"content_name,omitempty"`
	QuestionText  string    `gorm:"not null" json:"question_text"`
	Option1       string    `gorm:"not null" json:"option1"`
	Option2       string    `gorm:"not null" json:"option2"`
	Option3       string    `gorm:"not null" json:"option3"`
	Option4       string    `gorm:"not null" json:"option4"`
	CorrectAnswer int       `gorm:"not null" json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// 設問作成リクエストDTO
type PostQuestionRequest struct {
	ContentType   string    `json:"content_type" validate:"required,oneof=topic grammar"`
	ContentID     uuid.UUID `json:"content_id" validate:"required"`
	ContentName   *string   `json:"content_name,omitempty"`
	QuestionText  string    `json:"question_text" validate:"required"`
	Option1       string    `json:"option1" validate:"required"`
	Option2       string    `json:"option2" validate:"required"`
	Option3       string    `json:"option3" validate:"required"`
	Option4       string    `json:"option4" validate:"required"`
	CorrectAnswer int       `json:"correct_answer" validate:"required,min=1,max=4"`
}

// 設問更新リクエストDTO (紐付け先コンテンツは変更不可)
type PutQuestionRequest struct {
	ContentName   *string `json:"content_name,omitempty"`
	QuestionText  string  `json:"question_text" validate:"required"`
	Option1       string  `json:"option1" validate:"required"`
	Option2       string  `json:"option2" validate:"required"`
	Option3       string  `json:"option3" validate:"required"`
	Option4       string  `json:"option4" validate:"required"`
	CorrectAnswer int     `json:"correct_answer" validate:"required,min=1,max=4"`
}

// QuestionOptions は解答詳細ビューで返す選択肢のまとまり
type QuestionOptions struct {
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Option3 string `json:"option3"`
	Option4 string `json:"option4"`
}
