package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GrammarLesson は文法レッスンを表します
type GrammarLesson struct {
	LessonID  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"not null" json:"content"`
	VideoURL  *string        `json:"video_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GrammarLesson) TableName() string {
	return "grammar_lessons"
}

// 文法レッスン作成リクエストDTO
type PostGrammarLessonRequest struct {
	Title    string  `json:"title" validate:"required,min=1,max=200"`
	Content  string  `json:"content" validate:"required"`
	VideoURL *string `json:"video_url,omitempty" validate:"omitempty,url"`
}

// 文法レッスン更新リクエストDTO
type PutGrammarLessonRequest struct {
	Title    string  `json:"title" validate:"required,min=1,max=200"`
	Content  string  `json:"content" validate:"required"`
	VideoURL *string `json:"video_url,omitempty" validate:"omitempty,url"`
}
