package model

import (
	"time"

	"github.com/google/uuid"
)

// SpeakingPractice はAIとの英会話練習1回分の記録です
type SpeakingPractice struct {
	PracticeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Context    string    `json:"context"`
	Tone       string    `json:"tone"`
	Audience   string    `json:"audience"`
	Content    string    `gorm:"not null" json:"content"`
	AIResponse string    `gorm:"not null" json:"ai_response"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SpeakingPractice) TableName() string {
	return "speaking_practice_history"
}

// 練習作成リクエストDTO。content 以外は任意です。
type PostSpeakingPracticeRequest struct {
	Context  string `json:"context"`
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
	Content  string `json:"content" validate:"required,min=1"`
}
