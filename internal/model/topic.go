package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic は語彙学習のチャプター（単語帳のまとまり）を表します
type Topic struct {
	TopicID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description *string        `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// 関連 (Preload用)
	Flashcards []Flashcard `gorm:"foreignKey:TopicID;references:TopicID" json:"-"`
}

func (Topic) TableName() string {
	return "topics"
}

// トピック作成リクエストDTO
type PostTopicRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty"`
}

// トピック更新リクエストDTO
type PutTopicRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty"`
}
