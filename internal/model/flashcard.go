package model

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard はトピックに属する単語カードを表します
type Flashcard struct {
	FlashcardID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID     uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	Vocabulary  string    `gorm:"not null" json:"vocabulary"`
	Phonetics   *string   `json:"phonetics,omitempty"`
	Meaning     *string   `json:"meaning,omitempty"`
	Description *string   `json:"description,omitempty"`
	Example     *string   `json:"example,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// フラッシュカード作成リクエストDTO
type PostFlashcardRequest struct {
	TopicID     uuid.UUID `json:"topic_id" validate:"required"`
	Vocabulary  string    `json:"vocabulary" validate:"required,min=1,max=200"`
	Phonetics   *string   `json:"phonetics,omitempty"`
	Meaning     *string   `json:"meaning,omitempty"`
	Description *string   `json:"description,omitempty"`
	Example     *string   `json:"example,omitempty"`
}

// フラッシュカード更新リクエストDTO
type PutFlashcardRequest struct {
	Vocabulary  string  `json:"vocabulary" validate:"required,min=1,max=200"`
	Phonetics   *string `json:"phonetics,omitempty"`
	Meaning     *string `json:"meaning,omitempty"`
	Description *string `json:"description,omitempty"`
	Example     *string `json:"example,omitempty"`
}
