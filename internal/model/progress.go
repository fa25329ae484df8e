package model

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress は「このコンテンツに取り組んだ」ことを示す完了マーカーです。
// スコアではありません。採点のたびに upsert されます。
type UserProgress struct {
	ProgressID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:uq_user_content,unique"`
	ContentType string    `gorm:"type:varchar(20);not null;index:uq_user_content,unique"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null;index:uq_user_content,unique"`
	CompletedAt time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// ProgressStatsResponse はコンテンツ種別ごとの進捗集計
type ProgressStatsResponse struct {
	ContentType string `json:"content_type"`
	Total       int64  `json:"total"`
	Completed   int64  `json:"completed"`
	Percentage  int    `json:"percentage"`
}
