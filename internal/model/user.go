package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User はアプリケーションの利用者を表します
type User struct {
	UserID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"unique;not null" json:"email"`
	DisplayName  string         `gorm:"not null" json:"display_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"type:varchar(20);not null;default:user" json:"role"`
	RegisteredAt time.Time      `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	UserIDKey   ContextKey = "userID"
	UserRoleKey ContextKey = "userRole"
)

// ユーザー情報更新（管理者）リクエストDTO
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// プロフィール更新リクエストDTO
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// パスワード変更リクエストDTO
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// UserResponse はクライアントに返すユーザー情報
type UserResponse struct {
	UserID       uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		UserID:       u.UserID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         u.Role,
		RegisteredAt: u.RegisteredAt,
	}
}
