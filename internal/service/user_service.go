package service

import (
	"context"
	"errors"
	"fmt"

	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	mailer   Mailer
}

// NewUserService は UserService の新しいインスタンスを生成します
func NewUserService(db *gorm.DB, userRepo repository.UserRepository, mailer Mailer) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*model.User, error) {
	logger := middleware.GetLogger(ctx)

	users, err := s.userRepo.FindAll(ctx, s.db)
	if err != nil {
		logger.Error("Error listing users", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return users, nil
}

// UpdateUser は管理者によるユーザー情報更新です。指定されたフィールドだけを更新します。
func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		updates := map[string]interface{}{}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.DisplayName != nil {
			updates["display_name"] = *req.DisplayName
		}
		if req.Role != nil {
			updates["role"] = *req.Role
		}

		if err := s.userRepo.Update(ctx, tx, userID, updates); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user update", "user_id", userID)
				return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
			}
			logger.Error("Failed to update user", "error", err, "user_id", userID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの更新に失敗しました。", "", err)
		}

		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User updated", "user_id", userID)
	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Delete(ctx, tx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to delete user", "error", err, "user_id", userID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("User deleted", "user_id", userID)
	return nil
}

// UpdateProfile は本人によるプロフィール更新です
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"display_name": req.DisplayName}
		if err := s.userRepo.Update(ctx, tx, userID, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to update profile", "error", err, "user_id", userID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "プロフィールの更新に失敗しました。", "", err)
		}

		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Profile updated", "user_id", userID)
	return updated, nil
}

// ChangePassword は現在のパスワードを検証してから新パスワードを保存します。
// 変更通知メールはベストエフォートです。
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	logger := middleware.GetLogger(ctx)
	var email, displayName string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			logger.Warn("Password change failed: current password mismatch", "user_id", userID)
			return model.NewAppError("AUTHENTICATION_FAILED", "現在のパスワードが正しくありません。", "current_password", model.ErrInvalidInput)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash new password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}

		updates := map[string]interface{}{"password_hash": string(hashedPassword)}
		if err := s.userRepo.Update(ctx, tx, userID, updates); err != nil {
			logger.Error("Failed to update password", "error", err, "user_id", userID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの更新に失敗しました。", "", err)
		}

		email = user.Email
		displayName = user.DisplayName
		return nil
	})
	if err != nil {
		return err
	}

	subject := "パスワード変更のお知らせ"
	body := fmt.Sprintf("%s様\n\nアカウントのパスワードが変更されました。\n心当たりがない場合はサポートまでご連絡ください。", displayName)
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		logger.Warn("Failed to send password change notification", "error", err, "user_id", userID)
	}

	logger.Info("Password changed", "user_id", userID)
	return nil
}
