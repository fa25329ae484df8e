package service

import (
	"errors"
	"testing"

	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBUser(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:user_test?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.User{})
	require.NoError(t, err)
	db.Exec("DELETE FROM users")
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{
		UserID:       uuid.New(),
		Email:        email,
		DisplayName:  "テストユーザー",
		PasswordHash: string(hashed),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func Test_userService_ChangePassword(t *testing.T) {
	ctx := testContext()
	db := setupTestDBUser(t)
	svc := NewUserService(db, repository.NewGormUserRepository(), &LogMailer{})

	user := seedUser(t, db, "taro@example.com", "old-password", model.RoleUser)

	// 現在のパスワードが違う場合は400
	err := svc.ChangePassword(ctx, user.UserID, &model.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	// 正しい現在パスワードなら変更できる
	err = svc.ChangePassword(ctx, user.UserID, &model.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password-123",
	})
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&updated).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password-123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("old-password")))
}

func Test_userService_UpdateProfile(t *testing.T) {
	ctx := testContext()
	db := setupTestDBUser(t)
	svc := NewUserService(db, repository.NewGormUserRepository(), &LogMailer{})

	user := seedUser(t, db, "taro@example.com", "password123", model.RoleUser)

	updated, err := svc.UpdateProfile(ctx, user.UserID, &model.UpdateProfileRequest{
		DisplayName: "新しい名前",
	})
	require.NoError(t, err)
	assert.Equal(t, "新しい名前", updated.DisplayName)
	assert.Equal(t, user.Email, updated.Email, "表示名以外は変わらない")

	// 存在しないユーザーは404
	_, err = svc.UpdateProfile(ctx, uuid.New(), &model.UpdateProfileRequest{DisplayName: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func Test_userService_UpdateUser_RoleChange(t *testing.T) {
	ctx := testContext()
	db := setupTestDBUser(t)
	svc := NewUserService(db, repository.NewGormUserRepository(), &LogMailer{})

	user := seedUser(t, db, "taro@example.com", "password123", model.RoleUser)

	newRole := model.RoleAdmin
	updated, err := svc.UpdateUser(ctx, user.UserID, &model.UpdateUserRequest{Role: &newRole})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, user.DisplayName, updated.DisplayName, "未指定フィールドは変わらない")
}

func Test_userService_UpdateUser_DuplicateEmail(t *testing.T) {
	ctx := testContext()
	db := setupTestDBUser(t)
	svc := NewUserService(db, repository.NewGormUserRepository(), &LogMailer{})

	seedUser(t, db, "taken@example.com", "password123", model.RoleUser)
	user := seedUser(t, db, "taro@example.com", "password123", model.RoleUser)

	takenEmail := "taken@example.com"
	_, err := svc.UpdateUser(ctx, user.UserID, &model.UpdateUserRequest{Email: &takenEmail})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConflict))
}

func Test_userService_DeleteUser(t *testing.T) {
	ctx := testContext()
	db := setupTestDBUser(t)
	svc := NewUserService(db, repository.NewGormUserRepository(), &LogMailer{})

	user := seedUser(t, db, "taro@example.com", "password123", model.RoleUser)

	require.NoError(t, svc.DeleteUser(ctx, user.UserID))

	// 論理削除後は取得できない
	_, err := svc.GetUser(ctx, user.UserID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	// 二重削除は404
	err = svc.DeleteUser(ctx, user.UserID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
