package service

import (
	"errors"
	"testing"

	"english_hub/internal/config"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBAuth(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:auth_test?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.User{})
	require.NoError(t, err)
	db.Exec("DELETE FROM users")
	return db
}

func newAuthServiceForTest(db *gorm.DB) (AuthService, *config.Config) {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:     "test-secret-key",
			ExpiryMinutes: 60,
		},
	}
	svc := NewAuthService(db, repository.NewGormUserRepository(), &LogMailer{}, cfg)
	return svc, cfg
}

func Test_authService_RegisterAndLogin(t *testing.T) {
	ctx := testContext()
	db := setupTestDBAuth(t)
	svc, cfg := newAuthServiceForTest(db)

	user, err := svc.Register(ctx, &model.RegisterRequest{
		Email:       "taro@example.com",
		DisplayName: "太郎",
		Password:    "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role, "新規登録ユーザーは一般ロール")
	assert.NotEqual(t, "password123", user.PasswordHash, "パスワードは平文で保存されない")

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "taro@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	// トークンを復号してクレームを確認
	claims := &model.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.SecretKey), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, user.UserID.String(), claims.Subject)
	assert.Equal(t, "taro@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func Test_authService_Login_WrongPassword(t *testing.T) {
	ctx := testContext()
	db := setupTestDBAuth(t)
	svc, _ := newAuthServiceForTest(db)

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:       "taro@example.com",
		DisplayName: "太郎",
		Password:    "password123",
	})
	require.NoError(t, err)

	// パスワード誤りではトークンを発行しない
	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "taro@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	// 存在しないユーザーも同じエラー (ユーザー列挙を防ぐ)
	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func Test_authService_Register_DuplicateEmail(t *testing.T) {
	ctx := testContext()
	db := setupTestDBAuth(t)
	svc, _ := newAuthServiceForTest(db)

	req := &model.RegisterRequest{
		Email:       "taro@example.com",
		DisplayName: "太郎",
		Password:    "password123",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConflict))

	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DUPLICATE_EMAIL", appErr.Detail.Code)
}
