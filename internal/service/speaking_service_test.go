package service

import (
	"context"
	"errors"
	"testing"

	"english_hub/internal/config"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGenerator は外部APIを呼ばずに決まった応答を返します
type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func setupTestDBSpeaking(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:speaking_test?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.SpeakingPractice{})
	require.NoError(t, err)
	db.Exec("DELETE FROM speaking_practice_history")
	return db
}

func newSpeakingServiceForTest(db *gorm.DB, gen Generator, historyLimit int) SpeakingService {
	cfg := &config.Config{
		App: config.AppConfig{SpeakingHistoryLimit: historyLimit},
	}
	return NewSpeakingService(db, repository.NewGormSpeakingRepository(), gen, cfg)
}

func Test_speakingService_CreatePractice(t *testing.T) {
	ctx := testContext()
	db := setupTestDBSpeaking(t)
	gen := &stubGenerator{response: "Great sentence! Consider using the past tense here."}
	svc := newSpeakingServiceForTest(db, gen, 50)

	userID := uuid.New()
	practice, err := svc.CreatePractice(ctx, userID, &model.PostSpeakingPracticeRequest{
		Context:  "ordering coffee",
		Tone:     "casual",
		Audience: "barista",
		Content:  "I want get a coffee please",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, practice.UserID)
	assert.Equal(t, "Great sentence! Consider using the past tense here.", practice.AIResponse)

	// プロンプトに練習条件が組み込まれている
	assert.Contains(t, gen.lastPrompt, "ordering coffee")
	assert.Contains(t, gen.lastPrompt, "casual")
	assert.Contains(t, gen.lastPrompt, "I want get a coffee please")

	// 履歴に永続化されている
	var count int64
	db.Model(&model.SpeakingPractice{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func Test_speakingService_CreatePractice_GeneratorFailure(t *testing.T) {
	ctx := testContext()
	db := setupTestDBSpeaking(t)
	gen := &stubGenerator{err: model.NewAppError("AI_UNAVAILABLE", "AIサービスに接続できませんでした。", "", model.ErrInternalServer)}
	svc := newSpeakingServiceForTest(db, gen, 50)

	_, err := svc.CreatePractice(ctx, uuid.New(), &model.PostSpeakingPracticeRequest{
		Content: "hello",
	})
	require.Error(t, err)

	// 生成に失敗した場合は履歴を残さない
	var count int64
	db.Model(&model.SpeakingPractice{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func Test_speakingService_GetPractice_Ownership(t *testing.T) {
	ctx := testContext()
	db := setupTestDBSpeaking(t)
	gen := &stubGenerator{response: "ok"}
	svc := newSpeakingServiceForTest(db, gen, 50)

	ownerID := uuid.New()
	practice, err := svc.CreatePractice(ctx, ownerID, &model.PostSpeakingPracticeRequest{Content: "hello"})
	require.NoError(t, err)

	// 本人は閲覧可
	got, err := svc.GetPractice(ctx, ownerID, model.RoleUser, practice.PracticeID)
	require.NoError(t, err)
	assert.Equal(t, practice.PracticeID, got.PracticeID)

	// 他人は403
	_, err = svc.GetPractice(ctx, uuid.New(), model.RoleUser, practice.PracticeID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrForbidden))

	// 管理者は閲覧可
	_, err = svc.GetPractice(ctx, uuid.New(), model.RoleAdmin, practice.PracticeID)
	require.NoError(t, err)

	// 存在しないIDは404
	_, err = svc.GetPractice(ctx, ownerID, model.RoleUser, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func Test_speakingService_GetHistory_Limit(t *testing.T) {
	ctx := testContext()
	db := setupTestDBSpeaking(t)
	gen := &stubGenerator{response: "ok"}
	svc := newSpeakingServiceForTest(db, gen, 3)

	userID := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := svc.CreatePractice(ctx, userID, &model.PostSpeakingPracticeRequest{Content: "hello"})
		require.NoError(t, err)
	}

	practices, err := svc.GetHistory(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, practices, 3, "履歴は設定された上限までしか返さない")
}
