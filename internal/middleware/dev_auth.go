package middleware

import (
	"context"
	"net/http"

	"english_hub/internal/model"
	"english_hub/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware はヘッダーからユーザーIDとロールを直接受け取る
// 開発・テスト用の認証ミドルウェアです。本番ルーティングには組み込みません。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDヘッダーが必要です。", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDの形式が正しくありません。", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}

		role := r.Header.Get("X-User-Role")
		if role == "" {
			role = model.RoleUser
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		ctx = context.WithValue(ctx, model.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
