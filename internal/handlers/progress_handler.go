package handlers

import (
	"log/slog"
	"net/http"

	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/service"
	"english_hub/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// GetStats は進捗集計を返すハンドラ。
// content_type クエリを指定すると1種別のみ、省略すると全種別を返します。
func (h *ProgressHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStats"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	contentType := r.URL.Query().Get("content_type")
	if contentType != "" {
		stat, err := h.service.GetStats(r.Context(), userID, contentType)
		if err != nil {
			logger.Warn("Error getting progress stats from service", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
			return
		}
		webutil.RespondWithJSON(w, http.StatusOK, stat, logger)
		return
	}

	stats, err := h.service.GetAllStats(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting all progress stats from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// GetProgress はユーザーの進捗レコード一覧を返すハンドラ
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProgress"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	rows, err := h.service.GetProgressList(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing progress from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if rows == nil {
		rows = []*model.UserProgress{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, rows, logger)
}
