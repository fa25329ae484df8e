package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/service"
	"english_hub/internal/webutil"
)

type SpeakingHandler struct {
	service service.SpeakingService
	logger  *slog.Logger
}

func NewSpeakingHandler(s service.SpeakingService, logger *slog.Logger) *SpeakingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpeakingHandler{
		service: s,
		logger:  logger,
	}
}

// PostPractice は発話を受け取り、AIフィードバック付きで履歴を作成するハンドラ
func (h *SpeakingHandler) PostPractice(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostPractice"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.PostSpeakingPracticeRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	practice, err := h.service.CreatePractice(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating speaking practice in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Speaking practice created successfully", slog.String("practice_id", practice.PracticeID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, practice, logger)
}

// GetPractice は練習履歴1件を返すハンドラ
func (h *SpeakingHandler) GetPractice(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetPractice"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	role := middleware.GetUserRoleFromContext(r.Context())
	logger = logger.With(slog.String("user_id", userID.String()))

	practiceID, ok := parseUUIDParam(w, r, logger, "practice_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("practice_id", practiceID.String()))

	practice, err := h.service.GetPractice(r.Context(), userID, role, practiceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Speaking practice not found in service", slog.Any("error", err))
		} else if errors.Is(err, model.ErrForbidden) {
			logger.Warn("Speaking practice access forbidden", slog.Any("error", err))
		} else {
			logger.Error("Error getting speaking practice from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, practice, logger)
}

// GetHistory はユーザーの練習履歴一覧を返すハンドラ
func (h *SpeakingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetHistory"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	practices, err := h.service.GetHistory(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing speaking practices from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if practices == nil {
		practices = []*model.SpeakingPractice{}
	}
	logger.Info("Speaking history listed successfully", slog.Int("count", len(practices)))
	webutil.RespondWithJSON(w, http.StatusOK, practices, logger)
}
