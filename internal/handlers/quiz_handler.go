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

type QuizHandler struct {
	service service.QuizService
	logger  *slog.Logger
}

func NewQuizHandler(s service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		service: s,
		logger:  logger,
	}
}

// PostAttempt は新しい受験を開始するハンドラ
func (h *QuizHandler) PostAttempt(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAttempt"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.PostQuizAttemptRequest
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

	attempt, err := h.service.CreateAttempt(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating quiz attempt in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Quiz attempt created successfully", slog.String("attempt_id", attempt.AttemptID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, attempt, logger)
}

// PostAnswers は解答を一括送信して採点するハンドラ
func (h *QuizHandler) PostAnswers(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAnswers"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	attemptID, ok := parseUUIDParam(w, r, logger, "attempt_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("attempt_id", attemptID.String()))

	var req model.SubmitAnswersRequest
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

	resp, err := h.service.SubmitAnswers(r.Context(), userID, attemptID, &req)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Duplicate answers rejected", slog.Any("error", err))
		} else {
			logger.Error("Error submitting answers in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Answers submitted successfully", slog.Int("score", resp.Score))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetAttempt は受験の概要を返すハンドラ
func (h *QuizHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetAttempt"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	role := middleware.GetUserRoleFromContext(r.Context())
	logger = logger.With(slog.String("user_id", userID.String()))

	attemptID, ok := parseUUIDParam(w, r, logger, "attempt_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("attempt_id", attemptID.String()))

	detail, err := h.service.GetAttempt(r.Context(), userID, role, attemptID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Quiz attempt not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting quiz attempt from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, detail, logger)
}

// GetAttemptAnswers は設問と解答を突き合わせた詳細を返すハンドラ
func (h *QuizHandler) GetAttemptAnswers(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetAttemptAnswers"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	role := middleware.GetUserRoleFromContext(r.Context())
	logger = logger.With(slog.String("user_id", userID.String()))

	attemptID, ok := parseUUIDParam(w, r, logger, "attempt_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("attempt_id", attemptID.String()))

	detail, err := h.service.GetAttemptAnswers(r.Context(), userID, role, attemptID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Quiz attempt not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting attempt answers from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, detail, logger)
}

// GetHistory は認証済みユーザーの受験履歴を返すハンドラ
func (h *QuizHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetHistory"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	items, err := h.service.GetHistory(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting quiz history from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if items == nil {
		items = []*model.QuizHistoryItem{}
	}
	logger.Info("Quiz history listed successfully", slog.Int("count", len(items)))
	webutil.RespondWithJSON(w, http.StatusOK, items, logger)
}
