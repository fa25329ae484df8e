package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"english_hub/internal/model"
	"english_hub/internal/service"
	"english_hub/internal/webutil"
)

type GrammarHandler struct {
	service service.GrammarService
	logger  *slog.Logger
}

func NewGrammarHandler(s service.GrammarService, logger *slog.Logger) *GrammarHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrammarHandler{
		service: s,
		logger:  logger,
	}
}

// PostGrammarLesson は新しい文法レッスンを作成するハンドラ (管理者用)
func (h *GrammarHandler) PostGrammarLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGrammarLesson"))

	var req model.PostGrammarLessonRequest
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

	lesson, err := h.service.PostGrammarLesson(r.Context(), &req)
	if err != nil {
		logger.Error("Error posting grammar lesson in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Grammar lesson posted successfully", slog.String("lesson_id", lesson.LessonID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, lesson, logger)
}

// GetGrammarLessons は文法レッスン一覧を返すハンドラ
func (h *GrammarHandler) GetGrammarLessons(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGrammarLessons"))

	lessons, err := h.service.GetGrammarLessons(r.Context())
	if err != nil {
		logger.Error("Error listing grammar lessons in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if lessons == nil {
		lessons = []*model.GrammarLesson{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, lessons, logger)
}

// GetGrammarLesson は特定の文法レッスンを返すハンドラ
func (h *GrammarHandler) GetGrammarLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGrammarLesson"))

	lessonID, ok := parseUUIDParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("lesson_id", lessonID.String()))

	lesson, err := h.service.GetGrammarLesson(r.Context(), lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Grammar lesson not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting grammar lesson from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

// PutGrammarLesson は文法レッスンを更新するハンドラ (管理者用)
func (h *GrammarHandler) PutGrammarLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutGrammarLesson"))

	lessonID, ok := parseUUIDParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("lesson_id", lessonID.String()))

	var req model.PutGrammarLessonRequest
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

	lesson, err := h.service.PutGrammarLesson(r.Context(), lessonID, &req)
	if err != nil {
		logger.Error("Error putting grammar lesson in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Grammar lesson put successfully")
	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

// DeleteGrammarLesson は文法レッスンを削除するハンドラ (管理者用)
func (h *GrammarHandler) DeleteGrammarLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteGrammarLesson"))

	lessonID, ok := parseUUIDParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("lesson_id", lessonID.String()))

	if err := h.service.DeleteGrammarLesson(r.Context(), lessonID); err != nil {
		logger.Error("Error deleting grammar lesson in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Grammar lesson deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
