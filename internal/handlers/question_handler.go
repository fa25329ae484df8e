package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"english_hub/internal/model"
	"english_hub/internal/service"
	"english_hub/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	service service.QuestionService
	logger  *slog.Logger
}

func NewQuestionHandler(s service.QuestionService, logger *slog.Logger) *QuestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionHandler{
		service: s,
		logger:  logger,
	}
}

// PostQuestion は新しい設問を作成するハンドラ (管理者用)
func (h *QuestionHandler) PostQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostQuestion"))

	var req model.PostQuestionRequest
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

	question, err := h.service.PostQuestion(r.Context(), &req)
	if err != nil {
		logger.Error("Error posting question in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question posted successfully", slog.String("question_id", question.QuestionID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, question, logger)
}

// GetQuestions は設問一覧を返すハンドラ (管理者用)
func (h *QuestionHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetQuestions"))

	questions, err := h.service.GetQuestions(r.Context())
	if err != nil {
		logger.Error("Error listing questions in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if questions == nil {
		questions = []*model.Question{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}

// GetQuestion は特定の設問を返すハンドラ
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetQuestion"))

	questionID, ok := parseUUIDParam(w, r, logger, "question_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("question_id", questionID.String()))

	question, err := h.service.GetQuestion(r.Context(), questionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Question not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting question from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, question, logger)
}

// GetQuestionsByContent は指定コンテンツの出題一覧を返すハンドラ。
// 設問のないコンテンツは空配列を返します。
func (h *QuestionHandler) GetQuestionsByContent(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetQuestionsByContent"))

	contentType := chi.URLParam(r, "content_type")
	contentID, ok := parseUUIDParam(w, r, logger, "content_id")
	if !ok {
		return
	}
	logger = logger.With(
		slog.String("content_type", contentType),
		slog.String("content_id", contentID.String()),
	)

	questions, err := h.service.GetQuestionsByContent(r.Context(), contentType, contentID)
	if err != nil {
		logger.Error("Error listing questions by content in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if questions == nil {
		questions = []*model.Question{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}

// PutQuestion は設問を更新するハンドラ (管理者用)
func (h *QuestionHandler) PutQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutQuestion"))

	questionID, ok := parseUUIDParam(w, r, logger, "question_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("question_id", questionID.String()))

	var req model.PutQuestionRequest
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

	question, err := h.service.PutQuestion(r.Context(), questionID, &req)
	if err != nil {
		logger.Error("Error putting question in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question put successfully")
	webutil.RespondWithJSON(w, http.StatusOK, question, logger)
}

// DeleteQuestion は設問を削除するハンドラ (管理者用)
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteQuestion"))

	questionID, ok := parseUUIDParam(w, r, logger, "question_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("question_id", questionID.String()))

	if err := h.service.DeleteQuestion(r.Context(), questionID); err != nil {
		logger.Error("Error deleting question in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
