package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"english_hub/internal/model"
	"english_hub/internal/service"
	"english_hub/internal/webutil"
)

type FlashcardHandler struct {
	service service.FlashcardService
	logger  *slog.Logger
}

func NewFlashcardHandler(s service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		service: s,
		logger:  logger,
	}
}

// PostFlashcard は新しいフラッシュカードを作成するハンドラ (管理者用)
func (h *FlashcardHandler) PostFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostFlashcard"))

	var req model.PostFlashcardRequest
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

	card, err := h.service.PostFlashcard(r.Context(), &req)
	if err != nil {
		logger.Error("Error posting flashcard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard posted successfully", slog.String("flashcard_id", card.FlashcardID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, card, logger)
}

// GetFlashcard は特定のフラッシュカードを返すハンドラ
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetFlashcard"))

	cardID, ok := parseUUIDParam(w, r, logger, "flashcard_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("flashcard_id", cardID.String()))

	card, err := h.service.GetFlashcard(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Flashcard not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting flashcard from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// GetFlashcardsByTopic はトピック配下のフラッシュカード一覧を返すハンドラ
func (h *FlashcardHandler) GetFlashcardsByTopic(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetFlashcardsByTopic"))

	topicID, ok := parseUUIDParam(w, r, logger, "topic_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("topic_id", topicID.String()))

	cards, err := h.service.GetFlashcardsByTopic(r.Context(), topicID)
	if err != nil {
		logger.Error("Error listing flashcards in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.Flashcard{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, cards, logger)
}

// PutFlashcard はフラッシュカードを更新するハンドラ (管理者用)
func (h *FlashcardHandler) PutFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutFlashcard"))

	cardID, ok := parseUUIDParam(w, r, logger, "flashcard_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("flashcard_id", cardID.String()))

	var req model.PutFlashcardRequest
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

	card, err := h.service.PutFlashcard(r.Context(), cardID, &req)
	if err != nil {
		logger.Error("Error putting flashcard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard put successfully")
	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// DeleteFlashcard はフラッシュカードを削除するハンドラ (管理者用)
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteFlashcard"))

	cardID, ok := parseUUIDParam(w, r, logger, "flashcard_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("flashcard_id", cardID.String()))

	if err := h.service.DeleteFlashcard(r.Context(), cardID); err != nil {
		logger.Error("Error deleting flashcard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcard deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
