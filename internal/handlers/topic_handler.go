package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"english_hub/internal/model"
	"english_hub/internal/service"
	"english_hub/internal/webutil"
)

type TopicHandler struct {
	service service.TopicService
	logger  *slog.Logger
}

func NewTopicHandler(s service.TopicService, logger *slog.Logger) *TopicHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopicHandler{
		service: s,
		logger:  logger,
	}
}

// PostTopic は新しいトピックを作成するハンドラ (管理者用)
func (h *TopicHandler) PostTopic(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostTopic"))

	var req model.PostTopicRequest
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

	topic, err := h.service.PostTopic(r.Context(), &req)
	if err != nil {
		logger.Error("Error posting topic in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Topic posted successfully", slog.String("topic_id", topic.TopicID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, topic, logger)
}

// GetTopics はトピック一覧を返すハンドラ
func (h *TopicHandler) GetTopics(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetTopics"))

	topics, err := h.service.GetTopics(r.Context())
	if err != nil {
		logger.Error("Error listing topics in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if topics == nil {
		topics = []*model.Topic{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, topics, logger)
}

// GetTopic は特定のトピックを返すハンドラ
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetTopic"))

	topicID, ok := parseUUIDParam(w, r, logger, "topic_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("topic_id", topicID.String()))

	topic, err := h.service.GetTopic(r.Context(), topicID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Topic not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting topic from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, topic, logger)
}

// PutTopic はトピックを更新するハンドラ (管理者用)
func (h *TopicHandler) PutTopic(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutTopic"))

	topicID, ok := parseUUIDParam(w, r, logger, "topic_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("topic_id", topicID.String()))

	var req model.PutTopicRequest
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

	topic, err := h.service.PutTopic(r.Context(), topicID, &req)
	if err != nil {
		logger.Error("Error putting topic in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Topic put successfully")
	webutil.RespondWithJSON(w, http.StatusOK, topic, logger)
}

// DeleteTopic はトピックを削除するハンドラ (管理者用)
func (h *TopicHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteTopic"))

	topicID, ok := parseUUIDParam(w, r, logger, "topic_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("topic_id", topicID.String()))

	if err := h.service.DeleteTopic(r.Context(), topicID); err != nil {
		logger.Error("Error deleting topic in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Topic deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
