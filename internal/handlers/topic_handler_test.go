package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"english_hub/internal/handlers"
	"english_hub/internal/middleware"
	"english_hub/internal/model"
	"english_hub/internal/service/mocks"
)

func newTopicRouter(mockService *mocks.MockTopicService) *chi.Mux {
	handler := handlers.NewTopicHandler(mockService, nil)
	router := chi.NewRouter()
	router.Use(middleware.DevUserContextMiddleware)
	router.Route("/api/v1/topics", func(r chi.Router) {
		r.Get("/", handler.GetTopics)
		r.Get("/{topic_id}", handler.GetTopic)

		// 書き込み系は管理者のみ
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", handler.PostTopic)
			r.Put("/{topic_id}", handler.PutTopic)
			r.Delete("/{topic_id}", handler.DeleteTopic)
		})
	})
	return router
}

func TestTopicHandler_PostTopic(t *testing.T) {
	mockService := mocks.NewMockTopicService(t)
	router := newTopicRouter(mockService)

	adminID := uuid.New()
	description := "あいさつと自己紹介"
	validReqBody := model.PostTopicRequest{
		Name:        "日常会話",
		Description: &description,
	}
	expectedTopic := &model.Topic{
		TopicID:     uuid.New(),
		Name:        validReqBody.Name,
		Description: validReqBody.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	tests := []struct {
		name           string
		role           string
		body           interface{}
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - Admin creates topic",
			role: model.RoleAdmin,
			body: validReqBody,
			setupMock: func() {
				mockService.On("PostTopic", mock.Anything, &validReqBody).
					Return(expectedTopic, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail - Regular user is forbidden",
			role:           model.RoleUser,
			body:           validReqBody,
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:           "Fail - Missing name",
			role:           model.RoleAdmin,
			body:           model.PostTopicRequest{Description: &description},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "POST", "/api/v1/topics", tc.body, &adminID, tc.role)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			} else {
				var respTopic model.Topic
				err := json.Unmarshal(rr.Body.Bytes(), &respTopic)
				assert.NoError(t, err)
				assert.Equal(t, expectedTopic.Name, respTopic.Name)
				assert.NotEqual(t, uuid.Nil, respTopic.TopicID)
			}
		})
	}
}

func TestTopicHandler_GetTopics(t *testing.T) {
	mockService := mocks.NewMockTopicService(t)
	router := newTopicRouter(mockService)

	userID := uuid.New()

	t.Run("Success - Topics listed for regular user", func(t *testing.T) {
		topics := []*model.Topic{
			{TopicID: uuid.New(), Name: "日常会話"},
			{TopicID: uuid.New(), Name: "旅行"},
		}
		mockService.On("GetTopics", mock.Anything).Return(topics, nil).Once()

		req := createRequest(t, "GET", "/api/v1/topics", nil, &userID, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []*model.Topic
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("Success - Empty list returns empty array", func(t *testing.T) {
		mockService.On("GetTopics", mock.Anything).Return(nil, nil).Once()

		req := createRequest(t, "GET", "/api/v1/topics", nil, &userID, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

func TestTopicHandler_GetTopic(t *testing.T) {
	mockService := mocks.NewMockTopicService(t)
	router := newTopicRouter(mockService)

	userID := uuid.New()
	topicID := uuid.New()

	tests := []struct {
		name           string
		path           string
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - Topic found",
			path: "/api/v1/topics/" + topicID.String(),
			setupMock: func() {
				mockService.On("GetTopic", mock.Anything, topicID).
					Return(&model.Topic{TopicID: topicID, Name: "日常会話"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail - Topic not found",
			path: "/api/v1/topics/" + topicID.String(),
			setupMock: func() {
				mockService.On("GetTopic", mock.Anything, topicID).
					Return(nil, model.NewAppError("TOPIC_NOT_FOUND", "トピックが見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "TOPIC_NOT_FOUND",
		},
		{
			name:           "Fail - Invalid topic ID in URL",
			path:           "/api/v1/topics/not-a-uuid",
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_URL_PARAM",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "GET", tc.path, nil, &userID, "")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			}
		})
	}
}

func TestTopicHandler_DeleteTopic(t *testing.T) {
	mockService := mocks.NewMockTopicService(t)
	router := newTopicRouter(mockService)

	adminID := uuid.New()
	topicID := uuid.New()

	t.Run("Success - Admin deletes topic", func(t *testing.T) {
		mockService.On("DeleteTopic", mock.Anything, topicID).Return(nil).Once()

		req := createRequest(t, "DELETE", "/api/v1/topics/"+topicID.String(), nil, &adminID, model.RoleAdmin)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("Fail - Regular user is forbidden", func(t *testing.T) {
		req := createRequest(t, "DELETE", "/api/v1/topics/"+topicID.String(), nil, &adminID, model.RoleUser)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		verifyErrorResponse(t, rr.Body.Bytes(), "FORBIDDEN")
	})
}
