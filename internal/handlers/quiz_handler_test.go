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

func newQuizRouter(mockService *mocks.MockQuizService) *chi.Mux {
	handler := handlers.NewQuizHandler(mockService, nil)
	router := chi.NewRouter()
	router.Use(middleware.DevUserContextMiddleware) // 開発用認証ミドルウェア
	router.Route("/api/v1/quiz", func(r chi.Router) {
		r.Post("/attempts", handler.PostAttempt)
		r.Get("/attempts/{attempt_id}", handler.GetAttempt)
		r.Post("/attempts/{attempt_id}/answers", handler.PostAnswers)
		r.Get("/attempts/{attempt_id}/answers", handler.GetAttemptAnswers)
		r.Get("/history", handler.GetHistory)
	})
	return router
}

func TestQuizHandler_PostAttempt(t *testing.T) {
	mockService := mocks.NewMockQuizService(t)
	router := newQuizRouter(mockService)

	testUserID := uuid.New()
	contentID := uuid.New()
	validReqBody := model.PostQuizAttemptRequest{
		ContentType: "topic",
		ContentID:   contentID,
	}
	expectedAttempt := &model.QuizAttempt{
		AttemptID:   uuid.New(),
		UserID:      testUserID,
		ContentType: "topic",
		ContentID:   contentID,
		SubmittedAt: time.Now(),
	}

	tests := []struct {
		name           string
		userID         *uuid.UUID
		body           interface{}
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "Success - Valid request",
			userID: &testUserID,
			body:   validReqBody,
			setupMock: func() {
				mockService.On("CreateAttempt", mock.Anything, testUserID, &validReqBody).
					Return(expectedAttempt, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail - Missing auth header",
			userID:         nil,
			body:           validReqBody,
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "Fail - Invalid content_type",
			userID:         &testUserID,
			body:           model.PostQuizAttemptRequest{ContentType: "podcast", ContentID: contentID},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail - Malformed JSON body",
			userID:         &testUserID,
			body:           `{"content_type": `,
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name:   "Fail - Content not found",
			userID: &testUserID,
			body:   validReqBody,
			setupMock: func() {
				mockService.On("CreateAttempt", mock.Anything, testUserID, &validReqBody).
					Return(nil, model.NewAppError("CONTENT_NOT_FOUND", "指定されたコンテンツが見つかりません。", "content_id", model.ErrInvalidInput)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "CONTENT_NOT_FOUND",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "POST", "/api/v1/quiz/attempts", tc.body, tc.userID, "")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			} else {
				var respAttempt model.QuizAttempt
				err := json.Unmarshal(rr.Body.Bytes(), &respAttempt)
				assert.NoError(t, err)
				assert.Equal(t, expectedAttempt.AttemptID, respAttempt.AttemptID)
				assert.Nil(t, respAttempt.Score, "開始直後のスコアはnull")
			}
		})
	}
}

func TestQuizHandler_PostAnswers(t *testing.T) {
	mockService := mocks.NewMockQuizService(t)
	router := newQuizRouter(mockService)

	testUserID := uuid.New()
	attemptID := uuid.New()
	validReqBody := model.SubmitAnswersRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: uuid.New(), SelectedOption: 2},
		},
	}
	expectedResp := &model.SubmitAnswersResponse{
		AttemptID:      attemptID,
		Score:          15,
		CorrectCount:   3,
		TotalQuestions: 4,
	}

	tests := []struct {
		name           string
		path           string
		body           interface{}
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - Answers scored",
			path: "/api/v1/quiz/attempts/" + attemptID.String() + "/answers",
			body: validReqBody,
			setupMock: func() {
				mockService.On("SubmitAnswers", mock.Anything, testUserID, attemptID, &validReqBody).
					Return(expectedResp, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail - Invalid attempt ID in URL",
			path:           "/api/v1/quiz/attempts/not-a-uuid/answers",
			body:           validReqBody,
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_URL_PARAM",
		},
		{
			name:           "Fail - Empty answers",
			path:           "/api/v1/quiz/attempts/" + attemptID.String() + "/answers",
			body:           model.SubmitAnswersRequest{Answers: []model.SubmittedAnswer{}},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail - Selected option out of range",
			path:           "/api/v1/quiz/attempts/" + attemptID.String() + "/answers",
			body:           model.SubmitAnswersRequest{Answers: []model.SubmittedAnswer{{QuestionID: uuid.New(), SelectedOption: 5}}},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name: "Fail - Duplicate answers rejected",
			path: "/api/v1/quiz/attempts/" + attemptID.String() + "/answers",
			body: validReqBody,
			setupMock: func() {
				mockService.On("SubmitAnswers", mock.Anything, testUserID, attemptID, &validReqBody).
					Return(nil, model.NewAppError("DUPLICATE_ANSWER", "すでに解答済みの設問が含まれています。", "", model.ErrConflict)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "DUPLICATE_ANSWER",
		},
		{
			name: "Fail - Attempt owned by another user",
			path: "/api/v1/quiz/attempts/" + attemptID.String() + "/answers",
			body: validReqBody,
			setupMock: func() {
				mockService.On("SubmitAnswers", mock.Anything, testUserID, attemptID, &validReqBody).
					Return(nil, model.NewAppError("FORBIDDEN", "この受験にアクセスする権限がありません。", "", model.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "POST", tc.path, tc.body, &testUserID, "")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			} else {
				var resp model.SubmitAnswersResponse
				err := json.Unmarshal(rr.Body.Bytes(), &resp)
				assert.NoError(t, err)
				assert.Equal(t, expectedResp.Score, resp.Score)
				assert.Equal(t, expectedResp.CorrectCount, resp.CorrectCount)
				assert.Equal(t, expectedResp.TotalQuestions, resp.TotalQuestions)
			}
		})
	}
}

func TestQuizHandler_GetAttempt(t *testing.T) {
	mockService := mocks.NewMockQuizService(t)
	router := newQuizRouter(mockService)

	testUserID := uuid.New()
	attemptID := uuid.New()
	score := 15
	expectedDetail := &model.QuizAttemptDetailResponse{
		AttemptID:   attemptID,
		ContentType: "topic",
		ContentID:   uuid.New(),
		ContentName: "日常会話",
		Score:       &score,
		SubmittedAt: time.Now(),
	}

	tests := []struct {
		name           string
		role           string
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - Owner can view",
			setupMock: func() {
				mockService.On("GetAttempt", mock.Anything, testUserID, model.RoleUser, attemptID).
					Return(expectedDetail, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Success - Admin role forwarded to service",
			role: model.RoleAdmin,
			setupMock: func() {
				mockService.On("GetAttempt", mock.Anything, testUserID, model.RoleAdmin, attemptID).
					Return(expectedDetail, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail - Not found",
			setupMock: func() {
				mockService.On("GetAttempt", mock.Anything, testUserID, model.RoleUser, attemptID).
					Return(nil, model.NewAppError("ATTEMPT_NOT_FOUND", "受験が見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "ATTEMPT_NOT_FOUND",
		},
		{
			name: "Fail - Forbidden for another user's attempt",
			setupMock: func() {
				mockService.On("GetAttempt", mock.Anything, testUserID, model.RoleUser, attemptID).
					Return(nil, model.NewAppError("FORBIDDEN", "この受験にアクセスする権限がありません。", "", model.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "GET", "/api/v1/quiz/attempts/"+attemptID.String(), nil, &testUserID, tc.role)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			} else {
				var detail model.QuizAttemptDetailResponse
				err := json.Unmarshal(rr.Body.Bytes(), &detail)
				assert.NoError(t, err)
				assert.Equal(t, expectedDetail.ContentName, detail.ContentName)
				assert.Equal(t, score, *detail.Score)
			}
		})
	}
}

func TestQuizHandler_GetHistory(t *testing.T) {
	mockService := mocks.NewMockQuizService(t)
	router := newQuizRouter(mockService)

	testUserID := uuid.New()

	t.Run("Success - History listed", func(t *testing.T) {
		items := []*model.QuizHistoryItem{
			{
				AttemptID:       uuid.New(),
				UserID:          testUserID,
				ContentType:     "topic",
				ContentName:     "日常会話",
				Score:           10,
				PercentageScore: 50,
				CorrectAnswers:  2,
				TotalQuestions:  4,
				AnswerCount:     4,
			},
		}
		mockService.On("GetHistory", mock.Anything, testUserID).Return(items, nil).Once()

		req := createRequest(t, "GET", "/api/v1/quiz/history", nil, &testUserID, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []*model.QuizHistoryItem
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, 50, resp[0].PercentageScore)
	})

	t.Run("Success - Empty history returns empty array", func(t *testing.T) {
		mockService.On("GetHistory", mock.Anything, testUserID).Return(nil, nil).Once()

		req := createRequest(t, "GET", "/api/v1/quiz/history", nil, &testUserID, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String(), "nilではなく空配列を返す")
	})
}
