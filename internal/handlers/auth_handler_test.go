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
	"english_hub/internal/model"
	"english_hub/internal/service/mocks"
)

func newAuthRouter(mockService *mocks.MockAuthService) *chi.Mux {
	handler := handlers.NewAuthHandler(mockService, nil)
	router := chi.NewRouter()
	// 認証前のエンドポイントなのでミドルウェアは不要
	router.Post("/api/v1/auth/register", handler.Register)
	router.Post("/api/v1/auth/login", handler.Login)
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	mockService := mocks.NewMockAuthService(t)
	router := newAuthRouter(mockService)

	validReqBody := model.RegisterRequest{
		Email:       "taro@example.com",
		DisplayName: "太郎",
		Password:    "password123",
	}
	expectedUser := &model.User{
		UserID:       uuid.New(),
		Email:        validReqBody.Email,
		DisplayName:  validReqBody.DisplayName,
		PasswordHash: "$2a$10$hashed",
		Role:         model.RoleUser,
		RegisteredAt: time.Now(),
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - Valid registration",
			body: validReqBody,
			setupMock: func() {
				mockService.On("Register", mock.Anything, &validReqBody).
					Return(expectedUser, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail - Invalid email format",
			body:           model.RegisterRequest{Email: "not-an-email", DisplayName: "太郎", Password: "password123"},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail - Password too short",
			body:           model.RegisterRequest{Email: "taro@example.com", DisplayName: "太郎", Password: "short"},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name: "Fail - Duplicate email",
			body: validReqBody,
			setupMock: func() {
				mockService.On("Register", mock.Anything, &validReqBody).
					Return(nil, model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に登録されています。", "email", model.ErrConflict)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "DUPLICATE_EMAIL",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "POST", "/api/v1/auth/register", tc.body, nil, "")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			} else {
				var resp model.UserResponse
				err := json.Unmarshal(rr.Body.Bytes(), &resp)
				assert.NoError(t, err)
				assert.Equal(t, expectedUser.Email, resp.Email)
				assert.Equal(t, model.RoleUser, resp.Role)

				// パスワードハッシュがレスポンスに含まれない
				assert.NotContains(t, rr.Body.String(), expectedUser.PasswordHash)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	mockService := mocks.NewMockAuthService(t)
	router := newAuthRouter(mockService)

	validReqBody := model.LoginRequest{
		Email:    "taro@example.com",
		Password: "password123",
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - Valid credentials",
			body: validReqBody,
			setupMock: func() {
				mockService.On("Login", mock.Anything, &validReqBody).
					Return(&model.LoginResponse{AccessToken: "header.payload.signature"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail - Wrong credentials",
			body: validReqBody,
			setupMock: func() {
				mockService.On("Login", mock.Anything, &validReqBody).
					Return(nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "AUTHENTICATION_FAILED",
		},
		{
			name:           "Fail - Missing password",
			body:           model.LoginRequest{Email: "taro@example.com"},
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail - Malformed JSON body",
			body:           `{"email": `,
			setupMock:      func() { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			req := createRequest(t, "POST", "/api/v1/auth/login", tc.body, nil, "")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				verifyErrorResponse(t, rr.Body.Bytes(), tc.expectedCode)
			} else {
				var resp model.LoginResponse
				err := json.Unmarshal(rr.Body.Bytes(), &resp)
				assert.NoError(t, err)
				assert.NotEmpty(t, resp.AccessToken)
			}
		})
	}
}
