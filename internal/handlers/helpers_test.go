package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"english_hub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createRequest はテスト用のHTTPリクエストを生成します。
// userID が nil の場合は認証ヘッダーを付けません。
func createRequest(t *testing.T, method, path string, body interface{}, userID *uuid.UUID, role string) *http.Request {
	t.Helper()

	var reqBodyReader io.Reader
	if body != nil {
		if strPayload, ok := body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req := httptest.NewRequest(method, path, reqBodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	return req
}

// verifyErrorResponse はエラーレスポンスの形式とコードを検証します。
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()

	var errResp model.APIErrorResponse
	err := json.Unmarshal(bodyBytes, &errResp)
	require.NoError(t, err, "Failed to unmarshal error response body: %s", string(bodyBytes))
	assert.NotEmpty(t, errResp.Error.Message, "Error message should not be empty")
	if expectedCode != "" {
		assert.Equal(t, expectedCode, errResp.Error.Code)
	}
}
