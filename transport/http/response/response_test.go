package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSON(c, map[string]int{"id": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Equal(t, 200, r.Code)
	assert.Equal(t, "success", r.Message)
	assert.Equal(t, map[string]any{"id": 1.0}, r.Data)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, "x")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 201, decode(t, w).Code)
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"not found", errors.ErrUserNotFound, 404, "user_not_found"},
		{"wrapped", fmt.Errorf("load: %w", errors.ErrInvalidToken), 401, "invalid_token"},
		{"store", errors.StoreUnavailable(fmt.Errorf("dial tcp: refused")), 503, "store_unavailable"},
		{"plain", fmt.Errorf("boom"), 500, "internal"},
		{"odd code", errors.New(10000, "custom", "custom"), 500, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.status, w.Code)
			r := decode(t, w)
			assert.Equal(t, tt.status, r.Code)
			assert.Equal(t, tt.reason, r.Reason)
			assert.NotContains(t, w.Body.String(), "refused")
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, 409, Status(errors.ErrEmailAlreadyExists))
	assert.Equal(t, 500, Status(fmt.Errorf("x")))
	assert.Equal(t, 500, Status(nil))
}
