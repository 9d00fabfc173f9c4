package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/testutils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.ErrNotFound, http.StatusNotFound},
		{"check set not found", fmt.Errorf("wrap: %w", errs.ErrCheckSetNotFound), http.StatusNotFound},
		{"validation", errs.ErrUnknownStatus("done"), http.StatusUnprocessableEntity},
		{"decode", fmt.Errorf("decoding a.go: %w", &errs.DecodeError{Byte: 'z', Offset: 2}), http.StatusUnprocessableEntity},
		{"bad base64", fmt.Errorf("decoding a.go: %w", &errs.DecodeError{Base64: true, Offset: 3}), http.StatusUnprocessableEntity},
		{"busy", errs.ErrLockBusy, http.StatusConflict},
		{"signature", fmt.Errorf("%w: no header", errs.ErrInvalidSignature), http.StatusUnauthorized},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestError(t *testing.T) {
	logger, err := testutils.GetLogger()
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"client error keeps message", errs.ErrLockBusy, http.StatusConflict, `{"message":"lock is held by another owner"}`},
		{"internal error is hidden", errors.New("pq: deadlock detected"), http.StatusInternalServerError, `{"message":"Unexpected error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router := gin.New()
			router.GET("/fail", func(c *gin.Context) { Error(c, logger, tt.err) })
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantCode, resp.Code)
			assert.JSONEq(t, tt.wantBody, resp.Body.String())
		})
	}
}

func TestCommit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"valid", "/repos/42/commits/abc", http.StatusOK, "42 abc"},
		{"non numeric repo", "/repos/hello/commits/abc", http.StatusBadRequest, `{"message":"repo_id must be an integer"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router := gin.New()
			router.GET("/repos/:repo_id/commits/:sha", func(c *gin.Context) {
				repoID, sha, ok := Commit(c)
				if !ok {
					return
				}
				c.String(http.StatusOK, "%d %s", repoID, sha)
			})
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantBody, resp.Body.String())
		})
	}
}
