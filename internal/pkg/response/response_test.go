package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/osint-analysis-backend/internal/pkg/errors"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
)

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), logger.NewNop()))
	h(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Success(c, map[string]int{"total": 3}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperrors.Success, body.Code)
	assert.Equal(t, map[string]interface{}{"total": float64(3)}, body.Data)

	w, body = serve(t, func(c *gin.Context) { Created(c, nil) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]interface{}{}, body.Data)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    int
		wantMessage string
	}{
		{
			name:        "client error shows details",
			err:         apperrors.Wrap(stderrors.New("lookup"), apperrors.ErrInvestigationNotFound, "abc"),
			wantStatus:  http.StatusNotFound,
			wantCode:    apperrors.ErrInvestigationNotFound,
			wantMessage: "Investigation not found: abc",
		},
		{
			name:        "server error hides cause",
			err:         apperrors.Wrap(stderrors.New("open exports/inv.json: permission denied"), apperrors.ErrExportWriteFailed),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperrors.ErrExportWriteFailed,
			wantMessage: "Export write failed",
		},
		{
			name:        "plain error",
			err:         stderrors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperrors.ErrInternalServer,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(t, func(c *gin.Context) { HandleError(c, tt.err) })
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestErrorWithCode(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { ErrorWithCode(c, apperrors.ErrInvalidFilter, "minConfidence") })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid filter: minConfidence", body.Message)
}
