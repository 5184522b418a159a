package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/techagentng/awaz/errors"
)

func TestJSON_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		errs   interface{}
		expect interface{}
	}{
		{"no error", nil, nil},
		{"api error", errs.ErrForbidden, errs.ErrForbidden.Message},
		{"nil api error", (*errs.Error)(nil), nil},
		{"plain error", errors.New("boom"), "boom"},
		{"validation errors", []error{errors.New("a"), errors.New("b")}, []interface{}{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			JSON(c, "hello", http.StatusTeapot, gin.H{"k": "v"}, tc.errs)

			assert.Equal(t, http.StatusTeapot, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "hello", body["message"])
			assert.Equal(t, http.StatusText(http.StatusTeapot), body["status"])
			assert.Equal(t, tc.expect, body["errors"])
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 7, 2, 3)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 0, NewPage(nil, 7, 1, 0).TotalPages)
	assert.Equal(t, 0, NewPage(nil, 0, 1, 6).TotalPages)
}
