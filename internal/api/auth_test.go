package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireAuthRejectsMissingSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	called := false
	g := gin.New()
	g.GET("/protected", RequireAuth(), func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	g.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrorCodeUnauthorized)
	assert.False(t, called, "handler must not run without a session")
}
