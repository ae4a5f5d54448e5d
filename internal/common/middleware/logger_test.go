package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"zoolbot-admin/internal/common/logger"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "test", false)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Logger())
	r.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ready", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.NotContains(t, buf.String(), "/live")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready?verbose=1", nil))
	out := buf.String()
	assert.Contains(t, out, "path:/ready?verbose=1")
	assert.Contains(t, out, "status:503")
}
