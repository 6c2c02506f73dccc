package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"authapi/internal/core/telemetry"
	"authapi/pkg/config"
)

func TestCurrentMiddleware_KeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/", func(c *gin.Context) {
		id, _ := GetCurrent(c).GetString("request_id")
		c.String(http.StatusOK, id)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Body.String())
	assert.Equal(t, "req-123", rr.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(MetricsMiddleware(metrics))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req, _ = http.NewRequest(http.MethodGet, "/missing", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestTotal().WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestTotal().WithLabelValues("GET", "unmatched", "404")))
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CorsMiddleware())
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/auth/login", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPSEnforcer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(config.NewHTTPSEnforcer(true, nil).HTTPSMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "http://api.example.com/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMovedPermanently, rr.Code)
	assert.Equal(t, "https://api.example.com/health", rr.Header().Get("Location"))

	req, _ = http.NewRequest(http.MethodGet, "http://api.example.com/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	req, _ = http.NewRequest(http.MethodGet, "http://localhost:8080/health", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware(), LoggingMiddleware(config.NewNopLogger()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
}
