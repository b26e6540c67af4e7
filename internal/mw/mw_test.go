package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(5), 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestResponseCache(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	hits := 0

	r := gin.New()
	r.GET("/games/:id/export", rc.Middleware(), func(c *gin.Context) {
		hits++
		c.Header("Content-Disposition", "attachment")
		c.String(http.StatusOK, "payload")
	})
	r.GET("/missing", rc.Middleware(), func(c *gin.Context) {
		hits++
		c.Status(http.StatusNotFound)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	first := get("/games/a/export")
	second := get("/games/a/export")
	assert.Equal(t, 1, hits)
	assert.Equal(t, "payload", second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Header().Get("Content-Disposition"), second.Header().Get("Content-Disposition"))

	rc.InvalidatePrefix("/games/a/")
	get("/games/a/export")
	assert.Equal(t, 2, hits)

	get("/missing")
	get("/missing")
	assert.Equal(t, 4, hits, "error responses are not cached")
}

func TestLogger(t *testing.T) {
	r := gin.New()
	r.Use(Logger(zap.NewNop().Sugar()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
