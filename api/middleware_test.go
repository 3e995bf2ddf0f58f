package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(CORS())
		router.Any("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})
		return router
	}

	t.Run("preflight is answered without hitting the handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("event stream reconnect header is allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		newRouter().ServeHTTP(w, req)

		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Last-Event-ID")
	})

	t.Run("regular requests pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limit := int64(1024)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(RequestSizeLimitWithSize(limit))
		router.POST("/test", func(c *gin.Context) {
			if err := c.Request.ParseForm(); err != nil {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})
		return router
	}

	tests := []struct {
		name           string
		method         string
		bodySize       int
		expectedStatus int
	}{
		{"body under the limit", http.MethodPost, 100, http.StatusOK},
		{"body over the limit", http.MethodPost, 4096, http.StatusRequestEntityTooLarge},
		{"reads are never capped", http.MethodGet, 0, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			body := strings.NewReader(strings.Repeat("a", tt.bodySize))
			req := httptest.NewRequest(tt.method, "/test", body)
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			newRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPerClientRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rps, burst int) (*gin.Engine, chan struct{}) {
		rateLimiters := &sync.Map{}
		cleanupStop := make(chan struct{})
		router := gin.New()
		router.Use(PerClientRateLimit(rateLimiters, cleanupStop, &sync.Once{}, rps, burst))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})
		return router, cleanupStop
	}

	t.Run("burst beyond the bucket is throttled", func(t *testing.T) {
		router, cleanupStop := newRouter(2, 3)
		defer close(cleanupStop)

		blocked := 0
		for i := 0; i < 6; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "127.0.0.1:12345"
			router.ServeHTTP(w, req)
			if w.Code == http.StatusTooManyRequests {
				blocked++
			}
		}
		assert.Greater(t, blocked, 0)
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		router, cleanupStop := newRouter(2, 2)
		defer close(cleanupStop)

		// Exhaust the first client's bucket.
		for i := 0; i < 4; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "127.0.0.1:12345"
			router.ServeHTTP(w, req)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.9:54321"
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("spaced requests refill the bucket", func(t *testing.T) {
		router, cleanupStop := newRouter(20, 1)
		defer close(cleanupStop)

		for i := 0; i < 3; i++ {
			if i > 0 {
				time.Sleep(60 * time.Millisecond)
			}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = "127.0.0.1:12345"
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}
