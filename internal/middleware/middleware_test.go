package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/metrics"
	"github.com/lexiconlab/babelex/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		authHeader string
		wantCode   int
	}{
		{"valid token", "good-key", "Bearer good-key", http.StatusOK},
		{"missing header", "good-key", "", http.StatusUnauthorized},
		{"invalid token", "good-key", "Bearer bad-key", http.StatusUnauthorized},
		{"no bearer prefix", "good-key", "good-key", http.StatusUnauthorized},
		{"auth disabled", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.RequestID(quietLogger()))
			r.Use(middleware.APIKey(tt.key, quietLogger()))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}

			if tt.wantCode == http.StatusUnauthorized {
				var body middleware.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("decoding error body: %v", err)
				}
				if body.Code != middleware.ErrCodeUnauthorized || body.RequestID == "" {
					t.Errorf("error body = %+v", body)
				}
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(quietLogger()))

	var seen, client string
	r.GET("/test", func(c *gin.Context) {
		seen = c.GetString(middleware.RequestIDKey)
		client = c.GetString(middleware.ClientRequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "client-chosen")
	r.ServeHTTP(w, req)

	if seen == "" || seen == "client-chosen" {
		t.Errorf("request id = %q, want a fresh server id", seen)
	}
	if client != "client-chosen" {
		t.Errorf("client request id = %q", client)
	}
	if w.Header().Get(middleware.RequestIDHeader) != seen {
		t.Errorf("response header = %q, want %q", w.Header().Get(middleware.RequestIDHeader), seen)
	}
}

func TestPrometheus(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Prometheus("/metrics"))
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "418")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/things/1", "/things/2", "/metrics"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests recorded = %v, want 2 (route pattern label)", got)
	}

	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")); got != 0 {
		t.Errorf("metrics scrapes recorded = %v, want 0", got)
	}
}

func TestLogger(t *testing.T) {
	log := quietLogger()
	r := gin.New()
	r.Use(middleware.Logger(log))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
}
