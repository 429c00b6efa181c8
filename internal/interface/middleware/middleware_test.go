package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireToken(t *testing.T) {
	r := gin.New()
	r.GET("/items", RequireToken("expected_token"), okHandler)

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"header match", "expected_token", "", http.StatusOK},
		{"query match", "", "expected_token", http.StatusOK},
		{"header mismatch", "nope", "", http.StatusForbidden},
		{"query mismatch", "", "nope", http.StatusForbidden},
		{"missing", "", "", http.StatusForbidden},
		{"prefix only", "expected", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/items"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set(TokenHeader, tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Invalid token")
			}
		})
	}
}

func TestRequireToken_EmptyExpectedRejects(t *testing.T) {
	r := gin.New()
	r.GET("/items", RequireToken(""), okHandler)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/items?token=", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	require.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "3f2c1c1e-8d3a-4c4e-9a55-0d6a1f1c2b3d")
	w = serve(r, req)
	assert.Equal(t, "3f2c1c1e-8d3a-4c4e-9a55-0d6a1f1c2b3d", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "198.51.100.2", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "garbage")
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", serve(r, req).Body.String())
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{
		"10.1.2.3":    true,
		"192.168.0.9": true,
		"127.0.0.1":   true,
		"8.8.8.8":     false,
		"unknown":     false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimit_NoRedisIsPassThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, nil, 1, time.Minute, KeyByIP(), nil), okHandler)

	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	var keys []string
	r.POST("/users/:id", func(c *gin.Context) {
		c.Set("real_ip", "203.0.113.7")
		keys = append(keys, KeyByIP()(c), KeyByIPAndMethod()(c))
	})
	serve(r, httptest.NewRequest(http.MethodPost, "/users/5", nil))

	assert.Equal(t, []string{"rl:ip:203.0.113.7", "rl:route:POST:/users/:id:ip:203.0.113.7"}, keys)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out, err := io.ReadAll(&buf)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":404`)
	assert.Contains(t, string(out), `"level":"warning"`)
	assert.Contains(t, string(out), `"request_id"`)
}
