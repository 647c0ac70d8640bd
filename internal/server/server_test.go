package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classic-cipher-go/internal/config"
)

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Scheme:  config.SchemeConfig{Address: "127.0.0.1", HTTPPort: 5344},
		Auth:    config.AuthConfig{JWTSecret: "test-secret", JWTExpire: 1},
		DataDir: t.TempDir(),
	}

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

// TestHealthEndpoint tests GET /health
func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
	if resp.Version != config.Version {
		t.Errorf("version = %q, want %q", resp.Version, config.Version)
	}
	if resp.PipelineCache == nil {
		t.Error("pipeline cache stats missing")
	}
}

// TestRequestIDHeader tests that every response carries a request ID
func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/ready", "", nil)
	reqID := w.Header().Get("X-Request-ID")
	if !strings.HasPrefix(reqID, "req-") {
		t.Errorf("X-Request-ID = %q, want req- prefix", reqID)
	}
}

// TestAuthRequired tests that protected routes reject anonymous and
// garbage tokens with the code-in-body convention
func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, tt := range []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodGet, "/api/runs", tt.token, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var env apiEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if env.Code != 401 {
				t.Errorf("code = %d, want 401", env.Code)
			}
		})
	}
}

// TestLoginFlow logs in with the default user and calls a protected
// route with the returned token
func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "admin",
	})
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if env.Code != 0 {
		t.Fatalf("login code = %d, want 0, msg %q", env.Code, env.Msg)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("token is empty")
	}

	w = doJSON(t, srv, http.MethodGet, "/api/user/info", data.Token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if env.Code != 0 {
		t.Errorf("user info code = %d, want 0", env.Code)
	}
	var info struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
	if info.Username != "admin" {
		t.Errorf("username = %q, want %q", info.Username, "admin")
	}
}

// TestTransformThroughServer tests the full middleware stack down to
// the engine
func TestTransformThroughServer(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/transform", "", map[string]interface{}{
		"text": "hello",
		"mode": "encrypt",
		"stages": []map[string]string{
			{"kind": "caesar", "key": "3"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	var data struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
	if data.Result != "KHOOR" {
		t.Errorf("result = %q, want %q", data.Result, "KHOOR")
	}
}

// TestRootRedirect tests the playground redirect
func TestRootRedirect(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/public/" {
		t.Errorf("location = %q, want %q", loc, "/public/")
	}
}

// TestCORSPreflight tests the OPTIONS short-circuit
func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/transform", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q, want *", got)
	}
}
