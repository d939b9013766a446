package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"

	"github.com/kbukum/providerkit/component"
	apperrors "github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, checker func(context.Context) []component.Health) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	srv := New(cfg, logger.NewNop())
	srv.ApplyDefaults("svc", checker)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	return srv
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.ReadTimeout != 15*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Errorf("unexpected timeouts: %+v", cfg)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("expected 1MiB body limit, got %d", cfg.MaxBodyBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := Config{Port: 70000}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestServerStartServesHealth(t *testing.T) {
	srv := newTestServer(t, func(context.Context) []component.Health {
		return []component.Health{{Name: "analytics", Status: component.StatusDegraded, Message: "awaiting_readiness"}}
	})
	if !srv.Running() {
		t.Fatal("expected server running")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for degraded, got %d", resp.StatusCode)
	}
	var body struct {
		Status     string             `json:"status"`
		Components []component.Health `json:"components"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Status != "degraded" || len(body.Components) != 1 {
		t.Errorf("unexpected body %+v", body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

func TestServerSpeaksH2C(t *testing.T) {
	srv := newTestServer(t, nil)

	client := &http.Client{Transport: &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}}
	t.Cleanup(client.CloseIdleConnections)

	resp, err := client.Get("http://" + srv.Addr() + "/version")
	if err != nil {
		t.Fatalf("h2c GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.ProtoMajor != 2 {
		t.Errorf("expected HTTP/2, got %s", resp.Proto)
	}
}

func TestServerStopBeforeStart(t *testing.T) {
	srv := New(Config{Host: "127.0.0.1"}, logger.NewNop())
	if err := srv.Stop(context.Background()); err != nil {
		t.Errorf("expected nil stop on unstarted server, got %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("expected configured addr, got %q", srv.Addr())
	}
}

func TestServerHandleMountsOnMux(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	resp, err := http.Get("http://" + srv.Addr() + "/raw")
	if err != nil {
		t.Fatalf("GET /raw failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("expected 418, got %d", resp.StatusCode)
	}
}

func TestComponent(t *testing.T) {
	srv := New(Config{Host: "127.0.0.1"}, logger.NewNop())
	c := NewComponent(srv)
	if c.Name() != "http-server" {
		t.Errorf("unexpected name %q", c.Name())
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}
	if d := c.Describe(); d.Type != "server" || d.Details != srv.Addr() {
		t.Errorf("unexpected description %+v", d)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody apperrors.ErrorCode
	}{
		{"not ready", apperrors.NotReady("analytics"), http.StatusServiceUnavailable, apperrors.ErrCodeNotReady},
		{"wrapped invalid input", errors.Join(errors.New("ctx"), apperrors.InvalidInput("name", "required")), http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondWithError(c, tc.err)

			if w.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, w.Code)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if body.Error.Code != tc.wantBody {
				t.Errorf("expected code %s, got %s", tc.wantBody, body.Error.Code)
			}
		})
	}
}

func TestRespondOKAndAccepted(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondOK(c, map[string]string{"k": "v"})
	if w.Code != http.StatusOK || w.Body.String() != `{"data":{"k":"v"}}` {
		t.Errorf("unexpected OK response %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	RespondAccepted(c, nil)
	if w.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", w.Code)
	}
}
