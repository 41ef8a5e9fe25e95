package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/pkg/response"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubAuthenticator struct {
	principal *service.Principal
	calls     int
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*service.Principal, bool) {
	s.calls++
	return s.principal, s.principal != nil
}

func testPrincipal() *service.Principal {
	return &service.Principal{
		User:   &domain.User{ID: "user-1"},
		Device: &domain.Device{ID: "device-1"},
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	auth := &stubAuthenticator{}
	called := false
	h := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("next handler called for unauthenticated request")
	}

	var body response.Message
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != response.ErrorCode || body.Message != MsgAuthenticationFailed {
		t.Errorf("body = %+v", body)
	}
}

func TestAuthMiddleware_Accepts(t *testing.T) {
	auth := &stubAuthenticator{principal: testPrincipal()}
	var got *service.Principal
	h := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got == nil || got.Device.ID != "device-1" {
		t.Errorf("principal = %+v", got)
	}
}

func TestAuthMiddleware_SkipsPreflight(t *testing.T) {
	auth := &stubAuthenticator{}
	h := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/validate", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if auth.calls != 0 {
		t.Error("preflight request was authenticated")
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	if p := GetPrincipal(httptest.NewRequest(http.MethodGet, "/", nil)); p != nil {
		t.Errorf("GetPrincipal() = %+v, want nil", p)
	}
}

func TestLoggerMiddleware_RecordsPrincipal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	auth := &stubAuthenticator{principal: testPrincipal()}
	h := LoggerMiddleware(logger)(AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/validate", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["principal"] != "user-1/device-1" {
		t.Errorf("principal = %v", fields["principal"])
	}
	if fields["status"] != int64(http.StatusAccepted) {
		t.Errorf("status = %v", fields["status"])
	}
}

func TestLoggerMiddleware_Anonymous(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := LoggerMiddleware(zap.New(core))(AuthMiddleware(&stubAuthenticator{})(http.NotFoundHandler()))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/devices", nil))

	fields := logs.All()[0].ContextMap()
	if fields["principal"] != "anonymous" {
		t.Errorf("principal = %v, want anonymous", fields["principal"])
	}
	if fields["status"] != int64(http.StatusUnauthorized) {
		t.Errorf("status = %v, want 401", fields["status"])
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origins    string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
		wantNext   bool
	}{
		{name: "allowed origin", origins: "https://a.example.com, https://b.example.com", origin: "https://b.example.com", method: http.MethodGet, wantOrigin: "https://b.example.com", wantStatus: http.StatusTeapot, wantNext: true},
		{name: "unknown origin", origins: "https://a.example.com", origin: "https://evil.example.com", method: http.MethodGet, wantStatus: http.StatusTeapot, wantNext: true},
		{name: "wildcard echoes origin", origins: "*", origin: "https://c.example.com", method: http.MethodGet, wantOrigin: "https://c.example.com", wantStatus: http.StatusTeapot, wantNext: true},
		{name: "wildcard without origin", origins: "*", method: http.MethodGet, wantOrigin: "*", wantStatus: http.StatusTeapot, wantNext: true},
		{name: "preflight", origins: "*", origin: "https://c.example.com", method: http.MethodOptions, wantOrigin: "https://c.example.com", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			h := CORSMiddleware(tt.origins, "GET,POST,OPTIONS", "Content-Type,X-Authorization")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusTeapot)
			}))

			req := httptest.NewRequest(tt.method, "/validate", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
		})
	}
}
