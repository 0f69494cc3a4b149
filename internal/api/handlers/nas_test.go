package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeLogout struct {
	calls int
	err   error
}

func (f *fakeLogout) Logout(context.Context) error {
	f.calls++
	return f.err
}

type fakeCacheInvalidator struct {
	calls int
}

func (f *fakeCacheInvalidator) Invalidate() { f.calls++ }

func TestNASLogout(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "успех", wantCode: http.StatusNoContent},
		{name: "NAS недоступен", err: errors.New("connection refused"), wantCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeLogout{err: tt.err}
			cache := &fakeCacheInvalidator{}
			h := NewNASHandler(session, cache, testLogger())

			rec := httptest.NewRecorder()
			h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/nas/logout", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("статус = %d, ожидалось %d", rec.Code, tt.wantCode)
			}
			if session.calls != 1 || cache.calls != 1 {
				t.Errorf("Logout вызван %d раз, Invalidate %d раз", session.calls, cache.calls)
			}
		})
	}
}

func TestOpenAPIHandler(t *testing.T) {
	h := NewOpenAPIHandler([]byte("openapi: 3.0.3\n"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))

	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/yaml" {
		t.Errorf("ответ: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rec.Body.String(), "openapi:") {
		t.Errorf("тело = %q", rec.Body.String())
	}
}
