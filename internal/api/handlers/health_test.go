package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeDeps map[string]bool

func (f fakeDeps) Health() map[string]bool { return f }

type fakeChecker struct {
	status, message string
}

func (f fakeChecker) CheckReady() (string, string) { return f.status, f.message }

func allHealthy() fakeDeps {
	return fakeDeps{
		"nas:nas.local:5001":               true,
		"fingerprint-daemon:127.0.0.1:8081": true,
		"idcard-daemon:127.0.0.1:8082":      true,
		"camera-daemon:127.0.0.1:8083":      true,
	}
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидалось 200", rec.Code)
	}
	var resp healthLiveResponse
	decodeBody(t, rec, &resp)
	if resp.Status != statusOK || resp.Service != serviceName {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		deps       DependencyHealth
		pg         ReadinessChecker
		jwks       ReadinessChecker
		wantStatus string
		wantCode   int
	}{
		{
			name:       "все зависимости здоровы",
			deps:       allHealthy(),
			wantStatus: statusOK,
			wantCode:   http.StatusOK,
		},
		{
			name: "NAS недоступен",
			deps: func() fakeDeps {
				d := allHealthy()
				d["nas:nas.local:5001"] = false
				return d
			}(),
			wantStatus: statusFail,
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name: "демон камеры недоступен",
			deps: func() fakeDeps {
				d := allHealthy()
				d["camera-daemon:127.0.0.1:8083"] = false
				return d
			}(),
			wantStatus: statusDegraded,
			wantCode:   http.StatusOK,
		},
		{
			name:       "первая проверка не завершилась",
			deps:       fakeDeps{},
			wantStatus: statusDegraded,
			wantCode:   http.StatusOK,
		},
		{
			name:       "мониторинг не инициализирован",
			deps:       nil,
			wantStatus: statusFail,
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:       "PostgreSQL журнала недоступен",
			deps:       allHealthy(),
			pg:         fakeChecker{status: statusFail, message: "connection refused"},
			wantStatus: statusDegraded,
			wantCode:   http.StatusOK,
		},
		{
			name:       "JWKS недоступен",
			deps:       allHealthy(),
			jwks:       fakeChecker{status: statusFail, message: "timeout"},
			wantStatus: statusFail,
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.deps, tt.pg, tt.jwks)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("HTTP статус = %d, ожидалось %d", rec.Code, tt.wantCode)
			}
			var resp healthReadyResponse
			decodeBody(t, rec, &resp)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, ожидалось %q (checks: %+v)", resp.Status, tt.wantStatus, resp.Checks)
			}
			if _, ok := resp.Checks["nas"]; !ok {
				t.Error("checks не содержит nas")
			}
		})
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, statusOK},
		{[]string{statusOK, statusOK}, statusOK},
		{[]string{statusOK, statusDegraded}, statusDegraded},
		{[]string{statusDegraded, statusFail}, statusFail},
	}
	for _, tt := range tests {
		if got := overallStatus(tt.in...); got != tt.want {
			t.Errorf("overallStatus(%v) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}
}
