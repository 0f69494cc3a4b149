package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"validation", func(w http.ResponseWriter) { ValidationError(w, "x") }, http.StatusBadRequest, CodeValidationError},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "x") }, http.StatusNotFound, CodeNotFound},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "x") }, http.StatusConflict, CodeConflict},
		{"method", func(w http.ResponseWriter) { MethodNotSupported(w, "x") }, http.StatusMethodNotAllowed, CodeMethodNotSupported},
		{"nas", func(w http.ResponseWriter) { NASUnavailable(w, "x") }, http.StatusBadGateway, CodeNASUnavailable},
		{"device", func(w http.ResponseWriter) { DeviceUnavailable(w, "x") }, http.StatusBadGateway, CodeDeviceUnavailable},
		{"timeout", func(w http.ResponseWriter) { Timeout(w, "x") }, http.StatusGatewayTimeout, CodeTimeout},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "x") }, http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.status {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("тело не JSON: %v", err)
			}
			if body.Error.Code != tt.code || body.Error.Message != "x" {
				t.Errorf("тело = %+v", body.Error)
			}
		})
	}
}

func TestMethodNotSupported_Allow(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotSupported(rec, "только GET")
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Errorf("Allow = %q, ожидается GET", rec.Header().Get("Allow"))
	}
}
