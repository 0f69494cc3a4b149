package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/domain/scan"
	"github.com/bigkaa/devicehub/internal/service"
)

const testScanID = "3f1c7c52-8d5e-4b7f-9a35-3c2b1f0e9d11"

type fakeScanner struct {
	startErr     error
	startQuality int
	scans        map[string]service.ScanStatus
	cancelled    []string
}

func (f *fakeScanner) Start(quality int) (service.ScanStatus, error) {
	f.startQuality = quality
	if f.startErr != nil {
		return service.ScanStatus{ID: "active-id"}, f.startErr
	}
	return service.ScanStatus{
		ID:       testScanID,
		Quality:  quality,
		Snapshot: scan.Snapshot{State: scan.StateIdle, MaxAttempts: 20},
	}, nil
}

func (f *fakeScanner) Get(id string) (service.ScanStatus, error) {
	s, ok := f.scans[id]
	if !ok {
		return service.ScanStatus{}, service.ErrScanNotFound
	}
	return s, nil
}

func (f *fakeScanner) Cancel(_ context.Context, id string) (service.ScanStatus, error) {
	s, ok := f.scans[id]
	if !ok {
		return service.ScanStatus{}, service.ErrScanNotFound
	}
	f.cancelled = append(f.cancelled, id)
	s.State = scan.StateCancelled
	return s, nil
}

func newFingerprintRouter(t *testing.T, scans FingerprintScanner) http.Handler {
	t.Helper()
	return newTestAPI(&APIHandler{fingerprint: NewFingerprintHandler(scans, 40, testBundle(t), testLogger())})
}

func TestFingerprintStart(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		startErr    error
		wantCode    int
		wantQuality int
	}{
		{name: "порог по умолчанию", body: "", wantCode: http.StatusAccepted, wantQuality: 40},
		{name: "порог из запроса", body: `{"quality": 75}`, wantCode: http.StatusAccepted, wantQuality: 75},
		{name: "порог вне диапазона", body: `{"quality": 101}`, wantCode: http.StatusBadRequest},
		{name: "некорректный JSON", body: `{"quality":`, wantCode: http.StatusBadRequest},
		{
			name:     "уже выполняется",
			startErr: fmt.Errorf("%w: active-id", service.ErrScanInProgress),
			wantCode: http.StatusConflict,
		},
		{name: "сервис остановлен", startErr: service.ErrServiceStopped, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scans := &fakeScanner{startErr: tt.startErr}
			rec := httptest.NewRecorder()
			newFingerprintRouter(t, scans).ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, "/api/v1/fingerprint/scans", strings.NewReader(tt.body)))

			if rec.Code != tt.wantCode {
				t.Fatalf("статус = %d, ожидалось %d; тело: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusAccepted {
				return
			}
			if scans.startQuality != tt.wantQuality {
				t.Errorf("quality = %d, ожидалось %d", scans.startQuality, tt.wantQuality)
			}
			if loc := rec.Header().Get("Location"); loc != "/api/v1/fingerprint/scans/"+testScanID {
				t.Errorf("Location = %q", loc)
			}
			var resp scanResponse
			decodeBody(t, rec, &resp)
			if resp.ID != testScanID || resp.State != scan.StateIdle || resp.Message != "Ready to scan" {
				t.Errorf("ответ = %+v", resp)
			}
		})
	}
}

func TestFingerprintGet_Messages(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		snap     scan.Snapshot
		wantMsg  string
		wantRead bool
	}{
		{
			name:    "опрос без ответа",
			snap:    scan.Snapshot{State: scan.StatePolling, MaxAttempts: 20, StartedAt: started},
			wantMsg: "Press your finger, waiting for capture...",
		},
		{
			name: "ожидание пальца",
			snap: scan.Snapshot{
				State: scan.StatePolling, Attempt: 3, MaxAttempts: 20, StartedAt: started,
				Reading: model.FingerprintReading{Result: model.FingerprintWaiting, Quality: "0"},
			},
			wantMsg:  "Press your finger on the scanner, waiting 3s",
			wantRead: true,
		},
		{
			name: "успех",
			snap: scan.Snapshot{
				State: scan.StateSucceeded, Attempt: 5, MaxAttempts: 20,
				StartedAt: started, FinishedAt: started.Add(5 * time.Second), CaptureTime: 4500 * time.Millisecond,
				Reading: model.FingerprintReading{Result: model.FingerprintSuccess, Quality: "80", Image: "aW1n"},
			},
			wantMsg:  "Fingerprint captured successfully",
			wantRead: true,
		},
		{
			name:    "таймаут",
			snap:    scan.Snapshot{State: scan.StateTimedOut, Attempt: 20, MaxAttempts: 20},
			wantMsg: "Wait timed out",
		},
		{
			name:    "ошибка",
			snap:    scan.Snapshot{State: scan.StateFailed, Attempt: 1, MaxAttempts: 20},
			wantMsg: "An error occurred during the scan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scans := &fakeScanner{scans: map[string]service.ScanStatus{
				testScanID: {ID: testScanID, Quality: 40, Snapshot: tt.snap},
			}}
			rec := httptest.NewRecorder()
			newFingerprintRouter(t, scans).ServeHTTP(rec,
				httptest.NewRequest(http.MethodGet, "/api/v1/fingerprint/scans/"+testScanID, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("статус = %d, ожидалось 200", rec.Code)
			}
			var resp scanResponse
			decodeBody(t, rec, &resp)
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, ожидалось %q", resp.Message, tt.wantMsg)
			}
			if (resp.Reading != nil) != tt.wantRead {
				t.Errorf("reading = %+v, ожидалось наличие: %v", resp.Reading, tt.wantRead)
			}
			if tt.snap.CaptureTime > 0 && (resp.CaptureTimeMS == nil || *resp.CaptureTimeMS != 4500) {
				t.Errorf("capture_time_ms = %v, ожидалось 4500", resp.CaptureTimeMS)
			}
		})
	}
}

func TestFingerprintGet_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantCode int
	}{
		{name: "не UUID", id: "not-a-uuid", wantCode: http.StatusBadRequest},
		{name: "не найдено", id: testScanID, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newFingerprintRouter(t, &fakeScanner{}).ServeHTTP(rec,
				httptest.NewRequest(http.MethodGet, "/api/v1/fingerprint/scans/"+tt.id, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("статус = %d, ожидалось %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestFingerprintCancel(t *testing.T) {
	scans := &fakeScanner{scans: map[string]service.ScanStatus{
		testScanID: {ID: testScanID, Snapshot: scan.Snapshot{State: scan.StatePolling, Attempt: 2, MaxAttempts: 20}},
	}}
	rec := httptest.NewRecorder()
	newFingerprintRouter(t, scans).ServeHTTP(rec,
		httptest.NewRequest(http.MethodDelete, "/api/v1/fingerprint/scans/"+testScanID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидалось 200", rec.Code)
	}
	if len(scans.cancelled) != 1 || scans.cancelled[0] != testScanID {
		t.Errorf("cancelled = %v", scans.cancelled)
	}
	var resp scanResponse
	decodeBody(t, rec, &resp)
	if resp.State != scan.StateCancelled || resp.Message != "Scan cancelled" {
		t.Errorf("ответ = %+v", resp)
	}
}

// blockingReader держит попытку до отмены контекста.
type blockingReader struct {
	called chan struct{}
}

func (r *blockingReader) Capture(ctx context.Context, _ int) (model.FingerprintReading, error) {
	close(r.called)
	<-ctx.Done()
	return model.FingerprintReading{}, ctx.Err()
}

// TestFingerprintGet_FirstAttemptInFlight: пока первая попытка не вернула
// ответ, сканирование показывается как ожидание, без кода результата.
func TestFingerprintGet_FirstAttemptInFlight(t *testing.T) {
	reader := &blockingReader{called: make(chan struct{})}
	svc := service.NewFingerprintService(reader, 20, time.Minute, nil, testLogger())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})

	status, err := svc.Start(40)
	if err != nil {
		t.Fatalf("Start() вернул ошибку: %v", err)
	}
	select {
	case <-reader.called:
	case <-time.After(5 * time.Second):
		t.Fatal("первая попытка чтения не началась")
	}

	rec := httptest.NewRecorder()
	newFingerprintRouter(t, svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/fingerprint/scans/"+status.ID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидалось 200; тело: %s", rec.Code, rec.Body.String())
	}
	var resp scanResponse
	decodeBody(t, rec, &resp)
	if resp.State != scan.StatePolling || resp.Attempt != 1 {
		t.Errorf("state = %s, attempt = %d; ожидалось polling, 1", resp.State, resp.Attempt)
	}
	if resp.Message != "Press your finger, waiting for capture..." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Reading != nil {
		t.Errorf("reading = %+v, ожидалось отсутствие", resp.Reading)
	}
}
