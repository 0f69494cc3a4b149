package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/domain/scan"
)

// fpReader — сканер, возвращающий "1" на попытке successAt (0 — никогда).
// При block=true каждая попытка ждёт отмены ctx.
type fpReader struct {
	calls     atomic.Int32
	successAt int32
	block     bool
}

func (r *fpReader) Capture(ctx context.Context, quality int) (model.FingerprintReading, error) {
	n := r.calls.Add(1)
	if r.block {
		<-ctx.Done()
		return model.FingerprintReading{}, ctx.Err()
	}
	if r.successAt > 0 && n >= r.successAt {
		return model.FingerprintReading{Result: model.FingerprintSuccess, Quality: "77", Image: "aW1n"}, nil
	}
	return model.FingerprintReading{Result: model.FingerprintWaiting, Quality: "0"}, nil
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestFingerprintService_Success(t *testing.T) {
	reader := &fpReader{successAt: 3}
	journal := &fakeRecorder{}
	fs := NewFingerprintService(reader, 20, time.Minute, journal, testLogger())

	started, err := fs.Start(40)
	if err != nil {
		t.Fatalf("Start() ошибка: %v", err)
	}
	if started.ID == "" || started.Quality != 40 {
		t.Errorf("Start() = %+v", started)
	}

	final, err := fs.Wait(waitCtx(t), started.ID)
	if err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}
	if final.State != scan.StateSucceeded || final.Attempt != 3 || final.Reading.Quality != "77" {
		t.Errorf("итог = %+v", final.Snapshot)
	}

	got, err := fs.Get(started.ID)
	if err != nil || got.State != scan.StateSucceeded {
		t.Errorf("Get() = %+v, %v", got, err)
	}

	e := journal.last()
	if e.Device != model.DeviceFingerprint || e.Outcome != model.OutcomeOK || e.Detail != "attempts=3 result=1" {
		t.Errorf("запись журнала = %+v", e)
	}
}

func TestFingerprintService_Timeout(t *testing.T) {
	reader := &fpReader{}
	fs := NewFingerprintService(reader, 5, time.Minute, nil, testLogger())

	st, err := fs.Start(40)
	if err != nil {
		t.Fatalf("Start() ошибка: %v", err)
	}
	final, err := fs.Wait(waitCtx(t), st.ID)
	if err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}
	if final.State != scan.StateTimedOut || reader.calls.Load() != 5 {
		t.Errorf("state=%s calls=%d, ожидается timeout и 5 попыток", final.State, reader.calls.Load())
	}
}

// TestFingerprintService_SingleActive проверяет, что второе сканирование не запускается, пока идёт первое.
func TestFingerprintService_SingleActive(t *testing.T) {
	fs := NewFingerprintService(&fpReader{block: true}, 20, time.Minute, nil, testLogger())

	first, err := fs.Start(40)
	if err != nil {
		t.Fatalf("Start() ошибка: %v", err)
	}

	active, err := fs.Start(50)
	if !errors.Is(err, ErrScanInProgress) {
		t.Fatalf("ошибка = %v, ожидается ErrScanInProgress", err)
	}
	if active.ID != first.ID {
		t.Errorf("возвращено сканирование %s, ожидается активное %s", active.ID, first.ID)
	}

	cancelled, err := fs.Cancel(waitCtx(t), first.ID)
	if err != nil {
		t.Fatalf("Cancel() ошибка: %v", err)
	}
	if cancelled.State != scan.StateCancelled {
		t.Errorf("состояние = %s, ожидается cancelled", cancelled.State)
	}

	// После отмены можно запустить новое
	if _, err := fs.Start(40); err != nil {
		t.Errorf("Start() после отмены: %v", err)
	}
	_ = fs.Shutdown(waitCtx(t))
}

func TestFingerprintService_CancelFinished(t *testing.T) {
	fs := NewFingerprintService(&fpReader{successAt: 1}, 20, time.Minute, nil, testLogger())

	st, _ := fs.Start(40)
	if _, err := fs.Wait(waitCtx(t), st.ID); err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}

	got, err := fs.Cancel(waitCtx(t), st.ID)
	if err != nil {
		t.Fatalf("Cancel() ошибка: %v", err)
	}
	if got.State != scan.StateSucceeded {
		t.Errorf("отмена завершённого изменила состояние: %s", got.State)
	}
}

func TestFingerprintService_NotFound(t *testing.T) {
	fs := NewFingerprintService(&fpReader{}, 20, time.Minute, nil, testLogger())

	if _, err := fs.Get("missing"); !errors.Is(err, ErrScanNotFound) {
		t.Errorf("Get() ошибка = %v", err)
	}
	if _, err := fs.Cancel(context.Background(), "missing"); !errors.Is(err, ErrScanNotFound) {
		t.Errorf("Cancel() ошибка = %v", err)
	}
}

// TestFingerprintService_Prune проверяет удаление завершённых сканирований по сроку хранения.
func TestFingerprintService_Prune(t *testing.T) {
	fs := NewFingerprintService(&fpReader{successAt: 1}, 20, time.Minute, nil, testLogger())

	st, _ := fs.Start(40)
	if _, err := fs.Wait(waitCtx(t), st.ID); err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}

	fs.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := fs.Get(st.ID); !errors.Is(err, ErrScanNotFound) {
		t.Errorf("ошибка = %v, ожидается удаление по сроку хранения", err)
	}
}

func TestFingerprintService_Shutdown(t *testing.T) {
	journal := &fakeRecorder{}
	fs := NewFingerprintService(&fpReader{block: true}, 20, time.Minute, journal, testLogger())

	st, err := fs.Start(40)
	if err != nil {
		t.Fatalf("Start() ошибка: %v", err)
	}
	if err := fs.Shutdown(waitCtx(t)); err != nil {
		t.Fatalf("Shutdown() ошибка: %v", err)
	}

	got, _ := fs.Get(st.ID)
	if got.State != scan.StateCancelled {
		t.Errorf("состояние после Shutdown = %s, ожидается cancelled", got.State)
	}
	if journal.last().Outcome != model.OutcomeCancelled {
		t.Errorf("итог в журнале = %q", journal.last().Outcome)
	}
	if _, err := fs.Start(40); !errors.Is(err, ErrServiceStopped) {
		t.Errorf("Start() после Shutdown: %v, ожидается ErrServiceStopped", err)
	}
}
