// fingerprint.go — реестр сканирований отпечатков.
// Сканирование запускается в фоне и живёт независимо от HTTP-запроса;
// одновременно активно не более одного (сканер однопользовательский).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/domain/scan"
)

var (
	// ErrScanNotFound — сканирование не найдено (или уже удалено по сроку хранения).
	ErrScanNotFound = errors.New("сканирование не найдено")
	// ErrScanInProgress — уже выполняется другое сканирование.
	ErrScanInProgress = errors.New("сканирование уже выполняется")
	// ErrServiceStopped — сервис остановлен.
	ErrServiceStopped = errors.New("сервис сканирования остановлен")
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dh_fingerprint_scans_total",
		Help: "Количество завершённых сканирований по итогу (success, timeout, cancelled, error).",
	}, []string{"outcome"})
	scanAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dh_fingerprint_attempts",
		Help:    "Число попыток опроса сканера на одно сканирование.",
		Buckets: []float64{1, 2, 3, 5, 8, 12, 16, 20},
	})
	activeScans = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dh_fingerprint_active_scans",
		Help: "Количество выполняющихся сканирований.",
	})
)

// ScanStatus — состояние сканирования для API.
type ScanStatus struct {
	ID      string
	Quality int
	scan.Snapshot
}

type scanEntry struct {
	id      string
	quality int
	scan    *scan.Scan
	cancel  context.CancelFunc
	done    chan struct{}
}

func (e *scanEntry) status() ScanStatus {
	return ScanStatus{ID: e.id, Quality: e.quality, Snapshot: e.scan.Snapshot()}
}

// FingerprintService — реестр сканирований.
type FingerprintService struct {
	reader      scan.Reader
	maxAttempts int
	retention   time.Duration
	journal     Recorder
	logger      *slog.Logger

	baseCtx  context.Context
	stopAll  context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	scans    map[string]*scanEntry
	activeID string
	stopped  bool
	now      func() time.Time
}

// NewFingerprintService создаёт реестр.
// retention — сколько хранить завершённые сканирования.
func NewFingerprintService(
	reader scan.Reader,
	maxAttempts int,
	retention time.Duration,
	journal Recorder,
	logger *slog.Logger,
) *FingerprintService {
	if journal == nil {
		journal = NopRecorder{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &FingerprintService{
		reader:      reader,
		maxAttempts: maxAttempts,
		retention:   retention,
		journal:     journal,
		logger:      logger.With(slog.String("component", "fingerprint_service")),
		baseCtx:     ctx,
		stopAll:     cancel,
		scans:       make(map[string]*scanEntry),
		now:         time.Now,
	}
}

// MaxAttempts возвращает предел попыток одного сканирования.
func (s *FingerprintService) MaxAttempts() int {
	return s.maxAttempts
}

// Start запускает новое сканирование с порогом качества quality.
func (s *FingerprintService) Start(quality int) (ScanStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ScanStatus{}, ErrServiceStopped
	}
	s.pruneLocked()

	if active, ok := s.scans[s.activeID]; ok && !active.scan.State().Terminal() {
		return active.status(), fmt.Errorf("%w: %s", ErrScanInProgress, active.id)
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	entry := &scanEntry{
		id:      uuid.NewString(),
		quality: quality,
		scan:    scan.New(s.maxAttempts),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.scans[entry.id] = entry
	s.activeID = entry.id

	s.wg.Add(1)
	activeScans.Inc()
	go s.run(ctx, entry)

	s.logger.Info("Сканирование запущено",
		slog.String("scan_id", entry.id),
		slog.Int("quality", quality),
	)
	return entry.status(), nil
}

func (s *FingerprintService) run(ctx context.Context, e *scanEntry) {
	defer s.wg.Done()
	defer activeScans.Dec()
	defer close(e.done)
	defer e.cancel()

	snap, err := e.scan.Run(ctx, s.reader, e.quality, nil)
	if err != nil {
		// Отменено до старта опроса
		s.logger.Debug("Сканирование не запущено",
			slog.String("scan_id", e.id),
			slog.String("error", err.Error()),
		)
		snap = e.scan.Snapshot()
	}

	scansTotal.WithLabelValues(string(snap.State)).Inc()
	scanAttempts.Observe(float64(snap.Attempt))

	attrs := []any{
		slog.String("scan_id", e.id),
		slog.String("state", string(snap.State)),
		slog.Int("attempts", snap.Attempt),
		slog.String("result", snap.Reading.Result),
	}
	if snap.Err != nil {
		attrs = append(attrs, slog.String("error", snap.Err.Error()))
		s.logger.Warn("Сканирование завершилось ошибкой", attrs...)
	} else {
		s.logger.Info("Сканирование завершено", attrs...)
	}

	s.journal.Record(context.WithoutCancel(ctx), model.JournalEntry{
		Device:    model.DeviceFingerprint,
		Operation: "scan",
		Outcome:   scanOutcome(snap.State),
		Detail:    fmt.Sprintf("attempts=%d result=%s", snap.Attempt, snap.Reading.Result),
		Duration:  snap.FinishedAt.Sub(snap.StartedAt),
	})
}

// Get возвращает состояние сканирования.
func (s *FingerprintService) Get(id string) (ScanStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	e, ok := s.scans[id]
	if !ok {
		return ScanStatus{}, ErrScanNotFound
	}
	return e.status(), nil
}

// Cancel отменяет сканирование и ждёт его завершения (или отмены ctx).
// Отмена завершённого сканирования возвращает его итоговое состояние.
func (s *FingerprintService) Cancel(ctx context.Context, id string) (ScanStatus, error) {
	s.mu.Lock()
	e, ok := s.scans[id]
	s.mu.Unlock()
	if !ok {
		return ScanStatus{}, ErrScanNotFound
	}

	e.cancel()
	return s.wait(ctx, e)
}

// Wait ждёт завершения сканирования.
func (s *FingerprintService) Wait(ctx context.Context, id string) (ScanStatus, error) {
	s.mu.Lock()
	e, ok := s.scans[id]
	s.mu.Unlock()
	if !ok {
		return ScanStatus{}, ErrScanNotFound
	}
	return s.wait(ctx, e)
}

func (s *FingerprintService) wait(ctx context.Context, e *scanEntry) (ScanStatus, error) {
	select {
	case <-e.done:
		return e.status(), nil
	case <-ctx.Done():
		return e.status(), ctx.Err()
	}
}

// Shutdown отменяет все сканирования и ждёт их завершения.
func (s *FingerprintService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.stopAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pruneLocked удаляет завершённые сканирования старше retention.
func (s *FingerprintService) pruneLocked() {
	cutoff := s.now().Add(-s.retention)
	for id, e := range s.scans {
		snap := e.scan.Snapshot()
		if snap.State.Terminal() && snap.FinishedAt.Before(cutoff) {
			delete(s.scans, id)
		}
	}
}

func scanOutcome(state scan.State) string {
	switch state {
	case scan.StateSucceeded:
		return model.OutcomeOK
	case scan.StateTimedOut:
		return model.OutcomeTimeout
	case scan.StateCancelled:
		return model.OutcomeCancelled
	default:
		return model.OutcomeFailed
	}
}
