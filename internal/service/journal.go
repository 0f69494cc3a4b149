// journal.go — журнал операций с устройствами и NAS.
// Запись выполняется синхронно с коротким таймаутом; ошибка записи
// логируется и не влияет на результат операции.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/repository"
)

// journalWriteTimeout — таймаут одной записи в журнал.
const journalWriteTimeout = 2 * time.Second

// journalCleanupInterval — период удаления устаревших записей.
const journalCleanupInterval = time.Hour

var journalWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dh_journal_writes_total",
	Help: "Количество записей в журнал операций по результату (ok, error).",
}, []string{"result"})

// Recorder — приёмник записей журнала.
type Recorder interface {
	Record(ctx context.Context, entry model.JournalEntry)
}

// NopRecorder — Recorder для выключенного журнала.
type NopRecorder struct{}

// Record ничего не делает.
func (NopRecorder) Record(context.Context, model.JournalEntry) {}

// JournalPage — страница журнала.
type JournalPage struct {
	Items  []model.JournalEntry
	Total  int
	Limit  int
	Offset int
}

// JournalService — журнал операций в PostgreSQL.
type JournalService struct {
	repo      repository.JournalRepository
	retention time.Duration
	logger    *slog.Logger
}

// NewJournalService создаёт сервис журнала.
// retention — срок хранения записей для RunCleanup.
func NewJournalService(repo repository.JournalRepository, retention time.Duration, logger *slog.Logger) *JournalService {
	return &JournalService{
		repo:      repo,
		retention: retention,
		logger:    logger.With(slog.String("component", "journal")),
	}
}

// Record сохраняет запись. Отмена ctx вызывающего запись не прерывает.
func (j *JournalService) Record(ctx context.Context, entry model.JournalEntry) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalWriteTimeout)
	defer cancel()

	if _, err := j.repo.Insert(writeCtx, entry); err != nil {
		journalWritesTotal.WithLabelValues("error").Inc()
		j.logger.Warn("Не удалось записать операцию в журнал",
			slog.String("device", entry.Device),
			slog.String("operation", entry.Operation),
			slog.String("error", err.Error()),
		)
		return
	}
	journalWritesTotal.WithLabelValues("ok").Inc()
}

// List возвращает страницу журнала.
func (j *JournalService) List(ctx context.Context, filter repository.JournalFilter) (*JournalPage, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = repository.DefaultJournalLimit
	case filter.Limit > repository.MaxJournalLimit:
		filter.Limit = repository.MaxJournalLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := j.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}
	return &JournalPage{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// RunCleanup периодически удаляет записи старше retention до отмены ctx.
func (j *JournalService) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(journalCleanupInterval)
	defer ticker.Stop()

	for {
		j.cleanup(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (j *JournalService) cleanup(ctx context.Context) {
	n, err := j.repo.DeleteBefore(ctx, time.Now().Add(-j.retention))
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Warn("Ошибка очистки журнала", slog.String("error", err.Error()))
		}
		return
	}
	if n > 0 {
		j.logger.Info("Устаревшие записи журнала удалены", slog.Int64("count", n))
	}
}

// record — вспомогательная запись операции с измерением длительности.
func record(ctx context.Context, r Recorder, device, operation, outcome, detail string, started time.Time) {
	r.Record(ctx, model.JournalEntry{
		Device:    device,
		Operation: operation,
		Outcome:   outcome,
		Detail:    detail,
		Duration:  time.Since(started),
	})
}
