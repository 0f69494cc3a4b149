// idcard.go — чтение ID-карт: однократное и непрерывное.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// CardReader — считыватель ID-карт (idcardclient.Client).
type CardReader interface {
	ReadCard(ctx context.Context) model.IDCardResponse
}

// CardRead — результат одного чтения.
type CardRead struct {
	Response model.IDCardResponse
	Elapsed  time.Duration
	ReadAt   time.Time
}

// IDCardService — чтение ID-карт с журналированием.
type IDCardService struct {
	reader   CardReader
	interval time.Duration
	journal  Recorder
	logger   *slog.Logger
}

// NewIDCardService создаёт сервис. interval — период непрерывного чтения.
func NewIDCardService(reader CardReader, interval time.Duration, journal Recorder, logger *slog.Logger) *IDCardService {
	if journal == nil {
		journal = NopRecorder{}
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &IDCardService{
		reader:   reader,
		interval: interval,
		journal:  journal,
		logger:   logger.With(slog.String("component", "idcard_service")),
	}
}

// Interval возвращает период непрерывного чтения.
func (s *IDCardService) Interval() time.Duration {
	return s.interval
}

// Read выполняет одно чтение. Ошибки устройства отражены в Response.Result.
func (s *IDCardService) Read(ctx context.Context) CardRead {
	start := time.Now()
	resp := s.reader.ReadCard(ctx)
	read := CardRead{Response: resp, Elapsed: time.Since(start), ReadAt: start}

	outcome := model.OutcomeOK
	if !resp.OK() {
		outcome = model.OutcomeFailed
	}
	// В журнал попадает только флаг результата, без данных документа
	record(ctx, s.journal, model.DeviceIDCard, "read", outcome, "", start)
	return read
}

// Stream читает карту сразу и затем каждые Interval, передавая результат в emit,
// пока не отменён ctx или emit не вернул ошибку.
// Непрерывное чтение не журналируется.
func (s *IDCardService) Stream(ctx context.Context, emit func(CardRead) error) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		start := time.Now()
		resp := s.reader.ReadCard(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err := emit(CardRead{Response: resp, Elapsed: time.Since(start), ReadAt: start}); err != nil {
			s.logger.Debug("Непрерывное чтение остановлено", slog.String("error", err.Error()))
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
