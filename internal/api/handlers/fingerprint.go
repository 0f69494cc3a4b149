// fingerprint.go — обработчики /api/v1/fingerprint/scans.
// Сканирование асинхронное: POST создаёт его и сразу отвечает 202,
// клиент опрашивает GET до конечного состояния.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/domain/scan"
	"github.com/bigkaa/devicehub/internal/i18n"
	"github.com/bigkaa/devicehub/internal/service"
)

// FingerprintScanner — реестр сканирований (service.FingerprintService).
type FingerprintScanner interface {
	Start(quality int) (service.ScanStatus, error)
	Get(id string) (service.ScanStatus, error)
	Cancel(ctx context.Context, id string) (service.ScanStatus, error)
}

// FingerprintHandler — обработчик сканирований отпечатков.
type FingerprintHandler struct {
	scans          FingerprintScanner
	defaultQuality int
	msgs           *i18n.Bundle
	logger         *slog.Logger
}

// NewFingerprintHandler создаёт обработчик.
// defaultQuality — порог качества, если он не передан в запросе.
func NewFingerprintHandler(scans FingerprintScanner, defaultQuality int, msgs *i18n.Bundle, logger *slog.Logger) *FingerprintHandler {
	return &FingerprintHandler{
		scans:          scans,
		defaultQuality: defaultQuality,
		msgs:           msgs,
		logger:         logger.With(slog.String("component", "fingerprint_handler")),
	}
}

type scanResponse struct {
	ID            string                    `json:"id"`
	State         scan.State                `json:"state"`
	Attempt       int                       `json:"attempt"`
	MaxAttempts   int                       `json:"max_attempts"`
	Quality       int                       `json:"quality"`
	Message       string                    `json:"message"`
	Reading       *model.FingerprintReading `json:"reading,omitempty"`
	CaptureTimeMS *int64                    `json:"capture_time_ms,omitempty"`
	StartedAt     *time.Time                `json:"started_at,omitempty"`
	FinishedAt    *time.Time                `json:"finished_at,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

// Start — POST /api/v1/fingerprint/scans.
func (h *FingerprintHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req generated.StartScanJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	quality := h.defaultQuality
	if req.Quality != nil {
		quality = *req.Quality
	}
	if quality < 0 || quality > 100 {
		apierrors.ValidationError(w, "quality должно быть в диапазоне 0..100")
		return
	}

	status, err := h.scans.Start(quality)
	switch {
	case errors.Is(err, service.ErrScanInProgress):
		apierrors.Conflict(w, "Уже выполняется сканирование "+status.ID)
		return
	case errors.Is(err, service.ErrServiceStopped):
		apierrors.ServiceUnavailable(w, "Сервис сканирования остановлен")
		return
	case err != nil:
		h.logger.Error("Ошибка запуска сканирования", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось запустить сканирование")
		return
	}

	w.Header().Set("Location", "/api/v1/fingerprint/scans/"+status.ID)
	writeJSON(w, http.StatusAccepted, h.response(r.Context(), status))
}

// Get — GET /api/v1/fingerprint/scans/{id}.
func (h *FingerprintHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	status, err := h.scans.Get(id)
	if err != nil {
		h.writeScanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.response(r.Context(), status))
}

// Cancel — DELETE /api/v1/fingerprint/scans/{id}.
// Отвечает итоговым состоянием; для завершённого сканирования оно не меняется.
func (h *FingerprintHandler) Cancel(w http.ResponseWriter, r *http.Request, id string) {
	status, err := h.scans.Cancel(r.Context(), id)
	if err != nil {
		h.writeScanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.response(r.Context(), status))
}

func (h *FingerprintHandler) writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrScanNotFound):
		apierrors.NotFound(w, "Сканирование не найдено")
	case errors.Is(err, context.Canceled):
	default:
		h.logger.Error("Ошибка сканирования", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка сканирования")
	}
}

func (h *FingerprintHandler) response(ctx context.Context, s service.ScanStatus) scanResponse {
	resp := scanResponse{
		ID:          s.ID,
		State:       s.State,
		Attempt:     s.Attempt,
		MaxAttempts: s.MaxAttempts,
		Quality:     s.Quality,
		Message:     h.message(ctx, s.Snapshot),
	}
	if s.Reading.Result != "" {
		reading := s.Reading
		resp.Reading = &reading
	}
	if s.CaptureTime > 0 {
		ms := s.CaptureTime.Milliseconds()
		resp.CaptureTimeMS = &ms
	}
	if !s.StartedAt.IsZero() {
		resp.StartedAt = &s.StartedAt
	}
	if !s.FinishedAt.IsZero() {
		resp.FinishedAt = &s.FinishedAt
	}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	return resp
}

// message — сообщение пользователю для текущего состояния сканирования.
func (h *FingerprintHandler) message(ctx context.Context, s scan.Snapshot) string {
	switch s.State {
	case scan.StateIdle:
		return h.msgs.T(ctx, "fingerprint.state.idle")
	case scan.StatePolling:
		if s.Reading.Result == "" {
			return h.msgs.T(ctx, "fingerprint.state.polling")
		}
		return h.msgs.FingerprintMessage(ctx, s.Reading.Result, s.Attempt, s.MaxAttempts)
	case scan.StateSucceeded:
		return h.msgs.FingerprintMessage(ctx, model.FingerprintSuccess, s.Attempt, s.MaxAttempts)
	case scan.StateTimedOut:
		return h.msgs.T(ctx, "fingerprint.result.2.timeout")
	case scan.StateCancelled:
		return h.msgs.T(ctx, "fingerprint.state.cancelled")
	default:
		return h.msgs.T(ctx, "fingerprint.state.error")
	}
}
