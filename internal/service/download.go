// download.go — потоковое скачивание файлов NAS.
// Pipeline: sid (SessionManager) → SYNO.FileStation.Download → streaming copy клиенту.
// Клиенту пробрасываются только Content-Type, Content-Disposition и Content-Length.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/nasclient"
)

var (
	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dh_downloads_total",
		Help: "Общее количество скачиваний с NAS (по статусу).",
	}, []string{"status"})

	downloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dh_download_duration_seconds",
		Help:    "Длительность скачивания (от запроса до завершения streaming).",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})

	downloadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dh_download_bytes_total",
		Help: "Общее количество переданных байт при скачивании.",
	})

	activeDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dh_active_downloads",
		Help: "Количество активных скачиваний.",
	})
)

// proxiedHeaders — заголовки ответа NAS, пробрасываемые клиенту.
var proxiedHeaders = []string{
	"Content-Type",
	"Content-Disposition",
	"Content-Length",
}

// FileStreamer — открытие потока скачивания (nasclient.Client).
type FileStreamer interface {
	Download(ctx context.Context, path string) (*http.Response, error)
}

// DownloadService — скачивание файлов NAS.
type DownloadService struct {
	nas     FileStreamer
	journal Recorder
	logger  *slog.Logger
}

// NewDownloadService создаёт сервис скачивания.
func NewDownloadService(nas FileStreamer, journal Recorder, logger *slog.Logger) *DownloadService {
	if journal == nil {
		journal = NopRecorder{}
	}
	return &DownloadService{
		nas:     nas,
		journal: journal,
		logger:  logger.With(slog.String("component", "download_service")),
	}
}

// Download передаёт файл path клиенту.
//
// Ошибка возвращается, только если ответ клиенту ещё не начат:
// ошибка открытия потока или JSON-ошибка NAS вместо файла (*nasclient.APIError).
// Ошибка во время streaming логируется, возвращается nil.
func (ds *DownloadService) Download(ctx context.Context, w http.ResponseWriter, path string) error {
	start := time.Now()
	activeDownloads.Inc()
	defer activeDownloads.Dec()

	resp, err := ds.nas.Download(ctx, path)
	if err != nil {
		downloadsTotal.WithLabelValues("nas_error").Inc()
		record(ctx, ds.journal, model.DeviceNAS, "download", model.OutcomeFailed, "", start)
		return err
	}
	defer resp.Body.Close()

	if apiErr := nasclient.StreamError(resp); apiErr != nil {
		downloadsTotal.WithLabelValues("api_error").Inc()
		record(ctx, ds.journal, model.DeviceNAS, "download", model.OutcomeFailed, apiErr.Error(), start)
		return fmt.Errorf("скачивание %s: %w", path, apiErr)
	}

	written, err := ds.Relay(w, resp)
	if err != nil {
		ds.logger.Error("Ошибка streaming download",
			slog.Int64("bytes_written", written),
			slog.String("error", err.Error()),
		)
		downloadsTotal.WithLabelValues("stream_error").Inc()
		record(ctx, ds.journal, model.DeviceNAS, "download", model.OutcomeFailed, "stream", start)
		return nil
	}

	duration := time.Since(start)
	downloadsTotal.WithLabelValues("success").Inc()
	downloadDuration.Observe(duration.Seconds())
	record(ctx, ds.journal, model.DeviceNAS, "download", model.OutcomeOK, "", start)

	ds.logger.Debug("Download завершён",
		slog.Int64("bytes", written),
		slog.Duration("duration", duration),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}

// Relay копирует ответ NAS клиенту: разрешённые заголовки, статус и тело.
// Возвращает число переданных байт.
func (ds *DownloadService) Relay(w http.ResponseWriter, resp *http.Response) (int64, error) {
	copyHeaders(w, resp)
	w.WriteHeader(resp.StatusCode)

	written, err := io.Copy(w, resp.Body)
	downloadBytesTotal.Add(float64(written))
	return written, err
}

// copyHeaders пробрасывает разрешённые заголовки ответа NAS.
func copyHeaders(w http.ResponseWriter, resp *http.Response) {
	for _, h := range proxiedHeaders {
		if v := resp.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
}
