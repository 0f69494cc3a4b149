// camera.go — обработчики /api/v1/camera: устройства, превью, съёмка,
// выравнивание, поворот и склейка двух сторон ID-карты.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/cameraclient"
	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/i18n"
	"github.com/bigkaa/devicehub/internal/service"
)

// Camera — операции документ-камеры (cameraclient.Client).
type Camera interface {
	Devices(ctx context.Context) ([]model.CameraDevice, error)
	DeviceCount(ctx context.Context) (int, error)
	DisplayName(ctx context.Context, devIdx int) (string, error)
	Resolutions(ctx context.Context, devIdx int) ([]model.Resolution, error)
	StartPreview(ctx context.Context, devIdx, resID int, pixFmt string) error
	StopPreview(ctx context.Context, devIdx int) error
	Frame(ctx context.Context) (string, error)
	Capture(ctx context.Context, savePath string, quality int) (string, error)
	EnableDeskew(ctx context.Context, enable bool) error
	Rotation(ctx context.Context) (int, error)
	Rotate(ctx context.Context, count int) error
	ComposeIDCard(ctx context.Context, step int) (string, error)
}

// CameraHandler — обработчик документ-камеры.
type CameraHandler struct {
	camera  Camera
	journal service.Recorder
	msgs    *i18n.Bundle
	logger  *slog.Logger
}

// NewCameraHandler создаёт обработчик. journal может быть nil.
func NewCameraHandler(camera Camera, journal service.Recorder, msgs *i18n.Bundle, logger *slog.Logger) *CameraHandler {
	if journal == nil {
		journal = service.NopRecorder{}
	}
	return &CameraHandler{
		camera:  camera,
		journal: journal,
		msgs:    msgs,
		logger:  logger.With(slog.String("component", "camera_handler")),
	}
}

type imageResponse struct {
	Image string `json:"image"`
}

// Devices — GET /api/v1/camera/devices.
func (h *CameraHandler) Devices(w http.ResponseWriter, r *http.Request) {
	count, err := h.camera.DeviceCount(r.Context())
	if err != nil {
		writeCameraError(w, h.logger, "devices", err)
		return
	}

	devices := []model.CameraDevice{}
	if count > 0 {
		if devices, err = h.camera.Devices(r.Context()); err != nil {
			writeCameraError(w, h.logger, "devices", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   count,
		"devices": devices,
	})
}

// DisplayName — GET /api/v1/camera/devices/{idx}/name.
func (h *CameraHandler) DisplayName(w http.ResponseWriter, r *http.Request, idx int) {
	if !validDevIdx(w, idx) {
		return
	}
	name, err := h.camera.DisplayName(r.Context(), idx)
	if err != nil {
		writeCameraError(w, h.logger, "display_name", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dev_idx": idx, "name": name})
}

// Resolutions — GET /api/v1/camera/devices/{idx}/resolutions.
func (h *CameraHandler) Resolutions(w http.ResponseWriter, r *http.Request, idx int) {
	if !validDevIdx(w, idx) {
		return
	}
	resolutions, err := h.camera.Resolutions(r.Context(), idx)
	if err != nil {
		writeCameraError(w, h.logger, "resolutions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resolutions": resolutions})
}

// StartPreview — POST /api/v1/camera/devices/{idx}/preview.
func (h *CameraHandler) StartPreview(w http.ResponseWriter, r *http.Request, idx int) {
	if !validDevIdx(w, idx) {
		return
	}
	var req generated.StartPreviewJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}
	resolution := deref(req.Resolution)
	if resolution < 0 {
		apierrors.ValidationError(w, "resolution не может быть отрицательным")
		return
	}
	pixFmt := deref(req.Pixfmt)
	if pixFmt == "" {
		pixFmt = cameraclient.DefaultPixFmt
	}

	if err := h.camera.StartPreview(r.Context(), idx, resolution, pixFmt); err != nil {
		writeCameraError(w, h.logger, "start_preview", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StopPreview — DELETE /api/v1/camera/devices/{idx}/preview.
func (h *CameraHandler) StopPreview(w http.ResponseWriter, r *http.Request, idx int) {
	if !validDevIdx(w, idx) {
		return
	}
	if err := h.camera.StopPreview(r.Context(), idx); err != nil {
		writeCameraError(w, h.logger, "stop_preview", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Frame — GET /api/v1/camera/frame.
func (h *CameraHandler) Frame(w http.ResponseWriter, r *http.Request) {
	img, err := h.camera.Frame(r.Context())
	if err != nil {
		writeCameraError(w, h.logger, "frame", err)
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Image: img})
}

// Capture — POST /api/v1/camera/capture.
func (h *CameraHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req generated.CaptureJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}
	quality := cameraclient.DefaultQuality
	if req.Quality != nil {
		quality = *req.Quality
	}
	if quality < 1 || quality > 100 {
		apierrors.ValidationError(w, "quality должно быть в диапазоне 1..100")
		return
	}
	savePath := deref(req.SavePath)
	if savePath == "" {
		savePath = cameraclient.DefaultSavePath
	}

	start := time.Now()
	img, err := h.camera.Capture(r.Context(), savePath, quality)
	h.record(r.Context(), "capture", err, start)
	if err != nil {
		writeCameraError(w, h.logger, "capture", err)
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Image: img})
}

// Тела deskew и rotation разбираются в указатели: отсутствие поля
// отличается от false и 0.
type deskewRequest struct {
	Enabled *bool `json:"enabled"`
}

// Deskew — PUT /api/v1/camera/deskew.
func (h *CameraHandler) Deskew(w http.ResponseWriter, r *http.Request) {
	var req deskewRequest
	if err := decodeJSON(r, &req); err != nil || req.Enabled == nil {
		apierrors.ValidationError(w, "Ожидается тело {\"enabled\": true|false}")
		return
	}
	if err := h.camera.EnableDeskew(r.Context(), *req.Enabled); err != nil {
		writeCameraError(w, h.logger, "deskew", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rotation — GET /api/v1/camera/rotation.
func (h *CameraHandler) Rotation(w http.ResponseWriter, r *http.Request) {
	rotation, err := h.camera.Rotation(r.Context())
	if err != nil {
		writeCameraError(w, h.logger, "rotation", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rotation": rotation})
}

type rotateRequest struct {
	Count *int `json:"count"`
}

// Rotate — PUT /api/v1/camera/rotation. count — число поворотов на 90°.
func (h *CameraHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := decodeJSON(r, &req); err != nil || req.Count == nil {
		apierrors.ValidationError(w, "Ожидается тело {\"count\": 0..3}")
		return
	}
	if *req.Count < 0 || *req.Count > 3 {
		apierrors.ValidationError(w, "count должно быть в диапазоне 0..3")
		return
	}
	if err := h.camera.Rotate(r.Context(), *req.Count); err != nil {
		writeCameraError(w, h.logger, "rotate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type composeResponse struct {
	Step    int    `json:"step"`
	Image   string `json:"image,omitempty"`
	Message string `json:"message"`
}

// Compose — POST /api/v1/camera/idcard-compose/{step}.
// Шаг 1 запоминает лицевую сторону, шаг 2 возвращает склеенное изображение.
func (h *CameraHandler) Compose(w http.ResponseWriter, r *http.Request, step int) {
	if step != 1 && step != 2 {
		apierrors.ValidationError(w, "step должен быть 1 или 2")
		return
	}

	start := time.Now()
	img, err := h.camera.ComposeIDCard(r.Context(), step)
	h.record(r.Context(), "compose_step"+strconv.Itoa(step), err, start)
	if err != nil {
		writeCameraError(w, h.logger, "compose", err)
		return
	}

	writeJSON(w, http.StatusOK, composeResponse{
		Step:    step,
		Image:   img,
		Message: h.msgs.T(r.Context(), "camera.compose.step"+strconv.Itoa(step)),
	})
}

// record журналирует съёмку. Изображения в журнал не попадают.
func (h *CameraHandler) record(ctx context.Context, op string, err error, start time.Time) {
	outcome := model.OutcomeOK
	if err != nil {
		outcome = model.OutcomeFailed
	}
	h.journal.Record(ctx, model.JournalEntry{
		Device:    model.DeviceCamera,
		Operation: op,
		Outcome:   outcome,
		Duration:  time.Since(start),
	})
}

// validDevIdx проверяет индекс устройства. При ошибке ответ уже записан.
func validDevIdx(w http.ResponseWriter, idx int) bool {
	if idx < 0 {
		apierrors.ValidationError(w, "Некорректный индекс устройства")
		return false
	}
	return true
}
