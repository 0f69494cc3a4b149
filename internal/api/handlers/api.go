// api.go — APIHandler, реализующий generated.ServerInterface.
// Объединяет обработчики устройств, файлов и health; параметры запроса
// уже разобраны сгенерированной обёрткой.
package handlers

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/bigkaa/devicehub/internal/api/generated"
)

var _ generated.ServerInterface = (*APIHandler)(nil)

// APIHandler — основной обработчик DeviceHub API.
type APIHandler struct {
	health      *HealthHandler
	openapi     *OpenAPIHandler
	fingerprint *FingerprintHandler
	idcard      *IDCardHandler
	camera      *CameraHandler
	files       *FilesHandler
	nas         *NASHandler
	journal     *JournalHandler
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	openapi *OpenAPIHandler,
	fingerprint *FingerprintHandler,
	idcard *IDCardHandler,
	camera *CameraHandler,
	files *FilesHandler,
	nas *NASHandler,
	journal *JournalHandler,
) *APIHandler {
	return &APIHandler{
		health:      health,
		openapi:     openapi,
		fingerprint: fingerprint,
		idcard:      idcard,
		camera:      camera,
		files:       files,
		nas:         nas,
		journal:     journal,
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — проверка liveness.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — проверка readiness.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetOpenAPI — встроенный OpenAPI-документ.
func (h *APIHandler) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	h.openapi.ServeHTTP(w, r)
}

// --- Сканер отпечатков ---

func (h *APIHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	h.fingerprint.Start(w, r)
}

func (h *APIHandler) GetScan(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	h.fingerprint.Get(w, r, id.String())
}

func (h *APIHandler) CancelScan(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	h.fingerprint.Cancel(w, r, id.String())
}

// --- Считыватель ID-карт ---

func (h *APIHandler) ReadIDCard(w http.ResponseWriter, r *http.Request) {
	h.idcard.Read(w, r)
}

func (h *APIHandler) StreamIDCard(w http.ResponseWriter, r *http.Request) {
	h.idcard.Stream(w, r)
}

// --- Документ-камера ---

func (h *APIHandler) ListCameras(w http.ResponseWriter, r *http.Request) {
	h.camera.Devices(w, r)
}

func (h *APIHandler) GetDisplayName(w http.ResponseWriter, r *http.Request, idx generated.DevIdx) {
	h.camera.DisplayName(w, r, idx)
}

func (h *APIHandler) GetResolutions(w http.ResponseWriter, r *http.Request, idx generated.DevIdx) {
	h.camera.Resolutions(w, r, idx)
}

func (h *APIHandler) StartPreview(w http.ResponseWriter, r *http.Request, idx generated.DevIdx) {
	h.camera.StartPreview(w, r, idx)
}

func (h *APIHandler) StopPreview(w http.ResponseWriter, r *http.Request, idx generated.DevIdx) {
	h.camera.StopPreview(w, r, idx)
}

func (h *APIHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.camera.Frame(w, r)
}

func (h *APIHandler) Capture(w http.ResponseWriter, r *http.Request) {
	h.camera.Capture(w, r)
}

func (h *APIHandler) SetDeskew(w http.ResponseWriter, r *http.Request) {
	h.camera.Deskew(w, r)
}

func (h *APIHandler) GetRotation(w http.ResponseWriter, r *http.Request) {
	h.camera.Rotation(w, r)
}

func (h *APIHandler) SetRotation(w http.ResponseWriter, r *http.Request) {
	h.camera.Rotate(w, r)
}

func (h *APIHandler) ComposeIDCard(w http.ResponseWriter, r *http.Request, step generated.ComposeIDCardParamsStep) {
	h.camera.Compose(w, r, int(step))
}

// --- Файлы NAS ---

func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request, params generated.ListFilesParams) {
	h.files.List(w, r, params)
}

func (h *APIHandler) GetFileInfo(w http.ResponseWriter, r *http.Request, params generated.GetFileInfoParams) {
	h.files.Info(w, r, params.Path)
}

func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request, params generated.DownloadFileParams) {
	h.files.Download(w, r, params.Path)
}

func (h *APIHandler) SearchFiles(w http.ResponseWriter, r *http.Request, params generated.SearchFilesParams) {
	h.files.Search(w, r, deref(params.Path), params.Q)
}

func (h *APIHandler) GetBreadcrumbs(w http.ResponseWriter, r *http.Request, params generated.GetBreadcrumbsParams) {
	h.files.Breadcrumbs(w, r, deref(params.Path))
}

// --- NAS и журнал ---

func (h *APIHandler) NasLogout(w http.ResponseWriter, r *http.Request) {
	h.nas.Logout(w, r)
}

func (h *APIHandler) ListJournal(w http.ResponseWriter, r *http.Request, params generated.ListJournalParams) {
	h.journal.List(w, r, params)
}

// deref возвращает значение необязательного параметра; nil — нулевое значение.
func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
