// proxy.go — прокси-маршрут GET /api/synology к Synology Web API.
// Параметр endpoint выбирает CGI (auth → auth.cgi, filestation → entry.cgi),
// остальные параметры передаются NAS без изменений; sid подставляется из
// общей сессии процесса.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/nasclient"
)

// NASForwarder — прозрачные запросы к NAS (nasclient.Client).
type NASForwarder interface {
	Forward(ctx context.Context, cgiPath string, params url.Values) (*nasclient.ForwardResult, error)
	ForwardUnauthenticated(ctx context.Context, cgiPath string, params url.Values) (*nasclient.ForwardResult, error)
	OpenStream(ctx context.Context, cgiPath string, params url.Values) (*http.Response, error)
}

// StreamRelay — передача потока NAS клиенту (service.DownloadService).
type StreamRelay interface {
	Relay(w http.ResponseWriter, resp *http.Response) (int64, error)
}

// SessionInvalidator — сброс кэшированного sid (nasclient.SessionManager).
type SessionInvalidator interface {
	Invalidate()
}

// cgiPaths — допустимые значения endpoint.
var cgiPaths = map[string]string{
	"auth":        nasclient.AuthPath,
	"filestation": nasclient.FileStationPath,
}

// ProxyHandler — обработчик прокси-маршрута.
type ProxyHandler struct {
	nas     NASForwarder
	relay   StreamRelay
	session SessionInvalidator
	logger  *slog.Logger
}

// NewProxyHandler создаёт обработчик прокси-маршрута.
func NewProxyHandler(nas NASForwarder, relay StreamRelay, session SessionInvalidator, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		nas:     nas,
		relay:   relay,
		session: session,
		logger:  logger.With(slog.String("component", "synology_proxy")),
	}
}

// ServeHTTP — любой метод кроме GET получает 405.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apierrors.MethodNotSupported(w, "Поддерживается только GET")
		return
	}

	params := r.URL.Query()
	endpoint := params.Get("endpoint")
	cgiPath, ok := cgiPaths[endpoint]
	if !ok {
		apierrors.ValidationError(w, "endpoint должен быть auth или filestation")
		return
	}
	method := params.Get("method")
	if params.Get("api") == "" || method == "" {
		apierrors.ValidationError(w, "Параметры api и method обязательны")
		return
	}
	params.Del("endpoint")

	ctx := r.Context()
	switch {
	case endpoint == "filestation" && method == "download":
		h.stream(w, r, cgiPath, params)
		return
	case endpoint == "auth" && method == "login":
		// Вход по учётным данным клиента: общий sid не подставляется
		res, err := h.nas.ForwardUnauthenticated(ctx, cgiPath, params)
		h.writeForward(w, res, err)
		return
	}

	res, err := h.nas.Forward(ctx, cgiPath, params)
	if err == nil && endpoint == "auth" && method == "logout" {
		h.session.Invalidate()
	}
	h.writeForward(w, res, err)
}

func (h *ProxyHandler) stream(w http.ResponseWriter, r *http.Request, cgiPath string, params url.Values) {
	resp, err := h.nas.OpenStream(r.Context(), cgiPath, params)
	if err != nil {
		h.writeTransportError(w, err)
		return
	}
	defer resp.Body.Close()

	written, err := h.relay.Relay(w, resp)
	if err != nil {
		h.logger.Warn("Прерван поток скачивания",
			slog.Int64("bytes_written", written),
			slog.String("error", err.Error()),
		)
	}
}

// writeForward передаёт ответ NAS как есть.
func (h *ProxyHandler) writeForward(w http.ResponseWriter, res *nasclient.ForwardResult, err error) {
	if err != nil {
		h.writeTransportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}

func (h *ProxyHandler) writeTransportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, nasclient.ErrSessionUnavailable):
		h.logger.Warn("Сессия NAS недоступна", slog.String("error", err.Error()))
		apierrors.NASUnavailable(w, "Не удалось получить сессию NAS")
	default:
		h.logger.Error("Ошибка проксирования к NAS", slog.String("error", err.Error()))
		apierrors.NASUnavailable(w, "NAS недоступен")
	}
}
