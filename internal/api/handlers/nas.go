// nas.go — обработчик POST /api/v1/nas/logout.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
)

// SessionLogout — завершение сессии NAS (nasclient.SessionManager).
type SessionLogout interface {
	Logout(ctx context.Context) error
}

// CacheInvalidator — сброс кэша листингов (service.BrowseService).
type CacheInvalidator interface {
	Invalidate()
}

// NASHandler — управление сессией NAS.
type NASHandler struct {
	session SessionLogout
	cache   CacheInvalidator
	logger  *slog.Logger
}

// NewNASHandler создаёт обработчик.
func NewNASHandler(session SessionLogout, cache CacheInvalidator, logger *slog.Logger) *NASHandler {
	return &NASHandler{
		session: session,
		cache:   cache,
		logger:  logger.With(slog.String("component", "nas_handler")),
	}
}

// Logout завершает сессию NAS и очищает кэш листингов.
// sid сбрасывается даже при ошибке запроса logout к NAS.
func (h *NASHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cache.Invalidate()
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Warn("Ошибка выхода из NAS", slog.String("error", err.Error()))
		apierrors.NASUnavailable(w, "Не удалось завершить сессию NAS")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
