// journal.go — обработчик GET /api/v1/journal.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/repository"
	"github.com/bigkaa/devicehub/internal/service"
)

// JournalLister — чтение журнала (service.JournalService).
type JournalLister interface {
	List(ctx context.Context, filter repository.JournalFilter) (*service.JournalPage, error)
}

// JournalHandler — обработчик журнала операций.
type JournalHandler struct {
	journal JournalLister
	logger  *slog.Logger
}

// NewJournalHandler создаёт обработчик. journal == nil — журнал отключён,
// маршрут отвечает 404.
func NewJournalHandler(journal JournalLister, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{
		journal: journal,
		logger:  logger.With(slog.String("component", "journal_handler")),
	}
}

type journalEntryResponse struct {
	model.JournalEntry
	DurationMS int64 `json:"duration_ms"`
}

type journalResponse struct {
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Items  []journalEntryResponse `json:"items"`
}

// List — GET /api/v1/journal?device=&outcome=&since=&limit=&offset=.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request, params generated.ListJournalParams) {
	if h.journal == nil {
		apierrors.NotFound(w, "Журнал операций отключён")
		return
	}

	filter := repository.JournalFilter{
		Device:  (*string)(params.Device),
		Outcome: (*string)(params.Outcome),
		Since:   params.Since,
		Limit:   deref(params.Limit),
		Offset:  deref(params.Offset),
	}

	page, err := h.journal.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Ошибка чтения журнала", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось прочитать журнал операций")
		return
	}

	resp := journalResponse{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
		Items:  make([]journalEntryResponse, 0, len(page.Items)),
	}
	for _, e := range page.Items {
		resp.Items = append(resp.Items, journalEntryResponse{JournalEntry: e, DurationMS: e.DurationMS()})
	}
	writeJSON(w, http.StatusOK, resp)
}
