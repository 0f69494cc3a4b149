// idcard.go — обработчики считывателя ID-карт:
// однократное чтение и SSE-поток непрерывного чтения.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/i18n"
	"github.com/bigkaa/devicehub/internal/service"
)

// CardReader — чтение ID-карт (service.IDCardService).
type CardReader interface {
	Read(ctx context.Context) service.CardRead
	Stream(ctx context.Context, emit func(service.CardRead) error) error
}

// IDCardHandler — обработчик считывателя ID-карт.
type IDCardHandler struct {
	cards  CardReader
	msgs   *i18n.Bundle
	logger *slog.Logger
}

// NewIDCardHandler создаёт обработчик.
func NewIDCardHandler(cards CardReader, msgs *i18n.Bundle, logger *slog.Logger) *IDCardHandler {
	return &IDCardHandler{
		cards:  cards,
		msgs:   msgs,
		logger: logger.With(slog.String("component", "idcard_handler")),
	}
}

type idCardResponse struct {
	OK           bool                 `json:"ok"`
	Message      string               `json:"message"`
	CertTypeName string               `json:"cert_type_name,omitempty"`
	ElapsedMS    int64                `json:"elapsed_ms"`
	ReadAt       time.Time            `json:"read_at"`
	Card         model.IDCardResponse `json:"card"`
}

// Read — POST /api/v1/idcard/read.
// Ошибка считывателя не является ошибкой HTTP: ok=false и текст причины.
func (h *IDCardHandler) Read(w http.ResponseWriter, r *http.Request) {
	read := h.cards.Read(r.Context())
	writeJSON(w, http.StatusOK, h.response(r.Context(), read))
}

// Stream — GET /api/v1/idcard/stream.
// SSE: событие "card" сразу после подключения и далее с интервалом сервиса.
func (h *IDCardHandler) Stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		h.logger.Error("SSE не поддерживается", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Streaming не поддерживается")
		return
	}

	ctx := r.Context()
	h.logger.Debug("SSE-клиент подключён", slog.String("remote_addr", r.RemoteAddr))

	err := h.cards.Stream(ctx, func(read service.CardRead) error {
		data, err := json.Marshal(h.response(ctx, read))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: card\ndata: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil {
		h.logger.Debug("SSE-поток прерван", slog.String("error", err.Error()))
		return
	}
	h.logger.Debug("SSE-клиент отключён", slog.String("remote_addr", r.RemoteAddr))
}

func (h *IDCardHandler) response(ctx context.Context, read service.CardRead) idCardResponse {
	resp := idCardResponse{
		OK:        read.Response.OK(),
		ElapsedMS: read.Elapsed.Milliseconds(),
		ReadAt:    read.ReadAt,
		Card:      read.Response,
	}
	if resp.OK {
		resp.Message = h.msgs.T(ctx, "idcard.read.ok")
		resp.CertTypeName = h.msgs.T(ctx, model.CertTypeKey(read.Response.Info.CertType))
	} else {
		resp.Message = h.msgs.Tf(ctx, "idcard.read.failed", read.Response.Result.ErrorMsg)
	}
	return resp
}
