// Пакет idcardclient — HTTP-клиент локального демона считывателя ID-карт.
// Протокол: POST {base}/cgi-bin/readCard, ответ — JSON {info, result}.
package idcardclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// FailureFlag — resultFlag записи, подставляемой при ошибке связи.
const FailureFlag = -1

const maxResponseSize = 4 << 20

var readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dh_idcard_reads_total",
	Help: "Количество чтений ID-карт по результату (ok, failed, error).",
}, []string{"result"})

// Client — клиент демона считывателя ID-карт.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New создаёт клиент считывателя.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With(slog.String("component", "idcard_client")),
	}
}

// ReadCard читает документ, приложенный к считывателю.
// Любая ошибка превращается в запись с resultFlag -1 и текстом ошибки.
func (c *Client) ReadCard(ctx context.Context) model.IDCardResponse {
	resp, err := c.readCard(ctx)
	if err != nil {
		c.logger.Warn("Ошибка чтения ID-карты", slog.String("error", err.Error()))
		readsTotal.WithLabelValues("error").Inc()
		return model.IDCardResponse{
			Result: model.IDCardResult{ResultFlag: FailureFlag, ErrorMsg: err.Error()},
		}
	}

	if resp.OK() {
		readsTotal.WithLabelValues("ok").Inc()
	} else {
		readsTotal.WithLabelValues("failed").Inc()
	}
	return resp
}

func (c *Client) readCard(ctx context.Context) (model.IDCardResponse, error) {
	var out model.IDCardResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cgi-bin/readCard", http.NoBody)
	if err != nil {
		return out, fmt.Errorf("создание запроса readCard: %w", err)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return out, fmt.Errorf("запрос readCard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, fmt.Errorf("считыватель вернул статус %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return model.IDCardResponse{}, fmt.Errorf("декодирование ответа readCard: %w", err)
	}
	return out, nil
}
