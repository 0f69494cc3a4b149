// Пакет fpclient — HTTP-клиент локального демона сканера отпечатков.
//
// Протокол демона: POST {base}/?send{getimgae,1,<quality>,0}
// Ответ — текст "result|quality|image|characteristic", где image "0" означает
// отсутствие изображения, а characteristic может отсутствовать.
package fpclient

import (
	"context"
	"errors"
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

// ErrInvalidParameter — параметр запроса вне допустимого диапазона.
// Запрос к устройству при этом не выполняется.
var ErrInvalidParameter = errors.New("некорректный параметр сканера")

// maxResponseSize — ограничение размера ответа демона (изображение + шаблон в base64).
const maxResponseSize = 8 << 20

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dh_fingerprint_requests_total",
	Help: "Количество запросов к демону сканера отпечатков по коду результата.",
}, []string{"result"})

// Client — клиент демона сканера отпечатков.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New создаёт клиент сканера. timeout ограничивает один запрос к демону.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With(slog.String("component", "fingerprint_client")),
	}
}

// Capture выполняет одну попытку захвата отпечатка.
//
// Ошибка транспорта или статус, отличный от 2xx, не возвращаются как error:
// результатом будет запись с кодом -103 (ошибка связи с устройством).
// error возвращается только при некорректном quality (ErrInvalidParameter)
// и при отмене ctx.
func (c *Client) Capture(ctx context.Context, quality int) (model.FingerprintReading, error) {
	if quality < 0 || quality > 100 {
		return model.FingerprintReading{}, fmt.Errorf("%w: quality=%d, допустимо 0-100", ErrInvalidParameter, quality)
	}

	reqURL := fmt.Sprintf("%s/?send{getimgae,1,%d,0}", c.baseURL, quality)

	reading, err := c.do(ctx, reqURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.FingerprintReading{}, ctxErr
		}
		c.logger.Warn("Ошибка запроса к сканеру отпечатков",
			slog.String("error", err.Error()),
		)
		reading = commErrorReading()
	}

	requestsTotal.WithLabelValues(reading.Result).Inc()
	return reading, nil
}

func (c *Client) do(ctx context.Context, reqURL string) (model.FingerprintReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, http.NoBody)
	if err != nil {
		return model.FingerprintReading{}, fmt.Errorf("создание запроса Capture: %w", err)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return model.FingerprintReading{}, fmt.Errorf("запрос Capture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FingerprintReading{}, fmt.Errorf("демон сканера вернул статус %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.FingerprintReading{}, fmt.Errorf("чтение ответа Capture: %w", err)
	}

	return ParseReading(string(body)), nil
}

// ParseReading разбирает текстовый ответ демона.
// Меньше трёх полей — запись с кодом -99.
func ParseReading(text string) model.FingerprintReading {
	parts := strings.Split(strings.TrimSpace(text), "|")
	if len(parts) < 3 {
		return model.FingerprintReading{Result: model.DefaultFingerprintResult, Quality: "0"}
	}

	reading := model.FingerprintReading{
		Result:  parts[0],
		Quality: parts[1],
	}
	if parts[2] != "0" {
		reading.Image = parts[2]
	}
	if len(parts) > 3 {
		reading.Characteristic = parts[3]
	}
	return reading
}

func commErrorReading() model.FingerprintReading {
	return model.FingerprintReading{Result: model.FingerprintCommError, Quality: "0"}
}
