// Пакет nasclient — HTTP-клиент File Station API сетевого хранилища.
//
// Каждый запрос получает sid от общего SessionManager. При ошибке сессии
// (HTTP 401/403 или коды 105, 106, 119) sid сбрасывается и запрос
// повторяется ровно один раз; повторная ошибка возвращается как есть.
package nasclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// maxAttempts — первая попытка и один повтор после сброса сессии.
const maxAttempts = 2

// maxEnvelopeSize — ограничение размера JSON-ответа NAS.
const maxEnvelopeSize = 16 << 20

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dh_nas_requests_total",
		Help: "Количество запросов к NAS API по результату (ok, api_error, session_error, transport_error).",
	}, []string{"result"})
	sessionRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dh_nas_session_retries_total",
		Help: "Количество повторов запросов к NAS после ошибки сессии.",
	})
)

// Config — параметры клиента NAS.
type Config struct {
	// BaseURL — адрес NAS, например http://192.168.30.249:5000
	BaseURL string
	// SearchTimeout — верхняя граница длительности поиска
	SearchTimeout time.Duration
	// SearchPollInterval — интервал опроса статуса поиска
	SearchPollInterval time.Duration
}

// Client — клиент File Station API.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	baseURL      string
	session      *SessionManager
	cfg          Config
	logger       *slog.Logger
}

// NewHTTPClients создаёт HTTP-клиенты NAS с общим транспортом.
// Первый ограничен timeout и используется для API-запросов и входа,
// второй без общего таймаута — для потокового скачивания (ограничивается контекстом).
// caCertPath — путь к CA-сертификату (пустая строка — системный пул).
func NewHTTPClients(caCertPath string, timeout time.Duration) (api *http.Client, stream *http.Client, err error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 10,
	}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, nil, fmt.Errorf("загрузка CA-сертификата NAS: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{Timeout: timeout, Transport: transport},
		&http.Client{Transport: transport},
		nil
}

// New создаёт клиент NAS.
func New(cfg Config, apiClient, streamClient *http.Client, session *SessionManager, logger *slog.Logger) *Client {
	if cfg.SearchPollInterval <= 0 {
		cfg.SearchPollInterval = time.Second
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = time.Minute
	}
	return &Client{
		httpClient:   apiClient,
		streamClient: streamClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		session:      session,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "nas_client")),
	}
}

// Session возвращает общий менеджер сессии.
func (c *Client) Session() *SessionManager {
	return c.session
}

// Call выполняет запрос к cgiPath (AuthPath или FileStationPath)
// и возвращает data успешного конверта.
func (c *Client) Call(ctx context.Context, cgiPath string, params url.Values) (json.RawMessage, error) {
	var data json.RawMessage

	err := c.withSession(ctx, func(sid string) error {
		resp, err := c.send(ctx, c.httpClient, cgiPath, params, sid)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if apiErr := statusError(resp); apiErr != nil {
			return apiErr
		}

		var env envelope
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeSize)).Decode(&env); err != nil {
			return fmt.Errorf("декодирование ответа NAS: %w", err)
		}
		if err := env.err(); err != nil {
			return err
		}
		data = env.Data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ForwardResult — ответ NAS для прозрачного проксирования.
type ForwardResult struct {
	StatusCode int
	Body       []byte
}

// Forward проксирует запрос с подстановкой sid и возвращает ответ NAS как есть.
// Ошибка сессии приводит к одному повтору; повторная ошибка сессии
// возвращается клиенту телом ответа NAS. error — только транспорт и вход.
func (c *Client) Forward(ctx context.Context, cgiPath string, params url.Values) (*ForwardResult, error) {
	var result *ForwardResult

	err := c.withSession(ctx, func(sid string) error {
		res, err := c.forward(ctx, cgiPath, params, sid)
		if err != nil {
			return err
		}
		result = res
		return sessionErrorOf(res)
	})
	if err != nil {
		if errors.Is(err, ErrSessionUnavailable) || !IsSessionError(err) || result == nil {
			return nil, err
		}
	}
	return result, nil
}

// ForwardUnauthenticated проксирует запрос без sid (вход по учётным данным клиента).
func (c *Client) ForwardUnauthenticated(ctx context.Context, cgiPath string, params url.Values) (*ForwardResult, error) {
	return c.forward(ctx, cgiPath, params, "")
}

// OpenStream выполняет потоковый запрос (скачивание) с подстановкой sid.
// Ответ с ошибкой сессии (HTTP 401/403 или JSON-конверт с кодом сессии)
// приводит к одному повтору. Если повтор снова получил ошибку сессии,
// возвращается сам ответ NAS, как в Forward. Вызывающий ОБЯЗАН закрыть resp.Body.
func (c *Client) OpenStream(ctx context.Context, cgiPath string, params url.Values) (*http.Response, error) {
	var result *http.Response

	err := c.withSession(ctx, func(sid string) error {
		result = nil
		resp, err := c.send(ctx, c.streamClient, cgiPath, params, sid)
		if err != nil {
			return err
		}

		if apiErr := statusError(resp); apiErr != nil && apiErr.SessionExpired() {
			if _, readErr := bufferBody(resp); readErr != nil {
				return readErr
			}
			result = resp
			return apiErr
		}

		// При ошибке NAS отдаёт JSON-конверт вместо файла
		if isJSON(resp.Header.Get("Content-Type")) {
			body, readErr := bufferBody(resp)
			if readErr != nil {
				return readErr
			}
			result = resp

			var env envelope
			if json.Unmarshal(body, &env) == nil {
				if envErr := env.err(); IsSessionError(envErr) {
					return envErr
				}
			}
			return nil
		}

		result = resp
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionUnavailable) || !IsSessionError(err) || result == nil {
			return nil, err
		}
	}
	return result, nil
}

// bufferBody читает тело ответа (не больше maxEnvelopeSize) и заменяет его
// копией в памяти, чтобы ответ можно было передать дальше.
func bufferBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("чтение ответа NAS: %w", err)
	}
	return body, nil
}

// withSession выполняет op с действующим sid и повторяет один раз при ошибке сессии.
func (c *Client) withSession(ctx context.Context, op func(sid string) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sid, tokenErr := c.session.Token(ctx)
		if tokenErr != nil {
			return fmt.Errorf("%w: %w", ErrSessionUnavailable, tokenErr)
		}

		err = op(sid)
		switch {
		case err == nil:
			requestsTotal.WithLabelValues("ok").Inc()
			return nil
		case IsSessionError(err):
			requestsTotal.WithLabelValues("session_error").Inc()
			c.session.InvalidateIf(sid)
		case isAPIError(err):
			requestsTotal.WithLabelValues("api_error").Inc()
			return err
		default:
			requestsTotal.WithLabelValues("transport_error").Inc()
			return err
		}

		if attempt < maxAttempts {
			sessionRetriesTotal.Inc()
			c.logger.Info("Ошибка сессии NAS, повтор после повторного входа",
				slog.String("error", err.Error()),
			)
		}
	}
	return err
}

func (c *Client) forward(ctx context.Context, cgiPath string, params url.Values, sid string) (*ForwardResult, error) {
	resp, err := c.send(ctx, c.httpClient, cgiPath, params, sid)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		return nil, fmt.Errorf("чтение ответа NAS: %w", err)
	}
	return &ForwardResult{StatusCode: resp.StatusCode, Body: body}, nil
}

// send выполняет GET {base}{cgiPath}?params&_sid=sid.
func (c *Client) send(ctx context.Context, client *http.Client, cgiPath string, params url.Values, sid string) (*http.Response, error) {
	q := make(url.Values, len(params)+1)
	for k, v := range params {
		q[k] = v
	}
	if sid != "" {
		q.Set("_sid", sid)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cgiPath+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса к NAS: %w", err)
	}

	resp, err := client.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос к NAS %s: %w", cgiPath, redactURLError(err))
	}
	return resp, nil
}

// statusError возвращает *APIError для ответа со статусом вне 2xx.
func statusError(resp *http.Response) *APIError {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	return newHTTPError(resp.StatusCode)
}

// sessionErrorOf возвращает ошибку сессии для проксируемого ответа или nil.
func sessionErrorOf(res *ForwardResult) error {
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return newHTTPError(res.StatusCode)
	}
	var env envelope
	if json.Unmarshal(res.Body, &env) != nil {
		return nil
	}
	if err := env.err(); IsSessionError(err) {
		return err
	}
	return nil
}

func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "application/json" || mt == "text/json")
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// StreamError возвращает ошибку NAS, если поток скачивания содержит
// JSON-конверт {success:false} вместо файла или NAS отклонил сессию
// (HTTP 401/403). Тело ответа при этом остаётся доступным для чтения.
func StreamError(resp *http.Response) error {
	if apiErr := statusError(resp); apiErr != nil && apiErr.SessionExpired() {
		return apiErr
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	body, err := bufferBody(resp)
	if err != nil {
		return err
	}

	var env envelope
	if json.Unmarshal(body, &env) != nil {
		return nil
	}
	return env.err()
}
