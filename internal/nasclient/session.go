// session.go — менеджер сессии NAS (SYNO.API.Auth).
//
// Политика: один вход на всех конкурентных вызывающих (singleflight),
// без локального TTL. Сессия сбрасывается только явно — через Invalidate
// после ошибки сессии или через Logout.
package nasclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// Пути CGI-скриптов NAS.
const (
	AuthPath        = "/webapi/auth.cgi"
	FileStationPath = "/webapi/entry.cgi"
)

const sessionName = "FileStation"

var loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dh_nas_logins_total",
	Help: "Количество входов в NAS по результату (ok, error).",
}, []string{"result"})

// SessionManager хранит sid текущей сессии NAS.
// Создаётся один раз при старте и разделяется всеми компонентами процесса.
type SessionManager struct {
	httpClient   *http.Client
	baseURL      string
	username     string
	password     string //nolint:gosec // G101: поле структуры, значение из конфигурации
	loginTimeout time.Duration
	logger       *slog.Logger

	mu  sync.Mutex
	sid string

	group singleflight.Group
}

// NewSessionManager создаёт менеджер сессии.
// loginTimeout ограничивает один вход и не зависит от контекста вызывающего.
func NewSessionManager(
	httpClient *http.Client,
	baseURL string,
	username string,
	password string,
	loginTimeout time.Duration,
	logger *slog.Logger,
) *SessionManager {
	return &SessionManager{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		username:     username,
		password:     password,
		loginTimeout: loginTimeout,
		logger:       logger.With(slog.String("component", "nas_session")),
	}
}

// Token возвращает действующий sid, выполняя вход при необходимости.
//
// Конкурентные вызовы без sid ожидают один и тот же вход. Вход выполняется
// на контексте, отвязанном от отмены вызывающего, поэтому отмена одного
// ожидающего не прерывает вход для остальных. Сам вызывающий при отмене
// своего ctx сразу получает ctx.Err().
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	if sid := m.cached(); sid != "" {
		return sid, nil
	}

	ch := m.group.DoChan("login", func() (any, error) {
		if sid := m.cached(); sid != "" {
			return sid, nil
		}

		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.loginTimeout)
		defer cancel()

		sid, err := m.login(loginCtx)
		if err != nil {
			loginsTotal.WithLabelValues("error").Inc()
			m.logger.Warn("Ошибка входа в NAS", slog.String("error", err.Error()))
			return "", err
		}
		loginsTotal.WithLabelValues("ok").Inc()

		m.mu.Lock()
		m.sid = sid
		m.mu.Unlock()

		m.logger.Info("Вход в NAS выполнен")
		return sid, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate безусловно сбрасывает закэшированный sid.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.sid = ""
	m.mu.Unlock()
}

// InvalidateIf сбрасывает sid, только если в кэше всё ещё sid.
// Поздняя ошибка со старым sid не затирает уже полученный новый.
func (m *SessionManager) InvalidateIf(sid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sid == "" || m.sid != sid {
		return false
	}
	m.sid = ""
	m.logger.Debug("Сессия NAS сброшена после ошибки сессии")
	return true
}

// Logout завершает текущую сессию на NAS и сбрасывает sid.
// Без активной сессии ничего не делает.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	sid := m.sid
	m.sid = ""
	m.mu.Unlock()

	if sid == "" {
		return nil
	}

	params := url.Values{
		"api":     {"SYNO.API.Auth"},
		"version": {"1"},
		"method":  {"logout"},
		"session": {sessionName},
		"_sid":    {sid},
	}
	if _, err := m.auth(ctx, params); err != nil {
		return fmt.Errorf("выход из NAS: %w", err)
	}

	m.logger.Info("Выход из NAS выполнен")
	return nil
}

func (m *SessionManager) cached() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sid
}

func (m *SessionManager) login(ctx context.Context) (string, error) {
	params := url.Values{
		"api":     {"SYNO.API.Auth"},
		"version": {"3"},
		"method":  {"login"},
		"account": {m.username},
		"passwd":  {m.password},
		"session": {sessionName},
		"format":  {"json"},
	}

	data, err := m.auth(ctx, params)
	if err != nil {
		return "", fmt.Errorf("вход в NAS: %w", err)
	}

	var payload struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("декодирование ответа входа: %w", err)
	}
	if payload.SID == "" {
		return "", ErrEmptySID
	}
	return payload.SID, nil
}

// auth выполняет запрос к auth.cgi и возвращает data успешного конверта.
// URL запроса содержит пароль и в ошибки не попадает.
func (m *SessionManager) auth(ctx context.Context, params url.Values) (json.RawMessage, error) {
	reqURL := m.baseURL + AuthPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	resp, err := m.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос к %s: %w", AuthPath, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeSize)).Decode(&env); err != nil {
		return nil, fmt.Errorf("декодирование ответа: %w", err)
	}
	if err := env.err(); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// redactURLError убирает URL с параметрами из *url.Error.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
