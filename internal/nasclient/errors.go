// errors.go — ошибки NAS API и классификация ошибок сессии.
package nasclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound — getinfo не вернул ни одной записи.
	ErrNotFound = errors.New("файл не найден на NAS")
	// ErrSearchTimeout — поиск не завершился за отведённое время.
	ErrSearchTimeout = errors.New("превышено время ожидания поиска на NAS")
	// ErrSessionUnavailable — не удалось получить сессию NAS (ошибка входа).
	ErrSessionUnavailable = errors.New("сессия NAS недоступна")
	// ErrEmptySID — NAS сообщил об успешном входе, но не вернул sid.
	ErrEmptySID = errors.New("NAS вернул пустой sid")
)

// Коды ошибок File Station, означающие недействительную сессию.
const (
	CodeSessionExpired     = 105
	CodeSessionInterrupted = 106
	CodeSIDNotFound        = 119
)

// codeMessages — описания кодов ошибок из конверта File Station.
var codeMessages = map[int]string{
	100: "неизвестная ошибка",
	101: "некорректный параметр",
	102: "версия API не поддерживается",
	103: "метод не существует",
	104: "таймаут",
	105: "сессия истекла",
	106: "сессия прервана",
	107: "недостаточно прав",
	108: "недостаточно прав",
	119: "идентификатор сессии не найден",
	400: "некорректный параметр",
	401: "неавторизованный запрос",
	402: "недействительная авторизация",
	403: "доступ запрещён",
	404: "ресурс не существует",
	405: "метод не разрешён",
	406: "неприемлемо",
	407: "требуется авторизация на прокси",
	408: "таймаут запроса",
	409: "конфликт",
	413: "слишком большой запрос",
	414: "слишком длинный URI",
	415: "неподдерживаемый тип данных",
	423: "ресурс заблокирован",
	500: "внутренняя ошибка сервера",
	501: "функция не поддерживается",
	502: "ошибка шлюза",
	503: "сервис недоступен",
	504: "таймаут шлюза",
}

// APIError — ошибка NAS API.
// HTTP=true означает, что Code — HTTP-статус ответа, иначе — код из конверта {success:false}.
type APIError struct {
	Code    int
	HTTP    bool
	Message string
}

// newAPIError создаёт ошибку по коду из конверта {success:false}.
func newAPIError(code int) *APIError {
	return &APIError{Code: code, Message: codeMessages[code]}
}

// newHTTPError создаёт ошибку по HTTP-статусу ответа NAS.
func newHTTPError(status int) *APIError {
	return &APIError{Code: status, HTTP: true, Message: http.StatusText(status)}
}

func (e *APIError) Error() string {
	kind := "код"
	if e.HTTP {
		kind = "HTTP"
	}
	if e.Message == "" {
		return fmt.Sprintf("NAS: %s %d", kind, e.Code)
	}
	return fmt.Sprintf("NAS: %s %d: %s", kind, e.Code, e.Message)
}

// SessionExpired сообщает, что ошибка вызвана недействительной сессией:
// HTTP 401/403 или коды 105, 106, 119.
func (e *APIError) SessionExpired() bool {
	if e.HTTP {
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	}
	switch e.Code {
	case CodeSessionExpired, CodeSessionInterrupted, CodeSIDNotFound:
		return true
	}
	return false
}

// IsSessionError сообщает, является ли err ошибкой недействительной сессии.
func IsSessionError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.SessionExpired()
}

// envelope — общий формат JSON-ответа NAS API.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code int `json:"code"`
}

// err возвращает *APIError для неуспешного конверта.
func (e *envelope) err() error {
	if e.Success {
		return nil
	}
	code := 100
	if e.Error != nil && e.Error.Code != 0 {
		code = e.Error.Code
	}
	return newAPIError(code)
}
