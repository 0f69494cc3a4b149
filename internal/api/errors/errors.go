// Пакет errors — ответы с ошибками в едином формате DeviceHub:
// {"error": {"code": "...", "message": "..."}}.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок API.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeMethodNotSupported = "METHOD_NOT_SUPPORTED"
	CodeNASUnavailable     = "NAS_UNAVAILABLE"
	CodeNASError           = "NAS_ERROR"
	CodeDeviceUnavailable  = "DEVICE_UNAVAILABLE"
	CodeDeviceError        = "DEVICE_ERROR"
	CodeTimeout            = "TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden — 403 недостаточно прав.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

// Conflict — 409 конфликт состояния.
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// MethodNotSupported — 405 метод не поддерживается.
func MethodNotSupported(w http.ResponseWriter, message string) {
	w.Header().Set("Allow", http.MethodGet)
	WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotSupported, message)
}

// NASUnavailable — 502 NAS недоступен или не удалось получить сессию.
func NASUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeNASUnavailable, message)
}

// NASError — 502 NAS вернул ошибку API.
func NASError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeNASError, message)
}

// DeviceUnavailable — 502 демон устройства недоступен.
func DeviceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeDeviceUnavailable, message)
}

// DeviceError — 502 демон устройства вернул ошибку.
func DeviceError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeDeviceError, message)
}

// Timeout — 504 операция не уложилась в отведённое время.
func Timeout(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusGatewayTimeout, CodeTimeout, message)
}

// ServiceUnavailable — 503 функция выключена или сервис останавливается.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
