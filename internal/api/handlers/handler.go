// Пакет handlers — HTTP-обработчики DeviceHub API.
// handler.go — общие функции: JSON-ответы, разбор тела, ошибки параметров,
// преобразование ошибок сервисного слоя в HTTP-ответы.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/cameraclient"
	"github.com/bigkaa/devicehub/internal/i18n"
	"github.com/bigkaa/devicehub/internal/nasclient"
	"github.com/bigkaa/devicehub/internal/service"
)

// maxBodySize — предел тела JSON-запроса.
const maxBodySize = 1 << 20

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает необязательное тело запроса в dst.
// Пустое тело не считается ошибкой: dst остаётся со значениями по умолчанию.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// WriteParamError — ErrorHandlerFunc сгенерированной обёртки:
// ошибка разбора параметра запроса превращается в VALIDATION_ERROR.
func WriteParamError(w http.ResponseWriter, _ *http.Request, err error) {
	var (
		required *generated.RequiredParamError
		invalid  *generated.InvalidParamFormatError
	)
	switch {
	case errors.As(err, &required):
		apierrors.ValidationError(w, fmt.Sprintf("Параметр %s обязателен", required.ParamName))
	case errors.As(err, &invalid):
		apierrors.ValidationError(w, fmt.Sprintf("Некорректный параметр %s", invalid.ParamName))
	default:
		apierrors.ValidationError(w, err.Error())
	}
}

// writeNASError преобразует ошибку NAS или сервиса навигации в HTTP-ответ.
func writeNASError(w http.ResponseWriter, r *http.Request, msgs *i18n.Bundle, logger *slog.Logger, op string, err error) {
	var apiErr *nasclient.APIError
	switch {
	case errors.Is(err, service.ErrOutsideRoot),
		errors.Is(err, service.ErrInvalidLevel),
		errors.Is(err, service.ErrEmptyQuery):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, nasclient.ErrNotFound):
		apierrors.NotFound(w, "Файл или папка не найдены")
	case errors.Is(err, nasclient.ErrSearchTimeout):
		apierrors.Timeout(w, "Поиск на NAS не завершился вовремя")
	case errors.Is(err, nasclient.ErrSessionUnavailable):
		logger.Warn("Сессия NAS недоступна", slog.String("operation", op), slog.String("error", err.Error()))
		apierrors.NASUnavailable(w, "Не удалось получить сессию NAS")
	case errors.As(err, &apiErr):
		logger.Warn("Ошибка NAS",
			slog.String("operation", op),
			slog.Int("code", apiErr.Code),
			slog.String("message", apiErr.Message),
		)
		apierrors.NASError(w, msgs.NASErrorMessage(r.Context(), apiErr.Code))
	case errors.Is(err, context.Canceled):
		// Клиент отключился, отвечать некому
	default:
		logger.Error("Ошибка запроса к NAS", slog.String("operation", op), slog.String("error", err.Error()))
		apierrors.NASUnavailable(w, "NAS недоступен")
	}
}

// writeCameraError преобразует ошибку документ-камеры в HTTP-ответ.
func writeCameraError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var devErr *cameraclient.DeviceError
	switch {
	case errors.As(err, &devErr):
		logger.Warn("Камера вернула ошибку",
			slog.String("operation", op),
			slog.Int("code", devErr.Code),
			slog.String("message", devErr.Message),
		)
		apierrors.DeviceError(w, fmt.Sprintf("Камера: %s (код %d)", devErr.Message, devErr.Code))
	case errors.Is(err, cameraclient.ErrEmptyData):
		apierrors.DeviceError(w, "Камера не вернула изображение")
	case errors.Is(err, cameraclient.ErrInvalidStep):
		apierrors.ValidationError(w, err.Error())
	default:
		logger.Error("Камера недоступна", slog.String("operation", op), slog.String("error", err.Error()))
		apierrors.DeviceUnavailable(w, "Документ-камера недоступна")
	}
}
