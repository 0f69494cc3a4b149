// Пакет cameraclient — HTTP-клиент локального демона документ-камеры.
//
// Все ответы демона имеют вид {returnCode, returnMsg, data}; returnCode 0 — успех.
// Ошибки делятся на транспортные (ErrUnavailable) и ошибки устройства (*DeviceError).
package cameraclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// Значения по умолчанию для съёмки.
const (
	DefaultSavePath = "/tmp"
	DefaultQuality  = 80
	DefaultPixFmt   = "pixfmt"
)

var (
	// ErrUnavailable — демон камеры недоступен или вернул не JSON.
	ErrUnavailable = errors.New("демон камеры недоступен")
	// ErrEmptyData — успешный ответ без ожидаемых данных.
	ErrEmptyData = errors.New("демон камеры вернул пустые данные")
	// ErrInvalidStep — шаг склейки ID-карты не 1 и не 2.
	ErrInvalidStep = errors.New("шаг склейки должен быть 1 или 2")
)

const maxResponseSize = 32 << 20

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dh_camera_requests_total",
	Help: "Количество запросов к демону документ-камеры по операции и результату.",
}, []string{"op", "result"})

// DeviceError — ошибка, возвращённая демоном (returnCode != 0).
type DeviceError struct {
	Op      string
	Code    int
	Message string
}

func (e *DeviceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("камера: %s: код %d", e.Op, e.Code)
	}
	return fmt.Sprintf("камера: %s: код %d: %s", e.Op, e.Code, e.Message)
}

// envelope — общий формат ответа демона.
type envelope struct {
	ReturnCode int             `json:"returnCode"`
	ReturnMsg  string          `json:"returnMsg"`
	Data       json.RawMessage `json:"data"`
}

type frameData struct {
	Img string `json:"img"`
}

// Client — клиент демона документ-камеры.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New создаёт клиент камеры.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With(slog.String("component", "camera_client")),
	}
}

// Devices возвращает все устройства с поддерживаемыми разрешениями.
func (c *Client) Devices(ctx context.Context) ([]model.CameraDevice, error) {
	var out []model.CameraDevice
	if err := c.call(ctx, "GetAllDisplayInfo", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeviceCount возвращает количество подключённых устройств.
func (c *Client) DeviceCount(ctx context.Context) (int, error) {
	var n int
	if err := c.call(ctx, "GetDeviceCount", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// DisplayName возвращает имя устройства.
func (c *Client) DisplayName(ctx context.Context, devIdx int) (string, error) {
	var name string
	if err := c.call(ctx, "GetDisplayName", devParams(devIdx), &name); err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("GetDisplayName: %w", ErrEmptyData)
	}
	return name, nil
}

// Resolutions возвращает список разрешений устройства.
func (c *Client) Resolutions(ctx context.Context, devIdx int) ([]model.Resolution, error) {
	var out []model.Resolution
	if err := c.call(ctx, "GetResolution", devParams(devIdx), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartPreview запускает видео-превью с разрешением resID.
func (c *Client) StartPreview(ctx context.Context, devIdx, resID int, pixFmt string) error {
	if pixFmt == "" {
		pixFmt = DefaultPixFmt
	}
	q := devParams(devIdx)
	q.Set("res_id", strconv.Itoa(resID))
	q.Set("pixfmt", pixFmt)
	return c.call(ctx, "StartPreview", q, nil)
}

// StopPreview останавливает видео-превью.
func (c *Client) StopPreview(ctx context.Context, devIdx int) error {
	return c.call(ctx, "StopPreview", devParams(devIdx), nil)
}

// Frame возвращает текущий кадр превью (base64).
func (c *Client) Frame(ctx context.Context) (string, error) {
	return c.image(ctx, "getFrame", nil)
}

// Capture делает снимок и возвращает изображение (base64).
func (c *Client) Capture(ctx context.Context, savePath string, quality int) (string, error) {
	if savePath == "" {
		savePath = DefaultSavePath
	}
	q := url.Values{}
	q.Set("savepath", savePath)
	q.Set("quality", strconv.Itoa(quality))
	return c.image(ctx, "getPic", q)
}

// EnableDeskew включает или выключает автоматическое выравнивание документа.
func (c *Client) EnableDeskew(ctx context.Context, enable bool) error {
	v := "0"
	if enable {
		v = "1"
	}
	return c.call(ctx, "EnableDeskImage", url.Values{"enable": {v}}, nil)
}

// Rotation возвращает текущий угол поворота.
func (c *Client) Rotation(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "getRotate", nil, &raw); err != nil {
		return 0, err
	}
	return parseRotation(raw)
}

// Rotate устанавливает поворот.
func (c *Client) Rotate(ctx context.Context, count int) error {
	return c.call(ctx, "Rotate", url.Values{"count": {strconv.Itoa(count)}}, nil)
}

// ComposeIDCard выполняет шаг склейки двух сторон ID-карты.
// Шаг 1 фиксирует лицевую сторону и не возвращает изображение;
// шаг 2 возвращает склеенное изображение (base64).
func (c *Client) ComposeIDCard(ctx context.Context, step int) (string, error) {
	if step != 1 && step != 2 {
		return "", ErrInvalidStep
	}
	q := url.Values{"step": {strconv.Itoa(step)}}
	if step == 1 {
		return "", c.call(ctx, "composeIDcardPic", q, nil)
	}
	return c.image(ctx, "composeIDcardPic", q)
}

func (c *Client) image(ctx context.Context, op string, q url.Values) (string, error) {
	var frame frameData
	if err := c.call(ctx, op, q, &frame); err != nil {
		return "", err
	}
	if frame.Img == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyData)
	}
	return frame.Img, nil
}

// call выполняет GET {base}/{op}?q и декодирует data в out (если out != nil).
func (c *Client) call(ctx context.Context, op string, q url.Values, out any) error {
	reqURL := c.baseURL + "/" + op
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	env, err := c.do(ctx, op, reqURL)
	if err != nil {
		requestsTotal.WithLabelValues(op, "unavailable").Inc()
		c.logger.Warn("Ошибка запроса к камере",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return err
	}

	if env.ReturnCode != 0 {
		requestsTotal.WithLabelValues(op, "device_error").Inc()
		return &DeviceError{Op: op, Code: env.ReturnCode, Message: env.ReturnMsg}
	}
	requestsTotal.WithLabelValues(op, "ok").Inc()

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%s: %w", op, ErrEmptyData)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: декодирование data: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, reqURL string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G107: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %s: статус %d, некорректный ответ: %w", ErrUnavailable, op, resp.StatusCode, err)
	}
	return &env, nil
}

func devParams(devIdx int) url.Values {
	return url.Values{"dev_idx": {strconv.Itoa(devIdx)}}
}

// parseRotation принимает угол как строку ("90") или как число (90).
func parseRotation(raw json.RawMessage) (int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, convErr := strconv.Atoi(strings.TrimSpace(s))
		if convErr != nil {
			return 0, fmt.Errorf("getRotate: некорректный угол %q", s)
		}
		return n, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("getRotate: некорректный угол %s", string(raw))
	}
	return n, nil
}
