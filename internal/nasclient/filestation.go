// filestation.go — операции File Station: листинг, информация о файле,
// скачивание и поиск.
package nasclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// ProxyPath — путь прокси-маршрута DeviceHub для ссылок скачивания.
const ProxyPath = "/api/synology"

const (
	listAdditional = "size,time,type"
	infoAdditional = "size,time,type,perm"
)

// searchStopTimeout — таймаут запроса остановки поиска.
const searchStopTimeout = 5 * time.Second

// FileInfo — результат getinfo: запись файла и права доступа.
type FileInfo struct {
	model.FileItem
	Perm *model.RawPermissions `json:"perm,omitempty"`
}

type filesData struct {
	Files []model.RawFileEntry `json:"files"`
	Total int                  `json:"total"`
}

// List возвращает содержимое папки.
func (c *Client) List(ctx context.Context, folder string) ([]model.FileItem, error) {
	params := url.Values{
		"api":         {"SYNO.FileStation.List"},
		"version":     {"2"},
		"method":      {"list"},
		"folder_path": {folder},
		"additional":  {listAdditional},
	}

	var data filesData
	if err := c.callInto(ctx, params, &data); err != nil {
		return nil, fmt.Errorf("список %s: %w", folder, err)
	}
	return model.BuildFileItems(data.Files), nil
}

// GetInfo возвращает информацию о файле или папке.
func (c *Client) GetInfo(ctx context.Context, path string) (*FileInfo, error) {
	params := url.Values{
		"api":        {"SYNO.FileStation.List"},
		"version":    {"2"},
		"method":     {"getinfo"},
		"path":       {path},
		"additional": {infoAdditional},
	}

	var data filesData
	if err := c.callInto(ctx, params, &data); err != nil {
		return nil, fmt.Errorf("информация %s: %w", path, err)
	}
	if len(data.Files) == 0 {
		return nil, ErrNotFound
	}

	raw := data.Files[0]
	info := &FileInfo{FileItem: model.BuildFileItem(raw)}
	if raw.Additional != nil {
		info.Perm = raw.Additional.Perm
	}
	return info, nil
}

// downloadParams — параметры SYNO.FileStation.Download для path.
func downloadParams(path string) url.Values {
	return url.Values{
		"api":     {"SYNO.FileStation.Download"},
		"version": {"2"},
		"method":  {"download"},
		"path":    {path},
		"mode":    {"download"},
	}
}

// DownloadURL возвращает ссылку скачивания через прокси-маршрут.
// Ссылка не содержит sid: прокси подставляет его при каждом запросе.
func DownloadURL(path string) string {
	params := downloadParams(path)
	params.Set("endpoint", "filestation")
	return ProxyPath + "?" + params.Encode()
}

// Download открывает поток скачивания файла.
// Вызывающий ОБЯЗАН закрыть resp.Body. Статус ответа NAS не проверяется.
func (c *Client) Download(ctx context.Context, path string) (*http.Response, error) {
	resp, err := c.OpenStream(ctx, FileStationPath, downloadParams(path))
	if err != nil {
		return nil, fmt.Errorf("скачивание %s: %w", path, err)
	}
	return resp, nil
}

// Search ищет файлы по шаблону в папке folder.
//
// Последовательность: start → status (каждый SearchPollInterval, пока не finished)
// → list → stop. Поиск ограничен SearchTimeout (ErrSearchTimeout).
// stop выполняется на любом выходе после успешного start.
func (c *Client) Search(ctx context.Context, folder, pattern string) ([]model.FileItem, error) {
	searchCtx, cancel := context.WithTimeout(ctx, c.cfg.SearchTimeout)
	defer cancel()

	taskID, err := c.searchStart(searchCtx, folder, pattern)
	if err != nil {
		return nil, c.searchErr(ctx, searchCtx, err)
	}
	defer c.searchStop(ctx, taskID)

	ticker := time.NewTicker(c.cfg.SearchPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-searchCtx.Done():
			return nil, c.searchErr(ctx, searchCtx, searchCtx.Err())
		case <-ticker.C:
		}

		finished, err := c.searchStatus(searchCtx, taskID)
		if err != nil {
			return nil, c.searchErr(ctx, searchCtx, err)
		}
		if !finished {
			continue
		}

		items, err := c.searchList(searchCtx, taskID)
		if err != nil {
			return nil, c.searchErr(ctx, searchCtx, err)
		}
		return items, nil
	}
}

// searchErr отличает истечение SearchTimeout от отмены вызывающим.
func (c *Client) searchErr(parent, searchCtx context.Context, err error) error {
	if parent.Err() == nil && errors.Is(searchCtx.Err(), context.DeadlineExceeded) {
		return ErrSearchTimeout
	}
	return fmt.Errorf("поиск: %w", err)
}

func (c *Client) searchStart(ctx context.Context, folder, pattern string) (string, error) {
	params := searchParams("start")
	params.Set("folder_path", folder)
	params.Set("pattern", pattern)
	params.Set("additional", listAdditional)

	var data struct {
		TaskID string `json:"taskid"`
	}
	if err := c.callInto(ctx, params, &data); err != nil {
		return "", err
	}
	if data.TaskID == "" {
		return "", errors.New("NAS не вернул taskid поиска")
	}
	return data.TaskID, nil
}

func (c *Client) searchStatus(ctx context.Context, taskID string) (bool, error) {
	params := searchParams("status")
	params.Set("taskid", taskID)

	var data struct {
		Finished bool `json:"finished"`
	}
	if err := c.callInto(ctx, params, &data); err != nil {
		return false, err
	}
	return data.Finished, nil
}

func (c *Client) searchList(ctx context.Context, taskID string) ([]model.FileItem, error) {
	params := searchParams("list")
	params.Set("taskid", taskID)
	params.Set("additional", listAdditional)

	var data filesData
	if err := c.callInto(ctx, params, &data); err != nil {
		return nil, err
	}
	return model.BuildFileItems(data.Files), nil
}

// searchStop освобождает задачу поиска на NAS.
// Выполняется на контексте без отмены, чтобы сработать и после отмены поиска.
func (c *Client) searchStop(ctx context.Context, taskID string) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), searchStopTimeout)
	defer cancel()

	params := searchParams("stop")
	params.Set("taskid", taskID)

	if _, err := c.Call(stopCtx, FileStationPath, params); err != nil {
		c.logger.Warn("Не удалось остановить задачу поиска",
			slog.String("taskid", taskID),
			slog.String("error", err.Error()),
		)
	}
}

func searchParams(method string) url.Values {
	return url.Values{
		"api":     {"SYNO.FileStation.Search"},
		"version": {"2"},
		"method":  {method},
	}
}

// callInto выполняет запрос к File Station и декодирует data в out.
func (c *Client) callInto(ctx context.Context, params url.Values, out any) error {
	data, err := c.Call(ctx, FileStationPath, params)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("декодирование data: %w", err)
	}
	return nil
}
