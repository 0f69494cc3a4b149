// files.go — обработчики /api/v1/files: листинг, информация о файле,
// скачивание, поиск и навигационная цепочка.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/devicehub/internal/api/errors"
	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/i18n"
	"github.com/bigkaa/devicehub/internal/nasclient"
	"github.com/bigkaa/devicehub/internal/service"
)

// Browser — навигация по NAS (service.BrowseService).
type Browser interface {
	ResolvePath(p string) (string, error)
	Browse(ctx context.Context, p string, opts service.ListOptions) (*service.Listing, error)
	Info(ctx context.Context, p string) (*nasclient.FileInfo, error)
	Search(ctx context.Context, p, query string) (*service.SearchResult, error)
	Breadcrumbs(p, rootName string) ([]model.Breadcrumb, error)
}

// Downloader — передача файла клиенту (service.DownloadService).
type Downloader interface {
	Download(ctx context.Context, w http.ResponseWriter, path string) error
}

// FilesHandler — обработчик файлов NAS.
type FilesHandler struct {
	browse    Browser
	downloads Downloader
	msgs      *i18n.Bundle
	loc       *time.Location
	logger    *slog.Logger
}

// NewFilesHandler создаёт обработчик. Даты форматируются в локальной зоне.
func NewFilesHandler(browse Browser, downloads Downloader, msgs *i18n.Bundle, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		browse:    browse,
		downloads: downloads,
		msgs:      msgs,
		loc:       time.Local,
		logger:    logger.With(slog.String("component", "files_handler")),
	}
}

// fileResponse — FileItem с полями для отображения.
type fileResponse struct {
	model.FileItem
	SizeText    string `json:"size_text"`
	Modified    string `json:"modified"`
	Category    string `json:"category"`
	TypeName    string `json:"type_name"`
	DownloadURL string `json:"download_url,omitempty"`
}

type listingResponse struct {
	Path   string                    `json:"path"`
	Total  int                       `json:"total"`
	Items  []fileResponse            `json:"items"`
	Groups map[string][]fileResponse `json:"groups,omitempty"`
}

type fileInfoResponse struct {
	fileResponse
	Perm *model.RawPermissions `json:"perm,omitempty"`
}

type searchResponse struct {
	Folder     string         `json:"folder"`
	Query      string         `json:"query"`
	Total      int            `json:"total"`
	DurationMS int64          `json:"duration_ms"`
	Items      []fileResponse `json:"items"`
}

// List — GET /api/v1/files.
// Параметры: path, level (first|second|all), sort (name|size|mtime),
// order (asc|desc), filter, group.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request, params generated.ListFilesParams) {
	p, levelStr := deref(params.Path), string(deref(params.Level))
	sortBy, order := string(deref(params.Sort)), deref(params.Order)

	level, err := service.ParseLevel(levelStr)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	switch sortBy {
	case "", model.SortName, model.SortSize, model.SortModified:
	default:
		apierrors.ValidationError(w, "sort должен быть name, size или mtime")
		return
	}
	if order != "" && order != generated.ListFilesParamsOrderAsc && order != generated.ListFilesParamsOrderDesc {
		apierrors.ValidationError(w, "order должен быть asc или desc")
		return
	}

	ctx := r.Context()
	listing, err := h.browse.Browse(ctx, p, service.ListOptions{
		Level:      level,
		SortBy:     sortBy,
		Descending: order == generated.ListFilesParamsOrderDesc,
		Filter:     deref(params.Filter),
		Group:      deref(params.Group),
		Lang:       i18n.Tag(i18n.LangFromContext(ctx)),
	})
	if err != nil {
		writeNASError(w, r, h.msgs, h.logger, "list", err)
		return
	}

	resp := listingResponse{
		Path:  listing.Path,
		Total: len(listing.Items),
		Items: h.files(ctx, listing.Items),
	}
	if listing.Groups != nil {
		resp.Groups = make(map[string][]fileResponse, len(listing.Groups))
		for category, items := range listing.Groups {
			resp.Groups[category] = h.files(ctx, items)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Info — GET /api/v1/files/info?path=.
func (h *FilesHandler) Info(w http.ResponseWriter, r *http.Request, p string) {
	info, err := h.browse.Info(r.Context(), p)
	if err != nil {
		writeNASError(w, r, h.msgs, h.logger, "getinfo", err)
		return
	}
	writeJSON(w, http.StatusOK, fileInfoResponse{
		fileResponse: h.file(r.Context(), info.FileItem),
		Perm:         info.Perm,
	})
}

// Download — GET /api/v1/files/download?path=.
// Файл передаётся потоком; ошибка после начала передачи только логируется.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request, p string) {
	resolved, err := h.browse.ResolvePath(p)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.downloads.Download(r.Context(), w, resolved); err != nil {
		writeNASError(w, r, h.msgs, h.logger, "download", err)
	}
}

// Search — GET /api/v1/files/search?q=&path=.
func (h *FilesHandler) Search(w http.ResponseWriter, r *http.Request, p, q string) {
	result, err := h.browse.Search(r.Context(), p, q)
	if err != nil {
		writeNASError(w, r, h.msgs, h.logger, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Folder:     result.Folder,
		Query:      result.Query,
		Total:      len(result.Items),
		DurationMS: result.Duration.Milliseconds(),
		Items:      h.files(r.Context(), result.Items),
	})
}

// Breadcrumbs — GET /api/v1/files/breadcrumbs?path=.
func (h *FilesHandler) Breadcrumbs(w http.ResponseWriter, r *http.Request, p string) {
	crumbs, err := h.browse.Breadcrumbs(p, h.msgs.T(r.Context(), "file.root"))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": crumbs})
}

func (h *FilesHandler) files(ctx context.Context, items []model.FileItem) []fileResponse {
	out := make([]fileResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.file(ctx, item))
	}
	return out
}

func (h *FilesHandler) file(ctx context.Context, item model.FileItem) fileResponse {
	category := model.FileCategory(item)
	resp := fileResponse{
		FileItem: item,
		SizeText: model.FormatSize(item.Size),
		Category: category,
		TypeName: h.msgs.FileTypeName(ctx, category, model.FileExtension(item.Name)),
	}
	if item.Time.MTime > 0 {
		resp.Modified = model.FormatDate(item.Time.MTime, h.loc)
	}
	if !item.IsDir {
		resp.DownloadURL = nasclient.DownloadURL(item.Path)
	}
	return resp
}
