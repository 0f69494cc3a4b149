// browse.go — навигация по файлам NAS: уровни, сортировка, группировка,
// поиск и навигационная цепочка. Координирует nasclient, кэш листингов
// и Prometheus-метрики.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/language"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/nasclient"
)

// Ошибки сервиса навигации.
var (
	// ErrOutsideRoot — путь вне корневой папки просмотра.
	ErrOutsideRoot = errors.New("путь вне корневой папки")
	// ErrInvalidLevel — неизвестный уровень навигации.
	ErrInvalidLevel = errors.New("неизвестный уровень навигации")
	// ErrEmptyQuery — пустой поисковый запрос.
	ErrEmptyQuery = errors.New("пустой поисковый запрос")
)

var (
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dh_search_total",
		Help: "Количество поисковых запросов к NAS по результату (ok, timeout, error).",
	}, []string{"result"})
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dh_search_duration_seconds",
		Help:    "Длительность поиска на NAS.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})
)

// Level — уровень навигации.
type Level string

const (
	// LevelFirst — папки в корне
	LevelFirst Level = "first"
	// LevelSecond — папки внутри выбранной папки
	LevelSecond Level = "second"
	// LevelAll — всё содержимое выбранной папки
	LevelAll Level = "all"
)

// ParseLevel разбирает уровень; пустая строка — LevelAll.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case "", LevelAll:
		return LevelAll, nil
	case LevelFirst, LevelSecond:
		return Level(s), nil
	default:
		return "", fmt.Errorf("%w: %q, допустимые: first, second, all", ErrInvalidLevel, s)
	}
}

// ListOptions — параметры листинга.
type ListOptions struct {
	Level Level
	// SortBy — name, size, mtime; пустая строка — порядок NAS
	SortBy     string
	Descending bool
	// Filter — подстрока имени без учёта регистра
	Filter string
	Group  bool
	// Lang — язык сравнения имён при сортировке
	Lang language.Tag
}

// Listing — результат листинга.
type Listing struct {
	Path   string
	Items  []model.FileItem
	Groups map[string][]model.FileItem
}

// SearchResult — результат поиска.
type SearchResult struct {
	Folder   string
	Query    string
	Items    []model.FileItem
	Duration time.Duration
}

// FileStation — операции NAS, нужные для навигации (nasclient.Client).
type FileStation interface {
	List(ctx context.Context, folder string) ([]model.FileItem, error)
	GetInfo(ctx context.Context, path string) (*nasclient.FileInfo, error)
	Search(ctx context.Context, folder, pattern string) ([]model.FileItem, error)
}

// BrowseService — навигация по файлам NAS внутри корневой папки.
type BrowseService struct {
	nas     FileStation
	cache   *ListingCache
	root    string
	journal Recorder
	logger  *slog.Logger
}

// NewBrowseService создаёт сервис навигации.
// cache может быть nil — листинги не кэшируются.
func NewBrowseService(nas FileStation, cache *ListingCache, root string, journal Recorder, logger *slog.Logger) *BrowseService {
	if journal == nil {
		journal = NopRecorder{}
	}
	return &BrowseService{
		nas:     nas,
		cache:   cache,
		root:    root,
		journal: journal,
		logger:  logger.With(slog.String("component", "browse_service")),
	}
}

// ResolvePath нормализует путь и проверяет, что он внутри корня.
// Пустой путь — корень.
func (s *BrowseService) ResolvePath(p string) (string, error) {
	if p == "" {
		return s.root, nil
	}
	clean := path.Clean("/" + p)
	if s.root == "/" || clean == s.root || strings.HasPrefix(clean, s.root+"/") {
		return clean, nil
	}
	return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
}

// Items возвращает всё содержимое папки p (через кэш).
func (s *BrowseService) Items(ctx context.Context, p string) ([]model.FileItem, error) {
	folder, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, folder)
}

// FirstLevel возвращает папки в корне.
func (s *BrowseService) FirstLevel(ctx context.Context) ([]model.FileItem, error) {
	items, err := s.list(ctx, s.root)
	if err != nil {
		return nil, err
	}
	return model.OnlyDirs(items), nil
}

// SecondLevel возвращает папки внутри p.
func (s *BrowseService) SecondLevel(ctx context.Context, p string) ([]model.FileItem, error) {
	items, err := s.Items(ctx, p)
	if err != nil {
		return nil, err
	}
	return model.OnlyDirs(items), nil
}

// Browse возвращает листинг с учётом уровня, фильтра, сортировки и группировки.
func (s *BrowseService) Browse(ctx context.Context, p string, opts ListOptions) (*Listing, error) {
	folder, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}

	var items []model.FileItem
	switch opts.Level {
	case LevelFirst:
		folder = s.root
		items, err = s.FirstLevel(ctx)
	case LevelSecond:
		items, err = s.SecondLevel(ctx, folder)
	case LevelAll, "":
		items, err = s.list(ctx, folder)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, opts.Level)
	}
	if err != nil {
		return nil, err
	}

	items = model.FilterByName(items, opts.Filter)
	if opts.SortBy != "" {
		items = model.SortFiles(items, opts.SortBy, !opts.Descending, opts.Lang)
	}

	listing := &Listing{Path: folder, Items: items}
	if opts.Group {
		listing.Groups = model.GroupByType(items)
	}
	return listing, nil
}

// Info возвращает информацию о файле или папке.
func (s *BrowseService) Info(ctx context.Context, p string) (*nasclient.FileInfo, error) {
	resolved, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}
	return s.nas.GetInfo(ctx, resolved)
}

// Search ищет файлы по шаблону в папке p (пустой p — корень).
// Шаблон без * и ? NAS сам дополняет до поиска подстроки.
func (s *BrowseService) Search(ctx context.Context, p, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	folder, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	items, err := s.nas.Search(ctx, folder, query)
	duration := time.Since(start)
	searchDuration.Observe(duration.Seconds())

	switch {
	case errors.Is(err, nasclient.ErrSearchTimeout):
		searchTotal.WithLabelValues("timeout").Inc()
		record(ctx, s.journal, model.DeviceNAS, "search", model.OutcomeTimeout, "", start)
		return nil, err
	case err != nil:
		searchTotal.WithLabelValues("error").Inc()
		record(ctx, s.journal, model.DeviceNAS, "search", model.OutcomeFailed, "", start)
		return nil, err
	}
	searchTotal.WithLabelValues("ok").Inc()
	record(ctx, s.journal, model.DeviceNAS, "search", model.OutcomeOK, "", start)

	s.logger.Debug("Поиск выполнен",
		slog.String("folder", folder),
		slog.Int("found", len(items)),
		slog.Duration("duration", duration),
	)

	return &SearchResult{Folder: folder, Query: query, Items: items, Duration: duration}, nil
}

// Breadcrumbs возвращает навигационную цепочку от корня до p.
func (s *BrowseService) Breadcrumbs(p, rootName string) ([]model.Breadcrumb, error) {
	resolved, err := s.ResolvePath(p)
	if err != nil {
		return nil, err
	}
	return model.Breadcrumbs(s.root, rootName, resolved), nil
}

// Invalidate очищает кэш листингов.
func (s *BrowseService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *BrowseService) list(ctx context.Context, folder string) ([]model.FileItem, error) {
	if s.cache != nil {
		if items, ok := s.cache.Get(folder); ok {
			return items, nil
		}
	}

	items, err := s.nas.List(ctx, folder)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(folder, items)
	}
	return items, nil
}
