// fileutil.go — группировка, сортировка, фильтрация и форматирование FileItem.
package model

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Категории файлов для группировки.
const (
	CategoryFolders       = "folders"
	CategoryImages        = "images"
	CategoryDocuments     = "documents"
	CategorySpreadsheets  = "spreadsheets"
	CategoryPresentations = "presentations"
	CategoryArchives      = "archives"
	CategoryInstallers    = "installers"
	CategoryOthers        = "others"
)

// Categories — порядок категорий в группировке.
var Categories = []string{
	CategoryFolders,
	CategoryImages,
	CategoryDocuments,
	CategorySpreadsheets,
	CategoryPresentations,
	CategoryArchives,
	CategoryInstallers,
	CategoryOthers,
}

// categoryExtensions — расширения по категориям. Проверяются в порядке Categories.
var categoryExtensions = map[string][]string{
	CategoryImages:        {"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp"},
	CategoryDocuments:     {"doc", "docx", "pdf", "txt", "rtf", "odt"},
	CategorySpreadsheets:  {"xls", "xlsx", "csv", "ods"},
	CategoryPresentations: {"ppt", "pptx", "odp"},
	CategoryArchives:      {"zip", "rar", "7z", "tar", "gz", "bz2"},
	CategoryInstallers:    {"exe", "msi", "deb", "rpm", "pkg", "dmg"},
}

// FileCategory возвращает категорию файла.
func FileCategory(item FileItem) string {
	if item.IsDir {
		return CategoryFolders
	}
	ext := FileExtension(item.Name)
	for _, c := range Categories {
		if slices.Contains(categoryExtensions[c], ext) {
			return c
		}
	}
	return CategoryOthers
}

// GroupByType раскладывает файлы по категориям.
// В результате присутствуют все категории, включая пустые.
func GroupByType(items []FileItem) map[string][]FileItem {
	groups := make(map[string][]FileItem, len(Categories))
	for _, c := range Categories {
		groups[c] = []FileItem{}
	}
	for _, item := range items {
		c := FileCategory(item)
		groups[c] = append(groups[c], item)
	}
	return groups
}

// Ключи сортировки.
const (
	SortName     = "name"
	SortSize     = "size"
	SortModified = "mtime"
)

// SortFiles возвращает отсортированную копию среза.
// by — name, size или mtime. Для name используется сопоставление строк языка tag.
// Неизвестный ключ возвращает копию без изменения порядка.
func SortFiles(items []FileItem, by string, ascending bool, tag language.Tag) []FileItem {
	out := slices.Clone(items)

	var less func(a, b FileItem) int
	switch by {
	case SortName:
		col := collate.New(tag, collate.IgnoreCase)
		less = func(a, b FileItem) int {
			return col.CompareString(a.Name, b.Name)
		}
	case SortSize:
		less = func(a, b FileItem) int {
			return cmp.Compare(a.Size, b.Size)
		}
	case SortModified:
		less = func(a, b FileItem) int {
			return cmp.Compare(a.Time.MTime, b.Time.MTime)
		}
	default:
		return out
	}

	slices.SortStableFunc(out, func(a, b FileItem) int {
		// При сортировке по размеру папки всегда идут первыми
		if by == SortSize && a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		if ascending {
			return less(a, b)
		}
		return less(b, a)
	})
	return out
}

// FilterByName оставляет записи, имя которых содержит query без учёта регистра.
// Пустой query возвращает исходный срез.
func FilterByName(items []FileItem, query string) []FileItem {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]FileItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			out = append(out, item)
		}
	}
	return out
}

// OnlyDirs оставляет только папки.
func OnlyDirs(items []FileItem) []FileItem {
	out := make([]FileItem, 0, len(items))
	for _, item := range items {
		if item.IsDir {
			out = append(out, item)
		}
	}
	return out
}

// Breadcrumb — элемент навигационной цепочки.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumbs строит цепочку от корня root до p.
// Первый элемент всегда корень с именем rootName.
// Путь вне root даёт цепочку из одного корня.
func Breadcrumbs(root, rootName, p string) []Breadcrumb {
	crumbs := []Breadcrumb{{Name: rootName, Path: root}}

	rel, ok := strings.CutPrefix(p, root)
	if !ok || (root != "/" && rel != "" && !strings.HasPrefix(rel, "/")) {
		return crumbs
	}

	current := strings.TrimRight(root, "/")
	for _, part := range strings.Split(rel, "/") {
		if part == "" {
			continue
		}
		current += "/" + part
		crumbs = append(crumbs, Breadcrumb{Name: part, Path: current})
	}
	return crumbs
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize форматирует размер в байтах: основание 1024,
// не более двух знаков после запятой, хвостовые нули отбрасываются.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// FormatDate форматирует unix-время как YYYY-MM-DD в зоне loc.
func FormatDate(unix int64, loc *time.Location) string {
	return time.Unix(unix, 0).In(loc).Format(time.DateOnly)
}
