// Пакет model — доменные модели DeviceHub.
// FileItem — нормализованная запись файла NAS (File Station).
package model

import (
	"path"
	"strings"
)

// Иконочные классы файлов.
const (
	IconFolder     = "folder"
	IconInstaller  = "installer"
	IconArchive    = "archive"
	IconPDF        = "pdf"
	IconWord       = "word"
	IconExcel      = "excel"
	IconPowerPoint = "powerpoint"
	IconImage      = "image"
	IconVideo      = "video"
	IconFile       = "file"
)

// FileTimes — временные метки файла (unix-секунды).
type FileTimes struct {
	CTime int64 `json:"ctime"`
	MTime int64 `json:"mtime"`
	ATime int64 `json:"atime"`
}

// FileItem — запись файла или папки на NAS.
// Создаётся через BuildFileItem и после этого не меняется.
type FileItem struct {
	IsDir bool      `json:"isdir"`
	Name  string    `json:"name"`
	Path  string    `json:"path"`
	Size  int64     `json:"size"`
	Type  string    `json:"type"`
	Time  FileTimes `json:"time"`
}

// RawFileEntry — запись файла в ответе File Station (list, getinfo, search).
// Блок additional присутствует только если он запрошен параметром additional.
type RawFileEntry struct {
	IsDir      bool               `json:"isdir"`
	Name       string             `json:"name"`
	Path       string             `json:"path"`
	Additional *RawFileAdditional `json:"additional,omitempty"`
}

// RawFileAdditional — дополнительные атрибуты файла.
type RawFileAdditional struct {
	Size int64           `json:"size"`
	Type string          `json:"type"`
	Time *RawFileTime    `json:"time,omitempty"`
	Perm *RawPermissions `json:"perm,omitempty"`
}

// RawFileTime — временные метки File Station.
type RawFileTime struct {
	ATime  int64 `json:"atime"`
	MTime  int64 `json:"mtime"`
	CTime  int64 `json:"ctime"`
	CRTime int64 `json:"crtime"`
}

// RawPermissions — права доступа (запрашиваются только в getinfo).
type RawPermissions struct {
	POSIX int  `json:"posix"`
	IsACL bool `json:"is_acl_mode"`
}

// BuildFileItem преобразует сырую запись File Station в FileItem.
// Отсутствующие атрибуты дают нулевые значения.
func BuildFileItem(raw RawFileEntry) FileItem {
	item := FileItem{
		IsDir: raw.IsDir,
		Name:  raw.Name,
		Path:  raw.Path,
		Type:  iconFor(raw.Name, raw.IsDir),
	}
	if raw.Additional != nil {
		item.Size = raw.Additional.Size
		if t := raw.Additional.Time; t != nil {
			item.Time = FileTimes{CTime: t.CTime, MTime: t.MTime, ATime: t.ATime}
		}
	}
	return item
}

// BuildFileItems преобразует срез сырых записей.
func BuildFileItems(raw []RawFileEntry) []FileItem {
	items := make([]FileItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, BuildFileItem(r))
	}
	return items
}

func iconFor(name string, isDir bool) string {
	if isDir {
		return IconFolder
	}
	return FileIcon(name)
}

// FileIcon возвращает иконочный класс по расширению имени файла.
// Имя с пустым расширением (например, "name.") считается папкой.
func FileIcon(name string) string {
	if strings.HasSuffix(name, ".") {
		return IconFolder
	}

	switch FileExtension(name) {
	case "exe", "msi":
		return IconInstaller
	case "zip", "rar", "7z":
		return IconArchive
	case "pdf":
		return IconPDF
	case "doc", "docx":
		return IconWord
	case "xls", "xlsx":
		return IconExcel
	case "ppt", "pptx":
		return IconPowerPoint
	case "jpg", "jpeg", "png", "gif", "bmp":
		return IconImage
	case "mp4", "avi", "mov", "wmv":
		return IconVideo
	default:
		return IconFile
	}
}

// FileExtension возвращает расширение без точки в нижнем регистре.
// Для имени без точки возвращается пустая строка.
func FileExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
