// loader.go — загрузка каталогов переводов из embed.FS.
package i18n

import (
	"fmt"
	"log/slog"
)

// Load создаёт Bundle и загружает в него все встроенные каталоги.
func Load(defaultLang string, logger *slog.Logger) (*Bundle, error) {
	bundle := NewBundle(defaultLang, logger)
	if err := LoadFromEmbedFS(bundle, logger); err != nil {
		return nil, err
	}
	return bundle, nil
}

// LoadFromEmbedFS загружает все каталоги переводов из встроенной файловой системы.
// Ожидаемые файлы: locales/en.json, locales/ru.json, locales/zh.json.
func LoadFromEmbedFS(bundle *Bundle, logger *slog.Logger) error {
	langs := []string{LangEnglish, LangRussian, LangChinese}

	for _, lang := range langs {
		path := fmt.Sprintf("locales/%s.json", lang)
		data, err := LocaleFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("i18n: не удалось прочитать %s: %w", path, err)
		}

		if err := bundle.LoadMessages(lang, data); err != nil {
			return err
		}
	}

	logger.Info("i18n каталоги загружены", slog.Int("languages", len(langs)))
	return nil
}
