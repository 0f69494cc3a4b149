// Пакет i18n — локализация пользовательских сообщений DeviceHub:
// коды результатов устройств, ошибки NAS, типы документов.
// Поддерживаемые языки: English (en), Русский (ru), 中文 (zh).
// Язык определяется middleware: cookie "lang" → Accept-Language → язык по умолчанию.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// Коды поддерживаемых языков.
const (
	LangEnglish = "en"
	LangRussian = "ru"
	LangChinese = "zh"
)

var (
	// SupportedLanguages — теги поддерживаемых языков. Первый — fallback matcher'а.
	SupportedLanguages = []language.Tag{
		language.English,
		language.Russian,
		language.Chinese,
	}

	matcher = language.NewMatcher(SupportedLanguages)
)

// contextKey — тип ключа для контекста (избегаем коллизий).
type contextKey string

const contextKeyLang contextKey = "i18n_lang"

// Bundle — хранилище переводов для всех языков.
// Загружается один раз при старте и передаётся компонентам явно.
type Bundle struct {
	mu          sync.RWMutex
	catalogs    map[string]map[string]string // lang → key → translation
	defaultLang string
	logger      *slog.Logger
}

// NewBundle создаёт пустой Bundle. defaultLang используется,
// когда язык не найден ни в контексте, ни в каталоге.
func NewBundle(defaultLang string, logger *slog.Logger) *Bundle {
	if defaultLang == "" {
		defaultLang = LangEnglish
	}
	return &Bundle{
		catalogs:    make(map[string]map[string]string),
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// DefaultLang возвращает язык по умолчанию.
func (b *Bundle) DefaultLang() string {
	return b.defaultLang
}

// LoadMessages загружает JSON-каталог переводов для указанного языка.
// JSON формат: {"key": "translation", ...} (плоский).
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод по ключу для указанного языка.
// Порядок поиска: lang → язык по умолчанию → en → сам ключ.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, l := range []string{lang, b.defaultLang, LangEnglish} {
		if catalog, ok := b.catalogs[l]; ok {
			if msg, ok := catalog[key]; ok {
				return msg
			}
		}
	}
	return key
}

// Translatef возвращает перевод по ключу с подстановкой аргументов.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return formatFunc(template, args...)
}

// T переводит ключ на язык из контекста запроса.
func (b *Bundle) T(ctx context.Context, key string) string {
	return b.Translate(b.lang(ctx), key)
}

// Tf переводит ключ на язык из контекста с подстановкой аргументов.
func (b *Bundle) Tf(ctx context.Context, key string, args ...any) string {
	return b.Translatef(b.lang(ctx), key, args...)
}

func (b *Bundle) lang(ctx context.Context) string {
	if l := LangFromContext(ctx); l != "" {
		return l
	}
	return b.defaultLang
}

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста. Пустая строка — язык не задан.
func LangFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(contextKeyLang).(string)
	return lang
}

// Tag возвращает language.Tag для кода языка (для сортировки по имени).
func Tag(lang string) language.Tag {
	switch lang {
	case LangRussian:
		return language.Russian
	case LangChinese:
		return language.Chinese
	default:
		return language.English
	}
}

// formatFunc — fmt.Sprintf через переменную: формат-строки приходят
// из JSON-каталогов, статическая printf-проверка к ним неприменима.
//
//nolint:govet // обход go vet printf-анализатора
var formatFunc = fmt.Sprintf

// MatchLanguage определяет лучший язык из Accept-Language заголовка.
// Возвращает "en", "ru" или "zh".
func MatchLanguage(acceptLanguage string) string {
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	switch SupportedLanguages[idx] {
	case language.Russian:
		return LangRussian
	case language.Chinese:
		return LangChinese
	default:
		return LangEnglish
	}
}

// IsSupported сообщает, поддерживается ли код языка.
func IsSupported(lang string) bool {
	switch lang {
	case LangEnglish, LangRussian, LangChinese:
		return true
	}
	return false
}
