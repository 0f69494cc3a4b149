// messages.go — сообщения по кодам устройств и NAS.
package i18n

import (
	"context"
	"strconv"
	"strings"
)

// FingerprintMessage возвращает сообщение для кода результата сканера.
// Для кода "2" в сообщение подставляется номер попытки, а при
// attempt >= maxAttempts выдаётся сообщение о таймауте.
func (b *Bundle) FingerprintMessage(ctx context.Context, code string, attempt, maxAttempts int) string {
	switch code {
	case "2":
		if attempt < maxAttempts {
			return b.Tf(ctx, "fingerprint.result.2", attempt)
		}
		return b.T(ctx, "fingerprint.result.2.timeout")
	case "1", "3", "-99", "-100", "-101", "-102", "-103", "-104":
		return b.T(ctx, "fingerprint.result."+code)
	default:
		return b.Tf(ctx, "fingerprint.result.other", code)
	}
}

// NASErrorMessage возвращает описание кода ошибки File Station.
func (b *Bundle) NASErrorMessage(ctx context.Context, code int) string {
	key := "nas.error." + strconv.Itoa(code)
	if msg := b.T(ctx, key); msg != key {
		return msg
	}
	return b.Tf(ctx, "nas.error.other", code)
}

// FileTypeName возвращает человекочитаемый тип файла по категории и расширению.
func (b *Bundle) FileTypeName(ctx context.Context, category, ext string) string {
	switch category {
	case "others":
		if ext != "" {
			return b.Tf(ctx, "file.type.ext", strings.ToUpper(ext))
		}
		return b.T(ctx, "file.type.unknown")
	default:
		return b.T(ctx, "file.type."+category)
	}
}
