package i18n

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load(LangEnglish, slog.Default())
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	return b
}

// TestCatalogsHaveSameKeys проверяет, что все каталоги содержат одинаковый набор ключей.
func TestCatalogsHaveSameKeys(t *testing.T) {
	b := newTestBundle(t)

	en := b.catalogs[LangEnglish]
	for _, lang := range []string{LangRussian, LangChinese} {
		cat := b.catalogs[lang]
		for key := range en {
			if _, ok := cat[key]; !ok {
				t.Errorf("каталог %s: нет ключа %q", lang, key)
			}
		}
		for key := range cat {
			if _, ok := en[key]; !ok {
				t.Errorf("каталог %s: лишний ключ %q", lang, key)
			}
		}
	}
}

func TestTranslate_Fallback(t *testing.T) {
	b := NewBundle(LangRussian, nil)
	_ = b.LoadMessages(LangEnglish, []byte(`{"a":"A-en","b":"B-en"}`))
	_ = b.LoadMessages(LangRussian, []byte(`{"a":"A-ru"}`))

	if got := b.Translate(LangChinese, "a"); got != "A-ru" {
		t.Errorf("Translate(zh, a) = %q, ожидается fallback на язык по умолчанию", got)
	}
	if got := b.Translate(LangRussian, "b"); got != "B-en" {
		t.Errorf("Translate(ru, b) = %q, ожидается fallback на en", got)
	}
	if got := b.Translate(LangRussian, "missing"); got != "missing" {
		t.Errorf("Translate(ru, missing) = %q, ожидается сам ключ", got)
	}
}

func TestLoadMessages_InvalidJSON(t *testing.T) {
	b := NewBundle(LangEnglish, nil)
	if err := b.LoadMessages(LangEnglish, []byte(`{`)); err == nil {
		t.Fatal("ожидалась ошибка парсинга")
	}
}

func TestFingerprintMessage(t *testing.T) {
	b := newTestBundle(t)
	ctx := WithLang(context.Background(), LangEnglish)

	tests := []struct {
		code    string
		attempt int
		want    string
	}{
		{"1", 1, "Fingerprint captured successfully"},
		{"2", 5, "Press your finger on the scanner, waiting 5s"},
		{"2", 20, "Wait timed out"},
		{"-102", 3, "No fingerprint on the device, press your finger"},
		{"-103", 1, "Device communication error"},
		{"42", 1, "Other error, code 42"},
	}
	for _, tt := range tests {
		if got := b.FingerprintMessage(ctx, tt.code, tt.attempt, 20); got != tt.want {
			t.Errorf("FingerprintMessage(%s, %d) = %q, ожидается %q", tt.code, tt.attempt, got, tt.want)
		}
	}

	zh := WithLang(context.Background(), LangChinese)
	if got := b.FingerprintMessage(zh, "2", 3, 20); got != "请按压指纹，等待时间:3s" {
		t.Errorf("zh сообщение: %q", got)
	}
}

func TestNASErrorMessage(t *testing.T) {
	b := newTestBundle(t)
	ctx := context.Background()

	if got := b.NASErrorMessage(ctx, 105); got != "Session expired" {
		t.Errorf("NASErrorMessage(105) = %q", got)
	}
	if got := b.NASErrorMessage(ctx, 999); got != "Error code 999" {
		t.Errorf("NASErrorMessage(999) = %q", got)
	}
}

func TestFileTypeName(t *testing.T) {
	b := newTestBundle(t)
	ctx := WithLang(context.Background(), LangRussian)

	if got := b.FileTypeName(ctx, "images", "png"); got != "Изображение" {
		t.Errorf("images = %q", got)
	}
	if got := b.FileTypeName(ctx, "others", "bin"); got != "Файл BIN" {
		t.Errorf("others/bin = %q", got)
	}
	if got := b.FileTypeName(ctx, "others", ""); got != "Неизвестный тип" {
		t.Errorf("others/'' = %q", got)
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"ru-RU,ru;q=0.9,en;q=0.8", LangRussian},
		{"zh-CN,zh;q=0.9", LangChinese},
		{"en-US", LangEnglish},
		{"de-DE", LangEnglish},
	}
	for _, tt := range tests {
		if got := MatchLanguage(tt.header); got != tt.want {
			t.Errorf("MatchLanguage(%q) = %q, ожидается %q", tt.header, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	b := NewBundle(LangChinese, nil)

	var got string
	h := b.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LangFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"cookie", "ru", "en-US", LangRussian},
		{"неподдерживаемый cookie", "fr", "en-US", LangEnglish},
		{"accept-language", "", "ru", LangRussian},
		{"по умолчанию", "", "", LangChinese},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			if got != tt.want {
				t.Errorf("язык = %q, ожидается %q", got, tt.want)
			}
		})
	}
}
