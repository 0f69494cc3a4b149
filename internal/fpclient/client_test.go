package fpclient

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestCapture_Success проверяет формат запроса и разбор ответа.
func TestCapture_Success(t *testing.T) {
	var gotMethod, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("1|87|aW1hZ2U=|Y2hhcg==\n"))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, testLogger())
	reading, err := c.Capture(context.Background(), 40)
	if err != nil {
		t.Fatalf("Capture() вернул ошибку: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("метод = %s, ожидается POST", gotMethod)
	}
	if gotQuery != "send{getimgae,1,40,0}" {
		t.Errorf("query = %q", gotQuery)
	}
	if !reading.Success() || reading.Quality != "87" || reading.Image != "aW1hZ2U=" || reading.Characteristic != "Y2hhcg==" {
		t.Errorf("неожиданный результат: %+v", reading)
	}
}

// TestCapture_TransportError проверяет замену ошибок связи записью -103.
func TestCapture_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, testLogger())
	reading, err := c.Capture(context.Background(), 40)
	if err != nil {
		t.Fatalf("Capture() вернул ошибку: %v", err)
	}
	if reading.Result != "-103" || reading.Quality != "0" {
		t.Errorf("ожидалась запись -103/0, получено %+v", reading)
	}

	// Недоступный демон
	srv.Close()
	reading, err = c.Capture(context.Background(), 40)
	if err != nil {
		t.Fatalf("Capture() вернул ошибку: %v", err)
	}
	if reading.Result != "-103" {
		t.Errorf("ожидалась запись -103, получено %+v", reading)
	}
}

// TestCapture_InvalidQuality проверяет, что запрос не выполняется при некорректном quality.
func TestCapture_InvalidQuality(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, testLogger())
	for _, q := range []int{-1, 101} {
		if _, err := c.Capture(context.Background(), q); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Capture(%d): ошибка = %v, ожидается ErrInvalidParameter", q, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("выполнено %d запросов, ожидается 0", calls.Load())
	}
}

// TestCapture_Cancelled проверяет, что отмена ctx возвращается как ошибка, а не как -103.
func TestCapture_Cancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 5*time.Second, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := c.Capture(ctx, 40)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ошибка = %v, ожидается context.Canceled", err)
	}
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [4]string
	}{
		{"полный ответ", "1|90|img|chr", [4]string{"1", "90", "img", "chr"}},
		{"без характеристики", "2|0|0", [4]string{"2", "0", "", ""}},
		{"нулевое изображение", "-102|10|0|", [4]string{"-102", "10", "", ""}},
		{"короткий ответ", "-101|0", [4]string{"-99", "0", "", ""}},
		{"пустой ответ", "", [4]string{"-99", "0", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseReading(tt.in)
			got := [4]string{r.Result, r.Quality, r.Image, r.Characteristic}
			if got != tt.want {
				t.Errorf("ParseReading(%q) = %v, ожидается %v", tt.in, got, tt.want)
			}
		})
	}
}
