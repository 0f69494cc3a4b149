package repository

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/devicehub/internal/config"
	"github.com/bigkaa/devicehub/internal/database"
	"github.com/bigkaa/devicehub/internal/domain/model"
)

func TestBuildJournalWhere_Empty(t *testing.T) {
	where, args := buildJournalWhere(JournalFilter{}, 1)
	if where != "" || len(args) != 0 {
		t.Errorf("where = %q, args = %v; ожидалось пустое условие", where, args)
	}
}

func TestBuildJournalWhere_AllFilters(t *testing.T) {
	device := model.DeviceCamera
	outcome := model.OutcomeFailed
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildJournalWhere(JournalFilter{Device: &device, Outcome: &outcome, Since: &since}, 1)

	want := "WHERE device = $1 AND outcome = $2 AND created_at >= $3"
	if where != want {
		t.Errorf("where = %q, ожидается %q", where, want)
	}
	if len(args) != 3 || args[0] != device || args[1] != outcome || args[2] != since {
		t.Errorf("args = %v", args)
	}
}

func TestBuildJournalWhere_StartArg(t *testing.T) {
	outcome := model.OutcomeOK
	where, _ := buildJournalWhere(JournalFilter{Outcome: &outcome}, 4)
	if !strings.Contains(where, "outcome = $4") {
		t.Errorf("where = %q, ожидался параметр $4", where)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, DefaultJournalLimit, 0},
		{-3, -1, DefaultJournalLimit, 0},
		{10, 5, 10, 5},
		{10000, 0, MaxJournalLimit, 0},
	}
	for _, tt := range tests {
		l, o := normalizePage(tt.limit, tt.offset)
		if l != tt.wantLimit || o != tt.wantOffset {
			t.Errorf("normalizePage(%d, %d) = (%d, %d), ожидается (%d, %d)",
				tt.limit, tt.offset, l, o, tt.wantLimit, tt.wantOffset)
		}
	}
}

// setupJournalDB поднимает PostgreSQL, применяет миграции и возвращает пул.
func setupJournalDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("devicehub_test"),
		postgres.WithUsername("devicehub"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("Некорректный port контейнера %q: %v", port.Port(), err)
	}

	cfg := &config.Config{
		DBHost:     host,
		DBPort:     portNum,
		DBName:     "devicehub_test",
		DBUser:     "devicehub",
		DBPassword: "test-password",
		DBSSLMode:  "disable",
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestJournalRepository_Integration(t *testing.T) {
	pool := setupJournalDB(t)
	repo := NewJournalRepository(pool)
	ctx := context.Background()

	entries := []model.JournalEntry{
		{Device: model.DeviceFingerprint, Operation: "scan", Outcome: model.OutcomeOK, Duration: 1500 * time.Millisecond},
		{Device: model.DeviceCamera, Operation: "capture", Outcome: model.OutcomeFailed, Detail: "code 3"},
		{Device: model.DeviceFingerprint, Operation: "scan", Outcome: model.OutcomeTimeout},
	}
	for _, e := range entries {
		if _, err := repo.Insert(ctx, e); err != nil {
			t.Fatalf("Insert() вернул ошибку: %v", err)
		}
	}

	device := model.DeviceFingerprint
	got, total, err := repo.List(ctx, JournalFilter{Device: &device})
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("total=%d len=%d, ожидается 2", total, len(got))
	}
	if got[0].Outcome != model.OutcomeTimeout {
		t.Errorf("первой должна быть последняя запись, получено %+v", got[0])
	}
	if got[1].Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, ожидается 1.5s", got[1].Duration)
	}

	n, err := repo.DeleteBefore(ctx, time.Now().Add(time.Hour))
	if err != nil || n != 3 {
		t.Errorf("DeleteBefore() = %d, %v; ожидается 3", n, err)
	}
}
