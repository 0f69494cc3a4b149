// Пакет database — подключение к PostgreSQL журнала операций через pgxpool,
// применение миграций (golang-migrate) и проверка готовности.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/devicehub/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// migrationsTable — собственная таблица версий: база журнала может быть общей с другими сервисами.
	migrationsTable = "devicehub_schema_migrations"
	// maxJournalConns — журнал пишет по одной записи на операцию, большой пул не нужен.
	maxJournalConns = 4
	applicationName = "devicehub"
)

// Connect создаёт пул подключений к PostgreSQL журнала и проверяет его ping.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	poolCfg.MaxConns = maxJournalConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула подключений: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL журнала: %w", err)
	}

	logger.Info("Подключение к PostgreSQL журнала установлено",
		slog.String("host", cfg.DBHost),
		slog.Int("port", cfg.DBPort),
		slog.String("database", cfg.DBName),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	)
	return pool, nil
}

// Migrate применяет встроенные миграции журнала (драйвер pgx5).
// Версии хранятся в devicehub_schema_migrations.
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("ошибка создания источника миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrateURL()+"&x-migrations-table="+migrationsTable)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка применения миграций журнала: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("чтение версии миграций: %w", err)
	}
	if dirty {
		return fmt.Errorf("схема журнала в состоянии dirty (версия %d), нужна ручная правка", version)
	}
	logger.Info("Миграции журнала применены", slog.Uint64("version", uint64(version)))
	return nil
}

// ReadinessChecker — проверка PostgreSQL журнала для /health/ready.
type ReadinessChecker struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewReadinessChecker создаёт проверку готовности PostgreSQL.
func NewReadinessChecker(pool *pgxpool.Pool) *ReadinessChecker {
	return &ReadinessChecker{pool: pool, timeout: 3 * time.Second}
}

// CheckReady возвращает статус ("ok", "fail") и сообщение с занятостью пула.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.pool.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("PostgreSQL журнала недоступен: %v", err)
	}
	stat := c.pool.Stat()
	return "ok", fmt.Sprintf("соединений занято %d из %d", stat.AcquiredConns(), stat.MaxConns())
}
