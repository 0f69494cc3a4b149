// Пакет config — загрузка и валидация конфигурации DeviceHub
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации DeviceHub.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Язык сообщений по умолчанию (en, ru, zh)
	DefaultLang string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 0 — без ограничения, нужен для SSE и скачивания)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Локальные устройства ---

	// Базовый URL демона сканера отпечатков
	FingerprintURL string
	// Базовый URL демона считывателя ID-карт
	IDCardURL string
	// Базовый URL демона документ-камеры
	CameraURL string
	// Таймаут одного запроса к демону устройства
	DeviceTimeout time.Duration
	// Качество отпечатка по умолчанию (0-100)
	FingerprintQuality int
	// Максимальное число попыток опроса сканера
	ScanMaxAttempts int
	// Сколько хранить завершённые сканирования
	ScanRetention time.Duration
	// Интервал непрерывного чтения ID-карты
	IDCardReadInterval time.Duration
	// Health path демонов для topologymetrics
	FingerprintHealthPath string
	IDCardHealthPath      string
	CameraHealthPath      string

	// --- NAS (File Station) ---

	// Базовый URL NAS (например, http://192.168.30.249:5000)
	NASURL string
	// Учётная запись NAS
	NASUsername string
	// Пароль учётной записи NAS
	NASPassword string
	// Корневая папка просмотра
	NASRootPath string
	// Таймаут HTTP-запросов к NAS
	NASTimeout time.Duration
	// Таймаут входа (не зависит от отмены запроса вызывающего)
	NASLoginTimeout time.Duration
	// Верхняя граница длительности поиска
	NASSearchTimeout time.Duration
	// Интервал опроса статуса поиска
	NASSearchPollInterval time.Duration
	// Путь к CA-сертификату для TLS-соединений с NAS (опционально)
	NASCACertPath string
	// Health path NAS для topologymetrics
	NASHealthPath string

	// --- Кэш листингов ---

	// Максимальное количество закэшированных папок
	CacheSize int
	// TTL записи кэша
	CacheTTL time.Duration

	// --- topologymetrics ---

	// Имя группы в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Лейбл isentry=yes для всех зависимостей
	DephealthIsEntry bool

	// --- JWT (опционально) ---

	// Включить проверку JWT для /api/*
	JWTEnabled bool
	// Issuer JWT
	JWTIssuer string
	// URL JWKS endpoint
	JWTJWKSURL string
	// Допуск расхождения часов
	JWTLeeway time.Duration

	// --- Журнал операций (опционально, PostgreSQL) ---

	// Включить журнал операций
	JournalEnabled bool
	// Срок хранения записей журнала (по умолчанию 30 дней)
	JournalRetention time.Duration

	// Параметры подключения к PostgreSQL журнала
	DBHost         string
	DBPort         int
	DBName         string
	DBUser         string
	DBPassword     string
	DBSSLMode      string

	// --- OpenAPI ---

	// Валидация входящих запросов по встроенному OpenAPI-документу
	OpenAPIValidation bool

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// DH_PORT — порт HTTP-сервера (по умолчанию 8090)
	cfg.Port, err = getEnvInt("DH_PORT", 8090)
	if err != nil {
		return nil, fmt.Errorf("DH_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("DH_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// DH_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("DH_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("DH_LOG_LEVEL: %w", err)
	}

	// DH_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("DH_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("DH_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// DH_DEFAULT_LANG — язык сообщений (по умолчанию en)
	cfg.DefaultLang = getEnvDefault("DH_DEFAULT_LANG", "en")
	switch cfg.DefaultLang {
	case "en", "ru", "zh":
	default:
		return nil, fmt.Errorf("DH_DEFAULT_LANG: недопустимое значение %q, допустимые: en, ru, zh", cfg.DefaultLang)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("DH_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_HTTP_READ_TIMEOUT: %w", err)
	}

	// DH_HTTP_WRITE_TIMEOUT — 0 отключает ограничение (SSE и большие файлы)
	cfg.HTTPWriteTimeout, err = getEnvDuration("DH_HTTP_WRITE_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("DH_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("DH_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Локальные устройства ---

	if cfg.FingerprintURL, err = getEnvURL("DH_FINGERPRINT_URL", "http://127.0.0.1:8867"); err != nil {
		return nil, err
	}
	if cfg.IDCardURL, err = getEnvURL("DH_IDCARD_URL", "http://127.0.0.1:8000"); err != nil {
		return nil, err
	}
	if cfg.CameraURL, err = getEnvURL("DH_CAMERA_URL", "http://127.0.0.1:6543"); err != nil {
		return nil, err
	}

	cfg.DeviceTimeout, err = getEnvDurationFallback("DH_DEVICE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_DEVICE_TIMEOUT: %w", err)
	}

	// DH_FINGERPRINT_QUALITY — порог качества (по умолчанию 40)
	cfg.FingerprintQuality, err = getEnvInt("DH_FINGERPRINT_QUALITY", 40)
	if err != nil {
		return nil, fmt.Errorf("DH_FINGERPRINT_QUALITY: %w", err)
	}
	if cfg.FingerprintQuality < 0 || cfg.FingerprintQuality > 100 {
		return nil, fmt.Errorf("DH_FINGERPRINT_QUALITY: значение %d вне допустимого диапазона 0-100", cfg.FingerprintQuality)
	}

	// DH_SCAN_MAX_ATTEMPTS — предел попыток опроса (по умолчанию 20)
	cfg.ScanMaxAttempts, err = getEnvInt("DH_SCAN_MAX_ATTEMPTS", 20)
	if err != nil {
		return nil, fmt.Errorf("DH_SCAN_MAX_ATTEMPTS: %w", err)
	}
	if cfg.ScanMaxAttempts < 1 || cfg.ScanMaxAttempts > 1000 {
		return nil, fmt.Errorf("DH_SCAN_MAX_ATTEMPTS: значение %d вне допустимого диапазона 1-1000", cfg.ScanMaxAttempts)
	}

	cfg.ScanRetention, err = getEnvDurationFallback("DH_SCAN_RETENTION", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("DH_SCAN_RETENTION: %w", err)
	}

	// DH_IDCARD_READ_INTERVAL — интервал непрерывного чтения (по умолчанию 2s)
	cfg.IDCardReadInterval, err = getEnvDurationFallback("DH_IDCARD_READ_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_IDCARD_READ_INTERVAL: %w", err)
	}

	cfg.FingerprintHealthPath = getEnvDefault("DH_FINGERPRINT_HEALTH_PATH", "/")
	cfg.IDCardHealthPath = getEnvDefault("DH_IDCARD_HEALTH_PATH", "/")
	cfg.CameraHealthPath = getEnvDefault("DH_CAMERA_HEALTH_PATH", "/GetDeviceCount")

	// --- NAS ---

	// DH_NAS_URL — обязательный
	nasURL, err := getEnvRequired("DH_NAS_URL")
	if err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(nasURL); err != nil {
		return nil, fmt.Errorf("DH_NAS_URL: некорректный URL %q", nasURL)
	}
	cfg.NASURL = strings.TrimRight(nasURL, "/")

	// DH_NAS_USERNAME, DH_NAS_PASSWORD — обязательные, в коде не хранятся
	cfg.NASUsername, err = getEnvRequired("DH_NAS_USERNAME")
	if err != nil {
		return nil, err
	}
	cfg.NASPassword, err = getEnvRequired("DH_NAS_PASSWORD")
	if err != nil {
		return nil, err
	}

	// DH_NAS_ROOT_PATH — корневая папка (по умолчанию /home/drive)
	cfg.NASRootPath = getEnvDefault("DH_NAS_ROOT_PATH", "/home/drive")
	if !strings.HasPrefix(cfg.NASRootPath, "/") {
		return nil, fmt.Errorf("DH_NAS_ROOT_PATH: путь должен начинаться с /: %q", cfg.NASRootPath)
	}
	if len(cfg.NASRootPath) > 1 {
		cfg.NASRootPath = strings.TrimRight(cfg.NASRootPath, "/")
	}

	cfg.NASTimeout, err = getEnvDurationFallback("DH_NAS_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_NAS_TIMEOUT: %w", err)
	}
	cfg.NASLoginTimeout, err = getEnvDurationFallback("DH_NAS_LOGIN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_NAS_LOGIN_TIMEOUT: %w", err)
	}
	cfg.NASSearchTimeout, err = getEnvDurationFallback("DH_NAS_SEARCH_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_NAS_SEARCH_TIMEOUT: %w", err)
	}
	cfg.NASSearchPollInterval, err = getEnvDurationFallback("DH_NAS_SEARCH_POLL_INTERVAL", time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_NAS_SEARCH_POLL_INTERVAL: %w", err)
	}
	if cfg.NASSearchPollInterval >= cfg.NASSearchTimeout {
		return nil, fmt.Errorf("DH_NAS_SEARCH_POLL_INTERVAL: интервал %s должен быть меньше DH_NAS_SEARCH_TIMEOUT (%s)",
			cfg.NASSearchPollInterval, cfg.NASSearchTimeout)
	}

	// DH_NAS_CA_CERT_PATH — путь к CA-сертификату NAS (опционально)
	cfg.NASCACertPath = getEnvDefault("DH_NAS_CA_CERT_PATH", "")
	cfg.NASHealthPath = getEnvDefault("DH_NAS_HEALTH_PATH", "/webapi/query.cgi?api=SYNO.API.Info&version=1&method=query")

	// --- Кэш ---

	// DH_CACHE_SIZE — размер кэша листингов (по умолчанию 500)
	cfg.CacheSize, err = getEnvInt("DH_CACHE_SIZE", 500)
	if err != nil {
		return nil, fmt.Errorf("DH_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("DH_CACHE_SIZE: значение должно быть >= 0")
	}
	// DH_CACHE_TTL — 0 отключает кэш
	cfg.CacheTTL, err = getEnvDuration("DH_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_CACHE_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("DH_DEPHEALTH_GROUP", "devicehub")
	cfg.DephealthCheckInterval, err = getEnvDurationFallback("DH_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthIsEntry, err = getEnvBool("DEPHEALTH_ISENTRY", false)
	if err != nil {
		return nil, fmt.Errorf("DEPHEALTH_ISENTRY: %w", err)
	}

	// --- JWT ---

	cfg.JWTEnabled, err = getEnvBool("DH_JWT_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("DH_JWT_ENABLED: %w", err)
	}
	if cfg.JWTEnabled {
		if cfg.JWTJWKSURL, err = getEnvRequired("DH_JWT_JWKS_URL"); err != nil {
			return nil, err
		}
		if cfg.JWTIssuer, err = getEnvRequired("DH_JWT_ISSUER"); err != nil {
			return nil, err
		}
	}
	cfg.JWTLeeway, err = getEnvDuration("DH_JWT_LEEWAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_JWT_LEEWAY: %w", err)
	}

	// --- Журнал операций ---

	cfg.JournalEnabled, err = getEnvBool("DH_JOURNAL_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("DH_JOURNAL_ENABLED: %w", err)
	}
	if cfg.JournalEnabled {
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
	}
	cfg.JournalRetention, err = getEnvDurationFallback("DH_JOURNAL_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("DH_JOURNAL_RETENTION: %w", err)
	}

	// --- OpenAPI ---

	cfg.OpenAPIValidation, err = getEnvBool("DH_OPENAPI_VALIDATION", true)
	if err != nil {
		return nil, fmt.Errorf("DH_OPENAPI_VALIDATION: %w", err)
	}

	// --- Graceful shutdown ---

	// DH_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("DH_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DH_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// loadDatabase читает параметры PostgreSQL, нужные только при включённом журнале.
func loadDatabase(cfg *Config) error {
	var err error

	if cfg.DBHost, err = getEnvRequired("DH_DB_HOST"); err != nil {
		return err
	}
	cfg.DBPort, err = getEnvInt("DH_DB_PORT", 5432)
	if err != nil {
		return fmt.Errorf("DH_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("DH_DB_NAME"); err != nil {
		return err
	}
	if cfg.DBUser, err = getEnvRequired("DH_DB_USER"); err != nil {
		return err
	}
	if cfg.DBPassword, err = getEnvRequired("DH_DB_PASSWORD"); err != nil {
		return err
	}

	cfg.DBSSLMode = getEnvDefault("DH_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return fmt.Errorf("DH_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}
	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL для лейблов topologymetrics.
// Пароль в URL не включается.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s", c.DBUser, c.DBHost, c.DBPort, c.DBName)
}

// MigrateURL возвращает URL для golang-migrate (драйвер pgx5).
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvURL возвращает абсолютный URL без завершающего слэша.
func getEnvURL(key, defaultVal string) (string, error) {
	val := getEnvDefault(key, defaultVal)
	u, err := url.ParseRequestURI(val)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%s: некорректный URL %q", key, val)
	}
	return strings.TrimRight(val, "/"), nil
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvDurationFallback возвращает time.Duration из переменной окружения.
// Если переменная не задана, используется fallbackVal.
// Если задана — парсится и валидируется (> 0).
func getEnvDurationFallback(key string, fallbackVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallbackVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
