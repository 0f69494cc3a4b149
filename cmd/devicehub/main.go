// Точка входа DeviceHub — шлюз локальных устройств рабочего места оператора
// (сканер отпечатков, считыватель ID-карт, документ-камера) и NAS File Station.
// Загружает конфигурацию, при включённом журнале подключается к PostgreSQL
// и применяет миграции, создаёт клиенты устройств и NAS, сервисный слой,
// мониторинг зависимостей и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/devicehub/api"
	"github.com/bigkaa/devicehub/internal/api/handlers"
	"github.com/bigkaa/devicehub/internal/api/middleware"
	"github.com/bigkaa/devicehub/internal/cameraclient"
	"github.com/bigkaa/devicehub/internal/config"
	"github.com/bigkaa/devicehub/internal/database"
	"github.com/bigkaa/devicehub/internal/fpclient"
	"github.com/bigkaa/devicehub/internal/i18n"
	"github.com/bigkaa/devicehub/internal/idcardclient"
	"github.com/bigkaa/devicehub/internal/nasclient"
	"github.com/bigkaa/devicehub/internal/repository"
	"github.com/bigkaa/devicehub/internal/server"
	"github.com/bigkaa/devicehub/internal/service"
)

// jwksCheckTimeout — таймаут readiness-проверки JWKS endpoint.
const jwksCheckTimeout = 3 * time.Second

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("DeviceHub запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("default_lang", cfg.DefaultLang),
	)

	// 3. Сообщения интерфейса (en, ru, zh)
	msgs, err := i18n.Load(cfg.DefaultLang, logger)
	if err != nil {
		logger.Error("Ошибка загрузки сообщений", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Журнал операций (опционально, PostgreSQL)
	var (
		journal     service.Recorder = service.NopRecorder{}
		journalList handlers.JournalLister
		pgChecker   handlers.ReadinessChecker
		pgDB        *sql.DB
	)
	if cfg.JournalEnabled {
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		// Адаптер pgxpool → *sql.DB для topologymetrics: проверка идёт через общий пул
		pgDB = stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		journalSvc := service.NewJournalService(repository.NewJournalRepository(pool), cfg.JournalRetention, logger)
		journal = journalSvc
		journalList = journalSvc
		pgChecker = database.NewReadinessChecker(pool)

		go journalSvc.RunCleanup(ctx)
		logger.Info("Журнал операций включён",
			slog.String("retention", cfg.JournalRetention.String()),
		)
	} else {
		logger.Info("Журнал операций отключён (DH_JOURNAL_ENABLED=false)")
	}

	// 5. NAS: HTTP-клиенты, общая сессия и File Station клиент
	nasAPI, nasStream, err := nasclient.NewHTTPClients(cfg.NASCACertPath, cfg.NASTimeout)
	if err != nil {
		logger.Error("Ошибка создания HTTP-клиента NAS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	session := nasclient.NewSessionManager(nasAPI, cfg.NASURL, cfg.NASUsername, cfg.NASPassword, cfg.NASLoginTimeout, logger)
	nas := nasclient.New(nasclient.Config{
		BaseURL:            cfg.NASURL,
		SearchTimeout:      cfg.NASSearchTimeout,
		SearchPollInterval: cfg.NASSearchPollInterval,
	}, nasAPI, nasStream, session, logger)
	logger.Info("NAS клиент создан",
		slog.String("url", cfg.NASURL),
		slog.String("root", cfg.NASRootPath),
	)

	// 6. Клиенты демонов устройств
	fpClient := fpclient.New(cfg.FingerprintURL, cfg.DeviceTimeout, logger)
	cardClient := idcardclient.New(cfg.IDCardURL, cfg.DeviceTimeout, logger)
	camClient := cameraclient.New(cfg.CameraURL, cfg.DeviceTimeout, logger)

	// 7. Services
	cache := service.NewListingCache(cfg.CacheSize, cfg.CacheTTL)
	browseSvc := service.NewBrowseService(nas, cache, cfg.NASRootPath, journal, logger)
	downloadSvc := service.NewDownloadService(nas, journal, logger)
	fingerprintSvc := service.NewFingerprintService(fpClient, cfg.ScanMaxAttempts, cfg.ScanRetention, journal, logger)
	idcardSvc := service.NewIDCardService(cardClient, cfg.IDCardReadInterval, journal, logger)

	// 8. topologymetrics — мониторинг NAS, демонов и PostgreSQL журнала
	var depHealth handlers.DependencyHealth
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"devicehub",
		cfg.DephealthGroup,
		service.Dependencies{
			NAS:         service.HTTPDependency{URL: cfg.NASURL, HealthPath: cfg.NASHealthPath},
			Fingerprint: service.HTTPDependency{URL: cfg.FingerprintURL, HealthPath: cfg.FingerprintHealthPath},
			IDCard:      service.HTTPDependency{URL: cfg.IDCardURL, HealthPath: cfg.IDCardHealthPath},
			Camera:      service.HTTPDependency{URL: cfg.CameraURL, HealthPath: cfg.CameraHealthPath},
			DB:          pgDB,
			PgConnURL:   cfg.DatabaseURL(),
		},
		cfg.DephealthCheckInterval,
		cfg.DephealthIsEntry,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		depHealth = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 9. JWT middleware (опционально)
	opts := server.Options{Messages: msgs}
	var jwksChecker handlers.ReadinessChecker
	if cfg.JWTEnabled {
		jwtAuth, err := middleware.NewJWTAuth(cfg.JWTJWKSURL, cfg.JWTIssuer, cfg.JWTLeeway, logger)
		if err != nil {
			logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
			os.Exit(1)
		}
		opts.JWTAuth = jwtAuth
		jwksChecker = middleware.NewJWKSReadinessChecker(cfg.JWTJWKSURL, jwksCheckTimeout)
		logger.Info("JWT middleware инициализирован",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	}

	// 10. Валидация запросов по OpenAPI-документу
	if cfg.OpenAPIValidation {
		doc, err := api.Load()
		if err != nil {
			logger.Error("Ошибка загрузки OpenAPI-документа", slog.String("error", err.Error()))
			os.Exit(1)
		}
		validator, err := middleware.NewOpenAPIValidator(doc, logger)
		if err != nil {
			logger.Error("Ошибка создания OpenAPI-валидатора", slog.String("error", err.Error()))
			os.Exit(1)
		}
		opts.Validator = validator
	}

	// 11. API handlers
	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(depHealth, pgChecker, jwksChecker),
		handlers.NewOpenAPIHandler(api.Spec),
		handlers.NewFingerprintHandler(fingerprintSvc, cfg.FingerprintQuality, msgs, logger),
		handlers.NewIDCardHandler(idcardSvc, msgs, logger),
		handlers.NewCameraHandler(camClient, journal, msgs, logger),
		handlers.NewFilesHandler(browseSvc, downloadSvc, msgs, logger),
		handlers.NewNASHandler(session, browseSvc, logger),
		handlers.NewJournalHandler(journalList, logger),
	)
	proxy := handlers.NewProxyHandler(nas, downloadSvc, session, logger)

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, proxy, opts)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Graceful shutdown фоновых задач
	logger.Info("Останавливаем фоновые задачи...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := fingerprintSvc.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Сканирования не завершились до таймаута", slog.String("error", err.Error()))
	}
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	cancel()

	// Сессия NAS закрывается, чтобы не копить активные сессии учётной записи
	if err := session.Logout(shutdownCtx); err != nil {
		logger.Warn("Ошибка выхода из NAS", slog.String("error", err.Error()))
	}

	logger.Info("DeviceHub остановлен")
}
