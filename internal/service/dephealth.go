// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// DeviceHub мониторит:
//   - NAS (File Station) — HTTP checker к SYNO.API.Info (critical)
//   - демоны сканера отпечатков, считывателя ID-карт и документ-камеры — HTTP checker (non-critical)
//   - PostgreSQL журнала — SQL checker через pgxpool, только если журнал включён (non-critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// Имена зависимостей в метриках и в Health().
const (
	DepNAS         = "nas"
	DepFingerprint = "fingerprint-daemon"
	DepIDCard      = "idcard-daemon"
	DepCamera      = "camera-daemon"
	DepPostgres    = "postgresql"
)

// HTTPDependency — HTTP-зависимость: базовый URL и health path.
type HTTPDependency struct {
	URL        string
	HealthPath string
}

// Dependencies — набор мониторимых зависимостей.
// DB == nil отключает проверку PostgreSQL.
type Dependencies struct {
	NAS         HTTPDependency
	Fingerprint HTTPDependency
	IDCard      HTTPDependency
	Camera      HTTPDependency
	DB          *sql.DB
	// PgConnURL — URL PostgreSQL для лейблов метрик (без пароля)
	PgConnURL string
}

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
//   - serviceID — имя вершины графа текущего приложения ("devicehub")
//   - group — имя группы в метриках (DH_DEPHEALTH_GROUP)
//   - isEntry — при true добавляет лейбл isentry=yes ко всем зависимостям (DEPHEALTH_ISENTRY)
func NewDephealthService(
	serviceID string,
	group string,
	deps Dependencies,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, deps, checkInterval, isEntry, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	deps Dependencies,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, deps, checkInterval, isEntry,
		logger, dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID string,
	group string,
	deps Dependencies,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	common := func(critical bool) []dephealth.DependencyOption {
		opts := []dephealth.DependencyOption{
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(critical),
		}
		if isEntry {
			opts = append(opts, dephealth.WithLabel("isentry", "yes"))
		}
		return opts
	}

	httpDep := func(name string, d HTTPDependency, critical bool) dephealth.Option {
		opts := append(common(critical),
			dephealth.FromURL(d.URL),
			dephealth.WithHTTPHealthPath(d.HealthPath),
		)
		// NAS с самоподписанным сертификатом проверяется через DH_NAS_CA_CERT_PATH
		// на уровне клиента; здесь проверка сертификата не отключается.
		if parsed, err := url.Parse(d.URL); err == nil && parsed.Scheme == "https" {
			opts = append(opts, dephealth.WithHTTPTLSSkipVerify(false))
		}
		return dephealth.HTTP(name, opts...)
	}

	opts := make([]dephealth.Option, 0, 6+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		httpDep(DepNAS, deps.NAS, true),
		httpDep(DepFingerprint, deps.Fingerprint, false),
		httpDep(DepIDCard, deps.IDCard, false),
		httpDep(DepCamera, deps.Camera, false),
	)
	if deps.DB != nil {
		pgOpts := append(common(false), dephealth.FromURL(deps.PgConnURL))
		opts = append(opts, dephealth.AddDependency(DepPostgres, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(deps.DB)), pgOpts...))
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — "имя:host:port", значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// DependencyHealthy ищет статус зависимости name в результате Health().
// Если endpoint'ов несколько, зависимость здорова, только если здоровы все.
// found == false — зависимость ещё не проверялась или не настроена.
func DependencyHealthy(health map[string]bool, name string) (healthy, found bool) {
	healthy = true
	for key, ok := range health {
		if key == name || strings.HasPrefix(key, name+":") {
			found = true
			healthy = healthy && ok
		}
	}
	return healthy && found, found
}
