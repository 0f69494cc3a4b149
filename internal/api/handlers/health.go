// health.go — обработчики health endpoints DeviceHub.
// /health/live — проверка liveness (процесс жив)
// /health/ready — проверка readiness (NAS, демоны устройств, PostgreSQL журнала, JWKS)
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/devicehub/internal/config"
	"github.com/bigkaa/devicehub/internal/service"
)

// serviceName — имя сервиса в ответах health.
const serviceName = "devicehub"

// Константы статусов health check.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status, message string)
}

// DependencyHealth — источник состояния зависимостей (service.DephealthService).
type DependencyHealth interface {
	Health() map[string]bool
}

// monitoredDependency — зависимость из dephealth и её вес в readiness.
type monitoredDependency struct {
	name     string
	critical bool
}

var monitoredDependencies = []monitoredDependency{
	{name: service.DepNAS, critical: true},
	{name: service.DepFingerprint},
	{name: service.DepIDCard},
	{name: service.DepCamera},
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	deps        DependencyHealth
	pgChecker   ReadinessChecker
	jwksChecker ReadinessChecker
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// deps — состояние NAS и демонов (nil — readiness вернёт "fail" для NAS).
// pgChecker и jwksChecker — nil, если журнал или JWT отключены.
func NewHealthHandler(deps DependencyHealth, pgChecker, jwksChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		deps:        deps,
		pgChecker:   pgChecker,
		jwksChecker: jwksChecker,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ проверки liveness.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ проверки readiness.
type healthReadyResponse struct {
	Status    string                       `json:"status"`
	Timestamp string                       `json:"timestamp"`
	Version   string                       `json:"version"`
	Service   string                       `json:"service"`
	Checks    map[string]healthCheckResult `json:"checks"`
}

// HealthLive — проверка liveness. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    statusOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — проверка readiness.
// Недоступный NAS даёт "fail" (503), недоступные демоны и журнал — "degraded" (200).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
		Checks:    make(map[string]healthCheckResult),
	}

	var health map[string]bool
	if h.deps != nil {
		health = h.deps.Health()
	}
	for _, dep := range monitoredDependencies {
		resp.Checks[dep.name] = dependencyCheck(health, h.deps != nil, dep)
	}

	if h.pgChecker != nil {
		status, msg := h.pgChecker.CheckReady()
		resp.Checks[service.DepPostgres] = healthCheckResult{Status: downgrade(status), Message: msg}
	}
	if h.jwksChecker != nil {
		status, msg := h.jwksChecker.CheckReady()
		resp.Checks["jwks"] = healthCheckResult{Status: status, Message: msg}
	}

	statuses := make([]string, 0, len(resp.Checks))
	for _, c := range resp.Checks {
		statuses = append(statuses, c.Status)
	}
	resp.Status = overallStatus(statuses...)

	status := http.StatusOK
	if resp.Status == statusFail {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func dependencyCheck(health map[string]bool, monitored bool, dep monitoredDependency) healthCheckResult {
	if !monitored {
		if dep.critical {
			return healthCheckResult{Status: statusFail, Message: "мониторинг не инициализирован"}
		}
		return healthCheckResult{Status: statusDegraded, Message: "мониторинг не инициализирован"}
	}

	healthy, found := service.DependencyHealthy(health, dep.name)
	switch {
	case !found:
		// Первая проверка ещё не завершилась
		return healthCheckResult{Status: statusDegraded, Message: "ещё не проверялась"}
	case healthy:
		return healthCheckResult{Status: statusOK}
	case dep.critical:
		return healthCheckResult{Status: statusFail, Message: "недоступен"}
	default:
		return healthCheckResult{Status: statusDegraded, Message: "недоступен"}
	}
}

// downgrade понижает "fail" некритичной зависимости до "degraded".
func downgrade(status string) string {
	if status == statusFail {
		return statusDegraded
	}
	return status
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == statusFail {
			return statusFail
		}
		if s == statusDegraded {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return statusDegraded
	}
	return statusOK
}
