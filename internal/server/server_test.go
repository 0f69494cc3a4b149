package server

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bigkaa/devicehub/api"
	"github.com/bigkaa/devicehub/internal/api/generated"
	"github.com/bigkaa/devicehub/internal/api/handlers"
	"github.com/bigkaa/devicehub/internal/api/middleware"
	"github.com/bigkaa/devicehub/internal/i18n"
)

const testKeyID = "server-test"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRouter собирает маршрутизатор из обработчиков без зависимостей:
// маршруты из тестов либо не доходят до сервисов, либо отвечают до обращения к ним.
func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	logger := testLogger()
	msgs, err := i18n.Load("en", logger)
	if err != nil {
		t.Fatalf("загрузка сообщений: %v", err)
	}
	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(nil, nil, nil),
		handlers.NewOpenAPIHandler(api.Spec),
		handlers.NewFingerprintHandler(nil, 40, msgs, logger),
		handlers.NewIDCardHandler(nil, msgs, logger),
		handlers.NewCameraHandler(nil, nil, msgs, logger),
		handlers.NewFilesHandler(nil, nil, msgs, logger),
		handlers.NewNASHandler(nil, nil, logger),
		handlers.NewJournalHandler(nil, logger),
	)
	return NewRouter(logger, apiHandler, handlers.NewProxyHandler(nil, nil, nil, logger), opts)
}

type tokenSigner struct {
	key *rsa.PrivateKey
}

func newJWTAuth(t *testing.T) (*middleware.JWTAuth, tokenSigner) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	jwks, _ := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": testKeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	})
	kf, err := keyfunc.NewJWKSetJSON(jwks)
	if err != nil {
		t.Fatalf("keyfunc из JWKS JSON: %v", err)
	}
	return middleware.NewJWTAuthWithKeyfunc(kf, 5*time.Second, testLogger()), tokenSigner{key: key}
}

func (s tokenSigner) sign(t *testing.T, scope string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ScopeString: scope,
	})
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(s.key)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_WithoutJWT(t *testing.T) {
	router := newTestRouter(t, Options{})

	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
	}{
		{name: "liveness", method: http.MethodGet, target: "/health/live", wantCode: http.StatusOK},
		{name: "readiness без мониторинга", method: http.MethodGet, target: "/health/ready", wantCode: http.StatusServiceUnavailable},
		{name: "метрики", method: http.MethodGet, target: "/metrics", wantCode: http.StatusOK},
		{name: "openapi", method: http.MethodGet, target: "/api/openapi.yaml", wantCode: http.StatusOK},
		{name: "журнал отключён", method: http.MethodGet, target: "/api/v1/journal", wantCode: http.StatusNotFound},
		{name: "прокси POST", method: http.MethodPost, target: "/api/synology?endpoint=auth", wantCode: http.StatusMethodNotAllowed},
		{name: "прокси без endpoint", method: http.MethodGet, target: "/api/synology", wantCode: http.StatusBadRequest},
		{name: "неизвестный маршрут", method: http.MethodGet, target: "/api/v1/printer", wantCode: http.StatusNotFound},
		{name: "неверный метод", method: http.MethodDelete, target: "/api/v1/files", wantCode: http.StatusMethodNotAllowed},
		{name: "нецелый индекс камеры", method: http.MethodGet, target: "/api/v1/camera/devices/abc/name", wantCode: http.StatusBadRequest},
		{name: "некорректный id сканирования", method: http.MethodGet, target: "/api/v1/fingerprint/scans/not-a-uuid", wantCode: http.StatusBadRequest},
		{name: "скачивание без path", method: http.MethodGet, target: "/api/v1/files/download", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, tt.method, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Errorf("%s %s: статус = %d, ожидалось %d", tt.method, tt.target, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestRouter_WithJWT(t *testing.T) {
	auth, signer := newJWTAuth(t)
	router := newTestRouter(t, Options{JWTAuth: auth})

	operator := signer.sign(t, "devices")
	admin := signer.sign(t, "devices "+ScopeNAS)

	tests := []struct {
		name     string
		method   string
		target   string
		token    string
		wantCode int
	}{
		{name: "liveness без токена", method: http.MethodGet, target: "/health/live", wantCode: http.StatusOK},
		{name: "метрики без токена", method: http.MethodGet, target: "/metrics", wantCode: http.StatusOK},
		{name: "openapi без токена", method: http.MethodGet, target: "/api/openapi.yaml", wantCode: http.StatusOK},
		{name: "API без токена", method: http.MethodGet, target: "/api/v1/journal", wantCode: http.StatusUnauthorized},
		{name: "API с токеном", method: http.MethodGet, target: "/api/v1/journal", token: operator, wantCode: http.StatusNotFound},
		{name: "прокси без scope", method: http.MethodGet, target: "/api/synology?endpoint=auth", token: operator, wantCode: http.StatusForbidden},
		{name: "прокси со scope", method: http.MethodPost, target: "/api/synology", token: admin, wantCode: http.StatusMethodNotAllowed},
		{name: "выход из NAS без scope", method: http.MethodPost, target: "/api/v1/nas/logout", token: operator, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, tt.method, tt.target, tt.token)
			if rec.Code != tt.wantCode {
				t.Errorf("%s %s: статус = %d, ожидалось %d; тело: %s",
					tt.method, tt.target, rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRouter_Unimplemented(t *testing.T) {
	router := NewRouter(testLogger(), generated.Unimplemented{}, http.NotFoundHandler(), Options{})

	rec := do(router, http.MethodGet, "/api/v1/camera/devices", "")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("статус = %d, ожидалось %d", rec.Code, http.StatusNotImplemented)
	}
	rec = do(router, http.MethodGet, "/api/synology", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("прокси: статус = %d, ожидалось %d", rec.Code, http.StatusNotFound)
	}
}

func TestRequireScopeOn(t *testing.T) {
	auth, signer := newJWTAuth(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := auth.Middleware()(requireScopeOn(ScopeNAS, nasPaths...)(ok))
	operator := signer.sign(t, "devices")

	if rec := do(h, http.MethodGet, "/api/v1/files", operator); rec.Code != http.StatusNoContent {
		t.Errorf("путь без scope: статус = %d, ожидалось %d", rec.Code, http.StatusNoContent)
	}
	if rec := do(h, http.MethodPost, "/api/v1/nas/logout", operator); rec.Code != http.StatusForbidden {
		t.Errorf("выход из NAS: статус = %d, ожидалось %d", rec.Code, http.StatusForbidden)
	}
	// Совпадение по префиксу не требует scope
	if rec := do(h, http.MethodGet, "/api/synology-other", operator); rec.Code != http.StatusNoContent {
		t.Errorf("похожий путь: статус = %d, ожидалось %d", rec.Code, http.StatusNoContent)
	}
}
