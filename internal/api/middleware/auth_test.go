package middleware

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
)

const testKeyID = "test-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// buildJWKSetJSON строит JWKS JSON из публичного RSA-ключа.
func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	jwks := map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	data, _ := json.Marshal(jwks)
	return data
}

func newTestJWTAuth(t *testing.T) (*JWTAuth, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	kf, err := keyfunc.NewJWKSetJSON(buildJWKSetJSON(&key.PublicKey, testKeyID))
	if err != nil {
		t.Fatalf("keyfunc из JWKS JSON: %v", err)
	}
	return NewJWTAuthWithKeyfunc(kf, 5*time.Second, testLogger()), key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator-1",
			Issuer:    "https://idp.local",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		PreferredUsername: "operator",
		ScopeString:       "devices files:read",
		ScopeArray:        []string{"journal:read"},
	}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	auth, key := newTestJWTAuth(t)

	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || SubjectFromContext(r.Context()) != "operator-1" {
			t.Errorf("claims = %+v", claims)
		}
		if claims != nil && (len(claims.Scopes) != 3 || !claims.HasScope("journal:read")) {
			t.Errorf("scopes = %v", claims.Scopes)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("статус = %d, тело: %s", rec.Code, rec.Body.String())
	}
}

func TestJWTAuth_Rejected(t *testing.T) {
	auth, key := newTestJWTAuth(t)
	otherKey, _ := rsa.GenerateKey(rand.Reader, 2048)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noSub := validClaims()
	noSub.Subject = ""

	tests := []struct {
		name   string
		header string
	}{
		{"без заголовка", ""},
		{"не Bearer", "Basic dXNlcjpwYXNz"},
		{"пустой токен", "Bearer "},
		{"мусор", "Bearer not-a-jwt"},
		{"просрочен", "Bearer " + signToken(t, key, expired)},
		{"без sub", "Bearer " + signToken(t, key, noSub)},
		{"чужой ключ", "Bearer " + signToken(t, otherKey, validClaims())},
	}

	handler := auth.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("статус = %d, ожидается 401", rec.Code)
			}
		})
	}
}

func TestJWTAuth_Issuer(t *testing.T) {
	auth, key := newTestJWTAuth(t)
	auth.issuer = "https://other-idp.local"

	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидается 401 при чужом issuer", rec.Code)
	}
}

func TestRequireScope(t *testing.T) {
	auth, key := newTestJWTAuth(t)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		scope string
		want  int
	}{
		{"journal:read", http.StatusOK},
		{"admin", http.StatusForbidden},
	}
	for _, tt := range tests {
		handler := auth.Middleware()(RequireScope(tt.scope)(ok))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/journal", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, validClaims()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("scope %s: статус = %d, ожидается %d", tt.scope, rec.Code, tt.want)
		}
	}

	// Без JWT middleware claims отсутствуют
	rec := httptest.NewRecorder()
	RequireScope("journal:read")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("без claims: статус = %d, ожидается 401", rec.Code)
	}
}

func TestJWKSReadinessChecker(t *testing.T) {
	key, _ := rsa.GenerateKey(rand.Reader, 2048)
	jwks := buildJWKSetJSON(&key.PublicKey, testKeyID)

	tests := []struct {
		name string
		h    http.HandlerFunc
		want string
	}{
		{"ok", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write(jwks) }, "ok"},
		{"нет ключей", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"keys":[]}`)) }, "degraded"},
		{"не JSON", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`<html>`)) }, "degraded"},
		{"500", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) }, "fail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.h)
			defer srv.Close()

			status, msg := NewJWKSReadinessChecker(srv.URL, time.Second).CheckReady()
			if status != tt.want {
				t.Errorf("статус = %q (%s), ожидается %q", status, msg, tt.want)
			}
		})
	}
}
