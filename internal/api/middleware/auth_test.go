package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-для-unit-тестов"

// testLogger возвращает логгер, не пишущий никуда.
func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// signToken подписывает тестовый токен общим секретом.
func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}
	return signed
}

// protectedHandler фиксирует sub из контекста и отвечает 200.
func protectedHandler(gotSubject *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotSubject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// TestBearerAuth_ValidToken — валидный токен пропускается,
// sub попадает в контекст.
func TestBearerAuth_ValidToken(t *testing.T) {
	auth := NewBearerAuth(testSecret, testLogger())
	var gotSubject string
	handler := auth.Middleware()(protectedHandler(&gotSubject))

	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "admin@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d: %s", rec.Code, rec.Body.String())
	}
	if gotSubject != "admin@example.com" {
		t.Errorf("sub в контексте: ожидалось %q, получено %q", "admin@example.com", gotSubject)
	}
}

// TestBearerAuth_Rejections — невалидные запросы отклоняются с 401.
func TestBearerAuth_Rejections(t *testing.T) {
	auth := NewBearerAuth(testSecret, testLogger())

	expired := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "admin@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := signToken(t, "другой-секрет", jwt.RegisteredClaims{
		Subject:   "admin@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noExpiry := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject: "admin@example.com",
	})

	tests := []struct {
		name   string
		header string
	}{
		{"без заголовка", ""},
		{"не Bearer", "Basic dXNlcjpwYXNz"},
		{"пустой токен", "Bearer "},
		{"мусор вместо токена", "Bearer not.a.jwt"},
		{"просроченный токен", "Bearer " + expired},
		{"чужой секрет", "Bearer " + wrongKey},
		{"без exp", "Bearer " + noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string
			handler := auth.Middleware()(protectedHandler(&gotSubject))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("ожидался статус 401, получен %d", rec.Code)
			}
			if gotSubject != "" {
				t.Error("защищённый обработчик не должен вызываться")
			}
		})
	}
}

// TestBearerAuth_Disabled — пустой секрет отключает проверку.
func TestBearerAuth_Disabled(t *testing.T) {
	auth := NewBearerAuth("", testLogger())
	if auth.Enabled() {
		t.Error("при пустом секрете проверка должна быть выключена")
	}

	var gotSubject string
	handler := auth.Middleware()(protectedHandler(&gotSubject))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("без секрета запрос должен проходить, получен статус %d", rec.Code)
	}
}

// TestNormalizePath — схлопывание переменных сегментов пути
// для ограничения кардинальности метрик.
func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/jobs", "/api/v1/jobs"},
		{"/api/v1/jobs/1700000000123", "/api/v1/jobs/{id}"},
		{"/api/v1/uploads/news/1700000000000-42-photo.png", "/api/v1/uploads/news/{name}"},
		{"/api/v1/company/holding", "/api/v1/company/{scope}"},
		{"/api/v1/company/holding/brands", "/api/v1/company/{scope}/brands"},
		{"/api/v1/company/holding/brands/1700000000456", "/api/v1/company/{scope}/brands/{id}"},
		{"/healthz/live", "/healthz/live"},
		{"/metrics", "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Errorf("normalizePath(%q): ожидалось %q, получено %q", tt.path, tt.expected, got)
			}
		})
	}
}
