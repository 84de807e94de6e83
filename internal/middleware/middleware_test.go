package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"blogAPI/internal/config"
)

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)

	return signed
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		expected bool
	}{
		{"Корень", http.MethodGet, "/", true},
		{"Проверка здоровья", http.MethodGet, "/health", true},
		{"Регистрация", http.MethodPost, "/api/auth/register", true},
		{"Вход по форме", http.MethodPost, "/api/auth/login", true},
		{"Обновление токена", http.MethodPost, "/api/auth/refresh-token", true},
		{"Список блогов", http.MethodGet, "/api/blogs", true},
		{"Комментарии блога", http.MethodGet, "/api/blogs/blog-1/comments", true},
		{"Категории", http.MethodGet, "/api/categories", true},
		{"Публичный профиль", http.MethodGet, "/api/users/user-2", true},
		{"Документация", http.MethodGet, "/swagger/index.html", true},
		{"Создание блога закрыто", http.MethodPost, "/api/blogs", false},
		{"Лайк закрыт", http.MethodPost, "/api/blogs/blog-1/like", false},
		{"Выход закрыт", http.MethodPost, "/api/auth/logout", false},
		{"Обновление профиля закрыто", http.MethodPut, "/api/users/me", false},
		{"Создание категории закрыто", http.MethodPost, "/api/categories", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			assert.Equal(t, tt.expected, isPublic(req))
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecretKey: "test-secret-key"}

	validToken := signTestToken(t, cfg.JWTSecretKey, jwt.MapClaims{
		"userId":  "user-1",
		"email":   "marina@example.com",
		"isAdmin": true,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	foreignToken := signTestToken(t, "another-secret", jwt.MapClaims{
		"userId": "user-1",
		"email":  "marina@example.com",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name           string
		method         string
		path           string
		authHeader     string
		expectedStatus int
		expectedUserID interface{}
		expectedAdmin  interface{}
	}{
		{
			name:           "Валидный токен на закрытом маршруте",
			method:         http.MethodPost,
			path:           "/api/blogs",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUserID: "user-1",
			expectedAdmin:  true,
		},
		{
			name:           "Без токена на закрытом маршруте",
			method:         http.MethodPost,
			path:           "/api/blogs",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Неверный формат заголовка",
			method:         http.MethodPost,
			path:           "/api/blogs",
			authHeader:     "Token " + validToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Чужая подпись",
			method:         http.MethodPost,
			path:           "/api/blogs",
			authHeader:     "Bearer " + foreignToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Публичный маршрут без токена",
			method:         http.MethodGet,
			path:           "/api/blogs",
			expectedStatus: http.StatusOK,
			expectedUserID: nil,
		},
		{
			// Автор должен видеть свои черновики даже в публичном списке.
			name:           "Публичный маршрут с токеном",
			method:         http.MethodGet,
			path:           "/api/blogs",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUserID: "user-1",
			expectedAdmin:  true,
		},
		{
			// Битый токен на публичном маршруте не ломает запрос.
			name:           "Публичный маршрут с битым токеном",
			method:         http.MethodGet,
			path:           "/api/blogs",
			authHeader:     "Bearer not-a-jwt",
			expectedStatus: http.StatusOK,
			expectedUserID: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID, gotAdmin interface{}
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = r.Context().Value("userID")
				gotAdmin = r.Context().Value("isAdmin")
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(cfg)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedUserID, gotUserID)

			if tt.expectedAdmin != nil {
				assert.Equal(t, tt.expectedAdmin, gotAdmin)
			}
		})
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	// Arrange
	cfg := &config.Config{JWTSecretKey: "test-secret-key"}

	expiredToken := signTestToken(t, cfg.JWTSecretKey, jwt.MapClaims{
		"userId": "user-1",
		"email":  "marina@example.com",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	req.Header.Set("Authorization", "Bearer "+expiredToken)
	rr := httptest.NewRecorder()

	// Act
	AuthMiddleware(cfg)(next).ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, nextCalled)
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		origin         string
		expectedHeader string
	}{
		{
			name:           "Любой источник",
			allowedOrigins: []string{"*"},
			origin:         "http://localhost:3000",
			expectedHeader: "*",
		},
		{
			name:           "Источник из списка",
			allowedOrigins: []string{"http://localhost:3000", "https://blog.example.com"},
			origin:         "https://blog.example.com",
			expectedHeader: "https://blog.example.com",
		},
		{
			name:           "Источник не из списка",
			allowedOrigins: []string{"http://localhost:3000"},
			origin:         "https://evil.example.com",
			expectedHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AllowedOrigins: tt.allowedOrigins}
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			CORSMiddleware(cfg)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedHeader, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	// Arrange
	cfg := &config.Config{AllowedOrigins: []string{"*"}}

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()

	// Act
	CORSMiddleware(cfg)(next).ServeHTTP(rr, req)

	// Assert: preflight обрывается до обработчика.
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, nextCalled)
	assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
}
