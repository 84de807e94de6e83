package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogAPI/internal/config"
	handlers "blogAPI/internal/handler"
)

type Middleware func(http.Handler) http.Handler

// Эндпоинты, доступные без токена.
var publicPaths = []string{
	"/",
	"/health",
	"/tables",
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/login-email",
	"/api/auth/refresh-token",
}

// GET по этим префиксам открыт всем: списки блогов, категории, теги
// и публичные профили.
var publicGetPrefixes = []string{
	"/api/blogs",
	"/api/categories",
	"/api/tags",
	"/api/users",
}

// AuthMiddleware проверяет JWT и кладет данные пользователя в контекст.
// На публичных маршрутах токен не обязателен, но если он передан и
// корректен, claims тоже попадают в контекст: автор должен видеть свои
// черновики и свои лайки даже в публичных списках.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				if r.Header.Get("Authorization") != "" {
					if ctx, err := contextWithClaims(r, cfg); err == nil {
						r = r.WithContext(ctx)
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := contextWithClaims(r, cfg)
			if err != nil {
				handlers.WriteError(w, err.Error(), "UNAUTHORIZED", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublic(r *http.Request) bool {
	path := r.URL.Path

	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}

	if strings.HasPrefix(path, "/swagger/") {
		return true
	}

	if r.Method == http.MethodGet {
		for _, prefix := range publicGetPrefixes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
	}

	return false
}

// contextWithClaims разбирает заголовок Authorization и возвращает контекст
// с userID, userEmail и isAdmin.
func contextWithClaims(r *http.Request, cfg *config.Config) (context.Context, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("требуется авторизация")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("неверный формат токена")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("недействительный токен: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("недействительный токен")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("неверные claims токена")
	}

	userID, ok1 := claims["userId"].(string)
	email, ok2 := claims["email"].(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("неверные данные в токене")
	}
	// Старые токены могли не нести isAdmin, отсутствие трактуем как false.
	isAdmin, _ := claims["isAdmin"].(bool)

	ctx := r.Context()
	ctx = context.WithValue(ctx, "userID", userID)
	ctx = context.WithValue(ctx, "userEmail", email)
	ctx = context.WithValue(ctx, "isAdmin", isAdmin)

	return ctx, nil
}

func CORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed := allowedOrigin(cfg.AllowedOrigins, origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allowedOrigin(origins []string, origin string) string {
	for _, o := range origins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		log.Printf("%s %s -> %d (%s)", r.Method, r.RequestURI, recorder.status, time.Since(start))
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
