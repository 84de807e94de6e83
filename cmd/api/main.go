package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"blogAPI/cmd/app"
	_ "blogAPI/docs"
	"blogAPI/internal/config"
	handlers "blogAPI/internal/handler"
	"blogAPI/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, cfg)

	router := mux.NewRouter()

	// service endpoints
	router.HandleFunc("/", handler.Home)
	router.HandleFunc("/health", handler.Health)
	router.HandleFunc("/tables", handler.Tables)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// auth
	router.HandleFunc("/api/auth/register", handler.Register)
	router.HandleFunc("/api/auth/login", handler.Login)
	router.HandleFunc("/api/auth/login-email", handler.LoginEmail)
	router.HandleFunc("/api/auth/refresh-token", handler.RefreshToken)
	router.HandleFunc("/api/auth/logout", handler.Logout)
	router.HandleFunc("/api/auth/change-password", handler.ChangePassword)
	router.HandleFunc("/api/auth/me", handler.GetCurrentUser)
	router.HandleFunc("/api/auth/users", handler.ListUsers)
	router.HandleFunc("/api/auth/users/{id}/toggle-status", handler.ToggleUserStatus)

	// blogs
	router.HandleFunc("/api/blogs", handler.Blogs)
	router.HandleFunc("/api/blogs/{id}", handler.BlogByID)
	router.HandleFunc("/api/blogs/{id}/like", handler.ToggleLike)
	router.HandleFunc("/api/blogs/{id}/comments", handler.BlogComments)
	router.HandleFunc("/api/blogs/{id}/images", handler.BlogImages)
	router.HandleFunc("/api/blogs/{id}/images/{imageId}", handler.DeleteBlogImage)

	// catalogs
	router.HandleFunc("/api/categories", handler.Categories)
	router.HandleFunc("/api/tags", handler.Tags)

	// personal cabinet
	router.HandleFunc("/api/me", handler.Me)
	router.HandleFunc("/api/me/blogs", handler.MyBlogs)
	router.HandleFunc("/api/me/blogs/{id}", handler.DeleteMyBlog)
	router.HandleFunc("/api/me/comments", handler.MyComments)
	router.HandleFunc("/api/me/liked", handler.MyLikedBlogs)
	router.HandleFunc("/api/me/stats", handler.MyStats)

	// public profiles
	router.HandleFunc("/api/users/{id}", handler.UserByID)
	router.HandleFunc("/api/users/{id}/blogs", handler.UserBlogs)

	telemetry := middleware.NewTelemetry()

	// Порядок важен: CORS должен ответить на preflight до проверки токена.
	handlerChain := middleware.Chain(
		router,
		middleware.AuthMiddleware(cfg),
		middleware.CORSMiddleware(cfg),
		telemetry.Middleware,
		middleware.LoggingMiddleware,
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)
	fmt.Printf("Документация: http://localhost:%d/swagger/index.html\n", cfg.ServerPort)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
