package service

import (
	"errors"

	"blogAPI/internal/config"
	"blogAPI/internal/repository"
	"blogAPI/internal/storage"
)

// Сигнальные ошибки бизнес-логики. Обработчики переводят их в HTTP-ответы
// через errors.Is.
var (
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrAccountDisabled    = errors.New("учетная запись отключена")
	ErrInvalidToken       = errors.New("недействительный токен")
	ErrTokenExpired       = errors.New("токен истек")
	ErrForbidden          = errors.New("доступ запрещен")
	ErrValidation         = errors.New("некорректные данные")
)

type Service struct {
	Auth   AuthService
	Blog   BlogService
	User   UserService
	Tables TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage) *Service {
	blogService := NewBlogService(rep, cfg, store)

	return &Service{
		Auth:   NewAuthService(rep.User, cfg),
		Blog:   blogService,
		User:   NewUserService(rep, blogService),
		Tables: NewTablesService(rep.Tables),
	}
}
