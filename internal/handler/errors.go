package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"blogAPI/internal/repository"
	"blogAPI/internal/service"
)

// Машиночитаемые коды ошибок. Клиенты ветвятся по code, не по тексту.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternal           = "INTERNAL"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeSuccess - функция для успешных ответов
func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeValidationError разворачивает ошибки валидатора в details:
// имя поля -> нарушенное правило.
func writeValidationError(w http.ResponseWriter, err error) {
	details := map[string]string{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			details[fieldError.Field()] = fieldError.Tag()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   "Неверные данные",
		Code:    CodeValidation,
		Details: details,
	})
}

// writeServiceError переводит сентинельные ошибки сервисов и репозиториев
// в HTTP-статусы. Все, что не распознано, уходит как 500 без подробностей.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		WriteError(w, err.Error(), CodeValidation, http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, "Неверный email или пароль", CodeInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, service.ErrAccountDisabled):
		WriteError(w, "Учетная запись заблокирована", CodeAccountDisabled, http.StatusForbidden)
	case errors.Is(err, service.ErrTokenExpired):
		WriteError(w, "Токен истек", CodeTokenExpired, http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidToken):
		WriteError(w, "Недействительный токен", CodeInvalidToken, http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, "Доступ запрещен", CodeForbidden, http.StatusForbidden)
	case errors.Is(err, repository.ErrDuplicateEmail):
		WriteError(w, "Email уже зарегистрирован", CodeDuplicateEmail, http.StatusConflict)
	case errors.Is(err, repository.ErrDuplicateName):
		WriteError(w, "Имя уже занято", CodeDuplicateName, http.StatusConflict)
	case errors.Is(err, repository.ErrNotFound):
		WriteError(w, "Не найдено", CodeNotFound, http.StatusNotFound)
	default:
		log.Printf("необработанная ошибка: %v", err)
		WriteError(w, "Внутренняя ошибка сервера", CodeInternal, http.StatusInternalServerError)
	}
}
