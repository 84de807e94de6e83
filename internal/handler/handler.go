package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"blogAPI/internal/config"
	"blogAPI/internal/repository"
	"blogAPI/internal/service"
)

type Handlers struct {
	AuthService   service.AuthService
	BlogService   service.BlogService
	UserService   service.UserService
	TablesService service.TablesService
	UserRepo      repository.UserRepository
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(repo *repository.Repository, services *service.Service, cfg *config.Config) *Handlers {
	return &Handlers{
		AuthService:   services.Auth,
		BlogService:   services.Blog,
		UserService:   services.User,
		TablesService: services.Tables,
		UserRepo:      repo.User,
		Cfg:           cfg,
		Validate:      validator.New(),
	}
}

// Home - визитная карточка сервиса.
//
//	@Summary	Информация о сервисе
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/ [get]
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	writeSuccess(w, map[string]string{
		"service": "Blog API",
		"version": "1.0",
		"docs":    "/swagger/index.html",
	}, http.StatusOK)
}

// Health проверяет доступность базы коротким запросом.
//
//	@Summary	Проверка состояния
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	ErrorResponse
//	@Router		/health [get]
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if _, err := h.TablesService.GetCountTablesDB(r.Context()); err != nil {
		WriteError(w, "База данных недоступна", CodeInternal, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// parsePagination читает page и per_page из query-строки. Выход за границы
// нормализует сервисный слой.
func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}
