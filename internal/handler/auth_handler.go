package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"blogAPI/internal/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// checkPasswordStrength возвращает текст первой нарушенной проверки
// или пустую строку. Требования: минимум 6 символов, заглавная буква,
// строчная буква и цифра.
func checkPasswordStrength(password string) string {
	if utf8.RuneCountInString(password) < 6 {
		return "Пароль должен быть не менее 6 символов"
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return "Пароль должен содержать хотя бы одну заглавную букву"
	case !hasLower:
		return "Пароль должен содержать хотя бы одну строчную букву"
	case !hasDigit:
		return "Пароль должен содержать хотя бы одну цифру"
	}

	return ""
}

// Register создает пользователя и сразу возвращает пару токенов.
//
//	@Summary	Регистрация пользователя
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.RegisterRequest	true	"Данные регистрации"
//	@Success	201		{object}	models.AuthResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/auth/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	// email verification
	if !emailPattern.MatchString(req.Email) {
		WriteError(w, "Неверный формат email", CodeValidation, http.StatusBadRequest)
		return
	}

	// password verification
	if msg := checkPasswordStrength(req.Password); msg != "" {
		WriteError(w, msg, CodeValidation, http.StatusBadRequest)
		return
	}

	resp, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusCreated)
}

// Login выполняет вход по форме в стиле OAuth2: поле username несет email.
//
//	@Summary	Вход (form-data)
//	@Tags		auth
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		username	formData	string	true	"Email пользователя"
//	@Param		password	formData	string	true	"Пароль"
//	@Success	200			{object}	models.AuthResponse
//	@Failure	401			{object}	ErrorResponse
//	@Failure	403			{object}	ErrorResponse
//	@Router		/api/auth/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		WriteError(w, "Требуются поля username и password", CodeValidation, http.StatusBadRequest)
		return
	}

	resp, err := h.AuthService.Login(r.Context(), email, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// LoginEmail - JSON-вариант входа для клиентов без HTML-форм.
//
//	@Summary	Вход (JSON)
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.LoginRequest	true	"Email и пароль"
//	@Success	200		{object}	models.AuthResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/api/auth/login-email [post]
func (h *Handlers) LoginEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// RefreshToken выдает новый access token по действующему refresh token.
//
//	@Summary	Обновление access token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.RefreshRequest	true	"Refresh token"
//	@Success	200		{object}	models.AuthResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/auth/refresh-token [post]
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if req.RefreshToken == "" {
		WriteError(w, "Отсутствует refreshToken", CodeValidation, http.StatusBadRequest)
		return
	}

	resp, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// Logout аннулирует refresh token текущего пользователя.
//
//	@Summary	Выход
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	MessageResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/auth/logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Выход выполнен"}, http.StatusOK)
}

// ChangePassword меняет пароль после проверки текущего.
//
//	@Summary	Смена пароля
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		models.ChangePasswordRequest	true	"Текущий и новый пароли"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/auth/change-password [post]
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if msg := checkPasswordStrength(req.NewPassword); msg != "" {
		WriteError(w, msg, CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Пароль изменен"}, http.StatusOK)
}

// GetCurrentUser возвращает профиль владельца токена.
//
//	@Summary	Текущий пользователь
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.User
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/auth/me [get]
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.UserRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

// ListUsers - список всех пользователей, только для администратора.
//
//	@Summary	Список пользователей
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int	false	"Номер страницы"
//	@Param		per_page	query		int	false	"Размер страницы"
//	@Success	200			{object}	models.UserListResponse
//	@Failure	401			{object}	ErrorResponse
//	@Failure	403			{object}	ErrorResponse
//	@Router		/api/auth/users [get]
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	page, perPage := parsePagination(r)

	resp, err := h.UserService.ListUsers(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// ToggleUserStatus блокирует или разблокирует пользователя.
// Администратор не может менять статус самому себе.
//
//	@Summary	Блокировка/разблокировка пользователя
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID пользователя"
//	@Success	200	{object}	models.User
//	@Failure	400	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/auth/users/{id}/toggle-status [patch]
func (h *Handlers) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	userID := mux.Vars(r)["id"]
	if userID == "" {
		WriteError(w, "Неверный URL", CodeValidation, http.StatusBadRequest)
		return
	}

	user, err := h.UserService.ToggleUserStatus(r.Context(), adminID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}
