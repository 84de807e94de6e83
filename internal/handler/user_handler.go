package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"blogAPI/internal/models"
)

// Me обслуживает профиль владельца токена: чтение и обновление.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getMyProfile(w, r)
	case http.MethodPut:
		h.updateMyProfile(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// UserByID обслуживает чужой профиль: публичная карточка для всех,
// обновление - для администратора.
func (h *Handlers) UserByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getPublicProfile(w, r)
	case http.MethodPut:
		h.adminUpdateUser(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// getMyProfile возвращает полный профиль текущего пользователя.
//
//	@Summary	Мой профиль
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.User
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/me [get]
func (h *Handlers) getMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

// updateMyProfile меняет имя и email текущего пользователя.
//
//	@Summary	Обновление моего профиля
//	@Tags		profile
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		models.UserUpdateRequest	true	"Изменяемые поля"
//	@Success	200		{object}	models.User
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/me [put]
func (h *Handlers) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if req.Email != nil && !emailPattern.MatchString(*req.Email) {
		WriteError(w, "Неверный формат email", CodeValidation, http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

// MyBlogs возвращает блоги текущего пользователя, включая черновики.
//
//	@Summary	Мои блоги
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Param		is_published	query		bool	false	"Только опубликованные или только черновики"
//	@Param		page			query		int		false	"Номер страницы"
//	@Param		per_page		query		int		false	"Размер страницы"
//	@Success	200				{object}	models.BlogListResponse
//	@Failure	401				{object}	ErrorResponse
//	@Router		/api/me/blogs [get]
func (h *Handlers) MyBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, perPage := parsePagination(r)
	isPublished := parseBoolParam(r.URL.Query().Get("is_published"))

	resp, err := h.UserService.ListMyBlogs(r.Context(), userID, isPublished, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// DeleteMyBlog удаляет блог текущего пользователя.
//
//	@Summary	Удаление моего блога
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID блога"
//	@Success	200	{object}	MessageResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/me/blogs/{id} [delete]
func (h *Handlers) DeleteMyBlog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.BlogService.Delete(r.Context(), mux.Vars(r)["id"], userID, isAdmin(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Блог удален"}, http.StatusOK)
}

// MyComments возвращает комментарии, оставленные текущим пользователем.
//
//	@Summary	Мои комментарии
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int	false	"Номер страницы"
//	@Param		per_page	query		int	false	"Размер страницы"
//	@Success	200			{object}	models.CommentListResponse
//	@Failure	401			{object}	ErrorResponse
//	@Router		/api/me/comments [get]
func (h *Handlers) MyComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, perPage := parsePagination(r)

	resp, err := h.UserService.ListMyComments(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// MyLikedBlogs возвращает опубликованные блоги, которые лайкнул
// текущий пользователь.
//
//	@Summary	Понравившиеся блоги
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int	false	"Номер страницы"
//	@Param		per_page	query		int	false	"Размер страницы"
//	@Success	200			{object}	models.BlogListResponse
//	@Failure	401			{object}	ErrorResponse
//	@Router		/api/me/liked [get]
func (h *Handlers) MyLikedBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, perPage := parsePagination(r)

	resp, err := h.UserService.ListLikedBlogs(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// MyStats возвращает сводную статистику автора: блоги, просмотры,
// лайки, комментарии и самый популярный блог.
//
//	@Summary	Моя статистика
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.UserStats
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/me/stats [get]
func (h *Handlers) MyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.UserService.GetStats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, stats, http.StatusOK)
}

// getPublicProfile возвращает публичную карточку пользователя.
// Заблокированные пользователи наружу не отдаются.
//
//	@Summary	Публичный профиль
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"ID пользователя"
//	@Success	200	{object}	models.PublicUser
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/users/{id} [get]
func (h *Handlers) getPublicProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.UserService.GetPublicProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, profile, http.StatusOK)
}

// adminUpdateUser правит чужой профиль, включая флаги isActive и isAdmin.
//
//	@Summary	Обновление пользователя администратором
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string							true	"ID пользователя"
//	@Param		request	body		models.AdminUserUpdateRequest	true	"Изменяемые поля"
//	@Success	200		{object}	models.User
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/users/{id} [put]
func (h *Handlers) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	var req models.AdminUserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.UserService.AdminUpdateUser(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

// UserBlogs возвращает опубликованные блоги автора. Сам автор и
// администратор видят в этом списке и черновики.
//
//	@Summary	Блоги пользователя
//	@Tags		users
//	@Produce	json
//	@Param		id			path		string	true	"ID пользователя"
//	@Param		page		query		int		false	"Номер страницы"
//	@Param		per_page	query		int		false	"Размер страницы"
//	@Success	200			{object}	models.BlogListResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/api/users/{id}/blogs [get]
func (h *Handlers) UserBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	viewerID, _ := currentUserID(r)
	page, perPage := parsePagination(r)

	resp, err := h.UserService.ListUserBlogs(r.Context(), mux.Vars(r)["id"], viewerID, isAdmin(r), page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}
