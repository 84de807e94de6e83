package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"blogAPI/internal/models"
)

// Blogs обслуживает коллекцию блогов: GET - выборка списка, POST - создание.
func (h *Handlers) Blogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBlogs(w, r)
	case http.MethodPost:
		h.createBlog(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// BlogByID обслуживает один блог: чтение, обновление, удаление.
func (h *Handlers) BlogByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getBlog(w, r)
	case http.MethodPut:
		h.updateBlog(w, r)
	case http.MethodDelete:
		h.deleteBlog(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// BlogComments обслуживает комментарии блога: дерево и добавление.
func (h *Handlers) BlogComments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBlogComments(w, r)
	case http.MethodPost:
		h.createBlogComment(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// Categories обслуживает справочник категорий.
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCategories(w, r)
	case http.MethodPost:
		h.createCategory(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// Tags обслуживает справочник тегов.
func (h *Handlers) Tags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTags(w, r)
	case http.MethodPost:
		h.createTag(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// BlogImages обслуживает изображения блога: список и загрузка.
func (h *Handlers) BlogImages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBlogImages(w, r)
	case http.MethodPost:
		h.uploadBlogImage(w, r)
	default:
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// parseBlogFilter собирает фильтр списка из query-параметров. Кто зритель,
// берется из контекста: от этого зависит видимость черновиков.
func parseBlogFilter(r *http.Request) models.BlogFilter {
	q := r.URL.Query()
	viewerID, _ := currentUserID(r)

	filter := models.BlogFilter{
		CategoryID:  q.Get("category_id"),
		Tag:         q.Get("tag"),
		Search:      q.Get("search"),
		AuthorID:    q.Get("author_id"),
		IsPublished: parseBoolParam(q.Get("is_published")),
		IsFeatured:  parseBoolParam(q.Get("is_featured")),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
		ViewerID:    viewerID,
		ViewerAdmin: isAdmin(r),
	}
	filter.Page, filter.PerPage = parsePagination(r)

	return filter
}

func parseBoolParam(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// listBlogs возвращает страницу блогов. Анонимный зритель получает только
// опубликованное, автор дополнительно видит свои черновики.
//
//	@Summary	Список блогов
//	@Tags		blogs
//	@Produce	json
//	@Param		category_id		query		string	false	"Фильтр по категории"
//	@Param		tag				query		string	false	"Фильтр по тегу"
//	@Param		search			query		string	false	"Поиск по заголовку и тексту"
//	@Param		author_id		query		string	false	"Фильтр по автору"
//	@Param		is_published	query		bool	false	"Статус публикации"
//	@Param		is_featured		query		bool	false	"Только избранные"
//	@Param		sort_by			query		string	false	"created_at, title или view_count"
//	@Param		sort_order		query		string	false	"asc или desc"
//	@Param		page			query		int		false	"Номер страницы"
//	@Param		per_page		query		int		false	"Размер страницы (максимум 100)"
//	@Success	200				{object}	models.BlogListResponse
//	@Router		/api/blogs [get]
func (h *Handlers) listBlogs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.BlogService.List(r.Context(), parseBlogFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, resp, http.StatusOK)
}

// createBlog создает блог от имени владельца токена.
//
//	@Summary	Создание блога
//	@Tags		blogs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		models.BlogCreateRequest	true	"Данные блога"
//	@Success	201		{object}	models.BlogDetail
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/blogs [post]
func (h *Handlers) createBlog(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.BlogCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	blog, err := h.BlogService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, blog, http.StatusCreated)
}

// getBlog возвращает блог с комментариями-счетчиками и лайками.
// Черновик отдается только автору или администратору, остальным - 404.
//
//	@Summary	Блог по ID
//	@Tags		blogs
//	@Produce	json
//	@Param		id		path		string	true	"ID блога"
//	@Param		render	query		string	false	"html - вернуть body_html из markdown"
//	@Success	200		{object}	models.BlogDetail
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/blogs/{id} [get]
func (h *Handlers) getBlog(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["id"]
	viewerID, _ := currentUserID(r)
	renderHTML := r.URL.Query().Get("render") == "html"

	blog, err := h.BlogService.Get(r.Context(), blogID, viewerID, isAdmin(r), renderHTML)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, blog, http.StatusOK)
}

// updateBlog - частичное обновление, доступно автору и администратору.
//
//	@Summary	Обновление блога
//	@Tags		blogs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"ID блога"
//	@Param		request	body		models.BlogUpdateRequest	true	"Изменяемые поля"
//	@Success	200		{object}	models.BlogDetail
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/blogs/{id} [put]
func (h *Handlers) updateBlog(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.BlogUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	blog, err := h.BlogService.Update(r.Context(), mux.Vars(r)["id"], userID, isAdmin(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, blog, http.StatusOK)
}

// deleteBlog удаляет блог вместе с комментариями, лайками и изображениями.
//
//	@Summary	Удаление блога
//	@Tags		blogs
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID блога"
//	@Success	200	{object}	MessageResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/blogs/{id} [delete]
func (h *Handlers) deleteBlog(w http.ResponseWriter, r *http.Request) {
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

// ToggleLike ставит либо снимает лайк и возвращает итоговое состояние.
//
//	@Summary	Лайк блога
//	@Tags		blogs
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID блога"
//	@Success	200	{object}	models.LikeResult
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/blogs/{id}/like [post]
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.BlogService.ToggleLike(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, result, http.StatusOK)
}

// listBlogComments возвращает дерево одобренных комментариев.
// Автор блога и администратор видят и неодобренные.
//
//	@Summary	Комментарии блога
//	@Tags		comments
//	@Produce	json
//	@Param		id	path		string	true	"ID блога"
//	@Success	200	{array}		models.Comment
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/blogs/{id}/comments [get]
func (h *Handlers) listBlogComments(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := currentUserID(r)

	comments, err := h.BlogService.ListComments(r.Context(), mux.Vars(r)["id"], viewerID, isAdmin(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comments, http.StatusOK)
}

// createBlogComment добавляет комментарий или ответ на комментарий.
//
//	@Summary	Добавление комментария
//	@Tags		comments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"ID блога"
//	@Param		request	body		models.CommentCreateRequest	true	"Текст и необязательный родитель"
//	@Success	201		{object}	models.Comment
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/blogs/{id}/comments [post]
func (h *Handlers) createBlogComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	comment, err := h.BlogService.AddComment(r.Context(), mux.Vars(r)["id"], userID, isAdmin(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comment, http.StatusCreated)
}

// listCategories возвращает категории со счетчиком опубликованных блогов.
//
//	@Summary	Список категорий
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	models.Category
//	@Router		/api/categories [get]
func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.BlogService.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, categories, http.StatusOK)
}

// createCategory добавляет категорию, только для администратора.
//
//	@Summary	Создание категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		models.CategoryCreateRequest	true	"Название и описание"
//	@Success	201		{object}	models.Category
//	@Failure	403		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/categories [post]
func (h *Handlers) createCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	var req models.CategoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	category, err := h.BlogService.CreateCategory(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, category, http.StatusCreated)
}

// listTags возвращает теги по убыванию употребимости.
//
//	@Summary	Список тегов
//	@Tags		tags
//	@Produce	json
//	@Param		limit	query	int	false	"Сколько тегов вернуть"
//	@Success	200		{array}	models.Tag
//	@Router		/api/tags [get]
func (h *Handlers) listTags(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tags, err := h.BlogService.ListTags(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, tags, http.StatusOK)
}

// createTag добавляет тег, только для администратора.
//
//	@Summary	Создание тега
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		models.TagCreateRequest	true	"Название и цвет"
//	@Success	201		{object}	models.Tag
//	@Failure	403		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/tags [post]
func (h *Handlers) createTag(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	var req models.TagCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	tag, err := h.BlogService.CreateTag(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, tag, http.StatusCreated)
}

// listBlogImages возвращает метаданные изображений блога.
//
//	@Summary	Изображения блога
//	@Tags		images
//	@Produce	json
//	@Param		id	path	string	true	"ID блога"
//	@Success	200	{array}	models.Image
//	@Router		/api/blogs/{id}/images [get]
func (h *Handlers) listBlogImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.BlogService.ListImages(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, images, http.StatusOK)
}

// uploadBlogImage принимает multipart-форму с полем image и складывает
// файл в объектное хранилище.
//
//	@Summary	Загрузка изображения
//	@Tags		images
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string	true	"ID блога"
//	@Param		image	formData	file	true	"Файл изображения"
//	@Success	201		{object}	models.Image
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/api/blogs/{id}/images [post]
func (h *Handlers) uploadBlogImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Не удалось разобрать форму", CodeValidation, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "Поле image обязательно", CodeValidation, http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := h.BlogService.AttachImage(r.Context(), mux.Vars(r)["id"], userID, isAdmin(r), file, header)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, image, http.StatusCreated)
}

// DeleteBlogImage удаляет изображение из базы и из хранилища.
//
//	@Summary	Удаление изображения
//	@Tags		images
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string	true	"ID блога"
//	@Param		imageId	path		string	true	"ID изображения"
//	@Success	200		{object}	MessageResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/blogs/{id}/images/{imageId} [delete]
func (h *Handlers) DeleteBlogImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.BlogService.RemoveImage(r.Context(), vars["id"], vars["imageId"], userID, isAdmin(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Изображение удалено"}, http.StatusOK)
}
