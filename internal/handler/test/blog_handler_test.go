package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"blogAPI/internal/models"
	"blogAPI/internal/repository"
	"blogAPI/internal/service"
)

const validBlogBody = "Дженерики появились в Go 1.18 и позволяют писать обобщенный код без потери статической типизации."

func TestBlogsHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		requestBody    map[string]interface{}
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:   "Аноним получает страницу блогов",
			method: http.MethodGet,
			target: "/api/blogs?page=1&per_page=20",
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("List", mock.Anything, models.BlogFilter{Page: 1, PerPage: 20}).
					Return(&models.BlogListResponse{
						Items:   []models.Blog{{BlogID: "blog-1", Title: "Первый блог", IsPublished: true}},
						Total:   1,
						Page:    1,
						PerPage: 20,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Фильтры из query-строки попадают в сервис",
			method: http.MethodGet,
			target: "/api/blogs?category_id=cat-1&tag=go&search=generics&is_featured=true&sort_by=view_count&sort_order=desc",
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("List", mock.Anything, models.BlogFilter{
					CategoryID: "cat-1",
					Tag:        "go",
					Search:     "generics",
					IsFeatured: boolPtr(true),
					SortBy:     "view_count",
					SortOrder:  "desc",
					ViewerID:   "user-1",
				}).Return(&models.BlogListResponse{Items: []models.Blog{}, Page: 1, PerPage: 20}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Успешное создание блога",
			method: http.MethodPost,
			target: "/api/blogs",
			requestBody: map[string]interface{}{
				"title":       "Заметки о дженериках",
				"body":        validBlogBody,
				"tagNames":    []string{"go", "generics"},
				"isPublished": true,
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Create", mock.Anything, "user-1", models.BlogCreateRequest{
					Title:       "Заметки о дженериках",
					Body:        validBlogBody,
					TagNames:    []string{"go", "generics"},
					IsPublished: true,
				}).Return(&models.BlogDetail{
					Blog: models.Blog{BlogID: "blog-new", Title: "Заметки о дженериках", AuthorID: "user-1"},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Создание без токена",
			method: http.MethodPost,
			target: "/api/blogs",
			requestBody: map[string]interface{}{
				"title": "Заметки о дженериках",
				"body":  validBlogBody,
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Слишком короткий заголовок",
			method: http.MethodPost,
			target: "/api/blogs",
			requestBody: map[string]interface{}{
				"title": "Го",
				"body":  validBlogBody,
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Неподдерживаемый метод",
			method:         http.MethodDelete,
			target:         "/api/blogs",
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			var body io.Reader
			if tt.requestBody != nil {
				raw, _ := json.Marshal(tt.requestBody)
				body = bytes.NewBuffer(raw)
			}

			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.requestBody != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.Blogs(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				err := json.Unmarshal(rr.Body.Bytes(), &response)
				assert.NoError(t, err)
				assert.Contains(t, response, "items")
				assert.Contains(t, response, "total")
			}

			mockBlogService.AssertExpectations(t)
		})
	}
}

func TestBlogByIDHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		urlVars        map[string]string
		requestBody    map[string]interface{}
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:    "Опубликованный блог доступен анониму",
			method:  http.MethodGet,
			target:  "/api/blogs/blog-1",
			urlVars: map[string]string{"id": "blog-1"},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Get", mock.Anything, "blog-1", "", false, false).
					Return(&models.BlogDetail{
						Blog:         models.Blog{BlogID: "blog-1", Title: "Первый блог", IsPublished: true},
						CommentCount: 2,
						LikeCount:    5,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Markdown рендерится по запросу",
			method:  http.MethodGet,
			target:  "/api/blogs/blog-1?render=html",
			urlVars: map[string]string{"id": "blog-1"},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Get", mock.Anything, "blog-1", "", false, true).
					Return(&models.BlogDetail{
						Blog:     models.Blog{BlogID: "blog-1", Title: "Первый блог", IsPublished: true},
						BodyHTML: "<p>текст</p>",
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Чужой черновик отвечает 404",
			method:  http.MethodGet,
			target:  "/api/blogs/draft-1",
			urlVars: map[string]string{"id": "draft-1"},
			contextValues: map[string]interface{}{
				"userID": "user-2",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Get", mock.Anything, "draft-1", "user-2", false, false).
					Return((*models.BlogDetail)(nil), fmt.Errorf("блог draft-1: %w", repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:    "Автор обновляет блог",
			method:  http.MethodPut,
			target:  "/api/blogs/blog-1",
			urlVars: map[string]string{"id": "blog-1"},
			requestBody: map[string]interface{}{
				"title": "Новый заголовок",
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Update", mock.Anything, "blog-1", "user-1", false, models.BlogUpdateRequest{
					Title: strPtr("Новый заголовок"),
				}).Return(&models.BlogDetail{
					Blog: models.Blog{BlogID: "blog-1", Title: "Новый заголовок", AuthorID: "user-1"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Обновление без токена",
			method:  http.MethodPut,
			target:  "/api/blogs/blog-1",
			urlVars: map[string]string{"id": "blog-1"},
			requestBody: map[string]interface{}{
				"title": "Новый заголовок",
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "Не автору удалять запрещено",
			method:  http.MethodDelete,
			target:  "/api/blogs/blog-1",
			urlVars: map[string]string{"id": "blog-1"},
			contextValues: map[string]interface{}{
				"userID": "user-2",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Delete", mock.Anything, "blog-1", "user-2", false).
					Return(fmt.Errorf("блог blog-1: %w", service.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:    "Администратор удаляет чужой блог",
			method:  http.MethodDelete,
			target:  "/api/blogs/blog-1",
			urlVars: map[string]string{"id": "blog-1"},
			contextValues: map[string]interface{}{
				"userID":  "admin-1",
				"isAdmin": true,
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("Delete", mock.Anything, "blog-1", "admin-1", true).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Неподдерживаемый метод",
			method:         http.MethodPatch,
			target:         "/api/blogs/blog-1",
			urlVars:        map[string]string{"id": "blog-1"},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			var body io.Reader
			if tt.requestBody != nil {
				raw, _ := json.Marshal(tt.requestBody)
				body = bytes.NewBuffer(raw)
			}

			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.requestBody != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.urlVars != nil {
				req = mux.SetURLVars(req, tt.urlVars)
			}

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.BlogByID(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockBlogService.AssertExpectations(t)
		})
	}
}

func TestToggleLikeHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:   "Лайк ставится",
			method: http.MethodPost,
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("ToggleLike", mock.Anything, "blog-1", "user-1").
					Return(&models.LikeResult{Liked: true, LikeCount: 6}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Без токена",
			method:         http.MethodPost,
			contextValues:  map[string]interface{}{},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Блог не найден",
			method: http.MethodPost,
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("ToggleLike", mock.Anything, "blog-1", "user-1").
					Return((*models.LikeResult)(nil), fmt.Errorf("блог blog-1: %w", repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Неподдерживаемый метод",
			method:         http.MethodGet,
			contextValues:  map[string]interface{}{},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			req := httptest.NewRequest(tt.method, "/api/blogs/blog-1/like", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "blog-1"})

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.ToggleLike(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				err := json.Unmarshal(rr.Body.Bytes(), &response)
				assert.NoError(t, err)
				assert.Equal(t, true, response["liked"])
				assert.Equal(t, float64(6), response["likeCount"])
			}

			mockBlogService.AssertExpectations(t)
		})
	}
}

func TestBlogCommentsHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		requestBody    map[string]interface{}
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:   "Дерево комментариев доступно всем",
			method: http.MethodGet,
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("ListComments", mock.Anything, "blog-1", "", false).
					Return([]*models.Comment{
						{CommentID: "c-1", Content: "Отличная статья", BlogID: "blog-1", IsApproved: true, Replies: []*models.Comment{}},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Комментарий добавляется",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"content": "Спасибо за разбор",
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("AddComment", mock.Anything, "blog-1", "user-1", false, models.CommentCreateRequest{
					Content: "Спасибо за разбор",
				}).Return(&models.Comment{
					CommentID:  "c-2",
					Content:    "Спасибо за разбор",
					BlogID:     "blog-1",
					UserID:     "user-1",
					IsApproved: true,
					Replies:    []*models.Comment{},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Ответ на комментарий",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"content":  "Согласен с автором",
				"parentId": "c-1",
			},
			contextValues: map[string]interface{}{
				"userID": "user-2",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("AddComment", mock.Anything, "blog-1", "user-2", false, models.CommentCreateRequest{
					Content:  "Согласен с автором",
					ParentID: strPtr("c-1"),
				}).Return(&models.Comment{
					CommentID:  "c-3",
					Content:    "Согласен с автором",
					BlogID:     "blog-1",
					UserID:     "user-2",
					ParentID:   strPtr("c-1"),
					IsApproved: true,
					Replies:    []*models.Comment{},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Слишком короткий комментарий",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"content": "ок",
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Комментарий без токена",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"content": "Спасибо за разбор",
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Неподдерживаемый метод",
			method:         http.MethodPut,
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			var body io.Reader
			if tt.requestBody != nil {
				raw, _ := json.Marshal(tt.requestBody)
				body = bytes.NewBuffer(raw)
			}

			req := httptest.NewRequest(tt.method, "/api/blogs/blog-1/comments", body)
			if tt.requestBody != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			req = mux.SetURLVars(req, map[string]string{"id": "blog-1"})

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.BlogComments(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockBlogService.AssertExpectations(t)
		})
	}
}

func TestCategoriesHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		requestBody    map[string]interface{}
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:   "Список категорий публичный",
			method: http.MethodGet,
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("ListCategories", mock.Anything).
					Return([]models.Category{{CategoryID: "cat-1", Name: "Разработка", BlogCount: 3}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Администратор создает категорию",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"name":        "Базы данных",
				"description": "Статьи про хранение данных",
			},
			contextValues: map[string]interface{}{
				"userID":  "admin-1",
				"isAdmin": true,
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("CreateCategory", mock.Anything, models.CategoryCreateRequest{
					Name:        "Базы данных",
					Description: strPtr("Статьи про хранение данных"),
				}).Return(&models.Category{CategoryID: "cat-2", Name: "Базы данных", IsActive: true}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Создание категории без прав",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"name": "Базы данных",
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "Дубликат имени категории",
			method: http.MethodPost,
			requestBody: map[string]interface{}{
				"name": "Разработка",
			},
			contextValues: map[string]interface{}{
				"userID":  "admin-1",
				"isAdmin": true,
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("CreateCategory", mock.Anything, models.CategoryCreateRequest{Name: "Разработка"}).
					Return((*models.Category)(nil), fmt.Errorf("категория: %w", repository.ErrDuplicateName))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Неподдерживаемый метод",
			method:         http.MethodDelete,
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			var body io.Reader
			if tt.requestBody != nil {
				raw, _ := json.Marshal(tt.requestBody)
				body = bytes.NewBuffer(raw)
			}

			req := httptest.NewRequest(tt.method, "/api/categories", body)
			if tt.requestBody != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.Categories(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockBlogService.AssertExpectations(t)
		})
	}
}

func TestTagsHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		requestBody    map[string]interface{}
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:   "Теги с ограничением количества",
			method: http.MethodGet,
			target: "/api/tags?limit=10",
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("ListTags", mock.Anything, 10).
					Return([]models.Tag{{TagID: "tag-1", Name: "go", Color: "#007bff", UsageCount: 7}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Лимит по умолчанию",
			method: http.MethodGet,
			target: "/api/tags",
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("ListTags", mock.Anything, 0).Return([]models.Tag{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Администратор создает тег",
			method: http.MethodPost,
			target: "/api/tags",
			requestBody: map[string]interface{}{
				"name":  "postgres",
				"color": "#336791",
			},
			contextValues: map[string]interface{}{
				"userID":  "admin-1",
				"isAdmin": true,
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("CreateTag", mock.Anything, models.TagCreateRequest{Name: "postgres", Color: "#336791"}).
					Return(&models.Tag{TagID: "tag-2", Name: "postgres", Color: "#336791"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Создание тега без прав",
			method: http.MethodPost,
			target: "/api/tags",
			requestBody: map[string]interface{}{
				"name": "postgres",
			},
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "Невалидный цвет тега",
			method: http.MethodPost,
			target: "/api/tags",
			requestBody: map[string]interface{}{
				"name":  "postgres",
				"color": "red",
			},
			contextValues: map[string]interface{}{
				"userID":  "admin-1",
				"isAdmin": true,
			},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			var body io.Reader
			if tt.requestBody != nil {
				raw, _ := json.Marshal(tt.requestBody)
				body = bytes.NewBuffer(raw)
			}

			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.requestBody != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.Tags(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockBlogService.AssertExpectations(t)
		})
	}
}

func TestListBlogImagesHandler(t *testing.T) {
	// Arrange
	mockBlogService := new(MockBlogService)
	mockBlogService.On("ListImages", mock.Anything, "blog-1").
		Return([]models.Image{
			{ImageID: "img-1", BlogID: "blog-1", URL: "http://minio.local/blog-images/blog-1/img-1.png", ContentType: "image/png", Size: 2048},
		}, nil)

	handler := createTestHandler(new(MockAuthService))
	handler.BlogService = mockBlogService

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/blog-1/images", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "blog-1"})
	rr := httptest.NewRecorder()

	// Act
	handler.BlogImages(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "img-1", response[0]["imageId"])

	mockBlogService.AssertExpectations(t)
}

func TestUploadBlogImageHandler_Success(t *testing.T) {
	// Arrange
	mockBlogService := new(MockBlogService)
	mockBlogService.On("AttachImage", mock.Anything, "blog-1", "user-1", false, mock.Anything, mock.Anything).
		Return(&models.Image{
			ImageID:     "img-2",
			BlogID:      "blog-1",
			URL:         "http://minio.local/blog-images/blog-1/img-2.png",
			ContentType: "image/png",
			Size:        18,
		}, nil)

	handler := createTestHandler(new(MockAuthService))
	handler.BlogService = mockBlogService

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="diagram.png"`)
	h.Set("Content-Type", "image/png")

	part, err := writer.CreatePart(h)
	assert.NoError(t, err)

	part.Write([]byte("fake image content"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/blog-1/images", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = mux.SetURLVars(req, map[string]string{"id": "blog-1"})

	ctx := context.WithValue(req.Context(), "userID", "user-1")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()

	// Act
	handler.BlogImages(rr, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rr.Code)

	var response map[string]interface{}
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "img-2", response["imageId"])
	assert.Equal(t, "blog-1", response["blogId"])
	assert.Contains(t, response["url"], "img-2.png")

	mockBlogService.AssertExpectations(t)
}

func TestUploadBlogImageHandler_MissingFile(t *testing.T) {
	// Arrange: форма без поля image.
	mockBlogService := new(MockBlogService)

	handler := createTestHandler(new(MockAuthService))
	handler.BlogService = mockBlogService

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("comment", "без файла")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/blog-1/images", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = mux.SetURLVars(req, map[string]string{"id": "blog-1"})

	ctx := context.WithValue(req.Context(), "userID", "user-1")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()

	// Act
	handler.BlogImages(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusBadRequest, "Поле image обязательно")
	mockBlogService.AssertNotCalled(t, "AttachImage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadBlogImageHandler_Unauthenticated(t *testing.T) {
	// Arrange
	mockBlogService := new(MockBlogService)

	handler := createTestHandler(new(MockAuthService))
	handler.BlogService = mockBlogService

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("image", "diagram.png")
	part.Write([]byte("fake image content"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/blog-1/images", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = mux.SetURLVars(req, map[string]string{"id": "blog-1"})
	rr := httptest.NewRecorder()

	// Act
	handler.BlogImages(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusUnauthorized, "Требуется аутентификация")
	mockBlogService.AssertNotCalled(t, "AttachImage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteBlogImageHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		contextValues  map[string]interface{}
		mockSetup      func(*MockBlogService)
		expectedStatus int
	}{
		{
			name:   "Автор удаляет изображение",
			method: http.MethodDelete,
			contextValues: map[string]interface{}{
				"userID": "user-1",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("RemoveImage", mock.Anything, "blog-1", "img-1", "user-1", false).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Чужое изображение защищено",
			method: http.MethodDelete,
			contextValues: map[string]interface{}{
				"userID": "user-2",
			},
			mockSetup: func(blogs *MockBlogService) {
				blogs.On("RemoveImage", mock.Anything, "blog-1", "img-1", "user-2", false).
					Return(fmt.Errorf("блог blog-1: %w", service.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Без токена",
			method:         http.MethodDelete,
			contextValues:  map[string]interface{}{},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Неподдерживаемый метод",
			method:         http.MethodPost,
			contextValues:  map[string]interface{}{},
			mockSetup:      func(blogs *MockBlogService) {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBlogService := new(MockBlogService)
			tt.mockSetup(mockBlogService)

			handler := createTestHandler(new(MockAuthService))
			handler.BlogService = mockBlogService

			req := httptest.NewRequest(tt.method, "/api/blogs/blog-1/images/img-1", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "blog-1", "imageId": "img-1"})

			ctx := req.Context()
			for key, value := range tt.contextValues {
				ctx = context.WithValue(ctx, key, value)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.DeleteBlogImage(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockBlogService.AssertExpectations(t)
		})
	}
}
