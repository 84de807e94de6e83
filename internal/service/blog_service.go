package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"blogAPI/internal/config"
	"blogAPI/internal/models"
	"blogAPI/internal/repository"
	"blogAPI/internal/storage"
)

// Предел длины выдержки вместе с многоточием.
const excerptMaxLen = 300

// Типы файлов, которые принимаются как изображения блога.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type BlogService interface {
	Create(ctx context.Context, authorID string, req models.BlogCreateRequest) (*models.BlogDetail, error)
	List(ctx context.Context, filter models.BlogFilter) (*models.BlogListResponse, error)
	Get(ctx context.Context, blogID, viewerID string, viewerAdmin, renderHTML bool) (*models.BlogDetail, error)
	Update(ctx context.Context, blogID, requesterID string, requesterAdmin bool, req models.BlogUpdateRequest) (*models.BlogDetail, error)
	Delete(ctx context.Context, blogID, requesterID string, requesterAdmin bool) error
	ToggleLike(ctx context.Context, blogID, userID string) (*models.LikeResult, error)
	AddComment(ctx context.Context, blogID, userID string, userAdmin bool, req models.CommentCreateRequest) (*models.Comment, error)
	ListComments(ctx context.Context, blogID, viewerID string, viewerAdmin bool) ([]*models.Comment, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req models.CategoryCreateRequest) (*models.Category, error)
	ListTags(ctx context.Context, limit int) ([]models.Tag, error)
	CreateTag(ctx context.Context, req models.TagCreateRequest) (*models.Tag, error)
	AttachImage(ctx context.Context, blogID, requesterID string, requesterAdmin bool, file multipart.File, header *multipart.FileHeader) (*models.Image, error)
	RemoveImage(ctx context.Context, blogID, imageID, requesterID string, requesterAdmin bool) error
	ListImages(ctx context.Context, blogID string) ([]models.Image, error)
}

type blogService struct {
	blogRepo     repository.BlogRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	imageRepo    repository.ImageRepository
	userRepo     repository.UserRepository
	storage      storage.Storage
	cfg          *config.Config
}

func NewBlogService(rep *repository.Repository, cfg *config.Config, store storage.Storage) BlogService {
	return &blogService{
		blogRepo:     rep.Blog,
		categoryRepo: rep.Category,
		tagRepo:      rep.Tag,
		commentRepo:  rep.Comment,
		likeRepo:     rep.Like,
		imageRepo:    rep.Image,
		userRepo:     rep.User,
		storage:      store,
		cfg:          cfg,
	}
}

// deriveExcerpt обрезает тело по границе слова так, чтобы вместе
// с многоточием выдержка не превышала 300 символов.
func deriveExcerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= excerptMaxLen {
		return body
	}

	cut := string(runes[:excerptMaxLen-3])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ") + "..."
}

func (s *blogService) Create(ctx context.Context, authorID string, req models.BlogCreateRequest) (*models.BlogDetail, error) {
	categoryID := req.CategoryID
	if categoryID != nil && *categoryID == "" {
		categoryID = nil
	}
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			return nil, err
		}
	}

	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = deriveExcerpt(req.Body)
	}

	blog := &models.Blog{
		Title:       strings.TrimSpace(req.Title),
		Body:        req.Body,
		Excerpt:     excerpt,
		IsFeatured:  req.IsFeatured,
		IsPublished: req.IsPublished,
		AuthorID:    authorID,
		CategoryID:  categoryID,
	}
	if req.IsPublished {
		now := time.Now()
		blog.PublishedAt = &now
	}

	tags, err := s.tagRepo.GetOrCreateByNames(ctx, req.TagNames)
	if err != nil {
		return nil, err
	}

	tagIDs := make([]string, len(tags))
	for i, tag := range tags {
		tagIDs[i] = tag.TagID
	}

	if err := s.blogRepo.Create(ctx, blog, tagIDs); err != nil {
		return nil, err
	}

	created, err := s.blogRepo.GetByID(ctx, blog.BlogID)
	if err != nil {
		return nil, err
	}
	created.Tags = tags

	return s.buildDetail(ctx, created, authorID, false)
}

func (s *blogService) List(ctx context.Context, filter models.BlogFilter) (*models.BlogListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 10
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))

	blogs, total, err := s.blogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, blogs); err != nil {
		return nil, err
	}

	return &models.BlogListResponse{
		Items:   blogs,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (s *blogService) Get(ctx context.Context, blogID, viewerID string, viewerAdmin, renderHTML bool) (*models.BlogDetail, error) {
	blog, err := s.fetchVisible(ctx, blogID, viewerID, viewerAdmin)
	if err != nil {
		return nil, err
	}

	// Счетчик просмотров растет по принципу best-effort: сбой инкремента
	// не валит чтение.
	if err := s.blogRepo.IncrementViewCount(ctx, blogID); err != nil {
		log.Printf("не удалось увеличить счетчик просмотров блога %s: %v", blogID, err)
	} else {
		blog.ViewCount++
	}

	return s.buildDetail(ctx, blog, viewerID, renderHTML)
}

func (s *blogService) Update(ctx context.Context, blogID, requesterID string, requesterAdmin bool, req models.BlogUpdateRequest) (*models.BlogDetail, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != requesterID && !requesterAdmin {
		return nil, fmt.Errorf("изменение чужого блога: %w", ErrForbidden)
	}

	if req.Title != nil {
		blog.Title = strings.TrimSpace(*req.Title)
	}

	bodyChanged := false
	if req.Body != nil {
		blog.Body = *req.Body
		bodyChanged = true
	}

	switch {
	case req.Excerpt != nil:
		blog.Excerpt = strings.TrimSpace(*req.Excerpt)
	case bodyChanged:
		blog.Excerpt = deriveExcerpt(blog.Body)
	}

	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			blog.CategoryID = nil
		} else {
			if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
				return nil, err
			}
			blog.CategoryID = req.CategoryID
		}
	}

	if req.IsFeatured != nil {
		blog.IsFeatured = *req.IsFeatured
	}

	if req.IsPublished != nil {
		// Публикация ставит отметку времени, повторная публикация обновляет
		// ее. Снятие с публикации дату не трогает.
		if *req.IsPublished && !blog.IsPublished {
			now := time.Now()
			blog.PublishedAt = &now
		}
		blog.IsPublished = *req.IsPublished
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}

	if req.TagNames != nil {
		tags, err := s.tagRepo.GetOrCreateByNames(ctx, req.TagNames)
		if err != nil {
			return nil, err
		}

		tagIDs := make([]string, len(tags))
		for i, tag := range tags {
			tagIDs[i] = tag.TagID
		}

		if err := s.blogRepo.ReplaceTags(ctx, blogID, tagIDs); err != nil {
			return nil, err
		}
	}

	updated, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	tagsMap, err := s.blogRepo.TagsForBlogs(ctx, []string{blogID})
	if err != nil {
		return nil, err
	}
	updated.Tags = tagsMap[blogID]

	return s.buildDetail(ctx, updated, requesterID, false)
}

func (s *blogService) Delete(ctx context.Context, blogID, requesterID string, requesterAdmin bool) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return err
	}

	if blog.AuthorID != requesterID && !requesterAdmin {
		return fmt.Errorf("удаление чужого блога: %w", ErrForbidden)
	}

	// Файлы в объектном хранилище каскадом не удаляются, чистим сами.
	images, err := s.imageRepo.GetByBlogID(ctx, blogID)
	if err != nil {
		return err
	}
	for _, image := range images {
		if err := s.storage.DeleteImage(ctx, image.ObjectName); err != nil {
			log.Printf("не удалось удалить объект %s: %v", image.ObjectName, err)
		}
	}

	return s.blogRepo.Delete(ctx, blogID)
}

func (s *blogService) ToggleLike(ctx context.Context, blogID, userID string) (*models.LikeResult, error) {
	if _, err := s.fetchVisible(ctx, blogID, userID, false); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Toggle(ctx, userID, blogID)
	if err != nil {
		return nil, err
	}

	count, err := s.likeRepo.CountByBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	return &models.LikeResult{Liked: liked, LikeCount: count}, nil
}

func (s *blogService) AddComment(ctx context.Context, blogID, userID string, userAdmin bool, req models.CommentCreateRequest) (*models.Comment, error) {
	if _, err := s.fetchVisible(ctx, blogID, userID, userAdmin); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.BlogID != blogID {
			return nil, fmt.Errorf("родительский комментарий принадлежит другому блогу: %w", ErrValidation)
		}
	}

	comment := &models.Comment{
		Content:    strings.TrimSpace(req.Content),
		IsApproved: !s.cfg.CommentModeration,
		BlogID:     blogID,
		UserID:     userID,
		ParentID:   req.ParentID,
		Replies:    []*models.Comment{},
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if user, err := s.userRepo.GetUserByID(ctx, userID); err == nil {
		comment.AuthorName = user.Name
	}

	return comment, nil
}

func (s *blogService) ListComments(ctx context.Context, blogID, viewerID string, viewerAdmin bool) ([]*models.Comment, error) {
	blog, err := s.fetchVisible(ctx, blogID, viewerID, viewerAdmin)
	if err != nil {
		return nil, err
	}

	includeUnapproved := viewerAdmin || blog.AuthorID == viewerID

	comments, err := s.commentRepo.ListByBlog(ctx, blogID, includeUnapproved)
	if err != nil {
		return nil, err
	}

	return buildCommentTree(comments), nil
}

// buildCommentTree собирает лес комментариев за один проход: сперва все
// узлы индексируются по ID, затем каждый подвешивается к родителю.
// Рекурсивных запросов к БД нет.
func buildCommentTree(comments []models.Comment) []*models.Comment {
	nodes := make(map[string]*models.Comment, len(comments))
	for i := range comments {
		comments[i].Replies = []*models.Comment{}
		nodes[comments[i].CommentID] = &comments[i]
	}

	roots := []*models.Comment{}
	for i := range comments {
		comment := &comments[i]
		if comment.ParentID == nil {
			roots = append(roots, comment)
			continue
		}

		parent, ok := nodes[*comment.ParentID]
		if !ok {
			// Родитель скрыт модерацией, ответ поднимается на верхний уровень.
			roots = append(roots, comment)
			continue
		}
		parent.Replies = append(parent.Replies, comment)
	}

	return roots
}

func (s *blogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *blogService) CreateCategory(ctx context.Context, req models.CategoryCreateRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *blogService) ListTags(ctx context.Context, limit int) ([]models.Tag, error) {
	return s.tagRepo.ListPopular(ctx, limit)
}

func (s *blogService) CreateTag(ctx context.Context, req models.TagCreateRequest) (*models.Tag, error) {
	tag := &models.Tag{
		Name:  req.Name,
		Color: req.Color,
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

func (s *blogService) AttachImage(ctx context.Context, blogID, requesterID string, requesterAdmin bool, file multipart.File, header *multipart.FileHeader) (*models.Image, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != requesterID && !requesterAdmin {
		return nil, fmt.Errorf("загрузка изображений в чужой блог: %w", ErrForbidden)
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("недопустимый тип файла %s: %w", contentType, ErrValidation)
	}

	if header.Size > s.cfg.MaxUploadSize {
		return nil, fmt.Errorf("файл больше %d байт: %w", s.cfg.MaxUploadSize, ErrValidation)
	}

	objectName, url, err := s.storage.UploadImage(ctx, blogID, header.Filename, file, header.Size)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в хранилище: %w", err)
	}

	image := &models.Image{
		BlogID:      blogID,
		ObjectName:  objectName,
		URL:         url,
		ContentType: contentType,
		Size:        header.Size,
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		// Запись не сохранилась, объект в хранилище больше не нужен.
		if cleanupErr := s.storage.DeleteImage(ctx, objectName); cleanupErr != nil {
			log.Printf("не удалось удалить объект %s после сбоя: %v", objectName, cleanupErr)
		}
		return nil, err
	}

	return image, nil
}

func (s *blogService) RemoveImage(ctx context.Context, blogID, imageID, requesterID string, requesterAdmin bool) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return err
	}

	if blog.AuthorID != requesterID && !requesterAdmin {
		return fmt.Errorf("удаление изображений чужого блога: %w", ErrForbidden)
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image.BlogID != blogID {
		return fmt.Errorf("изображение %s не относится к блогу %s: %w", imageID, blogID, repository.ErrNotFound)
	}

	if err := s.storage.DeleteImage(ctx, image.ObjectName); err != nil {
		return fmt.Errorf("ошибка удаления из хранилища: %w", err)
	}

	return s.imageRepo.Delete(ctx, imageID)
}

func (s *blogService) ListImages(ctx context.Context, blogID string) ([]models.Image, error) {
	return s.imageRepo.GetByBlogID(ctx, blogID)
}

// fetchVisible загружает блог и применяет правило видимости черновиков:
// посторонним отвечаем "не найдено", а не "запрещено", чтобы не раскрывать
// сам факт существования черновика.
func (s *blogService) fetchVisible(ctx context.Context, blogID, viewerID string, viewerAdmin bool) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if !blog.IsPublished && !viewerAdmin && blog.AuthorID != viewerID {
		return nil, fmt.Errorf("блог с ID %s: %w", blogID, repository.ErrNotFound)
	}

	return blog, nil
}

func (s *blogService) buildDetail(ctx context.Context, blog *models.Blog, viewerID string, renderHTML bool) (*models.BlogDetail, error) {
	if blog.Tags == nil {
		tagsMap, err := s.blogRepo.TagsForBlogs(ctx, []string{blog.BlogID})
		if err != nil {
			return nil, err
		}
		blog.Tags = tagsMap[blog.BlogID]
	}
	if blog.Tags == nil {
		blog.Tags = []models.Tag{}
	}

	detail := &models.BlogDetail{Blog: *blog}

	commentCount, err := s.commentRepo.CountByBlog(ctx, blog.BlogID)
	if err != nil {
		return nil, err
	}
	detail.CommentCount = commentCount

	likeCount, err := s.likeRepo.CountByBlog(ctx, blog.BlogID)
	if err != nil {
		return nil, err
	}
	detail.LikeCount = likeCount

	if viewerID != "" {
		liked, err := s.likeRepo.IsLiked(ctx, viewerID, blog.BlogID)
		if err != nil {
			return nil, err
		}
		detail.LikedByMe = liked
	}

	if renderHTML {
		html, err := RenderMarkdown(blog.Body)
		if err != nil {
			return nil, err
		}
		detail.BodyHTML = html
	}

	return detail, nil
}

func (s *blogService) attachTags(ctx context.Context, blogs []models.Blog) error {
	if len(blogs) == 0 {
		return nil
	}

	ids := make([]string, len(blogs))
	for i := range blogs {
		ids[i] = blogs[i].BlogID
	}

	tagsMap, err := s.blogRepo.TagsForBlogs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range blogs {
		tags := tagsMap[blogs[i].BlogID]
		if tags == nil {
			tags = []models.Tag{}
		}
		blogs[i].Tags = tags
	}

	return nil
}
