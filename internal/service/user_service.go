package service

import (
	"context"
	"fmt"
	"strings"

	"blogAPI/internal/models"
	"blogAPI/internal/repository"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error)
	GetPublicProfile(ctx context.Context, userID string) (*models.PublicUser, error)
	ListMyBlogs(ctx context.Context, userID string, isPublished *bool, page, perPage int) (*models.BlogListResponse, error)
	ListUserBlogs(ctx context.Context, userID, viewerID string, viewerAdmin bool, page, perPage int) (*models.BlogListResponse, error)
	ListLikedBlogs(ctx context.Context, userID string, page, perPage int) (*models.BlogListResponse, error)
	ListMyComments(ctx context.Context, userID string, page, perPage int) (*models.CommentListResponse, error)
	GetStats(ctx context.Context, userID string) (*models.UserStats, error)
	ListUsers(ctx context.Context, page, perPage int) (*models.UserListResponse, error)
	ToggleUserStatus(ctx context.Context, adminID, userID string) (*models.User, error)
	AdminUpdateUser(ctx context.Context, userID string, req models.AdminUserUpdateRequest) (*models.User, error)
}

type userService struct {
	userRepo    repository.UserRepository
	blogRepo    repository.BlogRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	blogs       BlogService
}

func NewUserService(rep *repository.Repository, blogs BlogService) UserService {
	return &userService{
		userRepo:    rep.User,
		blogRepo:    rep.Blog,
		commentRepo: rep.Comment,
		likeRepo:    rep.Like,
		blogs:       blogs,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Профили заблокированных пользователей наружу не отдаем.
	if !user.IsActive {
		return nil, fmt.Errorf("пользователь с ID %s: %w", userID, repository.ErrNotFound)
	}

	blogCount, err := s.blogRepo.CountPublishedByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	likesReceived, err := s.likeRepo.CountReceivedByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.PublicUser{
		UserID:         user.UserID,
		Name:           user.Name,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
		PublishedBlogs: blogCount,
		LikesReceived:  likesReceived,
	}, nil
}

func (s *userService) ListMyBlogs(ctx context.Context, userID string, isPublished *bool, page, perPage int) (*models.BlogListResponse, error) {
	// Автор видит и свои черновики.
	filter := models.BlogFilter{
		AuthorID:    userID,
		IsPublished: isPublished,
		Page:        page,
		PerPage:     perPage,
		SortBy:      "created_at",
		ViewerID:    userID,
	}
	return s.blogs.List(ctx, filter)
}

func (s *userService) ListUserBlogs(ctx context.Context, userID, viewerID string, viewerAdmin bool, page, perPage int) (*models.BlogListResponse, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	filter := models.BlogFilter{
		AuthorID:    userID,
		Page:        page,
		PerPage:     perPage,
		ViewerID:    viewerID,
		ViewerAdmin: viewerAdmin,
	}
	return s.blogs.List(ctx, filter)
}

func (s *userService) ListLikedBlogs(ctx context.Context, userID string, page, perPage int) (*models.BlogListResponse, error) {
	page, perPage = normalizePage(page, perPage)

	blogs, total, err := s.blogRepo.ListLikedByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &models.BlogListResponse{
		Items:   blogs,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *userService) ListMyComments(ctx context.Context, userID string, page, perPage int) (*models.CommentListResponse, error) {
	page, perPage = normalizePage(page, perPage)

	comments, total, err := s.commentRepo.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &models.CommentListResponse{
		Items:   comments,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *userService) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	stats, err := s.blogRepo.AuthorStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	likesReceived, err := s.likeRepo.CountReceivedByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	commentsReceived, err := s.commentRepo.CountReceivedByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	commentsMade, err := s.commentRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	popular, err := s.blogRepo.MostPopularByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		Blogs:            *stats,
		LikesReceived:    likesReceived,
		CommentsReceived: commentsReceived,
		CommentsMade:     commentsMade,
		MostPopularBlog:  popular,
	}, nil
}

func (s *userService) ListUsers(ctx context.Context, page, perPage int) (*models.UserListResponse, error) {
	page, perPage = normalizePage(page, perPage)

	users, total, err := s.userRepo.ListUsers(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &models.UserListResponse{
		Items:   users,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *userService) ToggleUserStatus(ctx context.Context, adminID, userID string) (*models.User, error) {
	// Админ не может заблокировать сам себя, иначе легко остаться
	// без единого активного администратора.
	if adminID == userID {
		return nil, fmt.Errorf("нельзя менять статус собственной учетной записи: %w", ErrValidation)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	// Заблокированный пользователь не должен продлить сессию по refresh.
	if !user.IsActive {
		if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *userService) AdminUpdateUser(ctx context.Context, userID string, req models.AdminUserUpdateRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	if !user.IsActive {
		if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
