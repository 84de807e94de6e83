package test

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"blogAPI/internal/models"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *MockAuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) Create(ctx context.Context, authorID string, req models.BlogCreateRequest) (*models.BlogDetail, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogDetail), args.Error(1)
}

func (m *MockBlogService) List(ctx context.Context, filter models.BlogFilter) (*models.BlogListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogListResponse), args.Error(1)
}

func (m *MockBlogService) Get(ctx context.Context, blogID, viewerID string, viewerAdmin, renderHTML bool) (*models.BlogDetail, error) {
	args := m.Called(ctx, blogID, viewerID, viewerAdmin, renderHTML)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogDetail), args.Error(1)
}

func (m *MockBlogService) Update(ctx context.Context, blogID, requesterID string, requesterAdmin bool, req models.BlogUpdateRequest) (*models.BlogDetail, error) {
	args := m.Called(ctx, blogID, requesterID, requesterAdmin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogDetail), args.Error(1)
}

func (m *MockBlogService) Delete(ctx context.Context, blogID, requesterID string, requesterAdmin bool) error {
	args := m.Called(ctx, blogID, requesterID, requesterAdmin)
	return args.Error(0)
}

func (m *MockBlogService) ToggleLike(ctx context.Context, blogID, userID string) (*models.LikeResult, error) {
	args := m.Called(ctx, blogID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeResult), args.Error(1)
}

func (m *MockBlogService) AddComment(ctx context.Context, blogID, userID string, userAdmin bool, req models.CommentCreateRequest) (*models.Comment, error) {
	args := m.Called(ctx, blogID, userID, userAdmin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockBlogService) ListComments(ctx context.Context, blogID, viewerID string, viewerAdmin bool) ([]*models.Comment, error) {
	args := m.Called(ctx, blogID, viewerID, viewerAdmin)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockBlogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockBlogService) CreateCategory(ctx context.Context, req models.CategoryCreateRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockBlogService) ListTags(ctx context.Context, limit int) ([]models.Tag, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockBlogService) CreateTag(ctx context.Context, req models.TagCreateRequest) (*models.Tag, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockBlogService) AttachImage(ctx context.Context, blogID, requesterID string, requesterAdmin bool, file multipart.File, header *multipart.FileHeader) (*models.Image, error) {
	args := m.Called(ctx, blogID, requesterID, requesterAdmin, file, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockBlogService) RemoveImage(ctx context.Context, blogID, imageID, requesterID string, requesterAdmin bool) error {
	args := m.Called(ctx, blogID, imageID, requesterID, requesterAdmin)
	return args.Error(0)
}

func (m *MockBlogService) ListImages(ctx context.Context, blogID string) ([]models.Image, error) {
	args := m.Called(ctx, blogID)
	return args.Get(0).([]models.Image), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicUser), args.Error(1)
}

func (m *MockUserService) ListMyBlogs(ctx context.Context, userID string, isPublished *bool, page, perPage int) (*models.BlogListResponse, error) {
	args := m.Called(ctx, userID, isPublished, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogListResponse), args.Error(1)
}

func (m *MockUserService) ListUserBlogs(ctx context.Context, userID, viewerID string, viewerAdmin bool, page, perPage int) (*models.BlogListResponse, error) {
	args := m.Called(ctx, userID, viewerID, viewerAdmin, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogListResponse), args.Error(1)
}

func (m *MockUserService) ListLikedBlogs(ctx context.Context, userID string, page, perPage int) (*models.BlogListResponse, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogListResponse), args.Error(1)
}

func (m *MockUserService) ListMyComments(ctx context.Context, userID string, page, perPage int) (*models.CommentListResponse, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentListResponse), args.Error(1)
}

func (m *MockUserService) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, page, perPage int) (*models.UserListResponse, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserListResponse), args.Error(1)
}

func (m *MockUserService) ToggleUserStatus(ctx context.Context, adminID, userID string) (*models.User, error) {
	args := m.Called(ctx, adminID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) AdminUpdateUser(ctx context.Context, userID string, req models.AdminUserUpdateRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshToken, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func boolPtr(v bool) *bool { return &v }

func strPtr(s string) *string { return &s }
