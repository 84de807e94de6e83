package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogAPI/internal/models"
)

// Сигнальные ошибки слоя хранения. Сервисы и обработчики проверяют их
// через errors.Is и переводят в HTTP-ответы.
var (
	ErrNotFound       = errors.New("запись не найдена")
	ErrDuplicateEmail = errors.New("email уже занят")
	ErrDuplicateName  = errors.New("имя уже занято")
)

// isUniqueViolation распознаёт нарушение уникального ограничения postgres.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog, tagIDs []string) error
	GetByID(ctx context.Context, blogID string) (*models.Blog, error)
	List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int, error)
	Update(ctx context.Context, blog *models.Blog) error
	ReplaceTags(ctx context.Context, blogID string, tagIDs []string) error
	Delete(ctx context.Context, blogID string) error
	IncrementViewCount(ctx context.Context, blogID string) error
	TagsForBlogs(ctx context.Context, blogIDs []string) (map[string][]models.Tag, error)
	ListLikedByUser(ctx context.Context, userID string, limit, offset int) ([]models.Blog, int, error)
	AuthorStats(ctx context.Context, authorID string) (*models.AuthorBlogStats, error)
	MostPopularByAuthor(ctx context.Context, authorID string) (*models.PopularBlog, error)
	CountPublishedByAuthor(ctx context.Context, authorID string) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error)
	ListPopular(ctx context.Context, limit int) ([]models.Tag, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	ListByBlog(ctx context.Context, blogID string, includeUnapproved bool) ([]models.Comment, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Comment, int, error)
	CountByBlog(ctx context.Context, blogID string) (int, error)
	CountReceivedByAuthor(ctx context.Context, authorID string) (int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type LikeRepository interface {
	Toggle(ctx context.Context, userID, blogID string) (bool, error)
	IsLiked(ctx context.Context, userID, blogID string) (bool, error)
	CountByBlog(ctx context.Context, blogID string) (int, error)
	CountReceivedByAuthor(ctx context.Context, authorID string) (int, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, imageID string) (*models.Image, error)
	GetByBlogID(ctx context.Context, blogID string) ([]models.Image, error)
	Delete(ctx context.Context, imageID string) error
}

type TablesRepository interface {
	CountTables(ctx context.Context) (int, error)
}

// Repository собирает все репозитории поверх одного пула соединений.
type Repository struct {
	User     UserRepository
	Blog     BlogRepository
	Category CategoryRepository
	Tag      TagRepository
	Comment  CommentRepository
	Like     LikeRepository
	Image    ImageRepository
	Tables   TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Blog:     NewBlogRepository(db),
		Category: NewCategoryRepository(db),
		Tag:      NewTagRepository(db),
		Comment:  NewCommentRepository(db),
		Like:     NewLikeRepository(db),
		Image:    NewImageRepository(db),
		Tables:   NewTablesRepository(db),
	}
}
