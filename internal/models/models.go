package models

import (
	"time"
)

type User struct {
	UserID                 string     `json:"userId" db:"user_id"`
	Name                   string     `json:"name" db:"name"`
	Email                  string     `json:"email" db:"email"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	IsActive               bool       `json:"isActive" db:"is_active"`
	IsAdmin                bool       `json:"isAdmin" db:"is_admin"`
	RefreshToken           *string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time  `json:"updatedAt" db:"updated_at"`
}

type Blog struct {
	BlogID      string     `json:"blogId" db:"blog_id"`
	Title       string     `json:"title" db:"title"`
	Body        string     `json:"body" db:"body"`
	Excerpt     string     `json:"excerpt" db:"excerpt"`
	ViewCount   int        `json:"viewCount" db:"view_count"`
	IsFeatured  bool       `json:"isFeatured" db:"is_featured"`
	IsPublished bool       `json:"isPublished" db:"is_published"`
	PublishedAt *time.Time `json:"publishedAt" db:"published_at"`
	AuthorID    string     `json:"authorId" db:"author_id"`
	CategoryID  *string    `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Заполняются JOIN-ами, в таблице blogs этих колонок нет.
	AuthorName   string  `json:"authorName,omitempty" db:"author_name"`
	CategoryName *string `json:"categoryName,omitempty" db:"category_name"`
	Tags         []Tag   `json:"tags" db:"-"`
}

// BlogDetail - блог с вычисляемой статистикой для детального просмотра.
type BlogDetail struct {
	Blog
	CommentCount int    `json:"commentCount"`
	LikeCount    int    `json:"likeCount"`
	LikedByMe    bool   `json:"likedByMe"`
	BodyHTML     string `json:"bodyHtml,omitempty"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Количество опубликованных блогов, считается агрегатом.
	BlogCount int `json:"blogCount" db:"blog_count"`
}

type Tag struct {
	TagID     string    `json:"tagId" db:"tag_id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Сколько опубликованных блогов ссылаются на тег, считается агрегатом.
	UsageCount int `json:"usageCount,omitempty" db:"usage_count"`
}

type Comment struct {
	CommentID  string    `json:"commentId" db:"comment_id"`
	Content    string    `json:"content" db:"content"`
	IsApproved bool      `json:"isApproved" db:"is_approved"`
	BlogID     string    `json:"blogId" db:"blog_id"`
	UserID     string    `json:"userId" db:"user_id"`
	ParentID   *string   `json:"parentId" db:"parent_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	AuthorName string     `json:"authorName,omitempty" db:"author_name"`
	BlogTitle  string     `json:"blogTitle,omitempty" db:"blog_title"`
	Replies    []*Comment `json:"replies" db:"-"`
}

type Like struct {
	LikeID    string    `json:"likeId" db:"like_id"`
	UserID    string    `json:"userId" db:"user_id"`
	BlogID    string    `json:"blogId" db:"blog_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Image struct {
	ImageID     string    `json:"imageId" db:"image_id"`
	BlogID      string    `json:"blogId" db:"blog_id"`
	ObjectName  string    `json:"-" db:"object_name"`
	URL         string    `json:"url" db:"url"`
	ContentType string    `json:"contentType" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// --- Запросы ---

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type BlogCreateRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=200"`
	Body        string   `json:"body" validate:"required,min=50"`
	Excerpt     string   `json:"excerpt" validate:"omitempty,max=300"`
	CategoryID  *string  `json:"categoryId"`
	TagNames    []string `json:"tagNames" validate:"omitempty,dive,min=2,max=50"`
	IsFeatured  bool     `json:"isFeatured"`
	IsPublished bool     `json:"isPublished"`
}

// BlogUpdateRequest - частичное обновление, nil-поля не трогаются.
type BlogUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=5,max=200"`
	Body        *string  `json:"body" validate:"omitempty,min=50"`
	Excerpt     *string  `json:"excerpt" validate:"omitempty,max=300"`
	CategoryID  *string  `json:"categoryId"`
	TagNames    []string `json:"tagNames" validate:"omitempty,dive,min=2,max=50"`
	IsFeatured  *bool    `json:"isFeatured"`
	IsPublished *bool    `json:"isPublished"`
}

type CommentCreateRequest struct {
	Content  string  `json:"content" validate:"required,min=3,max=1000"`
	ParentID *string `json:"parentId"`
}

type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type TagCreateRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

type UserUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type AdminUserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
	IsAdmin  *bool   `json:"isAdmin"`
}

// BlogFilter - параметры выборки списка блогов.
type BlogFilter struct {
	CategoryID  string
	Tag         string
	Search      string
	AuthorID    string
	IsPublished *bool
	IsFeatured  *bool
	SortBy      string
	SortOrder   string
	Page        int
	PerPage     int

	// Кто спрашивает: черновики видят только автор и админ.
	ViewerID    string
	ViewerAdmin bool
}

// --- Ответы ---

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         *User  `json:"user,omitempty"`
}

type BlogListResponse struct {
	Items   []Blog `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

type UserListResponse struct {
	Items   []User `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

type CommentListResponse struct {
	Items   []Comment `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
}

type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type PublicUser struct {
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	PublishedBlogs int       `json:"publishedBlogs"`
	LikesReceived  int       `json:"likesReceived"`
}

// AuthorBlogStats - агрегаты по блогам одного автора.
type AuthorBlogStats struct {
	TotalBlogs     int `json:"totalBlogs" db:"total_blogs"`
	PublishedBlogs int `json:"publishedBlogs" db:"published_blogs"`
	DraftBlogs     int `json:"draftBlogs" db:"draft_blogs"`
	FeaturedBlogs  int `json:"featuredBlogs" db:"featured_blogs"`
	TotalViews     int `json:"totalViews" db:"total_views"`
}

type PopularBlog struct {
	BlogID    string `json:"blogId" db:"blog_id"`
	Title     string `json:"title" db:"title"`
	ViewCount int    `json:"viewCount" db:"view_count"`
}

type UserStats struct {
	Blogs            AuthorBlogStats `json:"blogs"`
	LikesReceived    int             `json:"likesReceived"`
	CommentsReceived int             `json:"commentsReceived"`
	CommentsMade     int             `json:"commentsMade"`
	MostPopularBlog  *PopularBlog    `json:"mostPopularBlog,omitempty"`
}
