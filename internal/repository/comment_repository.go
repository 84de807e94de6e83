package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogAPI/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CommentID = uuid.New().String()

	query := `
		INSERT INTO comments (comment_id, content, is_approved, blog_id, user_id, parent_id)
		VALUES (:comment_id, :content, :is_approved, :blog_id, :user_id, :parent_id)
	`

	_, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment

	query := `SELECT comment_id, content, is_approved, blog_id, user_id, parent_id, created_at, updated_at FROM comments WHERE comment_id = $1`

	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("комментарий с ID %s: %w", commentID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении комментария: %w", err)
	}

	return &comment, nil
}

// ListByBlog возвращает комментарии блога одним запросом в порядке создания,
// дерево из них собирает сервис.
func (r *commentRepository) ListByBlog(ctx context.Context, blogID string, includeUnapproved bool) ([]models.Comment, error) {
	comments := []models.Comment{}

	query := `
		SELECT cm.comment_id, cm.content, cm.is_approved, cm.blog_id, cm.user_id, cm.parent_id,
		       cm.created_at, cm.updated_at, u.name AS author_name
		FROM comments cm
		JOIN users u ON u.user_id = cm.user_id
		WHERE cm.blog_id = $1 AND cm.is_approved = TRUE
		ORDER BY cm.created_at
	`

	if includeUnapproved {
		query = `
		SELECT cm.comment_id, cm.content, cm.is_approved, cm.blog_id, cm.user_id, cm.parent_id,
		       cm.created_at, cm.updated_at, u.name AS author_name
		FROM comments cm
		JOIN users u ON u.user_id = cm.user_id
		WHERE cm.blog_id = $1
		ORDER BY cm.created_at
	`
	}

	err := r.db.SelectContext(ctx, &comments, query, blogID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев блога: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Comment, int, error) {
	var total int

	countQuery := `SELECT COUNT(*) FROM comments WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете комментариев пользователя: %w", err)
	}

	comments := []models.Comment{}

	query := `
		SELECT cm.comment_id, cm.content, cm.is_approved, cm.blog_id, cm.user_id, cm.parent_id,
		       cm.created_at, cm.updated_at, b.title AS blog_title
		FROM comments cm
		JOIN blogs b ON b.blog_id = cm.blog_id
		WHERE cm.user_id = $1
		ORDER BY cm.created_at DESC
		LIMIT $2 OFFSET $3
	`

	if err := r.db.SelectContext(ctx, &comments, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении комментариев пользователя: %w", err)
	}

	return comments, total, nil
}

func (r *commentRepository) CountByBlog(ctx context.Context, blogID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM comments WHERE blog_id = $1 AND is_approved = TRUE`

	if err := r.db.GetContext(ctx, &count, query, blogID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете комментариев блога: %w", err)
	}

	return count, nil
}

// CountReceivedByAuthor считает комментарии под всеми блогами автора.
func (r *commentRepository) CountReceivedByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int

	query := `
		SELECT COUNT(*)
		FROM comments cm
		JOIN blogs b ON b.blog_id = cm.blog_id
		WHERE b.author_id = $1
	`

	if err := r.db.GetContext(ctx, &count, query, authorID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете полученных комментариев: %w", err)
	}

	return count, nil
}

func (r *commentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM comments WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете сделанных комментариев: %w", err)
	}

	return count, nil
}
