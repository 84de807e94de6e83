package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle снимает лайк, если он есть, иначе ставит. Возвращает итоговое
// состояние. Гонку параллельных вставок разрешает уникальный индекс
// (user_id, blog_id): проигравшая вставка трактуется как "уже лайкнуто".
func (r *likeRepository) Toggle(ctx context.Context, userID, blogID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND blog_id = $2`,
		userID, blogID)
	if err != nil {
		return false, fmt.Errorf("ошибка при снятии лайка: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO likes (like_id, user_id, blog_id) VALUES ($1, $2, $3)`,
		uuid.New().String(), userID, blogID)
	if err != nil {
		if isUniqueViolation(err) {
			// Параллельный запрос успел поставить лайк первым.
			return true, nil
		}
		return false, fmt.Errorf("ошибка при постановке лайка: %w", err)
	}

	return true, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, blogID string) (bool, error) {
	var liked bool

	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND blog_id = $2)`

	if err := r.db.GetContext(ctx, &liked, query, userID, blogID); err != nil {
		return false, fmt.Errorf("ошибка при проверке лайка: %w", err)
	}

	return liked, nil
}

func (r *likeRepository) CountByBlog(ctx context.Context, blogID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM likes WHERE blog_id = $1`

	if err := r.db.GetContext(ctx, &count, query, blogID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете лайков блога: %w", err)
	}

	return count, nil
}

func (r *likeRepository) CountReceivedByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int

	query := `
		SELECT COUNT(*)
		FROM likes l
		JOIN blogs b ON b.blog_id = l.blog_id
		WHERE b.author_id = $1
	`

	if err := r.db.GetContext(ctx, &count, query, authorID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете полученных лайков: %w", err)
	}

	return count, nil
}
