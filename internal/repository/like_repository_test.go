package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLikeRepo(t *testing.T) (LikeRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewLikeRepository(sqlxDB), mock
}

func TestLikeRepository_Toggle(t *testing.T) {
	repo, mock := newMockLikeRepo(t)
	ctx := context.Background()

	userID := uuid.New().String()
	blogID := uuid.New().String()

	t.Run("Повторный лайк снимается", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM likes WHERE user_id = $1 AND blog_id = $2`).
			WithArgs(userID, blogID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		liked, err := repo.Toggle(ctx, userID, blogID)

		require.NoError(t, err)
		assert.False(t, liked)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Первый лайк ставится", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM likes WHERE user_id = $1 AND blog_id = $2`).
			WithArgs(userID, blogID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectExec(`INSERT INTO likes (like_id, user_id, blog_id) VALUES ($1, $2, $3)`).
			WithArgs(sqlmock.AnyArg(), userID, blogID).
			WillReturnResult(sqlmock.NewResult(1, 1))

		liked, err := repo.Toggle(ctx, userID, blogID)

		require.NoError(t, err)
		assert.True(t, liked)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Проигранная гонка вставки трактуется как поставленный лайк", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM likes WHERE user_id = $1 AND blog_id = $2`).
			WithArgs(userID, blogID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectExec(`INSERT INTO likes (like_id, user_id, blog_id) VALUES ($1, $2, $3)`).
			WithArgs(sqlmock.AnyArg(), userID, blogID).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "likes_user_id_blog_id_key"})

		liked, err := repo.Toggle(ctx, userID, blogID)

		require.NoError(t, err)
		assert.True(t, liked)
	})
}

func TestLikeRepository_IsLiked(t *testing.T) {
	repo, mock := newMockLikeRepo(t)
	ctx := context.Background()

	userID := uuid.New().String()
	blogID := uuid.New().String()

	t.Run("Лайк существует", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND blog_id = $2)`).
			WithArgs(userID, blogID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		liked, err := repo.IsLiked(ctx, userID, blogID)

		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("Лайка нет", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND blog_id = $2)`).
			WithArgs(userID, blogID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		liked, err := repo.IsLiked(ctx, userID, blogID)

		require.NoError(t, err)
		assert.False(t, liked)
	})
}

func TestLikeRepository_Counts(t *testing.T) {
	repo, mock := newMockLikeRepo(t)
	ctx := context.Background()

	blogID := uuid.New().String()
	authorID := uuid.New().String()

	t.Run("Число лайков блога", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(*) FROM likes WHERE blog_id = $1`).
			WithArgs(blogID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountByBlog(ctx, blogID)

		require.NoError(t, err)
		assert.Equal(t, 7, count)
	})

	t.Run("Число лайков, полученных автором", func(t *testing.T) {
		mock.ExpectQuery(`
			SELECT COUNT(*)
			FROM likes l
			JOIN blogs b ON b.blog_id = l.blog_id
			WHERE b.author_id = $1
		`).
			WithArgs(authorID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

		count, err := repo.CountReceivedByAuthor(ctx, authorID)

		require.NoError(t, err)
		assert.Equal(t, 15, count)
	})
}
