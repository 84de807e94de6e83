package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogAPI/internal/models"
)

type blogRepository struct {
	db *sqlx.DB
	sq squirrel.StatementBuilderType
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Разрешённые поля сортировки, всё остальное отбрасывается.
var blogSortColumns = map[string]string{
	"created_at": "b.created_at",
	"title":      "b.title",
	"view_count": "b.view_count",
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog, tagIDs []string) error {
	blog.BlogID = uuid.New().String()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO blogs (blog_id, title, body, excerpt, is_featured, is_published, published_at, author_id, category_id)
		VALUES (:blog_id, :title, :body, :excerpt, :is_featured, :is_published, :published_at, :author_id, :category_id)
	`

	if _, err = tx.NamedExecContext(ctx, query, blog); err != nil {
		return fmt.Errorf("ошибка при создании блога: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO blog_tags (blog_id, tag_id) VALUES ($1, $2)`,
			blog.BlogID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка при привязке тега к блогу: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, blogID string) (*models.Blog, error) {
	var blog models.Blog

	query := `
		SELECT b.*, u.name AS author_name, c.name AS category_name
		FROM blogs b
		JOIN users u ON u.user_id = b.author_id
		LEFT JOIN categories c ON c.category_id = b.category_id
		WHERE b.blog_id = $1
	`

	err := r.db.GetContext(ctx, &blog, query, blogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("блог с ID %s: %w", blogID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении блога: %w", err)
	}

	return &blog, nil
}

// List собирает динамический запрос по фильтру. Черновики попадают в выборку
// только для их автора и для админа.
func (r *blogRepository) List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int, error) {
	conds := squirrel.And{}

	if !filter.ViewerAdmin {
		if filter.ViewerID == "" {
			conds = append(conds, squirrel.Eq{"b.is_published": true})
		} else {
			conds = append(conds, squirrel.Or{
				squirrel.Eq{"b.is_published": true},
				squirrel.Eq{"b.author_id": filter.ViewerID},
			})
		}
	}
	if filter.IsPublished != nil {
		conds = append(conds, squirrel.Eq{"b.is_published": *filter.IsPublished})
	}
	if filter.IsFeatured != nil {
		conds = append(conds, squirrel.Eq{"b.is_featured": *filter.IsFeatured})
	}
	if filter.CategoryID != "" {
		conds = append(conds, squirrel.Eq{"b.category_id": filter.CategoryID})
	}
	if filter.AuthorID != "" {
		conds = append(conds, squirrel.Eq{"b.author_id": filter.AuthorID})
	}
	if filter.Tag != "" {
		conds = append(conds, squirrel.Expr(
			"EXISTS (SELECT 1 FROM blog_tags bt JOIN tags t ON t.tag_id = bt.tag_id WHERE bt.blog_id = b.blog_id AND t.name = ?)",
			filter.Tag))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"b.title": pattern},
			squirrel.ILike{"b.body": pattern},
		})
	}

	countSQL, countArgs, err := r.sq.Select("COUNT(*)").From("blogs b").Where(conds).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при сборке запроса подсчета: %w", err)
	}

	var total int
	if err = r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете блогов: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}

	sortColumn, ok := blogSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "b.created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	listSQL, listArgs, err := r.sq.
		Select("b.*", "u.name AS author_name", "c.name AS category_name").
		From("blogs b").
		Join("users u ON u.user_id = b.author_id").
		LeftJoin("categories c ON c.category_id = b.category_id").
		Where(conds).
		OrderBy(sortColumn + " " + direction).
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при сборке запроса списка: %w", err)
	}

	blogs := []models.Blog{}
	if err = r.db.SelectContext(ctx, &blogs, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении списка блогов: %w", err)
	}

	return blogs, total, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	query := `
		UPDATE blogs
		SET title = :title, body = :body, excerpt = :excerpt, category_id = :category_id,
		    is_featured = :is_featured, is_published = :is_published, published_at = :published_at,
		    updated_at = CURRENT_TIMESTAMP
		WHERE blog_id = :blog_id
	`

	result, err := r.db.NamedExecContext(ctx, query, blog)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении блога: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("блог с ID %s: %w", blog.BlogID, ErrNotFound)
	}

	return nil
}

func (r *blogRepository) ReplaceTags(ctx context.Context, blogID string, tagIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM blog_tags WHERE blog_id = $1`, blogID); err != nil {
		return fmt.Errorf("ошибка при очистке тегов блога: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO blog_tags (blog_id, tag_id) VALUES ($1, $2)`,
			blogID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка при привязке тега к блогу: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func (r *blogRepository) Delete(ctx context.Context, blogID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE blog_id = $1`, blogID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении блога: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("блог с ID %s: %w", blogID, ErrNotFound)
	}

	return nil
}

// IncrementViewCount атомарен на стороне БД, потерянные инкременты
// при гонках не компенсируются.
func (r *blogRepository) IncrementViewCount(ctx context.Context, blogID string) error {
	query := `UPDATE blogs SET view_count = view_count + 1 WHERE blog_id = $1`

	_, err := r.db.ExecContext(ctx, query, blogID)
	if err != nil {
		return fmt.Errorf("ошибка при увеличении счетчика просмотров: %w", err)
	}

	return nil
}

type blogTagRow struct {
	models.Tag
	BlogID string `db:"blog_id"`
}

func (r *blogRepository) TagsForBlogs(ctx context.Context, blogIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(blogIDs))
	if len(blogIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT bt.blog_id, t.tag_id, t.name, t.color, t.created_at
		FROM blog_tags bt
		JOIN tags t ON t.tag_id = bt.tag_id
		WHERE bt.blog_id = ANY($1)
		ORDER BY t.name
	`

	rows := []blogTagRow{}
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(blogIDs))
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов блогов: %w", err)
	}

	for _, row := range rows {
		result[row.BlogID] = append(result[row.BlogID], row.Tag)
	}

	return result, nil
}

func (r *blogRepository) ListLikedByUser(ctx context.Context, userID string, limit, offset int) ([]models.Blog, int, error) {
	var total int

	countQuery := `
		SELECT COUNT(*)
		FROM likes l
		JOIN blogs b ON b.blog_id = l.blog_id
		WHERE l.user_id = $1 AND b.is_published = TRUE
	`

	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете лайкнутых блогов: %w", err)
	}

	query := `
		SELECT b.*, u.name AS author_name, c.name AS category_name
		FROM likes l
		JOIN blogs b ON b.blog_id = l.blog_id
		JOIN users u ON u.user_id = b.author_id
		LEFT JOIN categories c ON c.category_id = b.category_id
		WHERE l.user_id = $1 AND b.is_published = TRUE
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`

	blogs := []models.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении лайкнутых блогов: %w", err)
	}

	return blogs, total, nil
}

func (r *blogRepository) AuthorStats(ctx context.Context, authorID string) (*models.AuthorBlogStats, error) {
	var stats models.AuthorBlogStats

	query := `
		SELECT COUNT(*) AS total_blogs,
		       COUNT(*) FILTER (WHERE is_published) AS published_blogs,
		       COUNT(*) FILTER (WHERE NOT is_published) AS draft_blogs,
		       COUNT(*) FILTER (WHERE is_featured) AS featured_blogs,
		       COALESCE(SUM(view_count), 0) AS total_views
		FROM blogs
		WHERE author_id = $1
	`

	if err := r.db.GetContext(ctx, &stats, query, authorID); err != nil {
		return nil, fmt.Errorf("ошибка при подсчете статистики автора: %w", err)
	}

	return &stats, nil
}

func (r *blogRepository) MostPopularByAuthor(ctx context.Context, authorID string) (*models.PopularBlog, error) {
	var blog models.PopularBlog

	query := `
		SELECT blog_id, title, view_count
		FROM blogs
		WHERE author_id = $1 AND is_published = TRUE
		ORDER BY view_count DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &blog, query, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при поиске популярного блога: %w", err)
	}

	return &blog, nil
}

func (r *blogRepository) CountPublishedByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM blogs WHERE author_id = $1 AND is_published = TRUE`

	if err := r.db.GetContext(ctx, &count, query, authorID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете блогов автора: %w", err)
	}

	return count, nil
}
