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

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.CategoryID = uuid.New().String()

	query := `
		INSERT INTO categories (category_id, name, description, is_active)
		VALUES (:category_id, :name, :description, :is_active)
	`

	_, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("категория %s: %w", category.Name, ErrDuplicateName)
		}
		return fmt.Errorf("ошибка при создании категории: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category

	query := `SELECT category_id, name, description, is_active, created_at FROM categories WHERE category_id = $1`

	err := r.db.GetContext(ctx, &category, query, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("категория с ID %s: %w", categoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %w", err)
	}

	return &category, nil
}

// List возвращает активные категории со счетчиком опубликованных блогов.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}

	query := `
		SELECT c.category_id, c.name, c.description, c.is_active, c.created_at,
		       COUNT(b.blog_id) FILTER (WHERE b.is_published) AS blog_count
		FROM categories c
		LEFT JOIN blogs b ON b.category_id = c.category_id
		WHERE c.is_active = TRUE
		GROUP BY c.category_id
		ORDER BY c.name
	`

	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка категорий: %w", err)
	}

	return categories, nil
}
