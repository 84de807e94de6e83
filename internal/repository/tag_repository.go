package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogAPI/internal/models"
)

const defaultTagColor = "#007bff"

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	tag.TagID = uuid.New().String()
	tag.Name = normalizeTagName(tag.Name)
	if tag.Color == "" {
		tag.Color = defaultTagColor
	}

	query := `INSERT INTO tags (tag_id, name, color) VALUES (:tag_id, :name, :color)`

	_, err := r.db.NamedExecContext(ctx, query, tag)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("тег %s: %w", tag.Name, ErrDuplicateName)
		}
		return fmt.Errorf("ошибка при создании тега: %w", err)
	}

	return nil
}

// GetOrCreateByNames идемпотентно подбирает теги по именам: существующие
// переиспользуются, отсутствующие создаются. Имена нормализуются к нижнему
// регистру, дубликаты в списке схлопываются.
func (r *tagRepository) GetOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	query := `
		INSERT INTO tags (tag_id, name, color)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING tag_id, name, color, created_at
	`

	for _, rawName := range names {
		name := normalizeTagName(rawName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := r.db.GetContext(ctx, &tag, query, uuid.New().String(), name, defaultTagColor)
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании тега %s: %w", name, err)
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// ListPopular сортирует теги по числу опубликованных блогов с этим тегом.
func (r *tagRepository) ListPopular(ctx context.Context, limit int) ([]models.Tag, error) {
	if limit < 1 {
		limit = 50
	}

	tags := []models.Tag{}

	query := `
		SELECT t.tag_id, t.name, t.color, t.created_at,
		       COUNT(b.blog_id) FILTER (WHERE b.is_published) AS usage_count
		FROM tags t
		LEFT JOIN blog_tags bt ON bt.tag_id = t.tag_id
		LEFT JOIN blogs b ON b.blog_id = bt.blog_id
		GROUP BY t.tag_id
		ORDER BY usage_count DESC, t.name
		LIMIT $1
	`

	err := r.db.SelectContext(ctx, &tags, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении популярных тегов: %w", err)
	}

	return tags, nil
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
