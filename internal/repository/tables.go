package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

// CountTables - диагностика: сколько таблиц создали миграции.
func (r *tablesRepository) CountTables(ctx context.Context) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public'`

	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте таблиц базы данных: %w", err)
	}

	return count, nil
}
