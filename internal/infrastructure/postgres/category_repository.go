package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
	"github.com/jhoicas/docvault-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL
// (usable con pool o tx). La fila vigente vive en user_categories y el
// historial en user_category_versions, una fila por versión.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// GetCurrent obtiene la fila vigente de una categoría, o nil si no existe.
func (r *CategoryRepo) GetCurrent(ctx context.Context, ownerID, categoryID string) (*entity.Category, error) {
	query := `
		SELECT owner_id, category_id, version, name, fields, created_at, modified_at
		FROM user_categories WHERE owner_id = $1 AND category_id = $2`
	var c entity.Category
	err := r.q.QueryRow(ctx, query, ownerID, categoryID).Scan(
		&c.OwnerID, &c.CategoryID, &c.Version, &c.Name, &c.Fields, &c.CreatedAt, &c.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// UpsertCurrent inserta o reemplaza la fila vigente. La guarda de versión en
// el UPDATE serializa a escritores concurrentes: si la versión almacenada no
// es menor que la nueva, no se toca la fila y devuelve false.
func (r *CategoryRepo) UpsertCurrent(ctx context.Context, cat *entity.Category) (bool, error) {
	query := `
		INSERT INTO user_categories (owner_id, category_id, version, name, fields, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (owner_id, category_id) DO UPDATE
		SET version = EXCLUDED.version, name = EXCLUDED.name, fields = EXCLUDED.fields, modified_at = now()
		WHERE user_categories.version < EXCLUDED.version`
	cmd, err := r.q.Exec(ctx, query,
		cat.OwnerID, cat.CategoryID, cat.Version, cat.Name, cat.Fields,
	)
	if err != nil {
		return false, fmt.Errorf("upsert category: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpsertVersion inserta o reemplaza la fila de historial
// (owner_id, category_id, version). Escritura independiente de UpsertCurrent.
func (r *CategoryRepo) UpsertVersion(ctx context.Context, cat *entity.Category) error {
	query := `
		INSERT INTO user_category_versions (owner_id, category_id, version, name, fields, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (owner_id, category_id, version) DO UPDATE
		SET name = EXCLUDED.name, fields = EXCLUDED.fields, modified_at = now()`
	_, err := r.q.Exec(ctx, query,
		cat.OwnerID, cat.CategoryID, cat.Version, cat.Name, cat.Fields,
	)
	if err != nil {
		return fmt.Errorf("upsert category version: %w", err)
	}
	return nil
}

// ListByOwner lista las categorías vigentes del propietario con paginación.
func (r *CategoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, skip int) ([]*entity.Category, error) {
	query := `
		SELECT owner_id, category_id, version, name, fields, created_at, modified_at
		FROM user_categories WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ownerID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.OwnerID, &c.CategoryID, &c.Version, &c.Name, &c.Fields, &c.CreatedAt, &c.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
