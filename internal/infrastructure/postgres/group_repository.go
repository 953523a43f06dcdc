package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/docvault-api/internal/domain"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
	"github.com/jhoicas/docvault-api/internal/domain/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implementación del puerto GroupRepository sobre PostgreSQL
// (usable con pool o tx).
type GroupRepo struct {
	q Querier
}

// NewGroupRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGroupRepository(q Querier) *GroupRepo {
	return &GroupRepo{q: q}
}

const groupColumns = `owner_id, group_id, category_id, encrypted_data, format, nonce,
		key_id, legacy_header, legacy_key_ref, deleted, deleted_at, created_at, modified_at`

func scanGroup(row pgx.Row) (*entity.Group, error) {
	var g entity.Group
	err := row.Scan(
		&g.OwnerID, &g.GroupID, &g.CategoryID, &g.EncryptedData, &g.Format, &g.Nonce,
		&g.Key.KeyID, &g.Key.LegacyHeader, &g.Key.LegacyKeyRef,
		&g.Deleted, &g.DeletedAt, &g.CreatedAt, &g.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByID obtiene un grupo por id, o nil si no existe.
func (r *GroupRepo) GetByID(ctx context.Context, ownerID, groupID string) (*entity.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM user_groups WHERE owner_id = $1 AND group_id = $2`
	g, err := scanGroup(r.q.QueryRow(ctx, query, ownerID, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// Upsert inserta o actualiza por (owner_id, group_id). category_id, created_at
// y el estado de borrado solo se fijan en la inserción; la actualización no
// puede moverlos.
func (r *GroupRepo) Upsert(ctx context.Context, g *entity.Group) (*entity.Group, error) {
	query := `
		INSERT INTO user_groups (owner_id, group_id, category_id, encrypted_data, format, nonce,
			key_id, legacy_header, legacy_key_ref, deleted, deleted_at, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, NULL, now(), now())
		ON CONFLICT (owner_id, group_id) DO UPDATE
		SET encrypted_data = EXCLUDED.encrypted_data,
			format = EXCLUDED.format,
			nonce = EXCLUDED.nonce,
			key_id = EXCLUDED.key_id,
			legacy_header = EXCLUDED.legacy_header,
			legacy_key_ref = EXCLUDED.legacy_key_ref,
			modified_at = now()
		RETURNING ` + groupColumns
	stored, err := scanGroup(r.q.QueryRow(ctx, query,
		g.OwnerID, g.GroupID, g.CategoryID, g.EncryptedData, g.Format, g.Nonce,
		g.Key.KeyID, g.Key.LegacyHeader, g.Key.LegacyKeyRef,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert group: %w", err)
	}
	return stored, nil
}

// SetDeleted cambia la bandera de borrado con una actualización condicional:
// solo procede si el estado actual difiere del pedido. De dos transiciones
// duplicadas concurrentes una sola fila gana.
func (r *GroupRepo) SetDeleted(ctx context.Context, ownerID, groupID string, deleted bool) (*entity.Group, error) {
	query := `
		UPDATE user_groups
		SET deleted = $3,
			deleted_at = CASE WHEN $3 THEN now() ELSE NULL END,
			modified_at = now()
		WHERE owner_id = $1 AND group_id = $2 AND deleted <> $3
		RETURNING ` + groupColumns
	stored, err := scanGroup(r.q.QueryRow(ctx, query, ownerID, groupID, deleted))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("set group deleted: %w", err)
	}

	// Cero filas: distinguir inexistente de ya-en-estado.
	var exists bool
	err = r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_groups WHERE owner_id = $1 AND group_id = $2)`,
		ownerID, groupID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check group exists: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrAlreadyInState
}

// ListByOwner lista los grupos del propietario con paginación, borrados
// incluidos; la capa de consulta decide cómo particionarlos.
func (r *GroupRepo) ListByOwner(ctx context.Context, ownerID string, limit, skip int) ([]*entity.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM user_groups WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ownerID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()
	var list []*entity.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// ResolveKeyIDs devuelve el identificador de llave utilizable de cada grupo
// cuyo key_id o legacy_key_ref aparece en keyIDs. Los grupos del formato
// antiguo responden con su referencia antigua.
func (r *GroupRepo) ResolveKeyIDs(ctx context.Context, ownerID string, keyIDs []string) ([]string, error) {
	query := `
		SELECT DISTINCT CASE WHEN key_id <> '' THEN key_id ELSE legacy_key_ref END
		FROM user_groups
		WHERE owner_id = $1 AND (key_id = ANY($2) OR legacy_key_ref = ANY($2))`
	rows, err := r.q.Query(ctx, query, ownerID, keyIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve key ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan key id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
