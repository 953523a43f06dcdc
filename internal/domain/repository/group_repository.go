package repository

import (
	"context"

	"github.com/jhoicas/docvault-api/internal/domain/entity"
)

// GroupRepository puerto de persistencia para grupos cifrados.
type GroupRepository interface {
	// GetByID devuelve el grupo o nil si no existe.
	GetByID(ctx context.Context, ownerID, groupID string) (*entity.Group, error)

	// Upsert inserta o actualiza por (owner_id, group_id) y devuelve la fila
	// resultante. category_id y created_at solo se fijan en la inserción.
	Upsert(ctx context.Context, g *entity.Group) (*entity.Group, error)

	// SetDeleted cambia la bandera de borrado con una actualización
	// condicional atómica. Devuelve domain.ErrNotFound si la fila no existe y
	// domain.ErrAlreadyInState si ya estaba en el estado pedido.
	SetDeleted(ctx context.Context, ownerID, groupID string, deleted bool) (*entity.Group, error)

	// ListByOwner lista los grupos del propietario con paginación.
	ListByOwner(ctx context.Context, ownerID string, limit, skip int) ([]*entity.Group, error)

	// ResolveKeyIDs devuelve los identificadores de llave utilizables de los
	// grupos cuyo key_id o legacy_key_ref aparece en keyIDs (lectura de ambos
	// formatos).
	ResolveKeyIDs(ctx context.Context, ownerID string, keyIDs []string) ([]string, error)
}
