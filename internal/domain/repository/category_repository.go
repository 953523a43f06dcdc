package repository

import (
	"context"

	"github.com/jhoicas/docvault-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías versionadas.
type CategoryRepository interface {
	// GetCurrent devuelve la fila vigente o nil si no existe.
	GetCurrent(ctx context.Context, ownerID, categoryID string) (*entity.Category, error)

	// UpsertCurrent inserta o reemplaza la fila vigente. El reemplazo solo
	// procede si la versión almacenada es menor que la nueva; devuelve false
	// cuando la guarda de versión rechazó la escritura (perdedor de carrera).
	UpsertCurrent(ctx context.Context, cat *entity.Category) (bool, error)

	// UpsertVersion inserta o reemplaza la fila de historial
	// (owner_id, category_id, version). Es una escritura independiente de
	// UpsertCurrent, sin transacción que las englobe.
	UpsertVersion(ctx context.Context, cat *entity.Category) error

	// ListByOwner lista las categorías del propietario con paginación.
	ListByOwner(ctx context.Context, ownerID string, limit, skip int) ([]*entity.Category, error)
}
