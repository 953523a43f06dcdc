package repository

import (
	"context"
	"time"

	"github.com/jhoicas/docvault-api/internal/domain/entity"
)

// DocumentRepository puerto de persistencia para documentos cifrados.
type DocumentRepository interface {
	// GetByID devuelve el documento o nil si no existe.
	GetByID(ctx context.Context, ownerID, docID string) (*entity.Document, error)

	// Upsert inserta o actualiza por (owner_id, doc_id) y devuelve la fila
	// resultante. group_id y created_at solo se fijan en la inserción.
	Upsert(ctx context.Context, d *entity.Document) (*entity.Document, error)

	// SetDeleted cambia la bandera de borrado con una actualización
	// condicional atómica. Devuelve domain.ErrNotFound si la fila no existe y
	// domain.ErrAlreadyInState si ya estaba en el estado pedido.
	SetDeleted(ctx context.Context, ownerID, docID string, deleted bool) (*entity.Document, error)

	// ListByGroup lista los documentos de un grupo. Si since no es nil solo
	// devuelve los modificados después de ese instante (sync incremental).
	ListByGroup(ctx context.Context, ownerID, groupID string, since *time.Time, limit, skip int) ([]*entity.Document, error)
}
