package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/docvault-api/internal/domain"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
	"github.com/jhoicas/docvault-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL
// (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `owner_id, doc_id, group_id, category_version, encrypted_data, format,
		nonce, compression, key_id, legacy_header, deleted, deleted_at, created_at, modified_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(
		&d.OwnerID, &d.DocID, &d.GroupID, &d.CategoryVersion, &d.EncryptedData, &d.Format,
		&d.Nonce, &d.Compression, &d.Key.KeyID, &d.Key.LegacyHeader,
		&d.Deleted, &d.DeletedAt, &d.CreatedAt, &d.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID obtiene un documento por id, o nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, ownerID, docID string) (*entity.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM user_documents WHERE owner_id = $1 AND doc_id = $2`
	d, err := scanDocument(r.q.QueryRow(ctx, query, ownerID, docID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// Upsert inserta o actualiza por (owner_id, doc_id). group_id, created_at y
// el estado de borrado solo se fijan en la inserción.
func (r *DocumentRepo) Upsert(ctx context.Context, d *entity.Document) (*entity.Document, error) {
	query := `
		INSERT INTO user_documents (owner_id, doc_id, group_id, category_version, encrypted_data, format,
			nonce, compression, key_id, legacy_header, deleted, deleted_at, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NULL, now(), now())
		ON CONFLICT (owner_id, doc_id) DO UPDATE
		SET category_version = EXCLUDED.category_version,
			encrypted_data = EXCLUDED.encrypted_data,
			format = EXCLUDED.format,
			nonce = EXCLUDED.nonce,
			compression = EXCLUDED.compression,
			key_id = EXCLUDED.key_id,
			legacy_header = EXCLUDED.legacy_header,
			modified_at = now()
		RETURNING ` + documentColumns
	stored, err := scanDocument(r.q.QueryRow(ctx, query,
		d.OwnerID, d.DocID, d.GroupID, d.CategoryVersion, d.EncryptedData, d.Format,
		d.Nonce, d.Compression, d.Key.KeyID, d.Key.LegacyHeader,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}
	return stored, nil
}

// SetDeleted cambia la bandera de borrado con una actualización condicional,
// misma semántica que los grupos.
func (r *DocumentRepo) SetDeleted(ctx context.Context, ownerID, docID string, deleted bool) (*entity.Document, error) {
	query := `
		UPDATE user_documents
		SET deleted = $3,
			deleted_at = CASE WHEN $3 THEN now() ELSE NULL END,
			modified_at = now()
		WHERE owner_id = $1 AND doc_id = $2 AND deleted <> $3
		RETURNING ` + documentColumns
	stored, err := scanDocument(r.q.QueryRow(ctx, query, ownerID, docID, deleted))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("set document deleted: %w", err)
	}

	var exists bool
	err = r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_documents WHERE owner_id = $1 AND doc_id = $2)`,
		ownerID, docID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check document exists: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrAlreadyInState
}

// ListByGroup lista los documentos de un grupo en orden de modificación
// ascendente. Con since solo devuelve los modificados después de ese instante
// (sync incremental).
func (r *DocumentRepo) ListByGroup(ctx context.Context, ownerID, groupID string, since *time.Time, limit, skip int) ([]*entity.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM user_documents
		WHERE owner_id = $1 AND group_id = $2 AND ($3::timestamptz IS NULL OR modified_at > $3)
		ORDER BY modified_at ASC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, ownerID, groupID, since, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
