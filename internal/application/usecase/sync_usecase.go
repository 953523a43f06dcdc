package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/keys"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
	"github.com/jhoicas/docvault-api/internal/domain/repository"
)

// Parámetros del protocolo de streaming y de paginación.
const (
	// DefaultListLimit límite por defecto de los listados.
	DefaultListLimit = 100

	// streamBatchLimit tamaño acumulado (en unidades aproximadas) que dispara
	// el corte de un lote intermedio.
	streamBatchLimit = 500_000

	// documentMetaOverhead costo fijo por documento sumado al tamaño de su
	// carga cifrada al estimar el tamaño de respuesta.
	documentMetaOverhead = 400
)

// FrameSink destino de los frames de un listado en streaming. La capa de
// transporte decide cómo se serializa y entrega cada frame.
type FrameSink interface {
	Send(ctx context.Context, frame dto.StreamFrame) error
}

// SyncUseCase motor de consultas: listados paginados, separación de
// entidades vivas y tombstones, sync incremental y streaming acotado.
// Solo lee los almacenes; nunca los muta.
type SyncUseCase struct {
	categories repository.CategoryRepository
	groups     repository.GroupRepository
	documents  repository.DocumentRepository
	custodian  keys.Custodian
	domainName string
}

// NewSyncUseCase construye el motor de consultas.
func NewSyncUseCase(
	categories repository.CategoryRepository,
	groups repository.GroupRepository,
	documents repository.DocumentRepository,
	custodian keys.Custodian,
	domainName string,
) *SyncUseCase {
	return &SyncUseCase{
		categories: categories,
		groups:     groups,
		documents:  documents,
		custodian:  custodian,
		domainName: domainName,
	}
}

func normalizePage(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}

// ListCategories lista las categorías del propietario.
func (uc *SyncUseCase) ListCategories(ctx context.Context, ownerID string, limit, skip int) (*dto.CategoryListResponse, error) {
	limit, skip = normalizePage(limit, skip)
	list, err := uc.categories.ListByOwner(ctx, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.CategoryResponse{
			CategoryID: c.CategoryID,
			Version:    c.Version,
			Name:       c.Name,
			Fields:     c.Fields,
		})
	}
	return &dto.CategoryListResponse{
		Categories: items,
		Page:       dto.PageResponse{Limit: limit, Skip: skip},
	}, nil
}

// ListGroups lista los grupos del propietario separando vivos de
// tombstones, salvo que el llamador pida solo los borrados. Devuelve el
// timestamp fresco que el cliente usará como cursor de sincronización.
func (uc *SyncUseCase) ListGroups(ctx context.Context, ownerID string, limit, skip int, deletedOnly bool) (*dto.GroupListResponse, error) {
	limit, skip = normalizePage(limit, skip)
	syncDate := time.Now()

	list, err := uc.groups.ListByOwner(ctx, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}

	groups := make([]dto.GroupResponse, 0, len(list))
	tombstones := make([]string, 0)
	for _, g := range list {
		switch {
		case deletedOnly:
			if g.Deleted {
				groups = append(groups, toGroupResponse(g))
			}
		case g.Deleted:
			tombstones = append(tombstones, g.GroupID)
		default:
			groups = append(groups, toGroupResponse(g))
		}
	}

	return &dto.GroupListResponse{
		Groups:     groups,
		Tombstones: tombstones,
		SyncDate:   syncDate.Unix(),
	}, nil
}

// GroupKeys resuelve los identificadores de llave de los grupos solicitados
// (leyendo tanto el formato vigente como el antiguo) y reenvía la solicitud
// de recifrado al custodio; su respuesta se retransmite al solicitante.
func (uc *SyncUseCase) GroupKeys(ctx context.Context, ownerID string, keyIDs []string, clientCert []string) (*keys.RekeyResult, error) {
	resolved, err := uc.groups.ResolveKeyIDs(ctx, ownerID, keyIDs)
	if err != nil {
		return nil, err
	}
	return uc.custodian.RequestRekey(ctx, keys.RekeyRequest{
		Domain:     uc.domainName,
		KeyIDs:     resolved,
		ClientCert: clientCert,
	})
}

// ListDocuments respuesta de un solo lote de list-documents.
func (uc *SyncUseCase) ListDocuments(ctx context.Context, ownerID, groupID string, q dto.ListDocumentsQuery) (*dto.DocumentBatchResponse, error) {
	q.Limit, q.Skip = normalizePage(q.Limit, q.Skip)
	syncDate := time.Now()

	list, err := uc.documents.ListByGroup(ctx, ownerID, groupID, q.Since, q.Limit, q.Skip)
	if err != nil {
		return nil, err
	}

	batch := &dto.DocumentBatchResponse{
		Documents:  make([]dto.DocumentResponse, 0, len(list)),
		Tombstones: make([]string, 0),
		SyncDate:   syncDate.Unix(),
		Done:       true,
	}
	for _, d := range list {
		if live, ok := partitionDocument(d, q.DeletedOnly); ok {
			batch.Documents = append(batch.Documents, live)
		} else if !q.DeletedOnly && d.Deleted {
			batch.Tombstones = append(batch.Tombstones, d.DocID)
		}
	}
	return batch, nil
}

// StreamDocuments ejecuta list-documents en modo multi-frame. Emite primero
// un frame de acuse que marca la respuesta como stream, luego lotes
// intermedios cuando el tamaño acumulado excede el umbral, y siempre cierra
// con un frame done=true aunque no haya documentos.
//
// Cada lote respeta el umbral salvo un único documento sobredimensionado al
// frente; ningún lote intermedio se emite vacío.
func (uc *SyncUseCase) StreamDocuments(ctx context.Context, ownerID, groupID string, q dto.ListDocumentsQuery, correlationID string, sink FrameSink) error {
	q.Limit, q.Skip = normalizePage(q.Limit, q.Skip)
	syncDate := time.Now().Unix()

	ack := dto.StreamFrame{CorrelationID: correlationID, Streaming: true, Ack: true}
	if err := sink.Send(ctx, ack); err != nil {
		return err
	}

	list, err := uc.documents.ListByGroup(ctx, ownerID, groupID, q.Since, q.Limit, q.Skip)
	if err != nil {
		return err
	}

	var (
		docs       []dto.DocumentResponse
		tombstones []string
		size       int
	)
	flush := func(done bool) error {
		batch := &dto.DocumentBatchResponse{
			Documents:  docs,
			Tombstones: tombstones,
			SyncDate:   syncDate,
			Done:       done,
		}
		if batch.Documents == nil {
			batch.Documents = []dto.DocumentResponse{}
		}
		if batch.Tombstones == nil {
			batch.Tombstones = []string{}
		}
		frame := dto.StreamFrame{
			CorrelationID: correlationID,
			Streaming:     !done,
			Payload:       batch,
		}
		if err := sink.Send(ctx, frame); err != nil {
			return err
		}
		docs, tombstones, size = nil, nil, 0
		return nil
	}

	for _, d := range list {
		live, ok := partitionDocument(d, q.DeletedOnly)
		if !ok {
			if !q.DeletedOnly && d.Deleted {
				tombstones = append(tombstones, d.DocID)
			}
			continue
		}

		itemSize := len(d.EncryptedData) + documentMetaOverhead
		if size+itemSize > streamBatchLimit && len(docs) > 0 {
			if err := flush(false); err != nil {
				return err
			}
		}
		docs = append(docs, live)
		size += itemSize
	}

	return flush(true)
}

// partitionDocument decide si un documento pertenece al conjunto vivo de la
// respuesta. Con deletedOnly solo pasan los borrados; sin él, los borrados
// se degradan a tombstone (solo id).
func partitionDocument(d *entity.Document, deletedOnly bool) (dto.DocumentResponse, bool) {
	if deletedOnly != d.Deleted {
		return dto.DocumentResponse{}, false
	}
	return toDocumentResponse(d), true
}

func toGroupResponse(g *entity.Group) dto.GroupResponse {
	return dto.GroupResponse{
		GroupID:       g.GroupID,
		CategoryID:    g.CategoryID,
		EncryptedData: g.EncryptedData,
		Format:        g.Format,
		Nonce:         g.Nonce,
		KeyID:         g.Key.KeyID,
		LegacyHeader:  g.Key.LegacyHeader,
		LegacyKeyRef:  g.Key.LegacyKeyRef,
		Deleted:       g.Deleted,
		ModifiedAt:    g.ModifiedAt.Unix(),
	}
}

func toDocumentResponse(d *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		DocID:           d.DocID,
		GroupID:         d.GroupID,
		CategoryVersion: d.CategoryVersion,
		EncryptedData:   d.EncryptedData,
		Format:          d.Format,
		Nonce:           d.Nonce,
		Compression:     d.Compression,
		KeyID:           d.Key.KeyID,
		LegacyHeader:    d.Key.LegacyHeader,
		Deleted:         d.Deleted,
		ModifiedAt:      d.ModifiedAt.Unix(),
	}
}
