package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/events"
	"github.com/jhoicas/docvault-api/internal/domain"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
	"github.com/jhoicas/docvault-api/internal/domain/repository"
)

// DocumentUseCase casos de uso save-document y delete/restore-document.
type DocumentUseCase struct {
	repo     repository.DocumentRepository
	notifier events.Notifier
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(repo repository.DocumentRepository, notifier events.Notifier) *DocumentUseCase {
	return &DocumentUseCase{repo: repo, notifier: notifier}
}

// Save crea o actualiza un documento cifrado. Un documento existente no
// puede cambiar de grupo.
func (uc *DocumentUseCase) Save(ctx context.Context, ownerID, commandID string, in dto.SaveDocumentRequest) (*dto.SaveDocumentResponse, error) {
	if in.GroupID == "" {
		return nil, fmt.Errorf("group_id requerido: %w", domain.ErrValidation)
	}

	if in.DocID != "" {
		existing, err := uc.repo.GetByID(ctx, ownerID, in.DocID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.GroupID != in.GroupID {
			return nil, domain.ErrGroupImmutable
		}
	}

	docID := in.DocID
	if docID == "" {
		docID = commandID
	}

	doc := &entity.Document{
		OwnerID:         ownerID,
		DocID:           docID,
		GroupID:         in.GroupID,
		CategoryVersion: in.CategoryVersion,
		EncryptedData:   in.EncryptedData,
		Format:          in.Format,
		Nonce:           in.Nonce,
		Compression:     in.Compression,
		Key: entity.KeyRef{
			KeyID:        in.KeyID,
			LegacyHeader: in.LegacyHeader,
		},
	}

	stored, err := uc.repo.Upsert(ctx, doc)
	if err != nil {
		return nil, err
	}

	ev := events.Event{
		Name:      events.DocumentUpdated,
		Partition: events.GroupPartition(ownerID, in.GroupID),
		Body:      stored,
	}
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		return nil, fmt.Errorf("publicar %s: %w", events.DocumentUpdated, err)
	}

	return &dto.SaveDocumentResponse{Ok: true, DocID: docID}, nil
}

// SetDeleted marca o restaura el tombstone de un documento. Misma taxonomía
// que los grupos; el evento se particiona por owner_id + group_id.
func (uc *DocumentUseCase) SetDeleted(ctx context.Context, ownerID, docID string, deleted bool) error {
	doc, err := uc.repo.SetDeleted(ctx, ownerID, docID, deleted)
	if err != nil {
		return err
	}

	ev := events.Event{
		Name:      events.DocumentDeleted,
		Partition: events.GroupPartition(ownerID, doc.GroupID),
		Body:      events.DeletionBody{ID: docID, Deleted: deleted},
	}
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publicar %s: %w", events.DocumentDeleted, err)
	}
	return nil
}
