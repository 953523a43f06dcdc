package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/events"
	"github.com/jhoicas/docvault-api/internal/application/keys"
	"github.com/jhoicas/docvault-api/internal/domain"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
	"github.com/jhoicas/docvault-api/internal/domain/repository"
)

// GroupUseCase casos de uso save-group y delete/restore-group.
type GroupUseCase struct {
	repo      repository.GroupRepository
	custodian keys.Custodian
	notifier  events.Notifier
}

// NewGroupUseCase construye el caso de uso.
func NewGroupUseCase(repo repository.GroupRepository, custodian keys.Custodian, notifier events.Notifier) *GroupUseCase {
	return &GroupUseCase{repo: repo, custodian: custodian, notifier: notifier}
}

// signedKeyID extrae el identificador propio del mensaje de llave firmado;
// correlaciona el intercambio con el custodio.
func signedKeyID(raw json.RawMessage) (string, error) {
	var header struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &header); err != nil || header.ID == "" {
		return "", fmt.Errorf("mensaje de llave sin id: %w", domain.ErrValidation)
	}
	return header.ID, nil
}

// Save crea o actualiza un grupo cifrado. Un grupo nuevo exige una llave
// adjunta, entregada al custodio antes de comprometer la fila; un grupo
// existente no puede cambiar de categoría.
func (uc *GroupUseCase) Save(ctx context.Context, ownerID, commandID string, in dto.SaveGroupRequest) (*dto.SaveGroupResponse, error) {
	if in.CategoryID == "" {
		return nil, fmt.Errorf("category_id requerido: %w", domain.ErrValidation)
	}

	var existing *entity.Group
	if in.GroupID != "" {
		var err error
		existing, err = uc.repo.GetByID(ctx, ownerID, in.GroupID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.CategoryID != in.CategoryID {
			return nil, domain.ErrCategoryImmutable
		}
	}

	switch {
	case len(in.Key) > 0:
		// Llave adjunta: entregarla al custodio antes de escribir. Un fallo
		// del protocolo aborta el guardado con el error tipado del custodio.
		correlationID, err := signedKeyID(in.Key)
		if err != nil {
			return nil, err
		}
		if err := uc.custodian.AttachKey(ctx, in.Key, correlationID); err != nil {
			return nil, err
		}
	case existing == nil:
		// Sin llave adjunta solo se permite reutilizar la de un grupo existente.
		return nil, domain.ErrKeyMissing
	}

	groupID := in.GroupID
	if groupID == "" {
		groupID = commandID
	}

	group := &entity.Group{
		OwnerID:       ownerID,
		GroupID:       groupID,
		CategoryID:    in.CategoryID,
		EncryptedData: in.EncryptedData,
		Format:        in.Format,
		Nonce:         in.Nonce,
		Key: entity.KeyRef{
			KeyID:        in.KeyID,
			LegacyHeader: in.LegacyHeader,
			LegacyKeyRef: in.LegacyKeyRef,
		},
	}

	stored, err := uc.repo.Upsert(ctx, group)
	if err != nil {
		return nil, err
	}

	ev := events.Event{
		Name:      events.GroupUpdated,
		Partition: events.OwnerPartition(ownerID),
		Body:      stored,
	}
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		return nil, fmt.Errorf("publicar %s: %w", events.GroupUpdated, err)
	}

	return &dto.SaveGroupResponse{Ok: true, GroupID: groupID}, nil
}

// SetDeleted marca o restaura el tombstone de un grupo. La transición es una
// actualización condicional: de dos borrados duplicados concurrentes solo
// uno procede y emite evento; el otro recibe ErrAlreadyInState.
func (uc *GroupUseCase) SetDeleted(ctx context.Context, ownerID, groupID string, deleted bool) error {
	if _, err := uc.repo.SetDeleted(ctx, ownerID, groupID, deleted); err != nil {
		return err
	}

	ev := events.Event{
		Name:      events.GroupDeleted,
		Partition: events.OwnerPartition(ownerID),
		Body:      events.DeletionBody{ID: groupID, Deleted: deleted},
	}
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publicar %s: %w", events.GroupDeleted, err)
	}
	return nil
}
