// Package usecase contiene los casos de uso del núcleo: la ruta de escritura
// con concurrencia optimista sobre entidades versionadas y borrables
// lógicamente, y el motor de consultas de sincronización con streaming
// acotado por tamaño.
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

// CategoryUseCase caso de uso save-category sobre el almacén versionado.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	notifier events.Notifier
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, notifier events.Notifier) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, notifier: notifier}
}

// Save crea o actualiza el esquema de una categoría. commandID es el
// identificador del comando entrante y se usa como category_id por defecto
// en la primera creación.
//
// La escritura vigente y la de historial son dos operaciones independientes:
// un crash entre ambas puede dejar la fila vigente sin su entrada de
// historial. La reconciliación es una tarea operativa, no de esta capa.
func (uc *CategoryUseCase) Save(ctx context.Context, ownerID, commandID string, in dto.SaveCategoryRequest) (*dto.SaveCategoryResponse, error) {
	if in.CategoryID != "" && in.Version == nil {
		return nil, fmt.Errorf("category_id presente sin version: %w", domain.ErrValidation)
	}

	version := 1
	if in.Version != nil {
		version = *in.Version
	}

	// Pre-chequeo de conflicto: una categoría conocida solo acepta versiones
	// estrictamente mayores. Una categoría desconocida acepta cualquier
	// versión inicial.
	if in.CategoryID != "" {
		current, err := uc.repo.GetCurrent(ctx, ownerID, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Version >= version {
			return nil, domain.ErrVersionExists
		}
	}

	categoryID := in.CategoryID
	if categoryID == "" {
		categoryID = commandID
	}

	cat := &entity.Category{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Version:    version,
		Name:       in.Name,
		Fields:     in.Fields,
	}

	// La guarda version < nueva en el upsert serializa a escritores
	// concurrentes: el perdedor recibe el mismo rechazo que el pre-chequeo.
	accepted, err := uc.repo.UpsertCurrent(ctx, cat)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, domain.ErrVersionExists
	}

	if err := uc.repo.UpsertVersion(ctx, cat); err != nil {
		return nil, fmt.Errorf("archivar versión de categoría: %w", err)
	}

	ev := events.Event{
		Name:      events.CategoryUpdated,
		Partition: events.OwnerPartition(ownerID),
		Body:      cat,
	}
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		return nil, fmt.Errorf("publicar %s: %w", events.CategoryUpdated, err)
	}

	return &dto.SaveCategoryResponse{Ok: true, CategoryID: categoryID, Version: version}, nil
}
