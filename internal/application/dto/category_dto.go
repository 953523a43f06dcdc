package dto

import "github.com/jhoicas/docvault-api/internal/domain/entity"

// SaveCategoryRequest comando save-category. Version es obligatoria cuando
// CategoryID está presente; en la primera creación ausente se fuerza a 1.
type SaveCategoryRequest struct {
	CategoryID string                 `json:"category_id,omitempty"`
	Version    *int                   `json:"version,omitempty"`
	Name       string                 `json:"name"`
	Fields     []entity.CategoryField `json:"fields"`
}

// SaveCategoryResponse confirmación con el id asignado.
type SaveCategoryResponse struct {
	Ok         bool   `json:"ok"`
	CategoryID string `json:"category_id"`
	Version    int    `json:"version"`
}

// CategoryResponse categoría en listados.
type CategoryResponse struct {
	CategoryID string                 `json:"category_id"`
	Version    int                    `json:"version"`
	Name       string                 `json:"name"`
	Fields     []entity.CategoryField `json:"fields"`
}

// CategoryListResponse respuesta de list-categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Page       PageResponse       `json:"page"`
}
