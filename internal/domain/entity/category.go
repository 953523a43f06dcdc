package entity

import "time"

// CategoryField describe un campo del esquema de una categoría.
// La validación se limita a la presencia de campos: el contenido real de los
// documentos viaja cifrado y este servicio nunca lo inspecciona.
type CategoryField struct {
	Name         string `json:"name"`
	InternalCode string `json:"internal_code"`
	Type         string `json:"type"`
	MaxLength    *int   `json:"max_length,omitempty"`
	Required     *bool  `json:"required,omitempty"`
}

// Category es el esquema versionado de documentos de un usuario.
// Existe exactamente una fila vigente por (owner_id, category_id); cada
// versión aceptada se archiva además en la tabla de historial.
type Category struct {
	OwnerID    string          `json:"owner_id"`
	CategoryID string          `json:"category_id"`
	Version    int             `json:"version"`
	Name       string          `json:"name"`
	Fields     []CategoryField `json:"fields"`
	CreatedAt  time.Time       `json:"-"`
	ModifiedAt time.Time       `json:"-"`
}
