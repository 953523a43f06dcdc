package entity

import "time"

// Document es el registro hoja cifrado de un grupo. Queda atado al grupo en
// su creación (group_id inmutable) y a la versión del esquema de categoría
// con la que el cliente lo cifró.
type Document struct {
	OwnerID         string     `json:"owner_id"`
	DocID           string     `json:"doc_id"`
	GroupID         string     `json:"group_id"`
	CategoryVersion int        `json:"category_version"`
	EncryptedData   string     `json:"encrypted_data"`
	Format          string     `json:"format"`
	Nonce           string     `json:"nonce,omitempty"`
	Compression     string     `json:"compression,omitempty"`
	Key             KeyRef     `json:"key"`
	Deleted         bool       `json:"deleted"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	CreatedAt       time.Time  `json:"-"`
	ModifiedAt      time.Time  `json:"modified_at"`
}
