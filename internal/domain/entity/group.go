package entity

import "time"

// Group es un contenedor cifrado de documentos. Una vez creado, su
// category_id es inmutable; el borrado es lógico (tombstone) y reversible.
type Group struct {
	OwnerID       string     `json:"owner_id"`
	GroupID       string     `json:"group_id"`
	CategoryID    string     `json:"category_id"`
	EncryptedData string     `json:"encrypted_data"`
	Format        string     `json:"format"`
	Nonce         string     `json:"nonce,omitempty"`
	Key           KeyRef     `json:"key"`
	Deleted       bool       `json:"deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"-"`
	ModifiedAt    time.Time  `json:"modified_at"`
}
