package dto

import "encoding/json"

// SaveGroupRequest comando save-group. Key es el mensaje de llave firmado
// que se entrega al custodio cuando el grupo es nuevo; los grupos existentes
// pueden omitirlo y reutilizar su llave.
type SaveGroupRequest struct {
	GroupID       string `json:"group_id,omitempty"`
	CategoryID    string `json:"category_id"`
	EncryptedData string `json:"encrypted_data"`
	Format        string `json:"format"`
	Nonce         string `json:"nonce,omitempty"`
	KeyID         string `json:"key_id,omitempty"`

	// Formato de cifrado antiguo (obsoleto); lectura de ambos, escritura nueva.
	LegacyHeader string `json:"legacy_header,omitempty"`
	LegacyKeyRef string `json:"legacy_key_ref,omitempty"`

	Key json.RawMessage `json:"key,omitempty"`
}

// SaveGroupResponse confirmación con el id asignado.
type SaveGroupResponse struct {
	Ok      bool   `json:"ok"`
	GroupID string `json:"group_id"`
}

// GroupResponse grupo vivo en listados.
type GroupResponse struct {
	GroupID       string `json:"group_id"`
	CategoryID    string `json:"category_id"`
	EncryptedData string `json:"encrypted_data"`
	Format        string `json:"format"`
	Nonce         string `json:"nonce,omitempty"`
	KeyID         string `json:"key_id,omitempty"`
	LegacyHeader  string `json:"legacy_header,omitempty"`
	LegacyKeyRef  string `json:"legacy_key_ref,omitempty"`
	Deleted       bool   `json:"deleted,omitempty"`
	ModifiedAt    int64  `json:"modified_at"`
}

// GroupListResponse respuesta de list-groups: grupos vivos, ids de
// tombstones y el timestamp de sincronización fresco para la próxima llamada.
type GroupListResponse struct {
	Groups     []GroupResponse `json:"groups"`
	Tombstones []string        `json:"tombstones"`
	SyncDate   int64           `json:"sync_date"`
}

// GroupKeysRequest consulta list-group-keys.
type GroupKeysRequest struct {
	KeyIDs []string `json:"key_ids"`
}
