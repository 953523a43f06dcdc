package dto

import "time"

// SaveDocumentRequest comando save-document.
type SaveDocumentRequest struct {
	DocID           string `json:"doc_id,omitempty"`
	GroupID         string `json:"group_id"`
	CategoryVersion int    `json:"category_version"`
	EncryptedData   string `json:"encrypted_data"`
	Format          string `json:"format"`
	Nonce           string `json:"nonce,omitempty"`
	Compression     string `json:"compression,omitempty"`
	KeyID           string `json:"key_id,omitempty"`
	LegacyHeader    string `json:"legacy_header,omitempty"`
}

// SaveDocumentResponse confirmación con el id asignado.
type SaveDocumentResponse struct {
	Ok    bool   `json:"ok"`
	DocID string `json:"doc_id"`
}

// DocumentResponse documento vivo en listados.
type DocumentResponse struct {
	DocID           string `json:"doc_id"`
	GroupID         string `json:"group_id"`
	CategoryVersion int    `json:"category_version"`
	EncryptedData   string `json:"encrypted_data"`
	Format          string `json:"format"`
	Nonce           string `json:"nonce,omitempty"`
	Compression     string `json:"compression,omitempty"`
	KeyID           string `json:"key_id,omitempty"`
	LegacyHeader    string `json:"legacy_header,omitempty"`
	Deleted         bool   `json:"deleted,omitempty"`
	ModifiedAt      int64  `json:"modified_at"`
}

// ListDocumentsQuery parámetros de list-documents.
type ListDocumentsQuery struct {
	Limit       int
	Skip        int
	DeletedOnly bool
	Since       *time.Time // sync incremental: solo modificados después de Since
}

// DocumentBatchResponse un lote de list-documents. En modo streaming se
// emiten varios; el último siempre lleva Done=true, incluso vacío.
type DocumentBatchResponse struct {
	Documents  []DocumentResponse `json:"documents"`
	Tombstones []string           `json:"tombstones"`
	SyncDate   int64              `json:"sync_date"`
	Done       bool               `json:"done"`
}

// StreamFrame sobre de un frame de streaming. Streaming y Ack son marcadores
// de canal lateral, separados del cuerpo del lote.
type StreamFrame struct {
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Streaming     bool                   `json:"streaming,omitempty"`
	Ack           bool                   `json:"ack,omitempty"`
	Payload       *DocumentBatchResponse `json:"payload,omitempty"`
}
