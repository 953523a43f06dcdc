package entity

// KeyRef referencia la llave de descifrado de un contenedor cifrado.
// Es una unión etiquetada entre el formato vigente (KeyID) y el formato
// antiguo (LegacyHeader + LegacyKeyRef). Las escrituras nuevas usan KeyID;
// las lecturas aceptan ambos.
type KeyRef struct {
	KeyID        string `json:"key_id,omitempty"`
	LegacyHeader string `json:"legacy_header,omitempty"`
	LegacyKeyRef string `json:"legacy_key_ref,omitempty"`
}

// Active devuelve el identificador de llave utilizable y si proviene del
// formato antiguo. Un segundo valor false con id vacío indica que la fila
// no tiene referencia de llave alguna.
func (k KeyRef) Active() (id string, legacy bool) {
	if k.KeyID != "" {
		return k.KeyID, false
	}
	if k.LegacyKeyRef != "" {
		return k.LegacyKeyRef, true
	}
	return "", false
}

// IsZero indica que no hay referencia de llave en ninguno de los dos formatos.
func (k KeyRef) IsZero() bool {
	return k.KeyID == "" && k.LegacyHeader == "" && k.LegacyKeyRef == ""
}
