// Package events define el puerto de publicación de eventos de cambio y los
// constructores de los eventos del dominio. Cada mutación exitosa emite un
// evento particionado para los suscriptores aguas abajo; la publicación no
// espera acuse y los fallos de transporte se propagan al llamador.
package events

import "context"

// Nombres de evento del dominio.
const (
	CategoryUpdated = "categoryUpdated"
	GroupUpdated    = "groupUpdated"
	GroupDeleted    = "groupDeleted"
	DocumentUpdated = "documentUpdated"
	DocumentDeleted = "documentDeleted"
)

// Event carga útil más clave de partición.
type Event struct {
	Name      string `json:"event"`
	Partition string `json:"partition"`
	Body      any    `json:"body"`
}

// Notifier puerto de salida hacia la mensajería externa.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// OwnerPartition clave de partición para eventos de categorías y grupos.
func OwnerPartition(ownerID string) string { return ownerID }

// GroupPartition clave compuesta para eventos de documentos: los
// suscriptores de un grupo no reciben el tráfico del resto del propietario.
func GroupPartition(ownerID, groupID string) string { return ownerID + "/" + groupID }

// DeletionBody cuerpo de los eventos de borrado/restauración lógica.
type DeletionBody struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
