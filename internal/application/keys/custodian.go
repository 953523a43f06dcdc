// Package keys define el puerto hacia el custodio de llaves externo y el
// error tipado del protocolo de delegación. El intercambio es estrictamente
// petición/respuesta, a lo sumo una vez; esta capa nunca reintenta.
package keys

import (
	"context"
	"fmt"
)

// Códigos de fallo del protocolo de delegación de llaves.
const (
	CodeTimeout     = 1 // el custodio no respondió dentro del plazo
	CodeBadResponse = 2 // respuesta de tipo/forma inesperada
	CodeRejected    = 3 // el custodio rechazó explícitamente la llave
)

// DelegationError fallo tipado del custodio; viaja al cliente como rechazo
// bien formado, nunca como fault crudo.
type DelegationError struct {
	Code    int
	Message string
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("custodio de llaves: código %d: %s", e.Code, e.Message)
}

// RekeyRequest solicitud de recifrado de llaves de grupo para un cliente.
type RekeyRequest struct {
	Domain     string   `json:"domain"`
	KeyIDs     []string `json:"key_ids"`
	ClientCert []string `json:"client_cert"`
}

// RekeyResult respuesta cruda del custodio, retransmitida al solicitante
// original sin interpretación.
type RekeyResult struct {
	Status int
	Body   []byte
}

// Custodian puerto de salida hacia el servicio custodio de llaves.
type Custodian interface {
	// AttachKey entrega la llave firmada de un contenedor nuevo, correlacionada
	// por el identificador del propio mensaje de llave. Un error distinto de
	// nil aborta la creación del contenedor.
	AttachKey(ctx context.Context, signedKey []byte, correlationID string) error

	// RequestRekey reenvía una solicitud de recifrado y devuelve la respuesta
	// del custodio para retransmitirla al solicitante.
	RequestRekey(ctx context.Context, req RekeyRequest) (*RekeyResult, error)
}
