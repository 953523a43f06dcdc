// Package auth implementa la compuerta de autorización: clasifica al actor
// de cada petición y decide si puede ejecutar comandos o consultas. La
// decisión se deriva de nuevo en cada petición; no hay estado cacheado.
package auth

import "github.com/jhoicas/docvault-api/internal/domain"

// Tier es el nivel de confianza del canal por el que llegó la petición,
// asignado por el gateway que emite el token. Enum cerrado.
type Tier int

const (
	TierNone Tier = iota
	TierPublic
	TierPrivate
	TierProtected
	TierSecure
)

// Roles y delegaciones reconocidos en los claims del token.
const (
	RolePrivateAccount = "private_account"
	DelegationOwner    = "owner"
)

// Actor identidad de quien ejecuta la petición.
type Actor struct {
	OwnerID        string
	Privileged     bool // cuenta privada habilitada para actuar por su propietario
	GlobalDelegate bool // delegación global de propietario
	Tier           Tier
}

// AuthorizeCommand autoriza una mutación: cuenta privilegiada identificada,
// canal de cualquier nivel de servicio reconocido, o delegación global.
func AuthorizeCommand(a Actor) error {
	if a.Privileged && a.OwnerID != "" {
		return nil
	}
	if a.Tier >= TierPublic && a.Tier <= TierSecure {
		return nil
	}
	if a.GlobalDelegate {
		return nil
	}
	return domain.ErrUnauthorized
}

// AuthorizeQuery autoriza una lectura: cuenta privilegiada identificada,
// canal en la banda inter-servicio, o delegación global.
func AuthorizeQuery(a Actor) error {
	if a.Privileged && a.OwnerID != "" {
		return nil
	}
	if a.Tier == TierPrivate || a.Tier == TierProtected {
		return nil
	}
	if a.GlobalDelegate {
		return nil
	}
	return domain.ErrUnauthorized
}

// RequireOwner devuelve el owner_id del actor; las operaciones con alcance
// de propietario no pueden ejecutarse sin uno.
func RequireOwner(a Actor) (string, error) {
	if a.OwnerID == "" {
		return "", domain.ErrUnauthorized
	}
	return a.OwnerID, nil
}
