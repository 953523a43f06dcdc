package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada resultado negativo
// que llega al cliente se construye a partir de uno de estos centinelas;
// nunca se propaga un fallo crudo de infraestructura como respuesta.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrValidation   = errors.New("entrada inválida")

	// Conflictos de dominio: rechazos tipados, no fallos del sistema.
	ErrVersionExists     = errors.New("la versión de la categoría ya existe")
	ErrCategoryImmutable = errors.New("la categoría no puede ser cambiada")
	ErrGroupImmutable    = errors.New("el grupo no puede ser cambiado")
	ErrAlreadyInState    = errors.New("la entidad ya está en el estado solicitado")

	// Un grupo nuevo requiere una llave adjunta para el custodio.
	ErrKeyMissing = errors.New("llave faltante")
)
