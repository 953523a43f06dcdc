package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/docvault-api/internal/application/auth"
	"github.com/jhoicas/docvault-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/docvault-api/pkg/jwt"
)

// Locals key del actor autenticado en Fiber.
const LocalActor = "actor"

// AuthMiddleware valida el Bearer Token JWT y deja el Actor derivado de sus
// claims en c.Locals. La clasificación del actor se rehace en cada petición.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := pkgjwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActor, auth.Actor{
			OwnerID:        claims.UserID,
			Privileged:     claims.Role == auth.RolePrivateAccount,
			GlobalDelegate: claims.Delegation == auth.DelegationOwner,
			Tier:           auth.Tier(claims.Tier),
		})
		return c.Next()
	}
}

// GetActor devuelve el Actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) auth.Actor {
	v := c.Locals(LocalActor)
	if v == nil {
		return auth.Actor{}
	}
	a, _ := v.(auth.Actor)
	return a
}

// RequireCommand autoriza una mutación con la compuerta de comandos.
func RequireCommand() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.AuthorizeCommand(GetActor(c)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "comando no autorizado"})
		}
		return c.Next()
	}
}

// RequireQuery autoriza una lectura con la compuerta de consultas.
func RequireQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.AuthorizeQuery(GetActor(c)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "consulta no autorizada"})
		}
		return c.Next()
	}
}

// CommandID devuelve el identificador del comando entrante: el X-Request-ID
// del cliente si es un UUID válido, o uno generado por el servidor. Es el id
// por defecto de la entidad en su primera creación.
func CommandID(c *fiber.Ctx) string {
	if id := c.Get("X-Request-ID"); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return uuid.New().String()
}

// CorrelationID devuelve la correlación de la respuesta en streaming. Cuando
// el cliente encadena segmentos con "/", responde con lo que sigue al primer
// separador; sin header se correlaciona con el id del comando.
func CorrelationID(c *fiber.Ctx) string {
	corr := c.Get("X-Correlation-ID")
	if i := strings.Index(corr, "/"); i >= 0 {
		corr = corr[i+1:]
	}
	if corr == "" {
		corr = CommandID(c)
	}
	return corr
}
