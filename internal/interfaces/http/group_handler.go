package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docvault-api/internal/application/auth"
	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/usecase"
)

// GroupHandler maneja las peticiones HTTP de grupos (protegido).
type GroupHandler struct {
	uc   *usecase.GroupUseCase
	sync *usecase.SyncUseCase
}

// NewGroupHandler construye el handler.
func NewGroupHandler(uc *usecase.GroupUseCase, sync *usecase.SyncUseCase) *GroupHandler {
	return &GroupHandler{uc: uc, sync: sync}
}

// Save godoc
// @Summary      Crear o actualizar un grupo cifrado
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveGroupRequest  true  "Grupo cifrado (con llave adjunta si es nuevo)"
// @Success      200   {object}  dto.SaveGroupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/groups [post]
func (h *GroupHandler) Save(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SaveGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Save(c.UserContext(), ownerID, CommandID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Marcar un grupo como borrado (tombstone)
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del grupo"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/groups/{id}/delete [post]
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	return h.setDeleted(c, true)
}

// Restore godoc
// @Summary      Restaurar un grupo borrado
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del grupo"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/groups/{id}/restore [post]
func (h *GroupHandler) Restore(c *fiber.Ctx) error {
	return h.setDeleted(c, false)
}

func (h *GroupHandler) setDeleted(c *fiber.Ctx, deleted bool) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	groupID := c.Params("id")
	if groupID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.SetDeleted(c.UserContext(), ownerID, groupID, deleted); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// List godoc
// @Summary      Listar grupos del propietario (vivos y tombstones)
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        limit         query  int   false  "Límite"  default(100)
// @Param        skip          query  int   false  "Offset"  default(0)
// @Param        deleted_only  query  bool  false  "Solo grupos borrados"
// @Success      200  {object}  dto.GroupListResponse
// @Router       /api/groups [get]
func (h *GroupHandler) List(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	limit := c.QueryInt("limit", usecase.DefaultListLimit)
	skip := c.QueryInt("skip", 0)
	deletedOnly := c.QueryBool("deleted_only", false)
	out, err := h.sync.ListGroups(c.UserContext(), ownerID, limit, skip, deletedOnly)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Keys godoc
// @Summary      Solicitar el recifrado de llaves de grupo
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GroupKeysRequest  true  "Identificadores de llave"
// @Success      200
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/groups/keys [post]
func (h *GroupHandler) Keys(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.GroupKeysRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// El certificado del solicitante acompaña la solicitud: el custodio
	// recifra las llaves para ese certificado, no para el servicio.
	res, err := h.sync.GroupKeys(c.UserContext(), ownerID, in.KeyIDs, clientCertChain(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(res.Status).Send(res.Body)
}

// clientCertChain extrae la cadena de certificados del cliente del header
// X-Client-Cert (uno por línea PEM, codificado por el gateway TLS).
func clientCertChain(c *fiber.Ctx) []string {
	cert := c.Get("X-Client-Cert")
	if cert == "" {
		return nil
	}
	return []string{cert}
}
