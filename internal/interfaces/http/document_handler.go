package http

import (
	"bufio"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/docvault-api/internal/application/auth"
	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/usecase"
)

// DocumentHandler maneja las peticiones HTTP de documentos (protegido).
type DocumentHandler struct {
	uc   *usecase.DocumentUseCase
	sync *usecase.SyncUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase, sync *usecase.SyncUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, sync: sync}
}

// Save godoc
// @Summary      Crear o actualizar un documento cifrado
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveDocumentRequest  true  "Documento cifrado"
// @Success      200   {object}  dto.SaveDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Save(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SaveDocumentRequest
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
// @Summary      Marcar un documento como borrado (tombstone)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/delete [post]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	return h.setDeleted(c, true)
}

// Restore godoc
// @Summary      Restaurar un documento borrado
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/restore [post]
func (h *DocumentHandler) Restore(c *fiber.Ctx) error {
	return h.setDeleted(c, false)
}

func (h *DocumentHandler) setDeleted(c *fiber.Ctx, deleted bool) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	docID := c.Params("id")
	if docID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.SetDeleted(c.UserContext(), ownerID, docID, deleted); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ListByGroup godoc
// @Summary      Listar documentos de un grupo
// @Description  Con stream=true responde NDJSON multi-frame: acuse, lotes acotados por tamaño y un frame final done=true.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID del grupo"
// @Param        limit         query  int     false  "Límite"  default(100)
// @Param        skip          query  int     false  "Offset"  default(0)
// @Param        deleted_only  query  bool    false  "Solo documentos borrados"
// @Param        since         query  int     false  "Solo modificados después de este epoch (sync incremental)"
// @Param        stream        query  bool    false  "Respuesta multi-frame NDJSON"
// @Success      200  {object}  dto.DocumentBatchResponse
// @Router       /api/groups/{id}/documents [get]
func (h *DocumentHandler) ListByGroup(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	groupID := c.Params("id")
	if groupID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}

	q := dto.ListDocumentsQuery{
		Limit:       c.QueryInt("limit", usecase.DefaultListLimit),
		Skip:        c.QueryInt("skip", 0),
		DeletedOnly: c.QueryBool("deleted_only", false),
	}
	if since := c.QueryInt("since", 0); since > 0 {
		t := time.Unix(int64(since), 0)
		q.Since = &t
	}

	if !c.QueryBool("stream", false) {
		out, err := h.sync.ListDocuments(c.UserContext(), ownerID, groupID, q)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}

	// Modo streaming: el cuerpo se escribe después de devolver el handler,
	// así que el trabajo se desacopla del contexto de la petición.
	corrID := CorrelationID(c)
	ctx := context.WithoutCancel(c.UserContext())
	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		sink := newNDJSONSink(w)
		if err := h.sync.StreamDocuments(ctx, ownerID, groupID, q, corrID, sink); err != nil {
			// La cabecera ya salió: solo queda registrar y cortar el stream.
			log.Error().Err(err).
				Str("correlation_id", corrID).
				Str("group_id", groupID).
				Msg("stream de documentos interrumpido")
		}
	})
	return nil
}
