package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docvault-api/internal/application/auth"
	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP de categorías (protegido).
type CategoryHandler struct {
	uc   *usecase.CategoryUseCase
	sync *usecase.SyncUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, sync *usecase.SyncUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, sync: sync}
}

// Save godoc
// @Summary      Crear o versionar una categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveCategoryRequest  true  "Esquema de la categoría"
// @Success      200   {object}  dto.SaveCategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Save(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SaveCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Save(c.UserContext(), ownerID, CommandID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar categorías del propietario
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(100)
// @Param        skip   query  int  false  "Offset"  default(0)
// @Success      200    {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	ownerID, err := auth.RequireOwner(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	limit := c.QueryInt("limit", usecase.DefaultListLimit)
	skip := c.QueryInt("skip", 0)
	out, err := h.sync.ListCategories(c.UserContext(), ownerID, limit, skip)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
