package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/application/pricing"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/jhoicas/erp-backend/pkg/validation"
)

// PricingHandler resolución de precios, cotizaciones y administración de tablas y overrides.
type PricingHandler struct {
	resolver  *pricing.BracketPriceResolver
	brackets  *pricing.BracketAdminUseCase
	overrides *pricing.OverrideAdminUseCase
	log       *logger.Logger
}

// NewPricingHandler construye el handler.
func NewPricingHandler(resolver *pricing.BracketPriceResolver, brackets *pricing.BracketAdminUseCase, overrides *pricing.OverrideAdminUseCase, log *logger.Logger) *PricingHandler {
	return &PricingHandler{resolver: resolver, brackets: brackets, overrides: overrides, log: log}
}

// Resolve godoc
// @Summary      Resolver precio unitario
// @Description  Override de cliente, luego tabla por cantidad (gana el menor precio), luego precio plano.
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true   "ID del producto"
// @Param        quantity     query  string  true   "Cantidad (decimal)"
// @Param        price_tier   query  string  true   "regular | wholesale | walk_in"
// @Param        customer_id  query  string  false  "ID del cliente"
// @Success      200  {object}  dto.PriceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/resolve [get]
func (h *PricingHandler) Resolve(c *fiber.Ctx) error {
	var q dto.ResolvePriceQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.resolver.ResolveFromQuery(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Quote godoc
// @Summary      Cotizar una canasta
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "price_tier, items"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/quote [post]
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.resolver.QuoteFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListBrackets godoc
// @Summary      Tablas de precios de un producto
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {array}   dto.BracketResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pricing/brackets [get]
func (h *PricingHandler) ListBrackets(c *fiber.Ctx) error {
	productID, err := queryID(c, "product_id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.brackets.List(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.BracketResponse, 0, len(list))
	for _, b := range list {
		out = append(out, pricing.ToBracketResponse(b))
	}
	return c.JSON(out)
}

// GetBracket godoc
// @Summary      Obtener tabla de precios
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {object}  dto.BracketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/brackets/{id} [get]
func (h *PricingHandler) GetBracket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	b, err := h.brackets.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(pricing.ToBracketResponse(b))
}

// CreateBracket godoc
// @Summary      Crear tabla de precios por cantidad
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBracketRequest  true  "Tabla y tramos"
// @Success      201   {object}  dto.BracketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/pricing/brackets [post]
func (h *PricingHandler) CreateBracket(c *fiber.Ctx) error {
	var in dto.CreateBracketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, h.log, err)
	}
	b, err := h.brackets.Create(c.UserContext(), pricing.BracketInputFromCreate(GetUserID(c), in))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pricing.ToBracketResponse(b))
}

// UpdateBracket godoc
// @Summary      Editar tabla de precios (reemplaza tramos)
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la tabla"
// @Param        body  body  dto.UpdateBracketRequest  true  "Tabla y tramos"
// @Success      200   {object}  dto.BracketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/brackets/{id} [put]
func (h *PricingHandler) UpdateBracket(c *fiber.Ctx) error {
	var in dto.UpdateBracketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	b, err := h.brackets.Update(c.UserContext(), id, pricing.BracketInputFromUpdate(GetUserID(c), in))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(pricing.ToBracketResponse(b))
}

// CloneBracket godoc
// @Summary      Clonar tabla de precios (queda sin seleccionar)
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la tabla"
// @Param        body  body  dto.CloneBracketRequest  false  "Nombre de la copia"
// @Success      201   {object}  dto.BracketResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/brackets/{id}/clone [post]
func (h *PricingHandler) CloneBracket(c *fiber.Ctx) error {
	var in dto.CloneBracketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	b, err := h.brackets.Clone(c.UserContext(), id, in.Name, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pricing.ToBracketResponse(b))
}

// ActivateBracket godoc
// @Summary      Seleccionar tabla y activar precios por tramos del producto
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {object}  dto.BracketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/brackets/{id}/activate [post]
func (h *PricingHandler) ActivateBracket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	b, err := h.brackets.Activate(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(pricing.ToBracketResponse(b))
}

// DeactivateBrackets godoc
// @Summary      Volver al precio plano del producto
// @Tags         pricing
// @Security     Bearer
// @Param        product_id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/products/{product_id}/deactivate-brackets [post]
func (h *PricingHandler) DeactivateBrackets(c *fiber.Ctx) error {
	productID, err := pathID(c, "product_id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.brackets.DeactivateBracketPricing(c.UserContext(), productID, GetUserID(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateOverride godoc
// @Summary      Crear precio especial de cliente
// @Description  Desactiva los overrides activos del mismo cliente y producto cuyo rango se solape.
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOverrideRequest  true  "Override"
// @Success      201   {object}  dto.CreateOverrideResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/overrides [post]
func (h *PricingHandler) CreateOverride(c *fiber.Ctx) error {
	var in dto.CreateOverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validation.Struct(in); err != nil {
		return writeError(c, h.log, err)
	}
	o, deactivated, err := h.overrides.Create(c.UserContext(), pricing.OverrideInputFromRequest(GetUserID(c), in))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if deactivated == nil {
		deactivated = []string{}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateOverrideResponse{
		Override:    pricing.ToOverrideResponse(o),
		Deactivated: deactivated,
	})
}

// DeactivateOverride godoc
// @Summary      Desactivar precio especial
// @Tags         pricing
// @Security     Bearer
// @Param        id   path  string  true  "ID del override"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/overrides/{id} [delete]
func (h *PricingHandler) DeactivateOverride(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.overrides.Deactivate(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCustomerOverrides godoc
// @Summary      Precios especiales de un cliente
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        customer_id  path  string  true  "ID del cliente"
// @Success      200  {array}   dto.OverrideResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/customers/{customer_id}/overrides [get]
func (h *PricingHandler) ListCustomerOverrides(c *fiber.Ctx) error {
	customerID, err := pathID(c, "customer_id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.overrides.ListByCustomer(c.UserContext(), customerID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.OverrideResponse, 0, len(list))
	for i := range list {
		out = append(out, pricing.ToOverrideResponse(&list[i]))
	}
	return c.JSON(out)
}
