package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/service"
)

// PricingHandler serves the public pricing lookup.
type PricingHandler struct {
	Engine *service.Engine
}

// NewPricingHandler constructs a PricingHandler.
func NewPricingHandler(engine *service.Engine) *PricingHandler {
	return &PricingHandler{Engine: engine}
}

// GetPricing handles GET /v1/pricing/:type.  Unknown config types get
// 400, a type with no active row gets 404.
func (h *PricingHandler) GetPricing(c echo.Context) error {
	cfg, err := h.Engine.GetPricing(c.Request().Context(), c.Param("type"))
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}
