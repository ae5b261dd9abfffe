package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/venueerrors"
)

type createMarketRequest struct {
	PriceIncrement float64 `json:"price_increment" binding:"required,gt=0"`
	SizeIncrement  float64 `json:"size_increment" binding:"required,gt=0"`
}

type updateMarketRequest struct {
	BaseCurrency   *string  `json:"base_currency,omitempty"`
	QuoteCurrency  *string  `json:"quote_currency,omitempty"`
	PriceIncrement *float64 `json:"price_increment,omitempty"`
	SizeIncrement  *float64 `json:"size_increment,omitempty"`
}

func (h *entityHandlers) registerMarkets(router gin.IRouter) {
	router.GET("/markets/", h.listMarkets)
	router.GET("/markets/:base/:quote", h.getMarketByTicker)
	router.POST("/markets/:base/:quote", h.createMarket)
	router.PUT("/markets/:id", h.updateMarket)
}

func (h *entityHandlers) listMarkets(c *gin.Context) {
	markets, err := h.store.ListMarkets(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, markets)
}

func (h *entityHandlers) getMarketByTicker(c *gin.Context) {
	market, err := h.store.MarketByTicker(c.Request.Context(), c.Param("base"), c.Param("quote"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, market)
}

func (h *entityHandlers) createMarket(c *gin.Context) {
	var req createMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "invalid request body: %v", err))
		return
	}
	market, err := h.store.CreateMarket(c.Request.Context(), c.Param("base"), c.Param("quote"), req.PriceIncrement, req.SizeIncrement)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, market)
}

func (h *entityHandlers) updateMarket(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "id must be an integer"))
		return
	}
	var req updateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "invalid request body: %v", err))
		return
	}
	market, err := h.store.UpdateMarket(c.Request.Context(), id, req.BaseCurrency, req.QuoteCurrency, req.PriceIncrement, req.SizeIncrement)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, market)
}
