package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/refstore"
	"github.com/tradsys/venue/internal/venueerrors"
)

func (h *entityHandlers) registerPositions(router gin.IRouter) {
	router.GET("/positions/:client_id", h.listPositions)
}

func (h *entityHandlers) listPositions(c *gin.Context) {
	clientID, err := pathInt64(c, "client_id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "client_id must be an integer"))
		return
	}

	filter, err := parsePositionFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	positions, err := h.store.ListPositions(c.Request.Context(), clientID, filter, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, positions)
}

func parsePositionFilter(c *gin.Context) (refstore.PositionFilter, error) {
	var filter refstore.PositionFilter

	if raw := c.Query("sub_account_id"); raw != "" {
		id, err := pathInt64Value(raw)
		if err != nil {
			return filter, venueerrors.New(venueerrors.Invalid, "sub_account_id must be an integer")
		}
		filter.SubAccountID = &id
	} else if raw := c.Query("sub_account_name"); raw != "" {
		filter.SubAccountName = &raw
	}

	if raw := c.Query("market_id"); raw != "" {
		id, err := pathInt64Value(raw)
		if err != nil {
			return filter, venueerrors.New(venueerrors.Invalid, "market_id must be an integer")
		}
		filter.MarketID = &id
	} else if base, quote := c.Query("base_currency"), c.Query("quote_currency"); base != "" && quote != "" {
		filter.Base, filter.Quote = &base, &quote
	}

	if raw := c.Query("side"); raw != "" {
		side, ok := models.ParseSide(raw)
		if !ok {
			return filter, venueerrors.Newf(venueerrors.Invalid, "unrecognized side %q", raw)
		}
		filter.Side = &side
	}

	return filter, nil
}
