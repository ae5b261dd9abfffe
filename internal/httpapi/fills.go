package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/broadcaster"
	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/refstore"
	"github.com/tradsys/venue/internal/venueerrors"
)

func (h *entityHandlers) registerFills(router gin.IRouter, bc *broadcaster.Broadcaster) {
	router.GET("/fills/:client_id", h.listFills)
	router.GET("/fills/stream", streamFillsHandler(bc))
}

func (h *entityHandlers) listFills(c *gin.Context) {
	clientID, err := pathInt64(c, "client_id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "client_id must be an integer"))
		return
	}

	filter, err := parseFillFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	fills, err := h.store.ListFills(c.Request.Context(), clientID, filter, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fills)
}

func parseFillFilter(c *gin.Context) (refstore.FillFilter, error) {
	var filter refstore.FillFilter

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

	if raw := c.Query("order_id"); raw != "" {
		id, err := pathInt64Value(raw)
		if err != nil {
			return filter, venueerrors.New(venueerrors.Invalid, "order_id must be an integer")
		}
		filter.OrderID = &id
	}
	if raw := c.Query("side"); raw != "" {
		side, ok := models.ParseSide(raw)
		if !ok {
			return filter, venueerrors.Newf(venueerrors.Invalid, "unrecognized side %q", raw)
		}
		filter.Side = &side
	}
	if raw := c.Query("type"); raw != "" {
		typ, ok := models.ParseOrderType(raw)
		if !ok {
			return filter, venueerrors.Newf(venueerrors.Invalid, "unrecognized type %q", raw)
		}
		filter.Type = &typ
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to

	return filter, nil
}
