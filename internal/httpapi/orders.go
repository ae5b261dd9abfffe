package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/refstore"
	"github.com/tradsys/venue/internal/venueerrors"
)

func (h *entityHandlers) registerOrders(router gin.IRouter) {
	router.GET("/orders/open/:client_id", h.listOpenOrders)
	router.GET("/orders/:client_id", h.listOrders)
}

func (h *entityHandlers) listOpenOrders(c *gin.Context) {
	h.doListOrders(c, true)
}

func (h *entityHandlers) listOrders(c *gin.Context) {
	h.doListOrders(c, false)
}

func (h *entityHandlers) doListOrders(c *gin.Context, openOnly bool) {
	clientID, err := pathInt64(c, "client_id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "client_id must be an integer"))
		return
	}

	filter, err := parseOrderFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if openOnly {
		open := models.OrderStatusOpen
		filter.Status = &open
	}

	orders, err := h.store.ListOrders(c.Request.Context(), clientID, filter, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func parseOrderFilter(c *gin.Context) (refstore.OrderFilter, error) {
	var filter refstore.OrderFilter

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

	if raw := c.Query("client_order_id"); raw != "" {
		filter.ClientOrderID = &raw
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
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		if status != models.OrderStatusOpen && status != models.OrderStatusClosed {
			return filter, venueerrors.Newf(venueerrors.Invalid, "unrecognized status %q", raw)
		}
		filter.Status = &status
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to

	return filter, nil
}

func parseTimeRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, venueerrors.New(venueerrors.Invalid, "from must be RFC3339")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, venueerrors.New(venueerrors.Invalid, "to must be RFC3339")
		}
		to = &t
	}
	return from, to, nil
}
