// Package ingress implements the POST /orders/{client_id} contract from
// §4.4: a seven-step validation chain ending in a publish to the `orders`
// stream. Grounded on the teacher's gin order handler
// (internal/api/handlers/order_handler.go) for request binding and error
// mapping style.
package ingress

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/refstore"
	"github.com/tradsys/venue/internal/venueerrors"
)

// Handler serves order creation. enableBus gates the `enable_rabbitmq` CLI
// toggle from the environment contract: when the broker is disabled, the
// order is validated and assigned an id but never published, and the
// order-sink consumer will never see it (documented limitation, not a bug).
type Handler struct {
	store     *refstore.Store
	bus       bus.Bus
	logger    *zap.Logger
	enableBus bool
}

func NewHandler(store *refstore.Store, b bus.Bus, logger *zap.Logger, enableBus bool) *Handler {
	return &Handler{store: store, bus: b, logger: logger, enableBus: enableBus}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/orders/:client_id", h.CreateOrder)
}

// CreateOrder runs the validation chain and, on success, publishes an
// OrderEvent instead of writing the order row itself — persistence moves to
// the order-sink consumer off the request path (DESIGN.md resolution #4).
func (h *Handler) CreateOrder(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "client_id must be an integer"))
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "invalid request body: %v", err))
		return
	}

	ctx := c.Request.Context()

	// Step 1: resolve sub-account, require active, require client match.
	subAccount, err := h.store.SubAccountByID(ctx, req.SubAccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !subAccount.IsActive() {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "sub-account %d is not active", subAccount.ID))
		return
	}
	if subAccount.ClientID != clientID {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "sub-account %d does not belong to client %d", subAccount.ID, clientID))
		return
	}

	// Step 2: resolve market by id or by (base, quote).
	market, err := h.resolveMarket(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Step 3: type/price consistency.
	side, ok := models.ParseSide(req.Side)
	if !ok {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "unrecognized side %q", req.Side))
		return
	}
	orderType, ok := models.ParseOrderType(req.Type)
	if !ok {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "unrecognized order type %q", req.Type))
		return
	}
	switch orderType {
	case models.OrderTypeLimit:
		if req.Price == nil || *req.Price < market.PriceIncrement {
			respondError(c, venueerrors.Newf(venueerrors.Invalid, "limit order requires a price >= %v", market.PriceIncrement))
			return
		}
	case models.OrderTypeMarket:
		if req.Price != nil {
			respondError(c, venueerrors.New(venueerrors.Invalid, "market order must not specify a price"))
			return
		}
	}

	// Step 4: size floor.
	if req.Size < market.SizeIncrement {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "size must be >= %v", market.SizeIncrement))
		return
	}

	// Step 5: floor price and size to their increments.
	size := models.FloorToIncrement(req.Size, market.SizeIncrement)
	var price *float64
	if req.Price != nil {
		floored := models.FloorToIncrement(*req.Price, market.PriceIncrement)
		price = &floored
	}

	orderID, err := h.store.NextOrderID(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	openAt := time.Now().UTC()

	event := models.OrderEvent{
		ID:            orderID,
		ClientOrderID: req.ClientOrderID,
		Price:         price,
		Size:          size,
		Side:          side,
		Type:          orderType,
		OpenAt:        openAt,
		SubAccountID:  subAccount.ID,
		MarketID:      market.ID,
	}

	// Step 7: publish. Per §4.4, a publish failure is a 500 even though the
	// order is valid — there is no row to roll back under publish-first.
	if h.enableBus {
		if err := h.bus.Send(ctx, bus.Orders, event); err != nil {
			h.logger.Error("order publish failed", zap.Int64("order_id", orderID), zap.Error(err))
			respondError(c, venueerrors.Wrap(err, venueerrors.BusPublish, "publish order"))
			return
		}
	}

	c.JSON(http.StatusOK, OrderSummary{
		ID:            event.ID,
		ClientOrderID: event.ClientOrderID,
		Price:         event.Price,
		Size:          event.Size,
		Side:          event.Side,
		Type:          event.Type,
		SubAccountID:  event.SubAccountID,
		MarketID:      event.MarketID,
		OpenAt:        event.OpenAt.Format(time.RFC3339Nano),
	})
}

func (h *Handler) resolveMarket(ctx context.Context, req CreateOrderRequest) (*models.Market, error) {
	if req.MarketID != nil {
		return h.store.MarketByID(ctx, *req.MarketID)
	}
	if req.BaseCurrency != nil && req.QuoteCurrency != nil {
		return h.store.MarketByTicker(ctx, *req.BaseCurrency, *req.QuoteCurrency)
	}
	return nil, venueerrors.New(venueerrors.Invalid, "market_id or (base_currency, quote_currency) is required")
}

func respondError(c *gin.Context, err error) {
	c.JSON(venueerrors.HTTPStatus(venueerrors.KindOf(err)), gin.H{"error": venueerrors.HTTPBody(err)})
}
