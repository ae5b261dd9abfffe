package refstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

// OrderFilter carries every optional filter §4.6 allows on the client-scoped
// order listing. Nil/zero fields are left unconstrained.
type OrderFilter struct {
	SubAccountID   *int64
	SubAccountName *string // matched among the client's active sub-accounts only
	MarketID       *int64
	Base, Quote    *string
	ClientOrderID  *string // substring match
	Side           *models.Side
	Type           *models.OrderType
	Status         *models.OrderStatus
	From, To       *time.Time // compared against open_at for open orders, closed_at for closed
}

// OrderByID looks up a single order, scoped to the client that owns it
// through its sub-account.
func (s *Store) OrderByID(ctx context.Context, clientID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Joins("JOIN sub_accounts ON sub_accounts.id = orders.sub_account_id").
		Where("orders.id = ? AND sub_accounts.client_id = ?", orderID, clientID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "order with id %d does not exist", orderID)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up order by id")
	}
	return &order, nil
}

// ListOrders applies every filter in OrderFilter, always scoped to clientID
// through the owning sub-account, in ascending order as §4.6 requires.
func (s *Store) ListOrders(ctx context.Context, clientID int64, filter OrderFilter, page Pagination) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{}).
		Joins("JOIN sub_accounts ON sub_accounts.id = orders.sub_account_id").
		Where("sub_accounts.client_id = ?", clientID)

	switch {
	case filter.SubAccountID != nil:
		q = q.Where("orders.sub_account_id = ?", *filter.SubAccountID)
	case filter.SubAccountName != nil:
		q = q.Where("sub_accounts.name = ? AND sub_accounts.status = ?", *filter.SubAccountName, models.SubAccountActive)
	}

	switch {
	case filter.MarketID != nil:
		q = q.Where("orders.market_id = ?", *filter.MarketID)
	case filter.Base != nil && filter.Quote != nil:
		base, quote := models.NormalizeTicker(*filter.Base, *filter.Quote)
		q = q.Joins("JOIN markets ON markets.id = orders.market_id").
			Where("markets.base_currency = ? AND markets.quote_currency = ?", base, quote)
	}

	if filter.ClientOrderID != nil {
		q = q.Where("orders.client_order_id LIKE ?", "%"+*filter.ClientOrderID+"%")
	}
	if filter.Side != nil {
		q = q.Where("orders.side = ?", *filter.Side)
	}
	if filter.Type != nil {
		q = q.Where("orders.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		q = q.Where("orders.status = ?", *filter.Status)
	}

	// Open orders are windowed on open_at, closed orders on closed_at; with no
	// status filter both columns are checked so the range still applies.
	if filter.From != nil || filter.To != nil {
		timeCol := "CASE WHEN orders.status = '" + string(models.OrderStatusClosed) +
			"' THEN orders.closed_at ELSE orders.open_at END"
		if filter.Status != nil {
			timeCol = "orders.open_at"
			if *filter.Status == models.OrderStatusClosed {
				timeCol = "orders.closed_at"
			}
		}
		if filter.From != nil {
			q = q.Where(timeCol+" >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where(timeCol+" <= ?", *filter.To)
		}
	}

	var orders []models.Order
	err := q.Order("orders.open_at ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&orders).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list orders")
	}
	return orders, nil
}

// NextOrderID allocates an id from the orders table's own sequence without
// inserting a row, so ingress can stamp an OrderEvent before the order-sink
// consumer ever writes it (DESIGN.md's publish-first resolution).
func (s *Store) NextOrderID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('orders', 'id'))").
		Scan(&id).Error
	if err != nil {
		return 0, venueerrors.Wrap(err, venueerrors.Internal, "allocate order id")
	}
	return id, nil
}

// InsertOrder is the order-sink write: the sole writer of the orders table,
// consuming the same durable stream ingress publishes to instead of writing
// synchronously on the request path.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return venueerrors.Wrap(err, venueerrors.Internal, "insert order")
	}
	return nil
}

// UpdateOrder persists the materializer's fill-driven changes to filled_size,
// status and closed_at.
func (s *Store) UpdateOrder(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	db := s.db
	if tx != nil {
		db = tx
	}
	if err := db.WithContext(ctx).Save(order).Error; err != nil {
		return venueerrors.Wrap(err, venueerrors.Internal, "update order")
	}
	return nil
}

// DB exposes the underlying handle so the materializer can run a single
// GORM transaction spanning the order, fill and position writes of one fill.
func (s *Store) DB() *gorm.DB { return s.db }
