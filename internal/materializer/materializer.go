// Package materializer is the single consumer of `fills`: for each fill it
// folds one logical transaction of three writes (insert fill, advance the
// originating order, upsert the position) per §4.3.
package materializer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/refstore"
	"github.com/tradsys/venue/internal/venueerrors"
)

// Materializer drains `fills` and applies each one transactionally. Fills
// for independent orders are processed concurrently through a bounded pool;
// the §5 single-threaded materialization model is preserved per-key, not
// per-process: orderLocks and positionLocks serialize any two fills that
// touch the same order or the same (sub-account, market) position, so only
// genuinely independent fills actually overlap in the pool.
type Materializer struct {
	store         *refstore.Store
	bus           bus.Bus
	logger        *zap.Logger
	pool          *ants.Pool
	orderLocks    *keyedMutex
	positionLocks *keyedMutex
}

func New(store *refstore.Store, b bus.Bus, logger *zap.Logger, poolSize int) (*Materializer, error) {
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Materializer{
		store:         store,
		bus:           b,
		logger:        logger,
		pool:          pool,
		orderLocks:    newKeyedMutex(),
		positionLocks: newKeyedMutex(),
	}, nil
}

func (m *Materializer) Close() {
	m.pool.Release()
}

// Run consumes `fills` from the earliest offset forever, submitting each
// fill to the pool and waiting for in-flight work to drain before returning.
func (m *Materializer) Run(ctx context.Context) error {
	consumer, err := m.bus.Consume(ctx, bus.Fills, bus.Earliest)
	if err != nil {
		return err
	}
	defer consumer.Close()

	var wg sync.WaitGroup
	for {
		raw, err := consumer.Next(ctx)
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			m.logger.Error("fills consumer terminated", zap.Error(err))
			return err
		}

		var fill models.Fill
		if jsonErr := json.Unmarshal(raw, &fill); jsonErr != nil {
			m.logger.Error("malformed fill frame", zap.Error(jsonErr))
			continue
		}

		wg.Add(1)
		submitErr := m.pool.Submit(func() {
			defer wg.Done()
			if err := m.applyFill(ctx, fill); err != nil {
				m.logger.Error("fill materialization failed", zap.String("fill_id", fill.ID), zap.Error(err))
			}
		})
		if submitErr != nil {
			wg.Done()
			m.logger.Error("fill submit rejected", zap.String("fill_id", fill.ID), zap.Error(submitErr))
		}
	}
}

// applyFill is the one-transaction-per-fill body: insert the fill row,
// advance the originating order, upsert the position. All three observed
// together, per §4.3's atomicity requirement.
//
// The order and position locks are taken, always in that order, before the
// transaction opens: a fill's order id and its (sub-account, market) pair
// are both known from the fill event itself, so no goroutine ever needs
// the other's partial progress to compute its own keys. Fixing the
// acquisition order across every caller rules out a lock-order deadlock
// regardless of which fills happen to share a key.
func (m *Materializer) applyFill(ctx context.Context, fill models.Fill) error {
	unlockOrder := m.orderLocks.Lock(strconv.FormatInt(fill.OrderID, 10))
	defer unlockOrder()
	unlockPosition := m.positionLocks.Lock(positionKey(fill.SubAccountID, fill.MarketID))
	defer unlockPosition()

	return m.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := m.store.InsertFill(ctx, tx, &fill)
		if err != nil {
			return err
		}
		if !inserted {
			// re-delivered fill: the row already exists, so the order and
			// position updates it would trigger already happened too.
			return nil
		}

		order, err := m.advanceOrder(ctx, tx, fill)
		if err != nil {
			return err
		}

		return m.upsertPosition(ctx, tx, order.SubAccountID, order.MarketID, fill)
	})
}

func positionKey(subAccountID, marketID int64) string {
	return strconv.FormatInt(subAccountID, 10) + ":" + strconv.FormatInt(marketID, 10)
}

func (m *Materializer) advanceOrder(ctx context.Context, tx *gorm.DB, fill models.Fill) (*models.Order, error) {
	var order models.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND sub_account_id = ? AND market_id = ?", fill.OrderID, fill.SubAccountID, fill.MarketID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d not found for sub-account %d market %d", fill.OrderID, fill.SubAccountID, fill.MarketID)
	} else if err != nil {
		return nil, fmt.Errorf("look up originating order: %w", err)
	}

	order.ApplyFill(fill.Size, fill.CreatedAt)
	if err := m.store.UpdateOrder(ctx, tx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *Materializer) upsertPosition(ctx context.Context, tx *gorm.DB, subAccountID, marketID int64, fill models.Fill) error {
	position, err := m.store.PositionFor(ctx, tx, subAccountID, marketID)
	if err != nil {
		if venueerrors.KindOf(err) != venueerrors.NotFound {
			return err
		}
		position = &models.Position{SubAccountID: subAccountID, MarketID: marketID}
	}

	position.ApplyFill(fill.Side, fill.Price, fill.Size)
	return m.store.UpsertPosition(ctx, tx, position)
}
