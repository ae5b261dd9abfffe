package refstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

// PositionFilter carries §4.6's optional filters for the client-scoped
// position listing.
type PositionFilter struct {
	SubAccountID   *int64
	SubAccountName *string
	MarketID       *int64
	Base, Quote    *string
	Side           *models.Side
}

// PositionFor fetches the one position row for a (sub-account, market) pair,
// creating none implicitly: callers that need an upsert go through
// UpsertPosition instead. Called within a transaction, the read takes a row
// lock so a concurrent writer for the same pair blocks until this
// transaction commits instead of racing the upsert that follows.
func (s *Store) PositionFor(ctx context.Context, tx *gorm.DB, subAccountID, marketID int64) (*models.Position, error) {
	q := s.db.WithContext(ctx)
	if tx != nil {
		q = tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var position models.Position
	err := q.
		Where("sub_account_id = ? AND market_id = ?", subAccountID, marketID).
		First(&position).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "no position for sub-account %d in market %d", subAccountID, marketID)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up position")
	}
	return &position, nil
}

// UpsertPosition writes the materializer's updated position in one atomic
// statement: ON CONFLICT against the (sub_account_id, market_id) unique
// index updates the existing row's size/side/avg_entry_price instead of the
// caller's read-then-create racing a concurrent fill for the same pair.
func (s *Store) UpsertPosition(ctx context.Context, tx *gorm.DB, position *models.Position) error {
	db := s.db
	if tx != nil {
		db = tx
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sub_account_id"}, {Name: "market_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"avg_entry_price", "size", "side"}),
	}).Create(position).Error
	if err != nil {
		return venueerrors.Wrap(err, venueerrors.Internal, "upsert position")
	}
	return nil
}

func (s *Store) ListPositions(ctx context.Context, clientID int64, filter PositionFilter, page Pagination) ([]models.Position, error) {
	q := s.db.WithContext(ctx).Model(&models.Position{}).
		Joins("JOIN sub_accounts ON sub_accounts.id = positions.sub_account_id").
		Where("sub_accounts.client_id = ?", clientID)

	switch {
	case filter.SubAccountID != nil:
		q = q.Where("positions.sub_account_id = ?", *filter.SubAccountID)
	case filter.SubAccountName != nil:
		q = q.Where("sub_accounts.name = ? AND sub_accounts.status = ?", *filter.SubAccountName, models.SubAccountActive)
	}

	switch {
	case filter.MarketID != nil:
		q = q.Where("positions.market_id = ?", *filter.MarketID)
	case filter.Base != nil && filter.Quote != nil:
		base, quote := models.NormalizeTicker(*filter.Base, *filter.Quote)
		q = q.Joins("JOIN markets ON markets.id = positions.market_id").
			Where("markets.base_currency = ? AND markets.quote_currency = ?", base, quote)
	}

	if filter.Side != nil {
		q = q.Where("positions.side = ?", *filter.Side)
	}

	var positions []models.Position
	err := q.Order("positions.id").Offset(page.Offset()).Limit(page.Limit()).Find(&positions).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list positions")
	}
	return positions, nil
}
