package refstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

// FillFilter carries §4.6's optional filters for the client-scoped fill
// listing, mirroring OrderFilter's sub-account/market disambiguation.
type FillFilter struct {
	SubAccountID   *int64
	SubAccountName *string
	MarketID       *int64
	Base, Quote    *string
	OrderID        *int64
	Side           *models.Side
	Type           *models.OrderType
	From, To       *time.Time // compared against created_at
}

// InsertFill is idempotent on the producer-assigned uuid: a re-delivered fill
// event is a silent no-op instead of a duplicate row or an error. inserted
// reports whether this call actually created the row — callers must use it
// to skip the order/position side effects on a duplicate delivery, or those
// effects apply twice even though the fill row itself does not duplicate.
func (s *Store) InsertFill(ctx context.Context, tx *gorm.DB, fill *models.Fill) (inserted bool, err error) {
	db := s.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(fill)
	if result.Error != nil {
		return false, venueerrors.Wrap(result.Error, venueerrors.Internal, "insert fill")
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) ListFills(ctx context.Context, clientID int64, filter FillFilter, page Pagination) ([]models.Fill, error) {
	q := s.db.WithContext(ctx).Model(&models.Fill{}).
		Joins("JOIN sub_accounts ON sub_accounts.id = fills.sub_account_id").
		Where("sub_accounts.client_id = ?", clientID)

	switch {
	case filter.SubAccountID != nil:
		q = q.Where("fills.sub_account_id = ?", *filter.SubAccountID)
	case filter.SubAccountName != nil:
		q = q.Where("sub_accounts.name = ? AND sub_accounts.status = ?", *filter.SubAccountName, models.SubAccountActive)
	}

	switch {
	case filter.MarketID != nil:
		q = q.Where("fills.market_id = ?", *filter.MarketID)
	case filter.Base != nil && filter.Quote != nil:
		base, quote := models.NormalizeTicker(*filter.Base, *filter.Quote)
		q = q.Joins("JOIN markets ON markets.id = fills.market_id").
			Where("markets.base_currency = ? AND markets.quote_currency = ?", base, quote)
	}

	if filter.OrderID != nil {
		q = q.Where("fills.order_id = ?", *filter.OrderID)
	}
	if filter.Side != nil {
		q = q.Where("fills.side = ?", *filter.Side)
	}
	if filter.Type != nil {
		q = q.Where("fills.type = ?", *filter.Type)
	}
	if filter.From != nil {
		q = q.Where("fills.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("fills.created_at <= ?", *filter.To)
	}

	var fills []models.Fill
	err := q.Order("fills.created_at ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&fills).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list fills")
	}
	return fills, nil
}
