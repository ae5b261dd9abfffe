package refstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

// CreateMarket enforces the unique-(base,quote) write predicate from §4.6,
// comparing on the upper-cased ticker the way ingress resolves markets.
func (s *Store) CreateMarket(ctx context.Context, base, quote string, priceIncrement, sizeIncrement float64) (*models.Market, error) {
	base, quote = models.NormalizeTicker(base, quote)

	if _, err := s.MarketByTicker(ctx, base, quote); err == nil {
		return nil, venueerrors.Newf(venueerrors.Conflict, "market %s/%s already exists", base, quote)
	} else if venueerrors.KindOf(err) != venueerrors.NotFound {
		return nil, err
	}

	market := &models.Market{
		BaseCurrency:   base,
		QuoteCurrency:  quote,
		PriceIncrement: priceIncrement,
		SizeIncrement:  sizeIncrement,
	}
	if err := s.db.WithContext(ctx).Create(market).Error; err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "create market")
	}
	return market, nil
}

// UpdateMarket enforces the unique-(base,quote) predicate only when both are
// provided, per §4.6's "when both provided" qualifier.
func (s *Store) UpdateMarket(ctx context.Context, id int64, base, quote *string, priceIncrement, sizeIncrement *float64) (*models.Market, error) {
	market, err := s.MarketByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if base != nil && quote != nil {
		upperBase, upperQuote := models.NormalizeTicker(*base, *quote)
		var existing models.Market
		err := s.db.WithContext(ctx).
			Where("base_currency = ? AND quote_currency = ? AND id <> ?", upperBase, upperQuote, id).
			First(&existing).Error
		if err == nil {
			return nil, venueerrors.Newf(venueerrors.Conflict, "market %s/%s already exists", upperBase, upperQuote)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up market by ticker")
		}
		market.BaseCurrency, market.QuoteCurrency = upperBase, upperQuote
	}
	if priceIncrement != nil {
		market.PriceIncrement = *priceIncrement
	}
	if sizeIncrement != nil {
		market.SizeIncrement = *sizeIncrement
	}

	if err := s.db.WithContext(ctx).Save(market).Error; err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "update market")
	}
	return market, nil
}

func (s *Store) MarketByID(ctx context.Context, id int64) (*models.Market, error) {
	var market models.Market
	err := s.db.WithContext(ctx).First(&market, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "market with id %d does not exist", id)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up market by id")
	}
	return &market, nil
}

// MarketByTicker looks up a market by (base, quote) after upper-casing both,
// the same normalization ingress applies when a caller specifies a market by
// ticker instead of by id.
func (s *Store) MarketByTicker(ctx context.Context, base, quote string) (*models.Market, error) {
	base, quote = models.NormalizeTicker(base, quote)
	var market models.Market
	err := s.db.WithContext(ctx).Where("base_currency = ? AND quote_currency = ?", base, quote).First(&market).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "market %s/%s does not exist", base, quote)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up market by ticker")
	}
	return &market, nil
}

func (s *Store) ListMarkets(ctx context.Context, page Pagination) ([]models.Market, error) {
	var markets []models.Market
	err := s.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Limit()).Find(&markets).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list markets")
	}
	return markets, nil
}
