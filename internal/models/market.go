package models

import (
	"strings"
	"time"
)

// Market is a tradeable (base, quote) pair. (base, quote) is unique after
// normalizing both to upper-case.
type Market struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	BaseCurrency   string    `json:"base_currency"`
	QuoteCurrency  string    `json:"quote_currency"`
	PriceIncrement float64   `json:"price_increment"`
	SizeIncrement  float64   `json:"size_increment"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Market) TableName() string { return "markets" }

// NormalizeTicker upper-cases a (base, quote) pair the way the reference
// store's ticker lookup does before comparing.
func NormalizeTicker(base, quote string) (string, string) {
	return strings.ToUpper(strings.TrimSpace(base)), strings.ToUpper(strings.TrimSpace(quote))
}

// FloorToIncrement floors v to the nearest multiple of increment, matching
// the ingress rounding rule in spec §4.4 step 5: floor(v/increment)*increment.
func FloorToIncrement(v, increment float64) float64 {
	if increment <= 0 {
		return v
	}
	steps := int64(v / increment)
	return float64(steps) * increment
}
