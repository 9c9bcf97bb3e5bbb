package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is owned by the remote catalog and read-only on this side.
// The ID determines every other field at query time.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
	CreatedAt   time.Time
}
