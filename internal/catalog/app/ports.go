package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

// ProductRepo is the remote product table. Select evaluates a
// normalized filter in one shot; Categories and MaxPrice describe the
// unfiltered catalog. MaxPrice reports ok=false when the catalog is
// empty.
type ProductRepo interface {
	Select(ctx context.Context, f domain.Filter) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	MaxPrice(ctx context.Context) (decimal.Decimal, bool, error)
}
