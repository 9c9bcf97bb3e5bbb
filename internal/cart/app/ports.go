package app

import (
	"context"

	"github.com/danipaBernales/modern-ecommerce/internal/cart/domain"
)

// Persistence stores the serialized cart snapshot across restarts.
// A nil Persistence degrades the store to session-only state.
type Persistence interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, s domain.State) error
	Reset(ctx context.Context) error
}
