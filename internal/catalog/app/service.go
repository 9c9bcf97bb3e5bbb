package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

// ErrRemoteQuery marks a transport or query failure against the remote
// catalog. Callers keep displaying the previous Result.
var ErrRemoteQuery = errors.New("remote catalog query failed")

// defaultMaxPrice bounds the price-range control when the catalog has
// no products to derive a bound from.
var defaultMaxPrice = decimal.NewFromInt(1000)

// Engine translates a declarative Filter into a query against the
// remote product table and keeps the most recent good Result. Filter
// changes issued in sequence never let an older in-flight query clobber
// a newer one: each Query takes a generation ticket and its response is
// published only if the ticket is still current when it lands.
type Engine struct {
	repo ProductRepo
	log  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	last    domain.Result
	hasLast bool
	subs    []func(domain.Result)
}

func NewEngine(repo ProductRepo, log *slog.Logger) *Engine {
	return &Engine{repo: repo, log: log}
}

// Subscribe registers fn to receive every published Result. Callbacks
// run synchronously under the engine's lock and must not call back into
// the engine.
func (e *Engine) Subscribe(fn func(domain.Result)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Current returns the last good Result, if any query has succeeded.
func (e *Engine) Current() (domain.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last, e.hasLast
}

// Query normalizes f, fetches the matching products together with the
// unfiltered category list and price bound, and publishes the assembled
// Result. Zero matches is a valid empty Result, not an error. On remote
// failure the previous Result is returned alongside ErrRemoteQuery. A
// response superseded by a newer Query while in flight is discarded and
// the newest published Result is returned instead.
func (e *Engine) Query(ctx context.Context, f domain.Filter) (domain.Result, error) {
	f = f.Normalize()

	e.mu.Lock()
	e.gen++
	ticket := e.gen
	e.mu.Unlock()

	var (
		products   []domain.Product
		categories []string
		ceiling    decimal.Decimal
		haveBound  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = e.repo.Select(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = e.repo.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ceiling, haveBound, err = e.repo.MaxPrice(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		e.mu.Lock()
		prev := e.last
		e.mu.Unlock()
		e.log.Warn("catalog query failed, keeping previous result", slog.Any("err", err))
		return prev, fmt.Errorf("%w: %v", ErrRemoteQuery, err)
	}

	if !haveBound {
		ceiling = defaultMaxPrice
	}

	res := domain.Result{
		Products:   products,
		Categories: categories,
		MaxPrice:   ceiling,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if ticket != e.gen {
		e.log.Debug("discarding superseded catalog result")
		if e.hasLast {
			return e.last, nil
		}
		return res, nil
	}

	e.last = res
	e.hasLast = true
	for _, fn := range e.subs {
		fn(res)
	}
	return res, nil
}

// ListCategories fetches the distinct category values across the full
// unfiltered catalog, independent of the active filter.
func (e *Engine) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := e.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteQuery, err)
	}
	return cats, nil
}

// MaxPrice fetches the maximum price across the full catalog, falling
// back to a conservative default bound when the catalog is empty.
func (e *Engine) MaxPrice(ctx context.Context) (decimal.Decimal, error) {
	ceiling, ok, err := e.repo.MaxPrice(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRemoteQuery, err)
	}
	if !ok {
		return defaultMaxPrice, nil
	}
	return ceiling, nil
}

// GroupByCategory aggregates an already-fetched product list into
// per-category groups. Pure, no remote access.
func (e *Engine) GroupByCategory(products []domain.Product) []domain.CategoryGroup {
	return domain.GroupByCategory(products)
}
