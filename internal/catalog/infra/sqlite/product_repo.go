package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

// ProductRepo serves catalog queries from the products table. Filters
// arrive normalized; buildSelect turns one into a fully-specified
// statement in a single pass.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = "id, name, description, price, stock, category, image_url, created_at"

// buildSelect maps a normalized filter to a statement and its
// arguments. Unset fields contribute no predicate.
func buildSelect(f domain.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.MinPrice.IsPositive() {
		conds = append(conds, "price >= ?")
		args = append(args, f.MinPrice.InexactFloat64())
	}
	if f.HasPriceCeiling() {
		conds = append(conds, "price <= ?")
		args = append(args, f.MaxPrice.InexactFloat64())
	}
	if f.Search != "" {
		// instr avoids LIKE wildcard injection; lower() gives the
		// case-insensitive substring match.
		conds = append(conds, "instr(lower(name), lower(?)) > 0")
		args = append(args, f.Search)
	}

	q := "SELECT " + productColumns + " FROM products"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		q += " ORDER BY price ASC"
	case domain.SortPriceDesc:
		q += " ORDER BY price DESC"
	case domain.SortNewest:
		q += " ORDER BY created_at DESC"
	case domain.SortRelevance:
		// Natural order.
	}

	return q, args
}

func (r *ProductRepo) Select(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	q, args := buildSelect(f)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) MaxPrice(ctx context.Context) (decimal.Decimal, bool, error) {
	var price float64
	err := r.db.QueryRowContext(ctx,
		"SELECT price FROM products ORDER BY price DESC LIMIT 1").Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("max price: %w", err)
	}
	return decimal.NewFromFloat(price), true, nil
}

// Insert adds a product, for seeding and tests. The catalog is
// otherwise read-only from the client's perspective.
func (r *ProductRepo) Insert(ctx context.Context, p domain.Product) error {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, stock, category, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price.InexactFloat64(), p.Stock,
		p.Category, p.ImageURL, created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	return nil
}

func scanProduct(rows *sql.Rows) (domain.Product, error) {
	var (
		p       domain.Product
		price   float64
		created string
	)
	if err := rows.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock,
		&p.Category, &p.ImageURL, &created); err != nil {
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.Price = decimal.NewFromFloat(price)
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		p.CreatedAt = ts
	}
	return p, nil
}
