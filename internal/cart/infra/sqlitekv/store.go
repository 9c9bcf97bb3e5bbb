package sqlitekv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danipaBernales/modern-ecommerce/internal/cart/domain"
)

// Snapshot persists the serialized cart state as a single row keyed by
// session (or user) identifier, so the cart survives a full restart.
type Snapshot struct {
	db  *sql.DB
	key string
}

func New(db *sql.DB, key string) *Snapshot {
	return &Snapshot{db: db, key: key}
}

func (s *Snapshot) Load(ctx context.Context) (domain.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cart_snapshots WHERE key = ?`, s.key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.State{}, nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("load cart snapshot: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return domain.State{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return state, nil
}

func (s *Snapshot) Save(ctx context.Context, state domain.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		s.key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (s *Snapshot) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_snapshots WHERE key = ?`, s.key,
	); err != nil {
		return fmt.Errorf("reset cart snapshot: %w", err)
	}
	return nil
}
