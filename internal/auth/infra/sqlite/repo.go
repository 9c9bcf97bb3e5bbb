package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danipaBernales/modern-ecommerce/internal/auth/app"
	"github.com/danipaBernales/modern-ecommerce/internal/auth/domain"
)

// Repo backs both the credential and profile ports with the users and
// profiles tables. The profile row is created alongside the user, the
// local stand-in for the remote trigger that does it in production.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Username, passwordHash,
		user.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, username) VALUES (?, ?)`,
		user.ID, user.Username,
	); err != nil {
		return domain.User{}, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("commit create user: %w", err)
	}
	return user, nil
}

func (r *Repo) ByEmail(ctx context.Context, email string) (domain.User, string, error) {
	var (
		user    domain.User
		hash    string
		created string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.Username, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, "", app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("user by email: %w", err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return user, hash, nil
}

func (r *Repo) ByID(ctx context.Context, id string) (domain.User, error) {
	var (
		user    domain.User
		created string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, created_at
		FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Email, &user.Username, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user by id: %w", err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return user, nil
}

func (r *Repo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM profiles WHERE username = ?`, username,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) ByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p        domain.Profile
		fullName sql.NullString
		address  sql.NullString
		phone    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, full_name, address, phone
		FROM profiles WHERE id = ?`, userID,
	).Scan(&p.ID, &p.Username, &fullName, &address, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile by user id: %w", err)
	}
	p.FullName = fullName.String
	p.Address = address.String
	p.Phone = phone.String
	return p, nil
}
