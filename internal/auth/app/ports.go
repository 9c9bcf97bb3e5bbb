package app

import (
	"context"

	"github.com/danipaBernales/modern-ecommerce/internal/auth/domain"
)

// CredentialRepo owns the user table. Create stores the credential and
// kicks off profile-row creation on the remote side.
type CredentialRepo interface {
	Create(ctx context.Context, email, username, passwordHash string) (domain.User, error)
	ByEmail(ctx context.Context, email string) (domain.User, string, error)
	ByID(ctx context.Context, id string) (domain.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

// ProfileRepo reads the profile table. ByUserID returns ErrNotFound
// while the remote row has not materialized yet.
type ProfileRepo interface {
	ByUserID(ctx context.Context, userID string) (domain.Profile, error)
}
