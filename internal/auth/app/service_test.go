package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/danipaBernales/modern-ecommerce/internal/auth/domain"
)

type fakeCreds struct {
	users  map[string]domain.User
	hashes map[string]string
}

func newFakeCreds() *fakeCreds {
	return &fakeCreds{users: map[string]domain.User{}, hashes: map[string]string{}}
}

func (f *fakeCreds) Create(_ context.Context, email, username, passwordHash string) (domain.User, error) {
	u := domain.User{ID: uuid.NewString(), Email: email, Username: username, CreatedAt: time.Now()}
	f.users[u.ID] = u
	f.hashes[email] = passwordHash
	return u, nil
}

func (f *fakeCreds) ByEmail(_ context.Context, email string) (domain.User, string, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, f.hashes[email], nil
		}
	}
	return domain.User{}, "", ErrNotFound
}

func (f *fakeCreds) ByID(_ context.Context, id string) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeCreds) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// delayedProfiles materializes the profile row only after a number of
// reads, simulating the remote trigger lag.
type delayedProfiles struct {
	readsUntilReady int
	reads           int
}

func (d *delayedProfiles) ByUserID(_ context.Context, userID string) (domain.Profile, error) {
	d.reads++
	if d.readsUntilReady < 0 || d.reads < d.readsUntilReady {
		return domain.Profile{}, ErrNotFound
	}
	return domain.Profile{ID: userID, Username: "tester"}, nil
}

func newTestService(profiles ProfileRepo) (*Service, *fakeCreds) {
	creds := newFakeCreds()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(creds, profiles, []byte("test-secret"), 5, time.Millisecond, log), creds
}

func TestSignUpWaitsForDelayedProfile(t *testing.T) {
	profiles := &delayedProfiles{readsUntilReady: 3}
	svc, _ := newTestService(profiles)

	session, err := svc.SignUp(context.Background(), "a@example.com", "hunter22", "tester")
	require.NoError(t, err)
	require.NotNil(t, session.Profile)
	require.Equal(t, "tester", session.Profile.Username)
	require.Equal(t, 3, profiles.reads)
	require.NotEmpty(t, session.Token)
}

func TestSignUpGivesUpAfterAttemptBudget(t *testing.T) {
	profiles := &delayedProfiles{readsUntilReady: -1}
	svc, _ := newTestService(profiles)

	session, err := svc.SignUp(context.Background(), "a@example.com", "hunter22", "tester")
	require.ErrorIs(t, err, ErrProfileUnavailable)
	require.Equal(t, 5, profiles.reads)

	// The session itself is still usable.
	require.Nil(t, session.Profile)
	require.NotEmpty(t, session.Token)
	user, err := svc.CurrentUser(context.Background(), session.Token)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", user.Email)
}

func TestSignUpRejectsTakenUsername(t *testing.T) {
	svc, _ := newTestService(&delayedProfiles{readsUntilReady: 1})

	_, err := svc.SignUp(context.Background(), "a@example.com", "hunter22", "tester")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "b@example.com", "hunter22", "tester")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignUpValidatesInput(t *testing.T) {
	svc, _ := newTestService(&delayedProfiles{readsUntilReady: 1})

	_, err := svc.SignUp(context.Background(), "", "hunter22", "tester")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SignUp(context.Background(), "a@example.com", "shrt", "tester")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSignInVerifiesPassword(t *testing.T) {
	svc, _ := newTestService(&delayedProfiles{readsUntilReady: 1})

	_, err := svc.SignUp(context.Background(), "a@example.com", "hunter22", "tester")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		session, err := svc.SignIn(context.Background(), "a@example.com", "hunter22")
		require.NoError(t, err)
		require.Equal(t, "tester", session.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), "a@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), "nobody@example.com", "hunter22")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCurrentUserRejectsForgedToken(t *testing.T) {
	svc, _ := newTestService(&delayedProfiles{readsUntilReady: 1})

	_, err := svc.CurrentUser(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(newFakeCreds(), &delayedProfiles{readsUntilReady: 1},
		[]byte("other-secret"), 1, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	session, err := other.SignUp(context.Background(), "a@example.com", "hunter22", "tester")
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), session.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
