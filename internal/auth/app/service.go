package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/danipaBernales/modern-ecommerce/internal/auth/domain"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrNotFound           = errors.New("not found")

	// ErrProfileUnavailable means the profile row never appeared
	// within the retry budget after sign-up. The session itself is
	// still valid.
	ErrProfileUnavailable = errors.New("profile not available yet")
)

const tokenTTL = 24 * time.Hour

// Service is the session/identity surface: who the current user is,
// and sign-in/sign-up/sign-out. Profile reads after sign-up retry with
// a bounded budget instead of a fire-and-forget delay, so the race
// between remote row creation and the client read has an explicit
// success or give-up outcome.
type Service struct {
	creds    CredentialRepo
	profiles ProfileRepo
	secret   []byte
	log      *slog.Logger

	profileAttempts int
	profileDelay    time.Duration
}

func NewService(creds CredentialRepo, profiles ProfileRepo, secret []byte, attempts int, delay time.Duration, log *slog.Logger) *Service {
	if attempts < 1 {
		attempts = 1
	}
	return &Service{
		creds:           creds,
		profiles:        profiles,
		secret:          secret,
		log:             log,
		profileAttempts: attempts,
		profileDelay:    delay,
	}
}

// Session is the outcome of a successful sign-in or sign-up. Profile
// is nil when the row could not be read.
type Session struct {
	User    domain.User
	Profile *domain.Profile
	Token   string
}

// SignUp validates the username is free, stores the credential, issues
// a session token, and waits for the profile row with bounded retries.
// When the wait gives up, the returned Session is still valid and the
// error is ErrProfileUnavailable.
func (s *Service) SignUp(ctx context.Context, email, password, username string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || len(password) < 6 {
		return Session{}, ErrInvalidInput
	}

	taken, err := s.creds.UsernameTaken(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return Session{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.creds.Create(ctx, email, username, string(hash))
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return Session{}, err
	}

	session := Session{User: user, Token: token}
	profile, err := s.waitForProfile(ctx, user.ID)
	if err != nil {
		s.log.Warn("profile row did not appear after sign-up",
			slog.String("user_id", user.ID), slog.Any("err", err))
		return session, ErrProfileUnavailable
	}
	session.Profile = &profile
	return session, nil
}

// SignIn verifies the credential and returns a fresh session. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, hash, err := s.creds.ByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return Session{}, err
	}

	session := Session{User: user, Token: token}
	if profile, err := s.profiles.ByUserID(ctx, user.ID); err == nil {
		session.Profile = &profile
	}
	return session, nil
}

// CurrentUser resolves a session token to its user.
func (s *Service) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.User{}, ErrInvalidToken
	}
	return s.creds.ByID(ctx, claims.Subject)
}

// Profile reads the current profile row for a user.
func (s *Service) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	return s.profiles.ByUserID(ctx, userID)
}

// waitForProfile polls the profile table until the row exists or the
// attempt budget runs out.
func (s *Service) waitForProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var lastErr error
	for attempt := 1; attempt <= s.profileAttempts; attempt++ {
		profile, err := s.profiles.ByUserID(ctx, userID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return domain.Profile{}, err
		}
		lastErr = err

		if attempt == s.profileAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return domain.Profile{}, ctx.Err()
		case <-time.After(s.profileDelay):
		}
	}
	return domain.Profile{}, lastErr
}

func (s *Service) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}
