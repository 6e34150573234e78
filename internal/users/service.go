package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"contract-scanner/internal/shared/auth"
	"contract-scanner/internal/shared/metrics"
	"contract-scanner/internal/shared/telemetry"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type Service struct {
	Repo     Repo
	Revoker  auth.TokenRevoker
	TokenTTL time.Duration

	now func() time.Time
}

func NewService(repo Repo, revoker auth.TokenRevoker, ttl time.Duration) *Service {
	if revoker == nil {
		revoker = auth.NewMemoryTokenRevoker()
	}
	return &Service{Repo: repo, Revoker: revoker, TokenTTL: ttl, now: time.Now}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// decoyHash lets a login for an unknown email spend the same hashing work as
// a real one.
func decoyHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword(uuid.NewString())
	})
	return dummyHash
}

// Signup creates an account and returns it with a fresh token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	if errs := ValidateSignup(in.Name, in.Email, in.Password); errs != nil {
		return Session{}, errs
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.clock().UTC()
	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			metrics.IncSignupConflict()
		}
		return Session{}, err
	}

	metrics.IncSignup()
	telemetry.Info("users.signup", map[string]any{"user_id": user.ID})
	return s.issue(user)
}

// Login verifies credentials and returns the account with a fresh token.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	if errs := ValidateLogin(in.Email, in.Password); errs != nil {
		return Session{}, errs
	}

	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Session{}, err
		}
		auth.CheckPassword(in.Password, decoyHash())
		metrics.IncLoginFailed()
		return Session{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(in.Password, user.PasswordHash) {
		metrics.IncLoginFailed()
		telemetry.Info("users.login_failed", map[string]any{"user_id": user.ID})
		return Session{}, ErrInvalidCredentials
	}

	metrics.IncLoginSucceeded()
	return s.issue(user)
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ready(); err != nil {
		return err
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return ErrUnauthenticated
	}
	metrics.IncLogout()
	return s.Revoker.Revoke(ctx, claims.ID, claims.Remaining())
}

// Authenticate resolves a bearer token, rejecting revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Claims, error) {
	if err := s.ready(); err != nil {
		return auth.Claims{}, err
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return auth.Claims{}, ErrUnauthenticated
	}
	revoked, err := s.Revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return auth.Claims{}, ErrUnauthenticated
	}
	return claims, nil
}

// Current loads the account behind an authenticated user id.
func (s *Service) Current(ctx context.Context, userID string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrUnauthenticated
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthenticated
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) issue(user User) (Session, error) {
	token, err := auth.SignJWT(auth.Claims{
		Email:            user.Email,
		Name:             user.Name,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	}, s.TokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{User: user, Token: token}, nil
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil || s.Revoker == nil {
		return errors.New("users service not configured")
	}
	return nil
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
