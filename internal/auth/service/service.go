package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"antygravity/internal/auth/models"
	"antygravity/internal/auth/password"
	"antygravity/internal/auth/social"
	"antygravity/internal/jwttoken"
	platformmetrics "antygravity/internal/platform/metrics"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/platform/audit"
	"antygravity/pkg/platform/sentinel"
	"antygravity/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
}

type SocialStore interface {
	Create(ctx context.Context, account *models.SocialAccount) (*models.SocialAccount, error)
	FindByProviderSubject(ctx context.Context, provider models.Provider, subject string) (*models.SocialAccount, error)
}

// RevocationList tracks logged-out refresh token JTIs until their natural
// expiry. RevokeOnce reports whether this call revoked the JTI, so rotation
// can detect a concurrent refresh of the same token.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthResponse is returned by every flow that establishes a session.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens jwttoken.TokenPair `json:"tokens"`
}

// Service implements registration, login, token lifecycle, and social
// login flows.
type Service struct {
	users       UserStore
	socials     SocialStore
	revocations RevocationList
	tokens      *jwttoken.Service
	verifiers   map[models.Provider]social.IdentityVerifier
	auditor     *audit.Emitter
	metrics     *platformmetrics.Metrics
	logger      *slog.Logger
}

type Option func(*Service)

func WithAuditor(auditor *audit.Emitter) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithMetrics(m *platformmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithVerifier registers an identity verifier for a social provider.
func WithVerifier(provider models.Provider, verifier social.IdentityVerifier) Option {
	return func(s *Service) { s.verifiers[provider] = verifier }
}

func NewService(users UserStore, socials SocialStore, revocations RevocationList, tokens *jwttoken.Service, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		users:       users,
		socials:     socials,
		revocations: revocations,
		tokens:      tokens,
		verifiers:   make(map[models.Provider]social.IdentityVerifier),
		logger:      logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "full_name is required")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "password does not meet requirements")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to process password")
	}

	now := requestcontext.Now(ctx)
	user, err := s.users.Create(ctx, &models.User{
		ID:           id.UserID(uuid.New()),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		IsParent:     true,
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	if s.auditor != nil {
		s.auditor.Emit(ctx, user.ID, audit.EventUserCreated, user.Email, "password registration")
	}

	return s.establishSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	// Accounts created through social login have no password.
	if user.PasswordHash == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := password.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account is disabled")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, user.ID, audit.EventUserLoggedIn, user.Email, "password login")
	}

	return s.establishSession(ctx, user)
}

// Refresh rotates the token pair: the presented refresh token is revoked
// for its remaining lifetime so it cannot be replayed.
func (s *Service) Refresh(ctx context.Context, req models.RefreshRequest) (*AuthResponse, error) {
	claims, err := s.tokens.Validate(req.RefreshToken, jwttoken.UseRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check revocation list")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	userID, err := jwttoken.UserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account is disabled")
	}

	if ttl := remainingLifetime(claims); ttl > 0 {
		// The winner of a concurrent refresh race is whoever revokes the
		// JTI first; the loser is rejected here.
		ok, err := s.revocations.RevokeOnce(ctx, claims.ID, ttl)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rotate refresh token")
		}
		if !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
		}
	}

	return s.establishSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, req models.LogoutRequest) error {
	claims, err := s.tokens.Validate(req.RefreshToken, jwttoken.UseRefresh)
	if err != nil {
		return err
	}

	if ttl := remainingLifetime(claims); ttl > 0 {
		if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
		}
	}

	if userID, err := jwttoken.UserIDFromClaims(claims); err == nil && s.auditor != nil {
		s.auditor.Emit(ctx, userID, audit.EventTokenRevoked, claims.ID, "logout")
	}
	return nil
}

// SocialLogin resolves a verified provider identity to a local account,
// creating and linking one as needed.
func (s *Service) SocialLogin(ctx context.Context, provider models.Provider, req models.SocialLoginRequest) (*AuthResponse, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("social provider %s is not configured", provider))
	}

	identity, err := verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveSocialUser(ctx, provider, identity)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account is disabled")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, user.ID, audit.EventUserLoggedIn, user.Email, string(provider)+" login")
	}

	return s.establishSession(ctx, user)
}

func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}

func (s *Service) UpdateMe(ctx context.Context, userID id.UserID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "full_name cannot be empty")
		}
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.UpdatedAt = requestcontext.Now(ctx)

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return updated, nil
}

func (s *Service) resolveSocialUser(ctx context.Context, provider models.Provider, identity social.Identity) (*models.User, error) {
	account, err := s.socials.FindByProviderSubject(ctx, provider, identity.Subject)
	if err == nil {
		return s.loadLinkedUser(ctx, account)
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up social account")
	}

	user, err := s.matchOrCreateUser(ctx, provider, identity)
	if err != nil {
		return nil, err
	}

	_, err = s.socials.Create(ctx, &models.SocialAccount{
		ID:             uuid.New(),
		UserID:         user.ID,
		Provider:       provider,
		ProviderUserID: identity.Subject,
		Email:          identity.Email,
		CreatedAt:      requestcontext.Now(ctx),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost a race with a concurrent login for the same subject.
			s.logger.DebugContext(ctx, "social link conflict, reloading account",
				"provider", string(provider),
			)
			account, findErr := s.socials.FindByProviderSubject(ctx, provider, identity.Subject)
			if findErr != nil {
				return nil, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to look up social account")
			}
			return s.loadLinkedUser(ctx, account)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link social account")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, user.ID, audit.EventSocialAccountLinked, identity.Subject, string(provider))
	}
	return user, nil
}

func (s *Service) loadLinkedUser(ctx context.Context, account *models.SocialAccount) (*models.User, error) {
	user, err := s.users.FindByID(ctx, account.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load linked user")
	}
	return user, nil
}

func (s *Service) matchOrCreateUser(ctx context.Context, provider models.Provider, identity social.Identity) (*models.User, error) {
	if identity.Email != "" && identity.EmailVerified {
		user, err := s.users.FindByEmail(ctx, identity.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
		}
	}

	email := identity.Email
	if email == "" || !identity.EmailVerified {
		// Some providers withhold the email on repeat logins, and an
		// unverified address may belong to an existing local account.
		email = fmt.Sprintf("%s@%s.antygravity.local", identity.Subject, strings.ToLower(string(provider)))
	}

	now := requestcontext.Now(ctx)
	user, err := s.users.Create(ctx, &models.User{
		ID:        id.UserID(uuid.New()),
		Email:     email,
		FullName:  identity.Name,
		AvatarURL: identity.Picture,
		IsParent:  true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	if s.auditor != nil {
		s.auditor.Emit(ctx, user.ID, audit.EventUserCreated, user.Email, string(provider)+" registration")
	}
	return user, nil
}

func (s *Service) establishSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue tokens")
	}
	return &AuthResponse{User: user, Tokens: pair}, nil
}

func remainingLifetime(claims *jwttoken.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
