package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"garden/internal/cache"
	"garden/internal/metrics"
	"garden/internal/models"
	"garden/internal/repositories"
	"garden/internal/security"
)

// AuthDeps bundles what AuthService needs.
type AuthDeps struct {
	Users         repositories.UserRepository
	Hasher        security.PasswordHasher
	AccessTokens  *security.TokenManager
	RefreshTokens *security.TokenManager
	// ResetTokens must share the access secret; reset tokens carry a purpose claim instead.
	ResetTokens *security.TokenManager
	UsedTokens  cache.TokenStore
	Publisher   EventPublisher
	ResetUILink string
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// AuthService handles signup, login and the password flows.
type AuthService struct {
	users       repositories.UserRepository
	hasher      security.PasswordHasher
	access      *security.TokenManager
	refresh     *security.TokenManager
	reset       *security.TokenManager
	usedTokens  cache.TokenStore
	events      eventBus
	resetUILink string
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// NewAuthService creates a new AuthService.
func NewAuthService(deps AuthDeps) *AuthService {
	return &AuthService{
		users:       deps.Users,
		hasher:      deps.Hasher,
		access:      deps.AccessTokens,
		refresh:     deps.RefreshTokens,
		reset:       deps.ResetTokens,
		usedTokens:  deps.UsedTokens,
		events:      eventBus{pub: deps.Publisher, log: deps.Logger, metrics: deps.Metrics},
		resetUILink: deps.ResetUILink,
		log:         deps.Logger,
		metrics:     deps.Metrics,
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Signup registers a new user with a hashed password.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if err := emailFree(ctx, s.users, email, ""); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		Password:       hashed,
		Phone:          in.Phone,
		Address:        in.Address,
		Role:           models.RoleUser,
		ProfileImage:   in.ProfileImage,
		FavouritePosts: []string{},
		Followers:      []string{},
		Followings:     []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.log.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues an access and a refresh token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.activeUserByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		s.metrics.AuthEvent("login", false)
		return nil, err
	}

	if !s.hasher.Matches(in.Password, user.Password) {
		s.metrics.AuthEvent("login", false)
		return nil, models.NewForbiddenError(msgPasswordMismatch)
	}

	accessToken, err := s.access.Issue(sessionClaims(user))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.Issue(sessionClaims(user))
	if err != nil {
		return nil, err
	}

	s.metrics.AuthEvent("login", true)
	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// RefreshTTL is the lifetime of refresh tokens, used for the cookie expiry.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refresh.TTL()
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		s.metrics.AuthEvent("refresh", false)
		return "", models.NewUnauthorizedError("You are not authorized!")
	}

	claims, err := s.refresh.Verify(refreshToken)
	if err != nil || claims.Purpose != "" {
		s.metrics.AuthEvent("refresh", false)
		return "", invalidToken(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		return "", notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return "", models.NewNotFoundError(msgUserNotFound)
	}

	accessToken, err := s.access.Issue(sessionClaims(user))
	if err != nil {
		return "", err
	}
	s.metrics.AuthEvent("refresh", true)
	return accessToken, nil
}

// ChangePassword replaces the password of userID after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return models.NewForbiddenError(msgUserDeleted)
	}
	if !s.hasher.Matches(in.OldPassword, user.Password) {
		s.metrics.AuthEvent("change_password", false)
		return models.NewForbiddenError(msgPasswordMismatch)
	}

	if err := s.setPassword(ctx, user, in.NewPassword); err != nil {
		return err
	}
	s.metrics.AuthEvent("change_password", true)
	return nil
}

// ForgetPassword issues a short-lived reset token and announces the reset link. The link
// is returned for callers that deliver it themselves.
func (s *AuthService) ForgetPassword(ctx context.Context, in ForgetPasswordInput) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return "", notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return "", models.NewForbiddenError(msgUserDeleted)
	}

	claims := sessionClaims(user)
	claims.Purpose = security.PurposePasswordReset
	token, err := s.reset.Issue(claims)
	if err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s?email=%s&token=%s", s.resetUILink, url.QueryEscape(user.Email), token)
	s.events.publish(EventPasswordResetRequested, PasswordResetRequestedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ResetLink: link,
		ExpiresAt: time.Now().Add(s.reset.TTL()),
	})
	s.metrics.AuthEvent("forget_password", true)
	return link, nil
}

// ResetPassword sets a new password using a reset token. Each token works once.
func (s *AuthService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	if token == "" {
		return models.NewUnauthorizedError("Authorization token missing")
	}

	claims, err := s.reset.Verify(token)
	if err != nil || claims.Purpose != security.PurposePasswordReset {
		s.metrics.AuthEvent("reset_password", false)
		return invalidToken(err)
	}

	email := normalizeEmail(in.Email)
	if claims.Email != email {
		s.metrics.AuthEvent("reset_password", false)
		return models.NewForbiddenError("You are forbidden!")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return models.NewForbiddenError(msgUserDeleted)
	}

	first, err := s.usedTokens.MarkUsed(ctx, claims.Id, time.Until(time.Unix(claims.ExpiresAt, 0)))
	if err != nil {
		return err
	}
	if !first {
		s.metrics.AuthEvent("reset_password", false)
		return models.NewForbiddenError("This reset link has already been used")
	}

	if err := s.setPassword(ctx, user, in.NewPassword); err != nil {
		// The password did not change, so the link stays valid.
		if relErr := s.usedTokens.Release(ctx, claims.Id); relErr != nil {
			s.log.Warn("failed to release reset token", slog.Any("error", relErr))
		}
		return err
	}
	s.metrics.AuthEvent("reset_password", true)
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, user *models.User, plain string) error {
	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	user.Password = hashed
	user.PasswordChangedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// activeUserByEmail treats soft-deleted accounts as missing.
func (s *AuthService) activeUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return nil, models.NewNotFoundError(msgUserNotFound)
	}
	return user, nil
}

func sessionClaims(user *models.User) security.Claims {
	claims := security.Claims{
		Email:        user.Email,
		Role:         string(user.Role),
		Name:         user.Name,
		ProfileImage: user.ProfileImage,
	}
	claims.Subject = user.ID
	return claims
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailFree fails with a duplicate-key error when an active user other than exceptID
// already owns email.
func emailFree(ctx context.Context, users repositories.UserRepository, email, exceptID string) error {
	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsDeleted && existing.ID != exceptID {
			return &repositories.DuplicateKeyError{Field: "email"}
		}
		return nil
	case notFoundErr(err):
		return nil
	default:
		return err
	}
}
