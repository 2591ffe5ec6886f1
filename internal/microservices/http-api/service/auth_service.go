package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"codelens/internal/config"
	"codelens/internal/logger"
	"codelens/internal/mailer"
	"codelens/internal/microservices/http-api/models"
	"codelens/internal/microservices/http-api/repository"
	"codelens/internal/middleware/auth"
	"codelens/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "codelens"

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrNoChanges          = errors.New("No changes provided.")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
)

// Claims carried by access tokens. Subject is the user id, ID the jti.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthResult is returned whenever a token pair is issued.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds
	User         *models.User
}

// AuthService is the identity gateway used by handlers and middleware.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	ValidateToken(ctx context.Context, tokenString string) (*shared.Session, error)
	SignOut(ctx context.Context, session *shared.Session) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	UpdateCredentials(ctx context.Context, session *shared.Session, email, password string) error
	CurrentUser(ctx context.Context, session *shared.Session) (*models.User, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	sessions         SessionStore
	mailer           mailer.Mailer
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	resetTTL         time.Duration
	resetURL         string
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	sessions SessionStore,
	m mailer.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		sessions:         sessions,
		mailer:           m,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,  // 15 minutes
		refreshTokenTTL:  cfg.RefreshTokenTTL, // 7 days
		resetTTL:         cfg.PasswordResetTTL,
		resetURL:         cfg.PasswordResetURL(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account and signs the new user in.
func (s *authService) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    normalizeEmail(email),
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("user signed up", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// same cost as a wrong password so emails can't be probed by timing
			auth.BurnCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.FromContext(ctx).Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return s.issueTokens(ctx, user)
}

// RefreshAccessToken rotates the refresh token: the presented one is revoked
// and a fresh pair is issued.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResult, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil || refreshToken.Revoked {
		return nil, ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*shared.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.sessions.IsAccessTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return &shared.Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut ends every session of the user: refresh tokens are revoked and the
// presented access token is denied until it would have expired anyway.
func (s *authService) SignOut(ctx context.Context, session *shared.Session) error {
	if session == nil {
		return nil
	}
	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, session.UserID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	if err := s.sessions.RevokeAccessToken(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("user signed out", "user_id", session.UserID)
	return nil
}

// RequestPasswordReset mails a one-shot reset link. Unknown emails succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	if err := s.sessions.SaveResetToken(ctx, token, user.ID, s.resetTTL); err != nil {
		return err
	}

	link := s.resetURL + "?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return err
	}

	log.Info("password reset link issued", "user_id", user.ID)
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	// validate first so a too-short password does not burn the token
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	userID, err := s.sessions.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return s.refreshTokenRepo.RevokeAllForUser(ctx, user.ID)
}

// UpdateCredentials changes email and/or password. Empty fields are left as is.
func (s *authService) UpdateCredentials(ctx context.Context, session *shared.Session, email, password string) error {
	email = normalizeEmail(email)
	if email == "" && password == "" {
		return ErrNoChanges
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return err
	}

	if email != "" {
		user.Email = email
	}
	if password != "" {
		hashedPassword, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		user.Password = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailInUse
		}
		return err
	}

	if password != "" {
		// other devices must sign in again with the new password
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("revoke refresh tokens: %w", err)
		}
	}

	logger.FromContext(ctx).Info("credentials updated", "user_id", user.ID, "email_changed", email != "", "password_changed", password != "")
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, session *shared.Session) (*models.User, error) {
	return s.userRepo.FindByID(ctx, session.UserID)
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
		User:         user,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
