package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/crud-app/records-api/internal/api/metrics"
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

const (
	otpTTL        = 10 * time.Minute
	resetTokenTTL = time.Hour
)

// AuthConfig tunes AuthService. An empty JWTSecret disables bearer tokens.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// BaseURL prefixes password reset links.
	BaseURL string
	// ExposeResetURL returns reset links to the caller instead of only mailing them.
	ExposeResetURL bool
}

// AuthService implements the account lifecycle: signup, email verification,
// sign in and password reset.
type AuthService struct {
	repo   ports.UserRepository
	mailer ports.Mailer
	cfg    AuthConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, mailer ports.Mailer, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &AuthService{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" {
		return nil, domain.Detail(domain.ErrInvalidSignUp, "name is required")
	}
	if email == "" {
		return nil, domain.Detail(domain.ErrInvalidSignUp, "email is required")
	}
	if len(password) < domain.MinPasswordLen {
		return nil, domain.ErrPasswordTooShort
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Name:                     name,
		Email:                    email,
		PasswordHash:             string(hash),
		Role:                     domain.RoleUser,
		EmailVerificationToken:   hashToken(otp),
		EmailVerificationExpires: now.Add(otpTTL),
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthEventsTotal.WithLabelValues("signup").Inc()
	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	if err := s.sendOTP(ctx, created, otp); err != nil {
		return nil, err
	}
	return created, nil
}

// VerifyEmail activates the account when otp matches the stored hash inside its window.
func (s *AuthService) VerifyEmail(ctx context.Context, email, otp string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !isOTP(otp) ||
		user.EmailVerificationToken == "" ||
		user.EmailVerificationToken != hashToken(otp) ||
		!s.now().Before(user.EmailVerificationExpires) {
		return nil, domain.ErrInvalidOTP
	}

	// The repository re-checks the token so a code replaced by a concurrent
	// resend cannot activate the account.
	user, err = s.repo.MarkVerified(ctx, user.ID, hashToken(otp), s.now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOTP
		}
		return nil, fmt.Errorf("verify email: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("verify_email").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("email verified")
	return user, nil
}

func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return domain.ErrAlreadyVerified
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.repo.SetVerificationToken(ctx, user.ID, hashToken(otp), s.now().Add(otpTTL)); err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	return s.sendOTP(ctx, user, otp)
}

// SignIn checks the password before revealing account state, so unknown
// emails and wrong passwords are indistinguishable.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.SignInResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthEventsTotal.WithLabelValues("signin_failed").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthEventsTotal.WithLabelValues("signin_failed").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if err := user.CanSignIn(); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.SetLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	result := &ports.SignInResult{User: user}
	if s.cfg.JWTSecret != "" {
		token, err := s.generateToken(user)
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		result.Token = token
	}

	metrics.AuthEventsTotal.WithLabelValues("signin").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")
	return result, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ports.ForgotPasswordResult, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Msg("password reset requested for unknown email")
			return &ports.ForgotPasswordResult{}, nil
		}
		return nil, err
	}
	if !user.IsActive || !user.IsEmailVerified {
		return nil, domain.ErrResetNotAllowed
	}

	token, err := generateResetToken()
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, hashToken(token), s.now().Add(resetTokenTTL)); err != nil {
		return nil, fmt.Errorf("store reset token: %w", err)
	}

	resetURL := s.cfg.BaseURL + "/auth/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL, resetTokenTTL); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("password_reset", "error").Inc()
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("password reset email failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrResetEmail, err)
	}
	metrics.EmailsSentTotal.WithLabelValues("password_reset", "ok").Inc()

	result := &ports.ForgotPasswordResult{}
	if s.cfg.ExposeResetURL && s.mailer.Console() {
		result.ResetURL = resetURL
	}
	return result, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if token == "" {
		return domain.ErrResetTokenMissing
	}
	if len(password) < domain.MinPasswordLen {
		return domain.ErrPasswordTooShort
	}
	if password != confirm {
		return domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.ResetPassword(ctx, hashToken(token), s.now(), string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("password_reset").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// ParseToken validates an HS256 bearer token issued by SignIn.
func (s *AuthService) ParseToken(token string) (*domain.SessionUser, error) {
	if s.cfg.JWTSecret == "" || token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}

	id, _ := claims["sub"].(string)
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &domain.SessionUser{ID: id, Name: name, Email: email, Role: role}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   s.now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) sendOTP(ctx context.Context, user *domain.User, otp string) error {
	if err := s.mailer.SendVerificationOTP(ctx, user.Email, user.Name, otp, otpTTL); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("verification", "error").Inc()
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("verification email failed")
		return fmt.Errorf("%w: %v", domain.ErrVerificationEmail, err)
	}
	metrics.EmailsSentTotal.WithLabelValues("verification", "ok").Inc()
	return nil
}
