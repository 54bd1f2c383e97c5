package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devlog-hq/devlog/internal/api/metrics"
	"github.com/devlog-hq/devlog/internal/auth/revocation"
	"github.com/devlog-hq/devlog/internal/auth/token"
	"github.com/devlog-hq/devlog/internal/auth/totp"
	"github.com/devlog-hq/devlog/internal/core/domain"
	"github.com/devlog-hq/devlog/internal/core/ports"
)

// AuthService implements registration with mandatory TOTP enrollment and the
// two-phase login flow. Every credential failure comes back as
// domain.ErrInvalidCredentials so responses never reveal whether an email is
// registered or which factor was wrong.
type AuthService struct {
	users    ports.UserRepository
	totp     *totp.Manager
	tokens   *token.Manager
	registry revocation.Registry
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, totpMgr *totp.Manager, tokens *token.Manager, registry revocation.Registry, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		totp:     totpMgr,
		tokens:   tokens,
		registry: registry,
		log:      log,
		now:      time.Now,
	}
}

// Register creates the account and generates its TOTP secret in one step.
// The caller receives the enrollment artifacts but no session; a session is
// only issued once VerifyEnrollment proves the authenticator was set up.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*ports.RegisterResult, error) {
	if email == "" || username == "" || password == "" {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.totp.Enroll(email)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		TOTPSecret:   enrollment.Secret,
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return &ports.RegisterResult{
		User:            created,
		TOTPSecret:      enrollment.Secret,
		ProvisioningURI: enrollment.ProvisioningURI,
		QRCodePNG:       enrollment.QRCodePNG,
	}, nil
}

// VerifyEnrollment checks the first code from the freshly provisioned
// authenticator and, on success, issues the account's first session.
func (s *AuthService) VerifyEnrollment(ctx context.Context, userID int64, code string) (*ports.Session, error) {
	return s.verifyCode(ctx, userID, code, "enrollment")
}

// Login is phase one: password only. A correct password grants nothing yet;
// the result tells the caller to continue with the TOTP challenge.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrValidation
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("password_ok").Inc()
	return &ports.LoginResult{UserID: user.ID, Requires2FA: true}, nil
}

// VerifyLogin is phase two: the TOTP challenge. On success it records the
// login time and issues a session.
func (s *AuthService) VerifyLogin(ctx context.Context, userID int64, code string) (*ports.Session, error) {
	session, err := s.verifyCode(ctx, userID, code, "login")
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, userID, s.now().UTC()); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return session, nil
}

// verifyCode validates a TOTP code for the user and issues a session. The
// metric context distinguishes enrollment confirmations from logins.
func (s *AuthService) verifyCode(ctx context.Context, userID int64, code, metricContext string) (*ports.Session, error) {
	if code == "" {
		return nil, domain.ErrValidation
	}

	// An unknown user id is reported as such: at this point the caller has
	// not authenticated, so a 404 here reveals nothing about credentials.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.totp.Verify(user.TOTPSecret, code, s.now()) {
		metrics.TOTPVerificationsTotal.WithLabelValues(metricContext, "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	metrics.TOTPVerificationsTotal.WithLabelValues(metricContext, "ok").Inc()

	signed, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *AuthService) Whoami(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Logout revokes the presented token. The registry entry only needs to
// outlive the token, so its TTL is the time left until expiry.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.registry.Revoke(ctx, jti, expiresAt.Sub(s.now())); err != nil {
		return err
	}
	metrics.TokensRevokedTotal.Inc()
	return nil
}

func (s *AuthService) ChangeUsername(ctx context.Context, userID int64, username string) error {
	if username == "" {
		return domain.ErrValidation
	}
	return s.users.UpdateUsername(ctx, userID, username)
}

// ChangePassword re-authenticates with both factors before writing the new
// hash. Existing sessions stay valid; only the password changes.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, code, newPassword string) error {
	if currentPassword == "" || code == "" || newPassword == "" {
		return domain.ErrValidation
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if !s.totp.Verify(user.TOTPSecret, code, s.now()) {
		metrics.TOTPVerificationsTotal.WithLabelValues("password_change", "rejected").Inc()
		return domain.ErrInvalidCredentials
	}
	metrics.TOTPVerificationsTotal.WithLabelValues("password_change", "ok").Inc()

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// DeleteAccount removes the user (projects and log entries cascade in the
// store) and revokes the session that authorised the deletion. The revocation
// is best-effort: once the row is gone the account no longer exists, and a
// registry outage must not report that deletion as a failure. An unrevoked
// token dies at its natural expiry anyway.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64, jti string, expiresAt time.Time) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.Logout(ctx, jti, expiresAt); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).
			Msg("could not revoke session for deleted account")
	}
	return nil
}
