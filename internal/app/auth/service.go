// Package auth provides credential-based admin login sessions backed by
// signed tokens.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/osa030/onair/internal/domain/admin"
	"github.com/osa030/onair/internal/infra/store"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when a token does not authenticate a request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAdminExists is returned when creating an admin whose email is taken.
	ErrAdminExists = errors.New("admin already exists")
)

// Config represents token configuration.
type Config struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Claims are the signed token claims. Subject is the admin ID and Id the session ID.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email"`
}

// Valid is a no-op: expiry is checked against the service clock after parsing.
func (c Claims) Valid() error {
	return nil
}

// Token is an issued login token.
type Token struct {
	Value     string
	ExpiresAt time.Time
	Admin     admin.Admin
	SessionID string
}

// Principal is an authenticated admin.
type Principal struct {
	Admin   admin.Admin
	Session admin.Session
}

// Service authenticates admins and manages their sessions.
type Service struct {
	admins   *store.Repository[admin.Admin]
	registry *Registry
	config   Config
	now      func() time.Time
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, config Config, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		admins:   store.NewRepository[admin.Admin](db),
		registry: NewRegistry(),
		config:   config,
		now:      now,
	}
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	email = admin.NormalizeEmail(email)
	a, err := s.admins.FindBy(ctx, "email", email)
	if errors.Is(err, store.ErrNotFound) {
		zlog.Info().Msgf("login failed: unknown email=%s", email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load admin")
	}
	if !a.CheckPassword(password) {
		zlog.Info().Msgf("login failed: wrong password email=%s", email)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	a.RecordLogin(now)
	if err := s.admins.Save(ctx, a); err != nil {
		zlog.Warn().Err(err).Msgf("failed to record login: admin=%s", a.ID)
	}

	session := s.registry.Open(a.ID, a.Email, now, s.config.TTL)
	value, err := s.sign(session)
	if err != nil {
		_ = s.registry.Revoke(session.ID, now)
		return nil, err
	}

	zlog.Info().Msgf("admin logged in: admin=%s session=%s", a.ID, session.ID)
	return &Token{
		Value:     value,
		ExpiresAt: session.ExpiresAt,
		Admin:     *a,
		SessionID: session.ID,
	}, nil
}

// Authenticate verifies a token and returns the admin it belongs to.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.Validate(claims.Id, s.now())
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "session rejected"), ErrUnauthenticated)
	}
	if session.AdminID != claims.Subject {
		return nil, errors.Mark(errors.New("session does not match token subject"), ErrUnauthenticated)
	}

	a, err := s.admins.Get(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.Mark(errors.New("admin no longer exists"), ErrUnauthenticated)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load admin")
	}
	return &Principal{Admin: *a, Session: session}, nil
}

// Logout revokes the session of a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.registry.Revoke(claims.Id, s.now()); err != nil {
		return errors.Mark(err, ErrUnauthenticated)
	}
	zlog.Info().Msgf("admin logged out: admin=%s session=%s", claims.Subject, claims.Id)
	return nil
}

// CreateAdmin provisions a new admin user.
func (s *Service) CreateAdmin(ctx context.Context, email, name, password string) (*admin.Admin, error) {
	email = admin.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, errors.Newf("invalid email %q", email)
	}

	a := &admin.Admin{ID: uuid.NewString(), Email: email, Name: strings.TrimSpace(name)}
	if err := a.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, errors.Mark(errors.Newf("admin %s already exists", email), ErrAdminExists)
		}
		return nil, errors.Wrap(err, "failed to create admin")
	}
	zlog.Info().Msgf("admin created: id=%s email=%s", a.ID, a.Email)
	return a, nil
}

// ResetPassword replaces the password of an admin and ends their sessions.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	a, err := s.admins.FindBy(ctx, "email", admin.NormalizeEmail(email))
	if err != nil {
		return errors.Wrapf(err, "admin %s", email)
	}
	if err := a.SetPassword(password); err != nil {
		return err
	}
	if err := s.admins.Save(ctx, a); err != nil {
		return errors.Wrap(err, "failed to save admin")
	}
	revoked := s.registry.RevokeAll(a.ID, s.now())
	zlog.Info().Msgf("admin password reset: id=%s revoked_sessions=%d", a.ID, revoked)
	return nil
}

// Prune drops expired and revoked sessions.
func (s *Service) Prune() int {
	return s.registry.Prune(s.now())
}

// RunPruner prunes sessions periodically until the context is done.
func (s *Service) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				zlog.Debug().Msgf("pruned admin sessions: count=%d", n)
			}
		}
	}
}

// ActiveSessions returns the number of active sessions.
func (s *Service) ActiveSessions() int {
	return s.registry.ActiveCount(s.now())
}

func (s *Service) sign(session admin.Session) (string, error) {
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        session.ID,
			Subject:   session.AdminID,
			Issuer:    s.config.Issuer,
			IssuedAt:  session.IssuedAt.Unix(),
			ExpiresAt: session.ExpiresAt.Unix(),
		},
		Email: session.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.Secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *Service) parse(value string) (*Claims, error) {
	if value == "" {
		return nil, errors.Mark(errors.New("missing token"), ErrUnauthenticated)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("unexpected signing method %v", t.Header["alg"])
		}
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid token"), ErrUnauthenticated)
	}

	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return nil, errors.Mark(errors.New("token expired"), ErrUnauthenticated)
	}
	if s.config.Issuer != "" && !claims.VerifyIssuer(s.config.Issuer, true) {
		return nil, errors.Mark(errors.New("unexpected token issuer"), ErrUnauthenticated)
	}
	if claims.Id == "" || claims.Subject == "" {
		return nil, errors.Mark(errors.New("token without session"), ErrUnauthenticated)
	}
	return claims, nil
}
