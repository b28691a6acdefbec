package connect

import (
	"context"

	"connectrpc.com/connect"

	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/auth"
	"github.com/osa030/onair/internal/infra/metrics"
)

// AuthService implements the AuthService RPC.
type AuthService struct {
	auth    *auth.Service
	metrics *metrics.Metrics
}

// NewAuthService creates a new AuthService. m may be nil.
func NewAuthService(authService *auth.Service, m *metrics.Metrics) *AuthService {
	return &AuthService{
		auth:    authService,
		metrics: m,
	}
}

// Login exchanges admin credentials for a bearer token.
func (s *AuthService) Login(
	ctx context.Context,
	req *connect.Request[onairv1.LoginRequest],
) (*connect.Response[onairv1.LoginResponse], error) {
	token, err := s.auth.Login(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.metrics.IncLogin(false)
		return nil, toConnectError(err)
	}
	s.metrics.IncLogin(true)

	return connect.NewResponse(&onairv1.LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Admin:     toAdminUser(&token.Admin),
	}), nil
}

// Logout revokes the session of the calling token.
func (s *AuthService) Logout(
	ctx context.Context,
	req *connect.Request[onairv1.LogoutRequest],
) (*connect.Response[onairv1.LogoutResponse], error) {
	if err := s.auth.Logout(ctx, tokenFromContext(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.LogoutResponse{}), nil
}

// Me returns the calling admin.
func (s *AuthService) Me(
	ctx context.Context,
	req *connect.Request[onairv1.MeRequest],
) (*connect.Response[onairv1.MeResponse], error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, nil)
	}
	return connect.NewResponse(&onairv1.MeResponse{
		Admin:            toAdminUser(&principal.Admin),
		SessionExpiresAt: principal.Session.ExpiresAt,
	}), nil
}
