// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/auth"
)

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

type principalKey struct{}

type tokenKey struct{}

// WithPrincipal returns a context carrying the authenticated admin.
func WithPrincipal(ctx context.Context, p *auth.Principal, token string) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	return context.WithValue(ctx, tokenKey{}, token)
}

// PrincipalFromContext returns the authenticated admin of a request.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*auth.Principal)
	return p, ok && p != nil
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(h http.Header) string {
	value := h.Get(onairv1.AuthorizationHeader)
	scheme, token, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthInterceptor rejects requests without a valid admin bearer token and
// stores the admin in the request context. It covers unary and server-streaming
// procedures; procedures listed in public pass through.
type AuthInterceptor struct {
	authenticator Authenticator
	public        map[string]bool
}

var _ connect.Interceptor = (*AuthInterceptor)(nil)

// NewAuthInterceptor creates an interceptor that validates admin tokens.
func NewAuthInterceptor(authenticator Authenticator, public ...string) *AuthInterceptor {
	i := &AuthInterceptor{
		authenticator: authenticator,
		public:        make(map[string]bool, len(public)),
	}
	for _, p := range public {
		i.public[p] = true
	}
	return i
}

func (i *AuthInterceptor) authenticate(ctx context.Context, procedure string, header http.Header) (context.Context, error) {
	if i.public[procedure] {
		return ctx, nil
	}

	// Extract token from metadata
	token := BearerToken(header)
	if token == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, nil)
	}

	// Validate token
	principal, err := i.authenticator.Authenticate(ctx, token)
	if err != nil {
		return nil, toConnectError(err)
	}
	return WithPrincipal(ctx, principal, token), nil
}

// WrapUnary implements connect.Interceptor.
func (i *AuthInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Spec().Procedure, req.Header())
		if err != nil {
			return nil, err
		}
		// Call next handler
		return next(ctx, req)
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *AuthInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *AuthInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.Spec().Procedure, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}
