package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/app/auth"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/app/podcastimport"
	"github.com/osa030/onair/internal/infra/assets"
)

// toConnectError maps application errors to Connect error codes.
// Unclassified errors are logged and reported as internal without detail.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, content.ErrInvalidInput),
		errors.Is(err, assets.ErrInvalidFolder),
		errors.Is(err, assets.ErrUnsupportedType),
		errors.Is(err, assets.ErrTooLarge):
		return connect.NewError(connect.CodeInvalidArgument, errors.New(err.Error()))
	case errors.Is(err, content.ErrNotFound), errors.Is(err, assets.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New(err.Error()))
	case errors.Is(err, content.ErrConflict), errors.Is(err, auth.ErrAdminExists):
		return connect.NewError(connect.CodeAlreadyExists, errors.New(err.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	case errors.Is(err, auth.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, nil)
	case errors.Is(err, podcastimport.ErrDisabled):
		return connect.NewError(connect.CodeFailedPrecondition, podcastimport.ErrDisabled)
	}

	zlog.Error().Err(err).Msg("request failed")
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}
