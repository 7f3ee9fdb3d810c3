package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/dbx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var kindCodes = map[error]codes.Code{
	common.ErrInvalidConfiguration: codes.InvalidArgument,
	common.ErrUnauthorized:         codes.PermissionDenied,
	common.ErrEventNotActive:       codes.FailedPrecondition,
	common.ErrSupplyExhausted:      codes.ResourceExhausted,
	common.ErrInsufficientFunds:    codes.FailedPrecondition,
	common.ErrAccountMismatch:      codes.InvalidArgument,
	common.ErrExternalIssuance:     codes.Unavailable,
	common.ErrorNotFound:           codes.NotFound,
	common.ErrorAlreadyExists:      codes.AlreadyExists,
}

// toStatus converts a service error into a gRPC status. Internal errors are
// reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, dbx.ErrSerialization):
		return status.Error(codes.Aborted, dbx.ErrSerialization.Error())
	}

	code, ok := kindCodes[common.KindOf(err)]
	if !ok {
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
