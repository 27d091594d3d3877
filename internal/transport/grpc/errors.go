package grpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/domain"
)

const errorDomain = "salonbook"

var kindCodes = map[domain.ErrorKind]codes.Code{
	domain.KindMalformedInput:    codes.InvalidArgument,
	domain.KindInvalidRequest:    codes.InvalidArgument,
	domain.KindUnauthenticated:   codes.Unauthenticated,
	domain.KindForbidden:         codes.PermissionDenied,
	domain.KindNotFound:          codes.NotFound,
	domain.KindDuplicateBooking:  codes.AlreadyExists,
	domain.KindSlotConflict:      codes.FailedPrecondition,
	domain.KindOutOfHours:        codes.FailedPrecondition,
	domain.KindInvalidTransition: codes.FailedPrecondition,
}

// statusError converts a service error into a gRPC status. Domain errors
// carry their kind and details as an ErrorInfo; anything else is logged and
// reported as internal.
func (s *BookingsServer) statusError(log *zap.Logger, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		code, ok := kindCodes[dErr.Kind]
		if !ok {
			code = codes.Unknown
		}
		log.Info("request rejected",
			zap.String("kind", string(dErr.Kind)),
			zap.String("code", code.String()),
			zap.String("reason", dErr.Error()),
		)
		return domainStatus(code, dErr).Err()
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", zap.Error(err))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		log.Info("request canceled", zap.Error(err))
		return status.Error(codes.Canceled, "request canceled")
	}

	log.Error("request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func domainStatus(code codes.Code, dErr *domain.Error) *status.Status {
	st := status.New(code, dErr.Error())
	withInfo, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(dErr.Kind),
		Domain:   errorDomain,
		Metadata: dErr.Details,
	})
	if err != nil {
		return st
	}
	return withInfo
}
