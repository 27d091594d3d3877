package grpc

import (
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type ServerOptions struct {
	RequestTimeout    time.Duration
	BookingRatePerMin float64
	BookingRateBurst  int
}

// NewServer builds a gRPC server exposing BookingsService and the standard
// health service. The returned health server reports BookingsService as
// serving; callers flip it on shutdown.
func NewServer(svc bookingsService, tokens tokenVerifier, opts ServerOptions, log *zap.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			TimeoutInterceptor(opts.RequestTimeout),
			AuthInterceptor(tokens, log),
			RateLimitInterceptor(opts.BookingRatePerMin, opts.BookingRateBurst, "CreateBooking"),
		),
	)
	RegisterBookingsServiceServer(srv, NewBookingsServer(svc, log))

	hs := health.NewServer()
	hs.SetServingStatus(BookingsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}
