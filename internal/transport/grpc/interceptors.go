package grpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/auth"
)

type tokenVerifier interface {
	Verify(raw string) (auth.Actor, error)
}

// AuthInterceptor resolves the caller from the "authorization: Bearer"
// metadata and stores it on the context. Calls without a token proceed
// anonymously and are rejected by the service where an actor is required;
// a token that fails verification is rejected here.
func AuthInterceptor(tokens tokenVerifier, log *zap.Logger) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "grpc.auth"))

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}

		raw, ok := bearerFromMetadata(ctx)
		if !ok {
			return handler(ctx, req)
		}
		actor, err := tokens.Verify(raw)
		if err != nil {
			log.Info("token rejected", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		return handler(auth.WithActor(ctx, actor), req)
	}
}

func bearerFromMetadata(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", false
	}
	return auth.BearerToken(strings.TrimSpace(values[0]))
}

// TimeoutInterceptor applies timeout to calls that arrive without a
// deadline.
func TimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

type actorLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func (l *actorLimiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimitInterceptor limits each caller to perMinute requests on the
// given methods. Callers are keyed by user id, or by peer address when
// anonymous. A non-positive perMinute disables the limit.
func RateLimitInterceptor(perMinute float64, burst int, methods ...string) grpc.UnaryServerInterceptor {
	if perMinute <= 0 {
		return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			return handler(ctx, req)
		}
	}
	if burst <= 0 {
		burst = 1
	}
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[fullMethod(m)] = true
	}
	l := &actorLimiter{
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !limited[info.FullMethod] {
			return handler(ctx, req)
		}
		if !l.allow(callerKey(ctx)) {
			return nil, status.Error(codes.ResourceExhausted, "too many booking requests; try again shortly")
		}
		return handler(ctx, req)
	}
}

func callerKey(ctx context.Context) string {
	if a, ok := auth.ActorFrom(ctx); ok && a.UserID != "" {
		return "user:" + a.UserID
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return "peer:" + p.Addr.String()
	}
	return "anonymous"
}
