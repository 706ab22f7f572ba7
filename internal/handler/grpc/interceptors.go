package grpc

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Metadata keys are lower case on the wire.
const (
	authorizationKey = "authorization"
	traceIDKey       = "x-trace-id"
	forwardedForKey  = "x-forwarded-for"
	userAgentKey     = "user-agent"
	deviceIDKey      = "x-device-id"
)

// UnaryInterceptors returns the server interceptor chain: tracing and access
// logging first, then authentication.
func (h *Handler) UnaryInterceptors() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		h.withLogging,
		h.auth,
	}
}

// withLogging attaches a request logger carrying trace_id and writes one
// access log line per call.
func (h *Handler) withLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	traceID := firstMetadata(ctx, traceIDKey)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	ctx = l.WithContext(ctx)
	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDKey, traceID))

	start := time.Now()
	resp, err := next(ctx, req)

	code := status.Code(err)
	event := l.Info()
	if code != codes.OK {
		event = l.Warn().Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

// auth validates the bearer token from the authorization metadata and puts
// the user id into the context.
func (h *Handler) auth(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	log := logger.FromContext(ctx)

	header := firstMetadata(ctx, authorizationKey)
	if header == "" {
		return nil, status.Error(codes.Unauthenticated, "missing authorization metadata")
	}

	tokenString, err := utils.ParseBearerToken(header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		log.Err(err).Msg("error occurred during parsing token")
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	child := log.GetChildLogger()
	child.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Int64("user_id", token.UserID)
	})

	return next(child.WithContext(utils.WithUserID(ctx, token.UserID)), req)
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(key) {
		if first, _, _ := strings.Cut(v, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	return ""
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
