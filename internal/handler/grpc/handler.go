package grpc

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Handler is the gRPC transport of the sync engine. It is created once at
// startup and shared by the gRPC server.
type Handler struct {
	services *service.Services
	logger   *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// Register attaches the sync service to s.
func (h *Handler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&SyncServiceDesc, h)
}

// Synchronize mirrors POST /api/vault/sync: a decoded request always yields
// a response, the outcome is carried in Success.
func (h *Handler) Synchronize(ctx context.Context, req *models.SyncRequest) (*models.SyncResponse, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no user in context")
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	resp := h.services.SyncService.Synchronize(ctx, userID, *req, originFromContext(ctx))
	return &resp, nil
}

func (h *Handler) History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no user in context")
	}

	entries, err := h.services.SyncService.History(ctx, userID, req.Limit)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*Handler.History").Msg("error listing sync history")
		return nil, toStatus(err)
	}
	if entries == nil {
		entries = []models.SyncHistory{}
	}

	return &HistoryResponse{Entries: entries}, nil
}

func originFromContext(ctx context.Context) models.RequestOrigin {
	var origin models.RequestOrigin

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		origin.IPAddress = hostOnly(p.Addr.String())
	}
	if forwarded := firstMetadata(ctx, forwardedForKey); forwarded != "" {
		origin.IPAddress = forwarded
	}
	origin.UserAgent = firstMetadata(ctx, userAgentKey)
	origin.DeviceID = firstMetadata(ctx, deviceIDKey)

	return origin
}

// toStatus converts service and storage errors to gRPC status errors.
func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidDataProvided):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, store.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, "storage is temporarily unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
