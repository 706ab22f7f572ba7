package adapter

import (
	"context"
	"fmt"
	"strings"

	myGRPC "github.com/MKhiriev/go-vault-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	authorizationMetadataKey = "authorization"
	deviceIDMetadataKey      = "x-device-id"
)

// GRPCSyncAdapter is the gRPC implementation of [SyncAdapter]. Tokens come
// from a [TokenSource], usually the HTTP adapter that performed the login.
type GRPCSyncAdapter struct {
	conn     *grpc.ClientConn
	client   *myGRPC.SyncClient
	tokens   TokenSource
	deviceID string

	logger *logger.Logger
}

// NewGRPCSyncAdapter creates a client for address. The connection is plain
// text and is established lazily on the first call.
func NewGRPCSyncAdapter(address string, tokens TokenSource, deviceID string, logger *logger.Logger, opts ...grpc.DialOption) (*GRPCSyncAdapter, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("invalid adapter grpc address: empty address")
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(userAgent),
	}, opts...)

	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client: %w", err)
	}

	return &GRPCSyncAdapter{
		conn:     conn,
		client:   myGRPC.NewSyncClient(conn),
		tokens:   tokens,
		deviceID: strings.TrimSpace(deviceID),
		logger:   logger,
	}, nil
}

// Close releases the underlying connection.
func (g *GRPCSyncAdapter) Close() error {
	return g.conn.Close()
}

func (g *GRPCSyncAdapter) Synchronize(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	ctx, err := g.outgoing(ctx)
	if err != nil {
		return models.SyncResponse{}, err
	}

	resp, err := g.client.Synchronize(ctx, &req)
	if err != nil {
		return models.SyncResponse{}, mapGRPCError(err)
	}
	return *resp, nil
}

func (g *GRPCSyncAdapter) History(ctx context.Context, limit int) ([]models.SyncHistory, error) {
	ctx, err := g.outgoing(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.History(ctx, &myGRPC.HistoryRequest{Limit: limit})
	if err != nil {
		return nil, mapGRPCError(err)
	}
	return resp.Entries, nil
}

func (g *GRPCSyncAdapter) outgoing(ctx context.Context) (context.Context, error) {
	token := g.tokens.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	pairs := []string{authorizationMetadataKey, utils.BearerHeader(token)}
	if g.deviceID != "" {
		pairs = append(pairs, deviceIDMetadataKey, g.deviceID)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...), nil
}
