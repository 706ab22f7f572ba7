// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/models"
	"google.golang.org/grpc"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "vaultsync.v1.SyncService"

	SynchronizeMethod = "/" + ServiceName + "/Synchronize"
	HistoryMethod     = "/" + ServiceName + "/History"
)

// HistoryRequest asks for the latest sync attempts of the caller. Zero
// Limit selects the server default.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryResponse lists sync attempts, newest first.
type HistoryResponse struct {
	Entries []models.SyncHistory `json:"entries"`
}

// SyncServer is implemented by the gRPC transport handler.
type SyncServer interface {
	Synchronize(ctx context.Context, req *models.SyncRequest) (*models.SyncResponse, error)
	History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error)
}

// SyncServiceDesc describes vaultsync.v1.SyncService for grpc.Server. The
// messages travel with the JSON codec, so there is no generated protobuf
// code.
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Synchronize", Handler: synchronizeHandler},
		{MethodName: "History", Handler: historyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vaultsync/v1/sync.proto",
}

func synchronizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.SyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).Synchronize(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SynchronizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).Synchronize(ctx, req.(*models.SyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func historyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).History(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HistoryMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).History(ctx, req.(*HistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SyncClient calls vaultsync.v1.SyncService over an established connection.
type SyncClient struct {
	cc grpc.ClientConnInterface
}

func NewSyncClient(cc grpc.ClientConnInterface) *SyncClient {
	return &SyncClient{cc: cc}
}

func (c *SyncClient) Synchronize(ctx context.Context, req *models.SyncRequest, opts ...grpc.CallOption) (*models.SyncResponse, error) {
	out := new(models.SyncResponse)
	if err := c.cc.Invoke(ctx, SynchronizeMethod, req, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SyncClient) History(ctx context.Context, req *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	out := new(HistoryResponse)
	if err := c.cc.Invoke(ctx, HistoryMethod, req, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
