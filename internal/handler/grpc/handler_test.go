package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type testEnv struct {
	client *SyncClient
	auth   *mock.MockAuthService
	sync   *mock.MockSyncService
}

func startServer(t *testing.T) testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthService(ctrl)
	syncSvc := mock.NewMockSyncService(ctrl)

	h := NewHandler(&service.Services{AuthService: auth, SyncService: syncSvc}, logger.Nop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(h.UnaryInterceptors()...))
	h.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return testEnv{client: NewSyncClient(conn), auth: auth, sync: syncSvc}
}

func withToken(token string, kv ...string) context.Context {
	pairs := append([]string{authorizationKey, "Bearer " + token}, kv...)
	return metadata.NewOutgoingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestSynchronize_OverGRPC(t *testing.T) {
	env := startServer(t)

	env.auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{UserID: 7}, nil)
	env.sync.EXPECT().
		Synchronize(gomock.Any(), int64(7), models.SyncRequest{ClientVersion: 2, DeletedNotes: []string{"n-1"}}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ models.SyncRequest, origin models.RequestOrigin) models.SyncResponse {
			assert.Equal(t, "tablet", origin.DeviceID)
			assert.Equal(t, "198.51.100.4", origin.IPAddress)
			return models.SyncResponse{Success: true, ServerVersion: 8, Stats: models.SyncStats{NotesDeleted: 1}}
		})

	var header metadata.MD
	resp, err := env.client.Synchronize(
		withToken("good", deviceIDKey, "tablet", forwardedForKey, "198.51.100.4"),
		&models.SyncRequest{ClientVersion: 2, DeletedNotes: []string{"n-1"}},
		grpc.Header(&header),
	)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(8), resp.ServerVersion)
	assert.Equal(t, 1, resp.Stats.NotesDeleted)
	assert.NotEmpty(t, header.Get(traceIDKey))
}

func TestSynchronize_FailedSyncIsNotAnRPCError(t *testing.T) {
	env := startServer(t)

	msg := "user not found"
	env.auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{UserID: 3}, nil)
	env.sync.EXPECT().Synchronize(gomock.Any(), int64(3), gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{Success: false, ErrorMessage: &msg})

	resp, err := env.client.Synchronize(withToken("good"), &models.SyncRequest{})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.ErrorMessage)
	assert.Equal(t, msg, *resp.ErrorMessage)
}

func TestAuthInterceptor(t *testing.T) {
	tests := []struct {
		name  string
		ctx   func() context.Context
		setup func(env testEnv)
	}{
		{
			name:  "no metadata",
			ctx:   context.Background,
			setup: func(testEnv) {},
		},
		{
			name: "not a bearer token",
			ctx: func() context.Context {
				return metadata.NewOutgoingContext(context.Background(), metadata.Pairs(authorizationKey, "Basic abc"))
			},
			setup: func(testEnv) {},
		},
		{
			name: "rejected token",
			ctx:  func() context.Context { return withToken("expired") },
			setup: func(env testEnv) {
				env.auth.EXPECT().ParseToken(gomock.Any(), "expired").Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := startServer(t)
			tt.setup(env)

			_, err := env.client.Synchronize(tt.ctx(), &models.SyncRequest{})

			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
}

func TestHistory_OverGRPC(t *testing.T) {
	env := startServer(t)

	env.auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{UserID: 5}, nil).Times(3)
	env.sync.EXPECT().History(gomock.Any(), int64(5), 2).
		Return([]models.SyncHistory{{ID: "h-2"}, {ID: "h-1"}}, nil)
	env.sync.EXPECT().History(gomock.Any(), int64(5), 0).Return(nil, nil)
	env.sync.EXPECT().History(gomock.Any(), int64(5), 500).
		Return(nil, errors.Join(service.ErrInvalidDataProvided, errors.New("limit too large")))

	resp, err := env.client.History(withToken("good"), &HistoryRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "h-2", resp.Entries[0].ID)

	resp, err = env.client.History(withToken("good"), &HistoryRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)

	_, err = env.client.History(withToken("good"), &HistoryRequest{Limit: 500})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{service.ErrInvalidDataProvided, codes.InvalidArgument},
		{service.ErrTokenIsExpiredOrInvalid, codes.Unauthenticated},
		{service.ErrUserNotFound, codes.NotFound},
		{store.ErrStorageUnavailable, codes.Unavailable},
		{context.Canceled, codes.Canceled},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
}

func TestHandler_RequiresUserInContext(t *testing.T) {
	h := NewHandler(&service.Services{}, logger.Nop())

	_, err := h.Synchronize(context.Background(), &models.SyncRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.History(context.Background(), &HistoryRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	assert.Equal(t, CodecName, codec.Name())

	data, err := codec.Marshal(&HistoryRequest{Limit: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":4}`, string(data))

	var got HistoryRequest
	require.NoError(t, codec.Unmarshal(data, &got))
	assert.Equal(t, 4, got.Limit)
}
