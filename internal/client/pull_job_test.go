package client

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/mock"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPullJob_AdvancesMarker(t *testing.T) {
	syncer := mock.NewMockSyncAdapter(gomock.NewController(t))
	out := new(bytes.Buffer)
	job := newPullJob(syncer, func(context.Context) error { return nil }, out, logger.Nop())

	first := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	delta := &models.Delta{}
	delta.Set(models.ItemTypeNote, []models.VaultItem{{ID: "n-1"}, {ID: "n-2"}}, []string{"n-3"})

	gomock.InOrder(
		syncer.EXPECT().Synchronize(gomock.Any(), models.SyncRequest{}).
			Return(models.SyncResponse{Success: true, ServerVersion: 5, SyncedAt: first, DeltaUpdates: delta}, nil),
		syncer.EXPECT().Synchronize(gomock.Any(), models.SyncRequest{ClientVersion: 5, LastSyncTime: &first}).
			Return(models.SyncResponse{Success: true, ServerVersion: 5, SyncedAt: first.Add(time.Minute)}, nil),
	)

	require.NoError(t, job.pull(context.Background()))
	require.NoError(t, job.pull(context.Background()))

	assert.Equal(t, int64(5), job.serverVersion)
	require.NotNil(t, job.lastSync)
	assert.Equal(t, first.Add(time.Minute), *job.lastSync)
	assert.Equal(t,
		"2026-06-01T08:00:00Z server_version=5 updated=2 deleted=1\n"+
			"2026-06-01T08:01:00Z server_version=5 updated=0 deleted=0\n",
		out.String())
}

func TestPullJob_FailedSyncKeepsMarker(t *testing.T) {
	syncer := mock.NewMockSyncAdapter(gomock.NewController(t))
	job := newPullJob(syncer, func(context.Context) error { return nil }, new(bytes.Buffer), logger.Nop())
	marker := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	job.lastSync = &marker

	syncer.EXPECT().Synchronize(gomock.Any(), gomock.Any()).Return(models.SyncResponse{Success: false}, nil)

	assert.ErrorIs(t, job.pull(context.Background()), ErrSyncFailed)
	assert.Equal(t, &marker, job.lastSync)
}

func TestPullJob_RelogsInOnUnauthorized(t *testing.T) {
	syncer := mock.NewMockSyncAdapter(gomock.NewController(t))
	relogins := 0
	job := newPullJob(syncer, func(context.Context) error {
		relogins++
		return nil
	}, new(bytes.Buffer), logger.Nop())

	gomock.InOrder(
		syncer.EXPECT().Synchronize(gomock.Any(), gomock.Any()).Return(models.SyncResponse{}, adapter.ErrUnauthorized),
		syncer.EXPECT().Synchronize(gomock.Any(), gomock.Any()).Return(models.SyncResponse{Success: true}, nil),
	)

	require.NoError(t, job.pull(context.Background()))
	assert.Equal(t, 1, relogins)
}

func TestPullJob_ReloginFailure(t *testing.T) {
	syncer := mock.NewMockSyncAdapter(gomock.NewController(t))
	boom := errors.New("wrong password")
	job := newPullJob(syncer, func(context.Context) error { return boom }, new(bytes.Buffer), logger.Nop())

	syncer.EXPECT().Synchronize(gomock.Any(), gomock.Any()).Return(models.SyncResponse{}, adapter.ErrUnauthorized)

	assert.ErrorIs(t, job.pull(context.Background()), boom)
}

func TestPullJob_RunStopsOnCancel(t *testing.T) {
	syncer := mock.NewMockSyncAdapter(gomock.NewController(t))
	ctx, cancel := context.WithCancel(context.Background())
	job := newPullJob(syncer, func(context.Context) error { return nil }, new(bytes.Buffer), logger.Nop())

	calls := 0
	syncer.EXPECT().Synchronize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.SyncRequest) (models.SyncResponse, error) {
			calls++
			if calls == 2 {
				cancel()
			}
			return models.SyncResponse{Success: true}, nil
		}).
		Times(2)

	done := make(chan error, 1)
	go func() { done <- job.Run(ctx, 10*time.Millisecond) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pull job did not stop")
	}
}
