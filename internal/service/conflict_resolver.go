package service

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
)

// lastWriterWins resolves conflicts by comparing the client-declared
// modification time with the server's UpdatedAt.
type lastWriterWins struct{}

// NewConflictResolver returns the last-writer-wins ConflictResolver.
func NewConflictResolver() ConflictResolver {
	return lastWriterWins{}
}

// Resolve returns CLIENT_WINS only when change.LastModified is strictly
// after server.UpdatedAt. A missing timestamp keeps the server copy. An exact
// tie keeps the server copy too; whether it should favour the client is
// pending product confirmation.
func (lastWriterWins) Resolve(itemType models.ItemType, change models.Change, server models.VaultItem, now time.Time) models.Conflict {
	resolution := models.ResolutionServerWins
	var description string

	switch {
	case change.LastModified == nil:
		description = fmt.Sprintf("client sent version %d of %s %s without a modification time, server copy at version %d kept",
			change.ClientVersion(), itemType, server.ID, server.Version)
	case change.LastModified.After(server.UpdatedAt):
		resolution = models.ResolutionClientWins
		description = fmt.Sprintf("client edit of %s %s at %s is newer than server version %d from %s",
			itemType, server.ID, change.LastModified.UTC().Format(time.RFC3339Nano), server.Version, server.UpdatedAt.Format(time.RFC3339Nano))
	default:
		description = fmt.Sprintf("server version %d of %s %s from %s is not older than client edit at %s",
			server.Version, itemType, server.ID, server.UpdatedAt.Format(time.RFC3339Nano), change.LastModified.UTC().Format(time.RFC3339Nano))
	}

	return models.Conflict{
		EntityType:    itemType,
		EntityID:      server.ID,
		ClientVersion: change.ClientVersion(),
		ServerVersion: server.Version,
		DetectedAt:    now,
		ServerData:    server,
		Resolution:    resolution,
		Description:   description,
	}
}
