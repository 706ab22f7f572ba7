package models

import "time"

// Resolution tells which side's version of an item was kept after a conflict.
type Resolution string

const (
	// ResolutionClientWins means the client payload overwrote the server item.
	ResolutionClientWins Resolution = "CLIENT_WINS"

	// ResolutionServerWins means the server item was kept unchanged.
	ResolutionServerWins Resolution = "SERVER_WINS"
)

// Conflict records that a client tried to update an item from a stale
// version. A conflict exists if and only if the version declared by the client
// differed from the server version at processing time. Conflicts are created
// once and never modified.
type Conflict struct {
	EntityType    ItemType   `json:"entity_type"`
	EntityID      string     `json:"entity_id"`
	ClientVersion int64      `json:"client_version"`
	ServerVersion int64      `json:"server_version"`
	DetectedAt    time.Time  `json:"detected_at"`
	ServerData    VaultItem  `json:"server_data"`
	Resolution    Resolution `json:"resolution"`
	Description   string     `json:"description"`
}
