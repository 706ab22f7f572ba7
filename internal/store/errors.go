package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrItemNotFound is returned when a read, update or soft-delete targets a
	// vault item (identified by id and user_id) that does not exist or has
	// already been soft-deleted.
	ErrItemNotFound = errors.New("vault item was not found")

	// ErrItemAlreadyExists is returned by Create when the item id is already
	// taken, by any user and in any state.
	ErrItemAlreadyExists = errors.New("vault item already exists")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the expected version does not match the version stored in the database,
	// meaning another request has modified the item in the meantime.
	ErrVersionConflict = errors.New("vault item version conflict occurred")

	// ErrFolderNotFound is returned when a folder referenced by folder_id or
	// parent_id does not exist or is not active for the same user.
	ErrFolderNotFound = errors.New("referenced folder was not found")

	// ErrFolderDepthExceeded is returned when placing a folder would nest it
	// deeper than the configured limit.
	ErrFolderDepthExceeded = errors.New("folder nesting depth exceeded")

	// ErrFolderCycle is returned when a folder would become its own ancestor.
	ErrFolderCycle = errors.New("folder cannot be its own ancestor")

	// ErrStorageUnavailable is returned when the database keeps failing with
	// a transient error after every retry attempt.
	ErrStorageUnavailable = errors.New("storage is unavailable")

	// ErrUnknownItemType is returned when no store is registered for an
	// item type.
	ErrUnknownItemType = errors.New("unknown item type")

	// ErrUnsupportedDriver is returned by NewStorages for an unknown driver.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
