package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidItemType     = errors.New("invalid item type")
	ErrInvalidOperation    = errors.New("invalid change operation")
	ErrInvalidItemID       = errors.New("item id is required for update")
	ErrInvalidVersion      = errors.New("version must be at least 1 for update")
	ErrEmptyEncryptedData  = errors.New("encrypted data is required")
	ErrEmptyName           = errors.New("name is required")
	ErrInvalidFolderRef    = errors.New("folder reference cannot be empty")
	ErrInvalidLogin        = errors.New("invalid login")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidHistoryLimit = errors.New("history limit must be between 1 and 100")
)
