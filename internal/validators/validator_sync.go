package validators

import (
	"context"
	"unicode/utf8"

	"github.com/MKhiriev/go-vault-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldItemType targets the item type a change was submitted for.
	FieldItemType = "item_type"

	// FieldOperation targets the CREATE/UPDATE operation of a change.
	FieldOperation = "operation"

	// FieldID targets the item identifier of an UPDATE.
	FieldID = "id"

	// FieldVersion targets the version the client last saw for an UPDATE.
	FieldVersion = "version"

	// FieldPayload targets the type-specific payload of a change.
	FieldPayload = "payload"

	// FieldLogin targets the account login.
	FieldLogin = "login"

	// FieldPassword targets the client-derived authentication secret.
	FieldPassword = "password"
)

const (
	maxLoginLength = 255

	// DefaultHistoryLimit is the page size used when a history request
	// does not name one.
	DefaultHistoryLimit = 20

	// MaxHistoryLimit caps the number of history records returned at once.
	MaxHistoryLimit = 100
)

// SyncValidator implements Validator for the inputs of the sync engine and
// of account registration: models.TypedChange and models.User.
type SyncValidator struct{}

// NewSyncValidator returns a Validator for sync changes and users.
func NewSyncValidator() Validator {
	return &SyncValidator{}
}

// Validate dispatches on the dynamic type of obj. Value and pointer forms
// of models.TypedChange and models.User are supported; anything else yields
// ErrUnsupportedType.
func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.TypedChange:
		return v.validateChange(ctx, value, fields...)
	case *models.TypedChange:
		return v.validateChange(ctx, *value, fields...)

	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateChange checks a single change.
//
// Default fields: item type, operation, id, version and payload. ID and
// version are only checked for UPDATE.
func (v *SyncValidator) validateChange(_ context.Context, change models.TypedChange, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldItemType, FieldOperation, FieldID, FieldVersion, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldItemType:
			if !change.Type.Valid() {
				return ErrInvalidItemType
			}
		case FieldOperation:
			if change.Operation != models.OperationCreate && change.Operation != models.OperationUpdate {
				return ErrInvalidOperation
			}
		case FieldID:
			if change.Operation == models.OperationUpdate && change.ItemID() == "" {
				return ErrInvalidItemID
			}
		case FieldVersion:
			if change.Operation == models.OperationUpdate && change.ClientVersion() < 1 {
				return ErrInvalidVersion
			}
		case FieldPayload:
			if err := validatePayload(change.Type, change.ItemPayload); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validatePayload(itemType models.ItemType, payload models.ItemPayload) error {
	switch itemType {
	case models.ItemTypeCredential, models.ItemTypeNote:
		if payload.EncryptedData.IsEmpty() {
			return ErrEmptyEncryptedData
		}
		if payload.FolderID != nil && *payload.FolderID == "" {
			return ErrInvalidFolderRef
		}
	case models.ItemTypeFolder:
		if payload.Name == "" {
			return ErrEmptyName
		}
		if payload.ParentID != nil && *payload.ParentID == "" {
			return ErrInvalidFolderRef
		}
	case models.ItemTypeTag:
		if payload.Name == "" {
			return ErrEmptyName
		}
	default:
		return ErrInvalidItemType
	}
	return nil
}

func (v *SyncValidator) validateUser(_ context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if user.Login == "" || utf8.RuneCountInString(user.Login) > maxLoginLength {
				return ErrInvalidLogin
			}
		case FieldPassword:
			if user.Password == "" {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// HistoryLimit resolves the requested page size of a history listing.
// Zero selects DefaultHistoryLimit.
func HistoryLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultHistoryLimit, nil
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return 0, ErrInvalidHistoryLimit
	}
	return limit, nil
}
