package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrUserNotFound:            http.StatusNotFound,

	utils.ErrEmptyBody:                  http.StatusBadRequest,
	utils.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrEmptyAuthorizationHeader:         http.StatusUnauthorized,
	ErrInvalidLimit:                     http.StatusBadRequest,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusUnauthorized,
	store.ErrStorageUnavailable: http.StatusServiceUnavailable,
}

// statusFromError maps err to a response status; unknown errors are 500.
func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError is the text sent to the client for err. Internal
// failures are reported by their status text only.
func messageFromError(err error, status int) string {
	switch {
	case errors.Is(err, store.ErrNoUserWasFound), errors.Is(err, service.ErrWrongPassword):
		return "invalid login/password"
	case status >= http.StatusInternalServerError:
		return http.StatusText(status)
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	http.Error(w, messageFromError(err, status), status)
}
