package http

import (
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
)

// bearerToken extracts the raw JWT from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrEmptyAuthorizationHeader
	}
	return utils.ParseBearerToken(header)
}

// auth answers 401 unless the request carries a valid bearer token. The
// token's user id ends up in the context, see [utils.GetUserIDFromContext],
// and on every log line of the request.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		raw, err := bearerToken(r)
		if err != nil {
			log.Warn().Err(err).Msg("request rejected: bad authorization header")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := h.services.AuthService.ParseToken(r.Context(), raw)
		if err != nil {
			log.Warn().Err(err).Msg("request rejected: token not accepted")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		userLog := log.With().Int64("user_id", token.UserID).Logger()
		ctx := utils.WithUserID(r.Context(), token.UserID)
		next.ServeHTTP(w, r.WithContext(userLog.WithContext(ctx)))
	})
}
