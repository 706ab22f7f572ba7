package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

// credentialsCheck is either registration or login: both take the posted
// credentials and return the account a token is issued for.
type credentialsCheck func(ctx context.Context, user models.User) (models.User, error)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, "register", h.services.AuthService.RegisterUser)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, "login", h.services.AuthService.Login)
}

// authenticate answers 200 with the bearer token in the Authorization
// header once check accepts the credentials.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, action string, check credentialsCheck) {
	log := logger.FromRequest(r).With().Str("action", action).Logger()

	var credentials models.User
	if err := utils.DecodeJSON(w, r, &credentials); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := check(r.Context(), credentials)
	if err != nil {
		log.Warn().Err(err).Str("login", credentials.Login).Msg("credentials rejected")
		writeError(w, err)
		return
	}

	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("token creation failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Debug().Int64("user_id", user.UserID).Msg("token issued")
	w.Header().Set("Authorization", utils.BearerHeader(token.SignedString))
	w.WriteHeader(http.StatusOK)
}
