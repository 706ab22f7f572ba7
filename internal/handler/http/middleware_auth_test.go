package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuth_Middleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		parsed     *models.Token
		parseErr   error
		wantStatus int
		wantUserID int64
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", parseErr: service.ErrTokenIsExpiredOrInvalid, wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", parsed: &models.Token{UserID: 42}, wantStatus: http.StatusOK, wantUserID: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			if tt.parsed != nil || tt.parseErr != nil {
				token := models.Token{}
				if tt.parsed != nil {
					token = *tt.parsed
				}
				m.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(token, tt.parseErr)
			}

			var gotUserID int64
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := withNopLogger(httptest.NewRequest(http.MethodGet, "/test", nil))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, nextCalled)
			assert.Equal(t, tt.wantUserID, gotUserID)
		})
	}
}

func TestAuth_PassesRawTokenToService(t *testing.T) {
	h, m := newMockedHandler(t)
	m.auth.EXPECT().ParseToken(gomock.Any(), "abc.def.ghi").Return(models.Token{UserID: 1}, nil)

	req := withNopLogger(httptest.NewRequest(http.MethodGet, "/test", nil))
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	h.auth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
