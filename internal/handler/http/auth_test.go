package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRegister(t *testing.T) {
	alice := models.User{Login: "alice", Password: "s3cret-pass"}

	tests := []struct {
		name       string
		body       string
		setup      func(m mockedServices)
		wantStatus int
		wantHeader string
		wantBody   string
	}{
		{
			name: "success",
			body: `{"login":"alice","password":"s3cret-pass"}`,
			setup: func(m mockedServices) {
				m.auth.EXPECT().RegisterUser(gomock.Any(), alice).Return(models.User{UserID: 1, Login: "alice"}, nil)
				m.auth.EXPECT().CreateToken(gomock.Any(), models.User{UserID: 1, Login: "alice"}).
					Return(models.Token{SignedString: "jwt"}, nil)
			},
			wantStatus: http.StatusOK,
			wantHeader: "Bearer jwt",
		},
		{
			name:       "invalid JSON",
			body:       `{"login":`,
			setup:      func(mockedServices) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid JSON was passed",
		},
		{
			name: "invalid data",
			body: `{"login":"alice","password":"s3cret-pass"}`,
			setup: func(m mockedServices) {
				m.auth.EXPECT().RegisterUser(gomock.Any(), alice).Return(models.User{}, service.ErrInvalidDataProvided)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid data provided",
		},
		{
			name: "login taken",
			body: `{"login":"alice","password":"s3cret-pass"}`,
			setup: func(m mockedServices) {
				m.auth.EXPECT().RegisterUser(gomock.Any(), alice).Return(models.User{}, store.ErrLoginAlreadyExists)
			},
			wantStatus: http.StatusConflict,
			wantBody:   "login already exists",
		},
		{
			name: "storage down",
			body: `{"login":"alice","password":"s3cret-pass"}`,
			setup: func(m mockedServices) {
				m.auth.EXPECT().RegisterUser(gomock.Any(), alice).Return(models.User{}, store.ErrStorageUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "token creation fails",
			body: `{"login":"alice","password":"s3cret-pass"}`,
			setup: func(m mockedServices) {
				m.auth.EXPECT().RegisterUser(gomock.Any(), alice).Return(models.User{UserID: 1}, nil)
				m.auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).Return(models.Token{}, service.ErrTokenCreationFailed)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			tt.setup(m)

			req := withNopLogger(httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(tt.body)))
			rec := serve(h.register, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHeader, rec.Header().Get("Authorization"))
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
		wantBody   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "unknown login", loginErr: store.ErrNoUserWasFound, wantStatus: http.StatusUnauthorized, wantBody: "invalid login/password"},
		{name: "wrong password", loginErr: service.ErrWrongPassword, wantStatus: http.StatusUnauthorized, wantBody: "invalid login/password"},
		{name: "invalid data", loginErr: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest},
		{name: "unexpected", loginErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)

			user := models.User{Login: "bob", Password: "hunter22"}
			if tt.loginErr != nil {
				m.auth.EXPECT().Login(gomock.Any(), user).Return(models.User{}, tt.loginErr)
			} else {
				m.auth.EXPECT().Login(gomock.Any(), user).Return(models.User{UserID: 9, Login: "bob"}, nil)
				m.auth.EXPECT().CreateToken(gomock.Any(), models.User{UserID: 9, Login: "bob"}).
					Return(models.Token{SignedString: "tok"}, nil)
			}

			req := withNopLogger(httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"login":"bob","password":"hunter22"}`)))
			rec := serve(h.login, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.loginErr == nil {
				assert.Equal(t, "Bearer tok", rec.Header().Get("Authorization"))
			} else {
				assert.Empty(t, rec.Header().Get("Authorization"))
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestLogin_EmptyBody(t *testing.T) {
	h, _ := newMockedHandler(t)

	rec := serve(h.login, withNopLogger(httptest.NewRequest(http.MethodPost, "/api/user/login", nil)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
