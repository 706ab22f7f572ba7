package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/validators"
	"github.com/MKhiriev/go-vault-sync/models"
	"golang.org/x/crypto/bcrypt"
)

// tokenParams are the JWT settings shared by CreateToken and ParseToken.
type tokenParams struct {
	signKey string
	issuer  string
	ttl     time.Duration
}

// authService keeps accounts and issues tokens. The password received from
// a client is already a derived secret; only its bcrypt hash is stored.
type authService struct {
	users      store.UserRepository
	validator  validators.Validator
	bcryptCost int
	jwt        tokenParams
	logger     *logger.Logger
}

func NewAuthService(users store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		users:      users,
		validator:  validators.NewSyncValidator(),
		bcryptCost: bcrypt.DefaultCost,
		jwt: tokenParams{
			signKey: cfg.TokenSignKey,
			issuer:  cfg.TokenIssuer,
			ttl:     cfg.TokenDuration,
		},
		logger: logger,
	}
}

// RegisterUser stores a new account. Invalid input yields
// ErrInvalidDataProvided; a taken login surfaces store.ErrLoginAlreadyExists.
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, user); err != nil {
		log.Err(err).Str("login", user.Login).Msg("invalid user data provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), a.bcryptCost)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	user.PasswordHash = string(hash)
	user.Password = ""

	created, err := a.users.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("could not create user")
		return models.User{}, fmt.Errorf("creating user %q: %w", user.Login, err)
	}

	return created, nil
}

// Login checks the password against the stored hash. Unknown logins come
// back wrapping store.ErrNoUserWasFound, bad passwords as ErrWrongPassword.
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, user); err != nil {
		log.Err(err).Str("login", user.Login).Msg("invalid user data provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	foundUser, err := a.users.FindUserByLogin(ctx, user.Login)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("could not look up user")
		return models.User{}, fmt.Errorf("looking up user %q: %w", user.Login, err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(user.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		log.Warn().Int64("user_id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}
	if err != nil {
		log.Err(err).Int64("user_id", foundUser.UserID).Msg("stored password hash is unusable")
		return models.User{}, fmt.Errorf("%w: %w", ErrWrongPassword, err)
	}

	foundUser.PasswordHash = ""
	return foundUser, nil
}

func (a *authService) CreateToken(_ context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.jwt.issuer, user.UserID, a.jwt.ttl, a.jwt.signKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}
	return token, nil
}

// ParseToken validates a raw JWT string. Any validation failure (expired,
// wrong issuer, malformed) is reported as ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.jwt.signKey, a.jwt.issuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	return token, nil
}
