package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"golang.org/x/crypto/bcrypt"
)

const msgEmailTaken = "user with this email already exists."

// idGenerator produces token ids and file names.
type idGenerator interface {
	Generate() string
}

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and the bearer
// token lifecycle. Passwords are stored as bcrypt hashes; a token is valid
// only while its id is the one stored for the user.
type authService struct {
	userRepository  store.UserRepository
	tokenRepository store.TokenRepository

	// tokenCache sits in front of tokenRepository on every authenticated
	// request.
	tokenCache store.TokenCache

	validator validators.Validator
	ids       idGenerator
	metrics   MetricsRecorder

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	// Zero issues tokens without an expiry.
	tokenDuration time.Duration

	hashCost int

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with security
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(storages *store.Storages, v validators.Validator, cfg config.App, metrics MetricsRecorder, logger *logger.Logger) AuthService {
	if metrics == nil {
		metrics = nopRecorder{}
	}

	tokenCache := storages.TokenCache
	if tokenCache == nil {
		tokenCache = store.NewNoopTokenCache()
	}

	return &authService{
		userRepository:  storages.UserRepository,
		tokenRepository: storages.TokenRepository,
		tokenCache:      tokenCache,
		validator:       v,
		ids:             utils.NewUUIDGenerator(),
		metrics:         metrics,
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		tokenDuration:   cfg.TokenDuration,
		hashCost:        cfg.PasswordHashCost,
		logger:          logger,
	}
}

// RegisterUser creates a new active user account.
//
// The email domain is lower-cased before the lookup and the password is
// stored as a bcrypt hash. Invalid input and an already registered email are
// reported as [validators.FieldErrors]; the latter also matches
// [store.ErrEmailAlreadyExists].
func (a *authService) RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return a.createUser(ctx, req, false)
}

func (a *authService) createUser(ctx context.Context, req models.RegisterRequest, superuser bool) (models.User, error) {
	log := logger.FromContext(ctx)

	req.Email = utils.NormalizeEmail(req.Email)
	if err := a.validator.Validate(ctx, req); err != nil {
		log.Warn().Err(err).Str("func", "*authService.createUser").Msg("invalid registration data")
		return models.User{}, err
	}

	hash, err := hashPassword(req.Password, a.hashCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:       req.Email,
		Name:        req.Name,
		Password:    hash,
		IsActive:    true,
		IsStaff:     superuser,
		IsSuperuser: superuser,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, fmt.Errorf("%w: %w", validators.NewFieldError("email", msgEmailTaken), err)
		}
		log.Err(err).Str("func", "*authService.createUser").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user by email and password.
//
// Returns the authenticated user record or:
//   - a [validators.FieldErrors] when email or password is blank.
//   - [ErrInvalidCredentials] when the email is unknown, the password does
//     not match or the account is inactive.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Info().Msg("login attempt for unknown email")
			return models.User{}, ErrInvalidCredentials
		}
		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(req.Password)); err != nil {
		log.Info().Int64("id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}

	if !foundUser.IsActive {
		log.Info().Int64("id", foundUser.UserID).Msg("login attempt for inactive user")
		return models.User{}, ErrInvalidCredentials
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user and makes its id the
// user's only valid token id, so any token issued earlier stops working.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.ids.Generate(), a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	if err = a.tokenRepository.SaveToken(ctx, user.UserID, token.Key()); err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	if err = a.tokenCache.SetTokenKey(ctx, user.UserID, token.Key()); err != nil {
		log.Warn().Err(err).Int64("id", user.UserID).Msg("token cache refresh failed")
		// a stale entry would keep the previous token alive
		if err = a.tokenCache.DeleteTokenKey(ctx, user.UserID); err != nil {
			log.Err(err).Int64("id", user.UserID).Msg("token cache eviction failed")
		}
	}

	return token, nil
}

// ParseToken validates a raw JWT string and checks that its id is still the
// user's current token id.
//
// Any validation failure (expired, wrong issuer, malformed, replaced) is
// normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors. Storage failures are returned wrapped.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)
	}

	currentKey, err := a.currentTokenKey(ctx, token.UserID)
	if err != nil {
		return models.Token{}, err
	}

	if currentKey != token.Key() {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// currentTokenKey reads the user's token id from the cache, falling back to
// the database and refilling the cache on a miss. The refill never overwrites
// an entry, so a concurrent reissue cannot be rolled back to the older key.
func (a *authService) currentTokenKey(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContext(ctx)

	key, err := a.tokenCache.GetTokenKey(ctx, userID)
	switch {
	case err == nil:
		a.metrics.ObserveTokenCache("hit")
		return key, nil
	case errors.Is(err, store.ErrCacheMiss):
		a.metrics.ObserveTokenCache("miss")
	default:
		a.metrics.ObserveTokenCache("error")
		log.Warn().Err(err).Int64("id", userID).Msg("token cache lookup failed")
	}

	key, err = a.tokenRepository.FindTokenKey(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return "", ErrTokenIsExpiredOrInvalid
		}
		return "", fmt.Errorf("token lookup failed: %w", err)
	}

	// a key cached meanwhile by CreateToken is newer than the one read here
	stored, err := a.tokenCache.AddTokenKey(ctx, userID, key)
	if err != nil {
		log.Warn().Err(err).Int64("id", userID).Msg("token cache refill failed")
		return key, nil
	}
	if stored {
		return key, nil
	}

	newer, err := a.tokenCache.GetTokenKey(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("id", userID).Msg("token cache re-read failed")
		return key, nil
	}

	return newer, nil
}

// hashPassword returns the bcrypt hash of password. Passwords bcrypt cannot
// hash are reported as a field error.
func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", validators.NewFieldError("password", "Ensure this field has no more than 72 bytes.")
		}
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hash), nil
}
