package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/repository"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthFlow handles account creation, sign-in and session teardown
type AuthFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, caller dto.Caller) error
	Me(ctx context.Context, caller dto.Caller) (*dto.UserDTO, error)
	Authenticate(ctx context.Context, token string) (*dto.Caller, error)
}

// AuthFlowImpl implements AuthFlow
type AuthFlowImpl struct {
	userRepo     repository.UserRepository
	tx           repository.TxRunner
	tokenService services.TokenService
	cache        services.SessionCache
	allowList    AllowList
	bcryptCost   int
}

func NewAuthFlow(
	userRepo repository.UserRepository,
	tx repository.TxRunner,
	tokenService services.TokenService,
	cache services.SessionCache,
	allowList AllowList,
	bcryptCost int,
) AuthFlow {
	if tx == nil {
		tx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	if cache == nil {
		cache = services.NoopSessionCache{}
	}
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthFlowImpl{
		userRepo:     userRepo,
		tx:           tx,
		tokenService: tokenService,
		cache:        cache,
		allowList:    allowList,
		bcryptCost:   bcryptCost,
	}
}

// Signup creates a user and signs them in
func (f *AuthFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	displayName := utils.SanitizeText(req.DisplayName)
	if displayName == "" {
		return nil, validationError("display_name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), f.bcryptCost)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	now := utils.UTCNow()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  &now,
	}
	// the email check and the insert share one transaction
	err = f.tx(ctx, func(txCtx context.Context) error {
		exists, err := f.userRepo.Exists(txCtx, models.UserFilter{Email: &email})
		if err != nil {
			return NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
		}
		if exists {
			return NewBusinessError("EMAIL_EXISTS", "Email already exists", ErrEmailAlreadyExists)
		}
		if err := f.userRepo.Save(txCtx, user); err != nil {
			return NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := AsBusinessError(err); ok {
			return nil, err
		}
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	logger.FromContext(ctx).Info("user signed up", zap.String("user_id", user.ID))

	return f.issue(user)
}

// Login verifies credentials; unknown email and wrong password are indistinguishable
func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrInvalidCredentials)
	}

	now := utils.UTCNow()
	if err := f.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.FromContext(ctx).Warn("failed to stamp last login", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	return f.issue(user)
}

// Refresh rotates a refresh token into a new pair
func (f *AuthFlowImpl) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	pair, err := f.tokenService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("INVALID_REFRESH_TOKEN", "Invalid refresh token", errors.Join(ErrUnauthenticated, err))
	}

	claims, err := f.tokenService.ValidateToken(ctx, pair.AccessToken)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", err)
	}

	user, err := f.userRepo.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", errors.Join(ErrUnauthenticated, ErrUserNotFound))
	}

	return f.response(user, pair), nil
}

// Logout revokes the presented access token and drops the caller's cached views
func (f *AuthFlowImpl) Logout(ctx context.Context, caller dto.Caller) error {
	if err := f.tokenService.RevokeToken(ctx, caller.Token); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if err := f.cache.InvalidateUser(ctx, caller.UserID); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate session cache", zap.String("user_id", caller.UserID), zap.Error(err))
	}
	return nil
}

func (f *AuthFlowImpl) Me(ctx context.Context, caller dto.Caller) (*dto.UserDTO, error) {
	user, err := f.userRepo.ByID(ctx, caller.UserID)
	if err != nil {
		return nil, NewBusinessError("USER_LOAD_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", errors.Join(ErrUnauthenticated, ErrUserNotFound))
	}
	out := ToUserDTO(user, f.allowList.Permits(user.ID, user.Email))
	return &out, nil
}

// Authenticate verifies an access token and returns the caller identity
func (f *AuthFlowImpl) Authenticate(ctx context.Context, token string) (*dto.Caller, error) {
	if strings.TrimSpace(token) == "" {
		return nil, NewBusinessError("MISSING_ACCESS_TOKEN", "Access token is required", ErrUnauthenticated)
	}

	claims, err := f.tokenService.ValidateToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			return nil, NewBusinessError("TOKEN_EXPIRED", "Access token has expired", errors.Join(ErrUnauthenticated, err))
		case errors.Is(err, services.ErrTokenRevoked):
			return nil, NewBusinessError("TOKEN_REVOKED", "Access token has been revoked", errors.Join(ErrUnauthenticated, err))
		case errors.Is(err, services.ErrTokenInvalid):
			return nil, NewBusinessError("TOKEN_INVALID", "Invalid access token", errors.Join(ErrUnauthenticated, err))
		default:
			return nil, NewBusinessError("TOKEN_VALIDATION_FAILED", "Token validation failed", err)
		}
	}
	if claims.TokenType != services.TokenTypeAccess {
		return nil, NewBusinessError("TOKEN_INVALID", "Invalid access token", ErrUnauthenticated)
	}

	return &dto.Caller{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.TokenID,
		Token:   token,
	}, nil
}

func (f *AuthFlowImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	pair, err := f.tokenService.GenerateTokens(user.ID, user.Email)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}
	return f.response(user, pair), nil
}

func (f *AuthFlowImpl) response(user *models.User, pair *services.TokenPair) *dto.AuthResponse {
	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(f.tokenService.AccessTokenTTL().Seconds()),
		ExpiresAt:    pair.ExpiresAt,
		User:         ToUserDTO(user, f.allowList.Permits(user.ID, user.Email)),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
