package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"nativore/internal/cache"
	"nativore/internal/middleware"
	"nativore/internal/models"
	"nativore/internal/repository"
	"nativore/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs bearer tokens for accounts.
type TokenIssuer interface {
	Issue(userID uint, username string) (string, *middleware.TokenClaims, error)
}

type UserService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hashCost int
	now      func() time.Time
}

type SignupInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	FullName string `json:"full_name" form:"full_name"`
}

// LoginInput identifies the account by username, or by email when the
// identifier contains "@".
type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AuthResult is returned by signup, login and refresh.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// WithHashCost overrides the bcrypt cost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	for _, err := range []error{
		validation.ValidateUsername(in.Username),
		validation.ValidateEmail(in.Email),
		validation.ValidatePassword(in.Password),
		validation.ValidateFullName(in.FullName),
	} {
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}
	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		FullName: in.FullName,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "account created", slog.Uint64("user_id", uint64(user.ID)))
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(in.Username)
	if identifier == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, models.NewUnauthorizedError("Account is disabled")
	}

	return s.issue(user)
}

// Refresh issues a new token for user and revokes the presented one.
func (s *UserService) Refresh(ctx context.Context, user *models.User, current *middleware.TokenClaims) (*AuthResult, error) {
	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, current)
	return res, nil
}

// Logout revokes the presented token.
func (s *UserService) Logout(ctx context.Context, current *middleware.TokenClaims) {
	s.revoke(ctx, current)
}

// DeleteAccount removes the account and, through the foreign key, its reviews.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, current *middleware.TokenClaims) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	s.revoke(ctx, current)
	invalidateAnalytics(ctx)
	middleware.Logger.InfoContext(ctx, "account deleted", slog.Uint64("user_id", uint64(userID)))
	return nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt,
		User:        user,
	}, nil
}

// revoke blacklists the token until its natural expiry. Without Redis the
// token stays valid until it expires.
func (s *UserService) revoke(ctx context.Context, claims *middleware.TokenClaims) {
	if claims == nil || claims.JTI == "" {
		return
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := cache.RevokeToken(ctx, claims.JTI, ttl); err != nil {
		if errors.Is(err, cache.ErrNoRedis) {
			middleware.Logger.WarnContext(ctx, "token not revoked", slog.String("reason", err.Error()))
			return
		}
		middleware.Logger.ErrorContext(ctx, "token revocation failed", slog.String("error", err.Error()))
	}
}
