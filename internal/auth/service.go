package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/config"
	"github.com/goldendragon/restaurant/pkg/logger"
	"github.com/goldendragon/restaurant/pkg/middleware"
)

// UserRepository defines the data access interface for users
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
}

// Service implements authentication business logic
type Service struct {
	repo   UserRepository
	jwtCfg config.JWTConfig
	roles  config.RolesConfig
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(repo UserRepository, jwtCfg config.JWTConfig, roles config.RolesConfig) *Service {
	return &Service{repo: repo, jwtCfg: jwtCfg, roles: roles, now: time.Now}
}

// Register creates an account. Everyone starts as a customer; configured
// staff emails are then promoted. A failed promotion is logged but never
// fails the registration itself.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to check email", zap.Error(err))
		return nil, common.NewInternalServerError("failed to register")
	}
	if exists {
		return nil, common.NewConflictError("email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalServerError("failed to register")
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         RoleCustomer,
		IsActive:     true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		logger.WithContext(ctx).Error("Failed to create user", zap.Error(err))
		return nil, common.NewInternalServerError("failed to register")
	}

	if role := s.bootstrapRole(email); role != RoleCustomer {
		if err := s.repo.UpdateRole(ctx, user.ID, role); err != nil {
			logger.WithContext(ctx).Warn("Failed to promote staff account, keeping customer role",
				zap.String("user_id", user.ID.String()),
				zap.String("role", role),
				zap.Error(err))
		} else {
			user.Role = role
		}
	}

	logger.WithContext(ctx).Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role))

	return s.issueToken(user)
}

// Login authenticates an account and issues a token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	if !user.IsActive {
		return nil, common.NewForbiddenError("account is disabled")
	}

	return s.issueToken(user)
}

// GetUser returns the account behind a token subject
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, common.NewNotFoundError("user not found", err)
	}
	return user, nil
}

// bootstrapRole maps configured staff emails to their role.
func (s *Service) bootstrapRole(email string) string {
	for _, host := range s.roles.HostEmails {
		if strings.EqualFold(email, host) {
			return RoleHost
		}
	}
	for _, maint := range s.roles.MaintenanceEmails {
		if strings.EqualFold(email, maint) {
			return RoleMaintenance
		}
	}
	return RoleCustomer
}

func (s *Service) issueToken(user *User) (*AuthResponse, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.jwtCfg.Expiration) * time.Hour)

	claims := middleware.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, common.NewInternalServerError("failed to issue token")
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
