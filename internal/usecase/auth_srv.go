package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.SessionResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.SessionResponse, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, token string, req *request.ChangePasswordRequest) error

	// Restore returns the session stored under token, or nil when there is
	// none. The stored user record is returned as-is.
	Restore(ctx context.Context, token string) (*entity.Session, error)

	// EnsureAdmin creates the configured admin account when it is missing.
	EnsureAdmin(ctx context.Context, admin utils.AdminConfig) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.SessionResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Create the account with role USER
	user, err := createUser(ctx, s.repo, s.config.App.BcryptCost, s.now(), userFields{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
		Role:     entity.RoleUser,
	})
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			s.log.Warn("Register with existing email", zap.String("email", req.Email))
		} else {
			s.log.Error("Failed to register user", zap.Error(err), zap.String("email", req.Email))
		}
		return nil, err
	}

	// 3. Log the new user in
	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.SessionResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find user by email
	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 3. Unknown email and wrong password look the same
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 4. Create session
	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	// Unknown or malformed tokens have nothing to revoke
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, token string, req *request.ChangePasswordRequest) error {
	// 1. Resolve the session
	session, err := s.Restore(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}

	// 2. Validate the new password
	if err := validate(req); err != nil {
		return err
	}

	// 3. Check the current password against the stored hash
	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", session.UserID.String()))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrNoActiveSession
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		s.log.Warn("Wrong current password", zap.String("user_id", user.ID.String()))
		return ErrWrongCurrentPassword
	}

	// 4. Store the new hash
	hash, err := utils.HashPassword(req.NewPassword, s.config.App.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActiveSession
		}
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) Restore(ctx context.Context, token string) (*entity.Session, error) {
	tokenUUID, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, nil
	}

	session, err := s.repo.Session.FindValidSession(ctx, tokenUUID)
	if err != nil {
		s.log.Error("Failed to restore session", zap.Error(err))
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return session, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, admin utils.AdminConfig) error {
	if admin.Email == "" {
		return nil
	}

	existing, err := s.repo.User.FindByEmail(ctx, normalizeEmail(admin.Email))
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			s.log.Warn("Bootstrap admin email belongs to a non-admin user",
				zap.String("email", admin.Email),
				zap.String("role", string(existing.Role)))
		}
		return nil
	}

	user, err := createUser(ctx, s.repo, s.config.App.BcryptCost, s.now(), userFields{
		Name:     admin.Name,
		Email:    admin.Email,
		Address:  admin.Address,
		Password: admin.Password,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("Bootstrap admin created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))
	return nil
}

func (s *authService) createSession(ctx context.Context, user *entity.User) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		Token:     uuid.New(),
		UserID:    user.ID,
		User:      user.Profile(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.Session.TTL),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

type userFields struct {
	Name     string
	Email    string
	Address  string
	Password string
	Role     entity.UserRole
}

// createUser hashes the password and inserts the user. Field rules are
// checked by the caller.
func createUser(ctx context.Context, repo *repository.Repository, cost int, now time.Time, f userFields) (*entity.User, error) {
	email := normalizeEmail(f.Email)

	existing, err := repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := utils.HashPassword(f.Password, cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         f.Name,
		Email:        email,
		Address:      f.Address,
		PasswordHash: hash,
		Role:         f.Role,
	}

	if err := repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
