package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsboard/deptask/internal/auth"
	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/repository"
)

// AuthService implements login and account provisioning.
type AuthService struct {
	userRepo *repository.UserRepository
	secret   []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo *repository.UserRepository, secret []byte) *AuthService {
	return &AuthService{userRepo: userRepo, secret: secret}
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var violations []string
	if email == "" {
		violations = append(violations, "Email is required")
	}
	if password == "" {
		violations = append(violations, "Password is required")
	}
	if len(violations) > 0 {
		return "", nil, &domain.ValidationError{Violations: violations}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, domain.ErrUserInactive
	}

	token, err := auth.IssueToken(user, s.secret, time.Now())
	if err != nil {
		return "", nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return token, user, nil
}

// CreateUserParams holds the inputs for account provisioning, used by the
// create-user CLI command.
type CreateUserParams struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
}

// CreateUser provisions an account with a bcrypt password hash.
func (s *AuthService) CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	var violations []string
	if params.Name == "" {
		violations = append(violations, "Name is required")
	}
	if params.Email == "" {
		violations = append(violations, "Email is required")
	}
	if len(params.Password) < 8 {
		violations = append(violations, "Password must be at least 8 characters")
	}
	if !params.Role.IsValid() {
		violations = append(violations, "Role must be one of EMPLOYEE, HOD, DIRECTOR")
	}
	if params.Department == "" && params.Role != domain.RoleDirector {
		violations = append(violations, "Department is required for non-Director roles")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         params.Role,
		Department:   params.Department,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID, "role", user.Role, "department", user.Department)

	return user, nil
}
