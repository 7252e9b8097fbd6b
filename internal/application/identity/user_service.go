package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/identity"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// UserService handles operator account management
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Create creates an operator account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if existing, err := s.users.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.Password, identity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(req.DisplayName); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	response := ToUserResponse(user)
	return &response, nil
}

// EnsureAdmin creates the bootstrap admin account when no users exist yet
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin, err := identity.NewUser(username, password, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("Bootstrap admin created", zap.String("username", admin.Username))
	return nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	users, total, err := s.users.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates profile fields and role
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.SetRole(identity.UserRole(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ResetPassword sets a new password without the old one (admin reset)
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// Activate reactivates an account and clears any lock
func (s *UserService) Activate(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, userID, (*identity.User).Activate)
}

// Deactivate disables an account
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, userID, (*identity.User).Deactivate)
}

// Unlock releases a login lock before it expires
func (s *UserService) Unlock(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, userID, (*identity.User).Unlock)
}

func (s *UserService) transition(ctx context.Context, userID uuid.UUID, fn func(*identity.User) error) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes an account. Deactivated accounts only.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Status != identity.UserStatusDeactivated {
		return shared.ErrInvalidState.WithMessage("only deactivated users can be deleted")
	}

	return s.users.Delete(ctx, userID)
}
