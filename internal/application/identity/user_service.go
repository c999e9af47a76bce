package identity

import (
	"context"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns all users ordered by username
func (s *UserService) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = ToUserDTO(&users[i])
	}
	return out, nil
}

// Create adds a back office account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	user, err := identity.NewUser(req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(req.DisplayName); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username already exists")
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	dto := ToUserDTO(user)
	return &dto, nil
}

// EnsureBootstrapAdmin creates the first admin when no users exist.
// It returns true when an account was created.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin, err := identity.NewUser(username, password, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return false, err
	}
	s.logger.Warn("Created bootstrap admin account; change its password",
		zap.String("username", admin.Username))
	return true, nil
}
