package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// UserService handles user management by admins
type UserService struct {
	userRepo repository.UserRepository
	logger   logrus.FieldLogger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, logger logrus.FieldLogger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers returns a paginated list of users, newest first
func (s *UserService) ListUsers(ctx context.Context, params *repository.ListParams) (*pagination.PaginatedResult[entity.User], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		err = apperror.NewStorageError("list users", err)
		logStorageFailure(s.logger, "UserService", "ListUsers", nil, err)
		return nil, err
	}
	return paginate(users, total, params.Pagination), nil
}

// UpdateUserInput represents the fields an admin may change
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
}

// UpdateUser changes another user's profile, role or active flag. An admin
// cannot demote or deactivate themselves.
func (s *UserService) UpdateUser(ctx context.Context, actorID, userID uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStorageError("load user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	var errs apperror.FieldErrors
	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		switch {
		case role != entity.RoleAdmin && role != entity.RoleUser:
			errs.Add("role", "must be admin or user")
		case actorID == userID && role != entity.RoleAdmin:
			errs.Add("role", "you cannot remove your own admin role")
		default:
			user.Role = role
		}
	}
	if input.IsActive != nil {
		if actorID == userID && !*input.IsActive {
			errs.Add("is_active", "you cannot deactivate your own account")
		} else {
			user.IsActive = *input.IsActive
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}

	return saveUser(ctx, s.userRepo, s.logger, "UserService", "UpdateUser", user)
}
