package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	authService "github.com/jwalitptl/portal-api/internal/service/auth"
	apperrors "github.com/jwalitptl/portal-api/pkg/errors"
)

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a patient account. Registration is idempotent per email;
// re-registering an existing address is acknowledged without error.
func (s *Service) Register(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	user := &model.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  model.RolePatient,
	}

	if req.Password != "" {
		hash, err := authService.HashPassword(req.Password)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

// IsAdmin reports whether the email belongs to an admin account. Unknown
// emails are plain non-admins, not errors; the endpoint is public.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.Internal(err)
	}
	return user.IsAdmin(), nil
}

// Promote elevates the target account to admin.
func (s *Service) Promote(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperrors.BadRequest("invalid user ID", err)
	}

	if err := s.repo.PromoteToAdmin(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
