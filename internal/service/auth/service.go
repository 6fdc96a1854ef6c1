package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	"github.com/jwalitptl/portal-api/pkg/auth"
	apperrors "github.com/jwalitptl/portal-api/pkg/errors"
)

const bcryptCost = 12

// Service issues and verifies portal credentials and gates roles.
type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
	}
}

// IssueCredential signs a token for an existing user. An unknown email gets
// Unauthorized and an empty token, never a hint about which emails exist
// beyond that.
func (s *Service) IssueCredential(ctx context.Context, email string) (*model.TokenResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.jwtSvc.GenerateToken(email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: token}, nil
}

// VerifyCredential validates signature and expiry and returns the identity.
func (s *Service) VerifyCredential(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return &model.Identity{Email: claims.Email}, nil
}

// RequireRole checks the stored role of an already-authenticated identity.
// It must only run after VerifyCredential; it adds authorization, not
// authentication.
func (s *Service) RequireRole(ctx context.Context, identity *model.Identity, role string) error {
	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Forbidden("forbidden access", err)
		}
		return apperrors.Internal(err)
	}

	if role == model.RoleAdmin && !user.IsAdmin() {
		return apperrors.Forbidden("forbidden access", nil)
	}
	return nil
}

// HashPassword hashes an optional registration password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
