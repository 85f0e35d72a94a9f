package service

import (
	"context"
	"errors"
	"time"

	"carrental/internal/auth"
	"carrental/internal/clock"
	apperrors "carrental/internal/errors"
	"carrental/internal/repository"
	"carrental/internal/utils"
)

const adminTokenTTL = time.Hour

type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type adminAuthService struct {
	repo   repository.AdminAuthRepository
	secret string
	clock  clock.Clock
}

func NewAdminAuthService(repo repository.AdminAuthRepository, secret string, clk clock.Clock) AdminAuthService {
	return &adminAuthService{repo: repo, secret: secret, clock: clk}
}

func (s *adminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if admin == nil || !checkPasswordHash(password, admin.PasswordHash) {
		return "", apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}
	return auth.IssueToken(s.secret, admin.ID, auth.RoleAdmin, "", admin.Email, adminTokenTTL, s.clock.Now())
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, email, password string) error {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return apperrors.New(apperrors.KindValidation, "email and password cannot be empty")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.CreateAdmin(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.Newf(apperrors.KindConflict, "admin %s already exists", email)
		}
		return err
	}
	return nil
}
