package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"carrental/internal/auth"
	"carrental/internal/clock"
	"carrental/internal/db"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/repository"
	"carrental/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

const userTokenTTL = 24 * time.Hour

var e164 = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

type UserService struct {
	Repo   repository.UserStore
	secret string
	clock  clock.Clock
}

func NewUserService(repo repository.UserStore, jwtSecret string, clk clock.Clock) *UserService {
	return &UserService{Repo: repo, secret: jwtSecret, clock: clk}
}

// Register stores a new user with a bcrypt hash of the password.
func (s *UserService) Register(ctx context.Context, req entities.RegisterRequest) (*db.User, error) {
	username := utils.NormalizeUsername(req.Username)
	phone := strings.TrimSpace(req.Phone)
	switch {
	case len(username) < 3:
		return nil, apperrors.New(apperrors.KindValidation, "username must be at least 3 characters")
	case len(req.Password) < 6:
		return nil, apperrors.New(apperrors.KindValidation, "password must be at least 6 characters")
	case phone != "" && !e164.MatchString(phone):
		return nil, apperrors.New(apperrors.KindValidation, "phone must be in E.164 format")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &db.User{
		Username:     username,
		PasswordHash: hash,
		Email:        utils.NormalizeEmail(req.Email),
		Phone:        phone,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Newf(apperrors.KindConflict, "username %s is taken", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	user, err := s.Repo.GetByUsername(ctx, utils.NormalizeUsername(req.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}
	token, err := auth.IssueToken(s.secret, user.ID, auth.RoleUser, user.Username, user.Email, userTokenTTL, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &entities.LoginResponse{User: entities.NewUserResponse(*user), Token: token}, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]db.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*db.User, error) {
	user, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "user %d not found", id)
	}
	return user, nil
}

// Delete removes the user together with their reservations.
func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.Repo.Delete(ctx, id)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
