package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	users repo_interfaces.UserRepository
}

func NewUserService(users repo_interfaces.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) CreateUser(ctx context.Context, request models.CreateUserRequest) (commons.Response[models.CreateUserResponse], error) {
	logger.Info("user service create user request", logger.Fields{"payload": logger.SanitizePayload(request)})

	if err := request.Validate(); err != nil {
		logger.Error("user service create user validation failed", err, nil)
		return validationResponse[models.CreateUserResponse](err), err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("user service password hashing failed", err, nil)
		return failureResponse[models.CreateUserResponse]("Unable to create user", err), err
	}

	created, err := s.users.Create(ctx, domain.User{
		Email:        strings.ToLower(strings.TrimSpace(request.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(request.FirstName),
		LastName:     strings.TrimSpace(request.LastName),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			logger.Error("user service email already registered", err, nil)
			return commons.ErrorResponse[models.CreateUserResponse]("Email already registered"), err
		}
		logger.Error("user service create user failed", err, nil)
		return failureResponse[models.CreateUserResponse]("Unable to create user", err), err
	}

	logger.Info("user service user created", logger.Fields{"userId": created.ID})
	response := models.CreateUserResponse{
		ID:        created.ID,
		Email:     created.Email,
		FirstName: created.FirstName,
		LastName:  created.LastName,
	}
	return commons.SuccessResponse("User created", response), nil
}

// Authenticate verifies credentials and returns the matching user. The
// error is the same for an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.User{}, errInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, errInvalidCredentials
	}
	return user, nil
}
