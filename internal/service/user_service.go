package service

import (
	"context"
	"fmt"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"
	"ticket-scanner-server/pkg/hash"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const saltLength = 50

type UserService struct {
	repo     repository.UserRepository
	validate *validator.Validate
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
	}
}

// Create provisions an account. Each account gets its own salt, which also
// keys the digests of tokens issued to its devices.
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	salt, err := hash.NewSalt(saltLength)
	if err != nil {
		return nil, err
	}

	permissions := req.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	user := &domain.User{
		ID:          uuid.New().String(),
		Email:       req.Email,
		FirstName:   req.FirstName,
		Surname:     req.Surname,
		Password:    hashedPassword,
		Salt:        salt,
		Permissions: permissions,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}
