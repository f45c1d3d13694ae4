package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt refuses inputs longer than 72 bytes.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	repo Repository
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// Register creates a user with a bcrypt hash of password.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate returns the user owning email if password matches. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
