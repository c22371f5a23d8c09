package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/models"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"github.com/yukikurage/bugfree-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountInactive      = errors.New("account is not active")
	ErrAlreadyActive        = errors.New("account is already active")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToRecordInvite = errors.New("failed to record invite")
)

// AuthService handles registration, login and invitations.
type AuthService struct {
	userRepo repository.UserRepository
	notifier Notifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, notifier Notifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an active user and sends a welcome email.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := checkLengths(fieldLimit{"name", name, constants.MaxNameLength}); err != nil {
		return nil, err
	}
	email, err := s.normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Lost a race with a concurrent registration of the same address.
		if _, findErr := s.userRepo.FindByEmail(email); findErr == nil {
			return nil, ErrEmailTaken
		}
		return nil, ErrFailedToCreateUser
	}

	s.notifier.Welcome(user)

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Only
// active accounts may log in.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}

// InviteInput describes a person invited to the tracker.
type InviteInput struct {
	Name  string
	Role  string
	Email string
}

// InviteUser pre-creates an inactive account and emails an accept link.
func (s *AuthService) InviteUser(input InviteInput) (*models.User, error) {
	email, err := s.normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	role := strings.TrimSpace(input.Role)
	if err := checkLengths(
		fieldLimit{"name", name, constants.MaxNameLength},
		fieldLimit{"role", role, constants.MaxRoleLength},
	); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:  name,
		Email: email,
	}
	invite := &models.Invite{
		Name:  name,
		Role:  role,
		Email: email,
	}

	if err := s.userRepo.CreateInvited(user, invite); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateUser):
			if _, findErr := s.userRepo.FindByEmail(email); findErr == nil {
				return nil, ErrEmailTaken
			}
			return nil, ErrFailedToCreateUser
		case errors.Is(err, repository.ErrRecordInvite):
			return nil, ErrFailedToRecordInvite
		default:
			return nil, fmt.Errorf("failed to invite user: %w", err)
		}
	}

	s.notifier.Invited(user, role)

	return user, nil
}

// AcceptInviteInput holds the details an invited user submits.
type AcceptInviteInput struct {
	Email    string
	Name     string
	Password string
}

// AcceptInvite activates the invited account registered for the email. A
// blank name keeps the invited name; a blank password keeps the current
// one. Active accounts are rejected so the call cannot reset credentials.
func (s *AuthService) AcceptInvite(input AcceptInviteInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsActive {
		return nil, ErrAlreadyActive
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if err := checkLengths(fieldLimit{"name", name, constants.MaxNameLength}); err != nil {
			return nil, err
		}
		user.Name = name
	}

	if input.Password != "" {
		if len(input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Activate(user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	return user, nil
}

// ListActiveUsers lists users who can log in and be assigned tickets.
func (s *AuthService) ListActiveUsers() ([]models.User, error) {
	users, err := s.userRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) normalizeEmail(raw string) (string, error) {
	email := utils.NormalizeEmail(raw)
	if !utils.IsValidEmail(email) {
		return "", ErrInvalidEmail
	}
	if err := checkLengths(fieldLimit{"email", email, constants.MaxNameLength}); err != nil {
		return "", err
	}
	return email, nil
}

func (s *AuthService) ensureEmailFree(email string) error {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}
