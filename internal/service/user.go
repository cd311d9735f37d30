package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TheRmarkable/Common-Component-Backend/internal/config"
	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type userRepository interface {
	CreateUser(user *domain.User) error
	User(id string) (*domain.User, error)
	UserByEmail(email string) (*domain.User, error)
	SetUserVerified(id string) error
	LinkAccount(id, accountID string) error
}

type accountCreator interface {
	Create(ctx context.Context, userID string) (*domain.Account, error)
}

type UserService struct {
	config   *config.Config
	repo     userRepository
	accounts accountCreator
}

func NewUserService(repo userRepository, accounts accountCreator, config *config.Config) *UserService {
	return &UserService{
		config:   config,
		repo:     repo,
		accounts: accounts,
	}
}

type RegisterInput struct {
	IdentityNumber string
	Name           string
	Surname        string
	Email          string
	Role           domain.Role
	MobileNumber   string
	Password       string
}

// Register creates the user together with their ledger account and returns
// the user and a signed token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), 14)
	if err != nil {
		logger.Log.Warn("error while hashing password")
		return nil, "", fmt.Errorf("error while hashing password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStandardUser
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		IdentityNumber: input.IdentityNumber,
		Name:           input.Name,
		Surname:        input.Surname,
		Email:          input.Email,
		Role:           role,
		MobileNumber:   input.MobileNumber,
		PasswordHash:   string(hashedPassword),
		RegisteredAt:   time.Now().UTC(),
	}

	if err = s.repo.CreateUser(user); err != nil {
		return nil, "", err
	}

	account, err := s.accounts.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	if err = s.repo.LinkAccount(user.ID, account.ID); err != nil {
		return nil, "", err
	}
	user.AccountID = account.ID

	token, err := generateJWTToken(user.ID, user.Role, s.config.PrivateKey)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *UserService) Login(email, password string) (string, error) {
	user, err := s.repo.UserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectCredentials) {
			logger.Log.Warn("incorrect login", logger.String("email", email))
		}
		return "", err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		logger.Log.Warn("incorrect password", logger.String("email", email))
		return "", domain.ErrIncorrectCredentials
	}

	return generateJWTToken(user.ID, user.Role, s.config.PrivateKey)
}

// Verify marks a user as identity-verified. Finance users only.
func (s *UserService) Verify(userID string, principal domain.Principal) (*domain.User, error) {
	if !Allow(OpVerifyUser, principal, userID) {
		return nil, domain.ErrPermissionDenied
	}

	if err := s.repo.SetUserVerified(userID); err != nil {
		return nil, err
	}

	return s.repo.User(userID)
}

func (s *UserService) User(id string) (*domain.User, error) {
	return s.repo.User(id)
}

func generateJWTToken(userID string, role domain.Role, privateKey string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(privateKey))
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return signedToken, nil
}
