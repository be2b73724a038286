package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rentals/internal/apperr"
	"rentals/internal/model"
	"rentals/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     *string `json:"role,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload is returned by register and login
type AuthPayload struct {
	Token string
	User  *model.User
}

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	Issue(userID uuid.UUID, email, role string) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthPayload, error)
	Login(ctx context.Context, in LoginInput) (*AuthPayload, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	txManager repository.TransactionManager
	repo      repository.UserRepository
	auditRepo repository.AuditRepository
	tokens    TokenIssuer
}

func NewAuthService(txManager repository.TransactionManager, repo repository.UserRepository, auditRepo repository.AuditRepository, tokens TokenIssuer) AuthService {
	return &authService{txManager: txManager, repo: repo, auditRepo: auditRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthPayload, error) {
	email := normalizeEmail(in.Email)
	if err := requireFields("email", email, "password", in.Password, "name", in.Name); err != nil {
		return nil, err
	}
	if !emailRegex.MatchString(email) {
		return nil, apperr.Violation("invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Violation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	role := model.RoleUser
	if in.Role != nil && strings.TrimSpace(*in.Role) != "" {
		role = strings.TrimSpace(*in.Role)
		if err := validateOneOf("role", role, validRoles, model.RoleAdmin, model.RoleUser); err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Name:     strings.TrimSpace(in.Name),
		Role:     role,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByEmail(txCtx, email); err == nil {
			return apperr.Conflict("email already registered", nil)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dbError(err, "user")
		}

		if err := s.repo.Create(txCtx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("email already registered", err)
			}
			return dbError(err, "user")
		}
		return recordAudit(txCtx, s.auditRepo, user.ID, model.ActionRegisterUser, user.ID.String(), user.Email, map[string]string{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if err != nil {
		return nil, dbError(err, "user")
	}

	return s.issue(user)
}

// Login answers unknown emails and wrong passwords with the same error.
func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthPayload, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, dbError(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbError(err, "user")
	}
	return user, nil
}

func (s *authService) issue(user *model.User) (*AuthPayload, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return &AuthPayload{Token: token, User: user}, nil
}
