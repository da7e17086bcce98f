// Package identity — учётные записи, пароли, роли и cookie-сессии.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"condo/internal/authz"
	"condo/internal/logs"
	"condo/internal/models"
	"condo/internal/repo"
)

// ErrInvalidCredentials — одна ошибка и для неизвестного email, и для неверного
// пароля: наружу не должно уходить, какое поле не совпало.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Options struct {
	BcryptCost int // 0 — bcrypt.DefaultCost
	Policy     *PasswordPolicy
}

type Service struct {
	accounts repo.Accounts
	cost     int
	policy   PasswordPolicy
	dummy    []byte
}

func NewService(accounts repo.Accounts, opts Options) *Service {
	s := &Service{accounts: accounts, cost: opts.BcryptCost, policy: DefaultPasswordPolicy}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if opts.Policy != nil {
		s.policy = *opts.Policy
	}
	s.dummy, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), s.cost)
	return s
}

// Authenticate проверяет email/пароль и возвращает учётку с её ролями.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, authz.RoleSet, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		// сравнение с фиктивным хэшем, чтобы время ответа не выдавало, есть ли такой email
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	roles, err := s.RolesOf(ctx, acc.ID)
	if err != nil {
		return nil, nil, err
	}
	return acc, roles, nil
}

// RolesOf — роли учётки одним запросом.
func (s *Service) RolesOf(ctx context.Context, accountID string) (authz.RoleSet, error) {
	roles, err := s.accounts.Roles(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return authz.NewRoleSet(roles...), nil
}

func (s *Service) IsInRole(ctx context.Context, accountID string, role models.Role) (bool, error) {
	roles, err := s.RolesOf(ctx, accountID)
	if err != nil {
		return false, err
	}
	return roles.Has(role), nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

func (s *Service) ListAccountsByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	return s.accounts.ListByRole(ctx, role)
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

// Register создаёт учётку с одной ролью из каталога. Ошибки ввода — *models.ValidationError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Account, models.Role, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return nil, "", models.NewValidationError("Fill in all fields.")
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, "", models.NewValidationError(fmt.Sprintf("Role %s does not exist.", strings.TrimSpace(in.Role)))
	}

	var problems []string
	if !govalidator.IsEmail(email) {
		problems = append(problems, fmt.Sprintf("Email '%s' is invalid.", email))
	}
	problems = append(problems, s.policy.Check(in.Password)...)
	if len(problems) > 0 {
		return nil, "", models.NewValidationError(strings.Join(problems, ", "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	acc := &models.Account{Email: email, PasswordHash: hash}
	if err := s.accounts.Create(ctx, acc, role); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, "", models.NewValidationError(fmt.Sprintf("Email '%s' is already taken.", email))
		}
		return nil, "", err
	}
	logs.Logger.WithFields(logrus.Fields{"account": acc.ID, "role": role}).Info("account registered")
	return acc, role, nil
}

// EnsureAdministrator создаёт первого администратора, если в системе нет ни одного.
func (s *Service) EnsureAdministrator(ctx context.Context, email, password string) (created bool, err error) {
	n, err := s.accounts.CountByRole(ctx, models.RoleAdministrator)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, _, err := s.Register(ctx, RegisterInput{Email: email, Password: password, Role: string(models.RoleAdministrator)}); err != nil {
		return false, fmt.Errorf("bootstrap administrator: %w", err)
	}
	return true, nil
}
