package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"powermed-api/internal/domain"
	"powermed-api/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 10

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
)

var (
	// ErrInvalidCredentials is returned for a wrong password AND for an
	// unknown email. Collapsing the two prevents account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrAccountInactive          = errors.New("account is inactive")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrPasswordTooShort         = errors.New("new password must be at least 6 characters")
	ErrPasswordUnchanged        = errors.New("new password must be different from current password")
	ErrAdminExists              = errors.New("admin with this email already exists")
)

// AuthService defines the interface for admin authentication.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, admin *domain.Admin, err error)
	Me(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
	CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*domain.Admin, error)
	ResolvePrincipal(ctx context.Context, token string) (*domain.Principal, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	tokens    *TokenIssuer
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(adminRepo repository.AdminRepository, tokens *TokenIssuer) AuthService {
	return &authService{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// HashPassword hashes plaintext with bcrypt. It is an explicit function
// invoked at call sites, not a persistence hook.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares plaintext against a bcrypt hash in constant time.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IsHashed reports whether value already looks like a bcrypt hash. Used to
// keep hashing idempotent: re-persisting an already-hashed value must not
// hash it again.
func IsHashed(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}

// EnsureHashed hashes value unless it already is a bcrypt hash.
func EnsureHashed(value string) (string, error) {
	if IsHashed(value) {
		return value, nil
	}
	return HashPassword(value)
}

// Login authenticates an admin by email and password and issues a bearer
// token. Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if !CheckPassword(admin.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.tokens.Issue(admin.ID, domain.PrincipalAdminAccount)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, admin, nil
}

// Me retrieves the account for an already-authorized principal.
func (s *authService) Me(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return nil, repository.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// ChangePassword re-verifies the current password and persists a fresh
// hash of the new one. The update goes through a path that always
// re-hashes the literal new value, bypassing the skip-if-already-hashed
// guard. Previously issued tokens stay cryptographically valid until their
// natural expiry; the client is expected to discard its token.
func (s *authService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if newPassword == currentPassword {
		return ErrPasswordUnchanged
	}

	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return repository.ErrAdminNotFound
		}
		return fmt.Errorf("failed to get admin: %w", err)
	}

	if !CheckPassword(admin.PasswordHash, currentPassword) {
		return ErrCurrentPasswordIncorrect
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.UpdatePassword(ctx, id, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// CreateAdmin creates an admin account with a derived display name and a
// hashed password. Used by the seed flow and administrative provisioning.
func (s *authService) CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*domain.Admin, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashed, err := EnsureHashed(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	admin := &domain.Admin{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Name:         domain.DisplayName(firstName, lastName),
		Email:        domain.NormalizeEmail(email),
		PasswordHash: hashed,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if err == repository.ErrAdminAlreadyExists {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// ResolvePrincipal turns a bearer token into an authenticated principal:
// verify the token, load the account, reject missing or inactive ones.
// Every failure mode collapses to ErrInvalidToken so the middleware can
// answer with a single generic 401.
func (s *authService) ResolvePrincipal(ctx context.Context, token string) (*domain.Principal, error) {
	id, kind, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !admin.IsActive {
		return nil, ErrInvalidToken
	}

	return &domain.Principal{
		Kind:      kind,
		ID:        admin.ID,
		Name:      admin.Name,
		Email:     admin.Email,
		Role:      "admin",
		IsActive:  admin.IsActive,
		CreatedAt: admin.CreatedAt.Format(time.RFC3339),
	}, nil
}
