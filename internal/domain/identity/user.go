package identity

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role controls which back office areas a user can reach
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Password cost for bcrypt
const bcryptCost = 12

// Login throttling
const (
	MaxFailedAttempts = 5
	LockDuration      = 15 * time.Minute
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetter     = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber     = regexp.MustCompile(`[0-9]`)
)

// User is a back office account
type User struct {
	shared.BaseEntity
	Username            string `gorm:"type:varchar(100);not null;uniqueIndex"`
	DisplayName         string `gorm:"type:varchar(200)"`
	PasswordHash        string `gorm:"type:varchar(255);not null"`
	Role                Role   `gorm:"type:varchar(16);not null;default:'cashier'"`
	IsActive            bool   `gorm:"not null"`
	FailedLoginAttempts int    `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(username, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewInvalidInputError("Role must be admin or cashier")
	}

	u := &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   strings.ToLower(strings.TrimSpace(username)),
		Role:       role,
		IsActive:   true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// SetDisplayName sets the name shown on receipts
func (u *User) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		return shared.NewInvalidInputError("Display name cannot exceed 200 characters")
	}
	u.DisplayName = name
	u.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLocked reports whether the account is inside a lockout window
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin returns true if user can login
func (u *User) CanLogin(now time.Time) bool {
	return u.IsActive && !u.IsLocked(now)
}

// RecordLoginSuccess resets the failure counter
func (u *User) RecordLoginSuccess(now time.Time) {
	u.LastLoginAt = &now
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
}

// RecordLoginFailure counts a failed attempt.
// Returns true if the account was locked by this failure.
func (u *User) RecordLoginFailure(now time.Time) bool {
	u.FailedLoginAttempts++
	u.UpdatedAt = now
	if u.FailedLoginAttempts >= MaxFailedAttempts {
		until := now.Add(LockDuration)
		u.LockedUntil = &until
		u.FailedLoginAttempts = 0
		return true
	}
	return false
}

// GetDisplayNameOrUsername returns display name if set, otherwise username
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewInvalidInputError("Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewInvalidInputError("Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewInvalidInputError("Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewInvalidInputError("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewInvalidInputError("Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewInvalidInputError("Password must contain at least one letter and one number")
	}
	return nil
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *User) error
}
