package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidRole         = errors.New("invalid user role")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

// Role controls access to administrative operations.
type Role string

// Possible roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered diarist. Besides credentials it owns the profile, the
// active-set pointer and the list of declined monthly sets.
type User struct {
	ID             uuid.UUID         `json:"id"`
	Email          string            `json:"email"`
	Password       string            `json:"-"` // plaintext, only during registration
	HashedPassword string            `json:"-"`
	Role           Role              `json:"role"`
	Profile        Profile           `json:"profile"`
	ActiveSet      *ActiveSetPointer `json:"activeSet,omitempty"`
	OptOuts        OptOutSet         `json:"-"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewUser creates a new User with the given email and password and the
// default profile.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		Role:      RoleUser,
		Profile:   DefaultProfile(),
		OptOuts:   OptOutSet{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		// Stored users carry only the hash.
		return ErrEmptyPassword
	}

	if u.Role != RoleUser && u.Role != RoleAdmin {
		return ErrInvalidRole
	}

	if u.ActiveSet != nil {
		if err := u.ActiveSet.Validate(); err != nil {
			return err
		}
	}

	return u.Profile.Validate()
}

// ValidatePassword checks a plaintext password against the length limits.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < minPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// IsAdmin reports whether the user may edit the question set catalog.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// validateEmailFormat requires a non-empty local part and a dotted domain.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return false
	}

	domainPart := email[at+1:]
	if len(domainPart) < 3 { // "a.b"
		return false
	}

	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && !strings.HasSuffix(domainPart, ".")
}
