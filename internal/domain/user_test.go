package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	validEmail := "teacher@example.com"
	validPassword := "password123"

	user, err := NewUser("  Teacher@Example.com ", validPassword)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != validEmail {
		t.Errorf("Expected email %s, got %s", validEmail, user.Email)
	}

	if user.Role != RoleUser {
		t.Errorf("Expected role %s, got %s", RoleUser, user.Role)
	}

	if user.Profile.ReminderTime != DefaultReminderTime {
		t.Errorf("Expected default reminder time, got %q", user.Profile.ReminderTime)
	}

	if user.ActiveSet != nil {
		t.Error("Expected no active set for a new user")
	}

	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Invalid email
	if _, err = NewUser("", validPassword); err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	if _, err = NewUser("invalidemail", validPassword); err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Invalid password
	if _, err = NewUser(validEmail, ""); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}

	if _, err = NewUser(validEmail, "short"); err != ErrPasswordTooShort {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}
}

func TestUserValidate(t *testing.T) {
	validUser := User{
		ID:             uuid.New(),
		Email:          "teacher@example.com",
		HashedPassword: "hashedpassword123",
		Role:           RoleAdmin,
		Profile:        DefaultProfile(),
	}

	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	invalidUser = validUser
	invalidUser.Email = ""
	if err := invalidUser.Validate(); err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	invalidUser = validUser
	invalidUser.HashedPassword = ""
	if err := invalidUser.Validate(); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}

	invalidUser = validUser
	invalidUser.Role = "owner"
	if err := invalidUser.Validate(); err != ErrInvalidRole {
		t.Errorf("Expected error %v, got %v", ErrInvalidRole, err)
	}

	invalidUser = validUser
	invalidUser.ActiveSet = &ActiveSetPointer{SetID: uuid.New(), CurrentQuestionIndex: -1}
	if err := invalidUser.Validate(); err != ErrNegativeQuestionIndex {
		t.Errorf("Expected error %v, got %v", ErrNegativeQuestionIndex, err)
	}

	invalidUser = validUser
	invalidUser.Profile.ReminderTime = "25:00"
	if err := invalidUser.Validate(); !errors.Is(err, ErrInvalidReminderTime) {
		t.Errorf("Expected error %v, got %v", ErrInvalidReminderTime, err)
	}

	if !validUser.IsAdmin() {
		t.Error("Expected admin user to be admin")
	}
}

func TestValidateEmailFormat(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":         true,
		"teacher@school": false,
		"@example.com":   false,
		"teacher@":       false,
		"a@@b.com":       false,
		"a@b.com.":       false,
		"a@.com":         false,
	}

	for email, want := range cases {
		if got := validateEmailFormat(email); got != want {
			t.Errorf("validateEmailFormat(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"", ErrEmptyPassword},
		{"short", ErrPasswordTooShort},
		{"password", nil},
		{strings.Repeat("a", maxPasswordLength), nil},
		{strings.Repeat("a", maxPasswordLength+1), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		err := ValidatePassword(tc.password)
		if tc.want == nil {
			assert.NoError(t, err, "len %d", len(tc.password))
			continue
		}
		assert.ErrorIs(t, err, tc.want, "len %d", len(tc.password))
	}
}
