package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Varun5711/contatos/internal/models"
)

var (
	ErrNameRequired     = errors.New("nome is required")
	ErrNameTooLong      = errors.New("nome must be at most 120 characters")
	ErrInvalidEmail     = errors.New("email is not a valid address")
	ErrInvalidPhone     = errors.New("telefone can only contain digits, spaces, parentheses, '+' and '-'")
	ErrPhoneTooLong     = errors.New("telefone must be at most 20 characters")
	ErrGroupTooLong     = errors.New("grupo must be at most 50 characters")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("senha must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("senha must be at most 72 bytes")
)

const (
	maxNameLen  = 120
	maxPhoneLen = 20
	maxGroupLen = 50
	minPassword = 8

	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9()+\- ]+$`)
)

func ValidateContactCreate(c *models.ContactCreate) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Group = strings.TrimSpace(c.Group)

	if err := validateName(c.Name); err != nil {
		return err
	}
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	if err := validatePhone(c.Phone); err != nil {
		return err
	}
	return validateGroup(c.Group)
}

// ValidateContactUpdate checks the provided fields only. An update with no
// fields is valid and just touches the record.
func ValidateContactUpdate(u *models.ContactUpdate) error {
	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		u.Name = &trimmed
		if err := validateName(trimmed); err != nil {
			return err
		}
	}
	if u.Email != nil {
		trimmed := strings.TrimSpace(*u.Email)
		u.Email = &trimmed
		if err := validateEmail(trimmed); err != nil {
			return err
		}
	}
	if u.Phone != nil {
		trimmed := strings.TrimSpace(*u.Phone)
		u.Phone = &trimmed
		if err := validatePhone(trimmed); err != nil {
			return err
		}
	}
	if u.Group != nil {
		trimmed := strings.TrimSpace(*u.Group)
		u.Group = &trimmed
		if err := validateGroup(trimmed); err != nil {
			return err
		}
	}

	return nil
}

// ValidateRegistration checks the fields of a new login. Email is lowered so
// lookups are case-insensitive.
func ValidateRegistration(name, email, password string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateName(name); err != nil {
		return "", "", err
	}
	if email == "" {
		return "", "", ErrEmailRequired
	}
	if err := validateEmail(email); err != nil {
		return "", "", err
	}
	if utf8.RuneCountInString(password) < minPassword {
		return "", "", ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return "", "", ErrPasswordTooLong
	}

	return name, email, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return ErrNameTooLong
	}
	return nil
}

// Email and phone are optional on contacts.
func validateEmail(email string) error {
	if email != "" && !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > maxPhoneLen {
		return ErrPhoneTooLong
	}
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func validateGroup(group string) error {
	if utf8.RuneCountInString(group) > maxGroupLen {
		return ErrGroupTooLong
	}
	return nil
}
