package validator

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/echomind/mindink/internal/domain/entity"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// AppValidator implements the usecase.Validator interface.
type AppValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator that implements the usecase.Validator interface.
func NewValidator() usecasecontract.IValidator {
	v := validator.New()
	return &AppValidator{validate: v}
}

// ValidateEmail checks if the email format is valid.
func (av *AppValidator) ValidateEmail(email string) error {
	return av.validate.Var(email, "required,email")
}

// ValidatePasswordStrength checks if the password meets the strength requirements.
func (av *AppValidator) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !containsUppercase(password) {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !containsLowercase(password) {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !containsNumber(password) {
		return fmt.Errorf("password must contain at least one number")
	}
	if !containsSpecial(password) {
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}

// ValidateUsername allows 3 to 30 letters, digits, '_', '-' and '.'.
func (av *AppValidator) ValidateUsername(username string) error {
	if err := av.validate.Var(username, "required,min=3,max=30"); err != nil {
		return fmt.Errorf("username must be between 3 and 30 characters")
	}
	for _, char := range username {
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && !strings.ContainsRune("_-.", char) {
			return fmt.Errorf("username may only contain letters, digits, '_', '-' and '.'")
		}
	}
	return nil
}

// ValidateTags checks the tag count and that every tag is in the catalog.
func (av *AppValidator) ValidateTags(tags []string) error {
	if len(tags) > entity.MaxTagsPerPost {
		return fmt.Errorf("a post can have at most %d tags", entity.MaxTagsPerPost)
	}
	for _, tag := range tags {
		if !entity.IsKnownTag(tag) {
			return fmt.Errorf("unknown tag %q", tag)
		}
	}
	return nil
}

// ValidateImageURL accepts absolute http and https URLs.
func (av *AppValidator) ValidateImageURL(raw string) error {
	if err := av.validate.Var(raw, "required,url"); err != nil {
		return fmt.Errorf("image must be a valid URL")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("image URL must use http or https")
	}
	return nil
}

// RegisterCustomValidators registers custom validation functions with the Gin validator.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("containsuppercase", containsUppercaseFL)
		v.RegisterValidation("containslowercase", containsLowercaseFL)
		v.RegisterValidation("containsdigit", containsNumberFL)
		v.RegisterValidation("containssymbol", containsSpecialFL)
		v.RegisterValidation("knowntag", knownTagFL)
	}
}

// containsUppercase checks if the string contains at least one uppercase letter.
func containsUppercase(s string) bool {
	for _, char := range s {
		if unicode.IsUpper(char) {
			return true
		}
	}
	return false
}
func containsUppercaseFL(fl validator.FieldLevel) bool {
	return containsUppercase(fl.Field().String())
}

// containsLowercase checks if the string contains at least one lowercase letter.
func containsLowercase(s string) bool {
	for _, char := range s {
		if unicode.IsLower(char) {
			return true
		}
	}
	return false
}
func containsLowercaseFL(fl validator.FieldLevel) bool {
	return containsLowercase(fl.Field().String())
}

// containsNumber checks if the string contains at least one number.
func containsNumber(s string) bool {
	for _, char := range s {
		if unicode.IsNumber(char) {
			return true
		}
	}
	return false
}
func containsNumberFL(fl validator.FieldLevel) bool {
	return containsNumber(fl.Field().String())
}

// containsSpecial checks if the string contains at least one special character.
func containsSpecial(s string) bool {
	for _, char := range s {
		if strings.ContainsRune("!@#$%^&*()_+-=[]{};:'\\|,.<>/?", char) {
			return true
		}
	}
	return false
}
func containsSpecialFL(fl validator.FieldLevel) bool {
	return containsSpecial(fl.Field().String())
}

func knownTagFL(fl validator.FieldLevel) bool {
	return entity.IsKnownTag(fl.Field().String())
}
