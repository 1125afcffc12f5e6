package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidatePasswordStrength("Password123!"))
	assert.Error(t, v.ValidatePasswordStrength("short1!"))
	assert.Error(t, v.ValidatePasswordStrength("password123!"))
	assert.Error(t, v.ValidatePasswordStrength("Password123"))
}

func TestValidateUsername(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateUsername("ada.lovelace"))
	assert.Error(t, v.ValidateUsername("ab"))
	assert.Error(t, v.ValidateUsername("has space"))
}

func TestValidateTags(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateTags([]string{"Technology", "Travel"}))
	assert.NoError(t, v.ValidateTags(nil))
	assert.Error(t, v.ValidateTags([]string{"technology"}))
	assert.Error(t, v.ValidateTags([]string{"AI", "Art", "Books", "Business", "Career", "Design"}))
}

func TestValidateImageURL(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateImageURL("https://cdn.example.com/a.png"))
	assert.Error(t, v.ValidateImageURL("ftp://example.com/a.png"))
	assert.Error(t, v.ValidateImageURL("not a url"))
}
