package usecasecontract

// IValidator validates user supplied values.
type IValidator interface {
	ValidateEmail(email string) error
	ValidatePasswordStrength(password string) error
	ValidateUsername(username string) error
	ValidateTags(tags []string) error
	ValidateImageURL(url string) error
}
