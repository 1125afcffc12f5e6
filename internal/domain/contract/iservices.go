package contract

// IHasher hashes and verifies passwords.
type IHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordHash(password, hashedPassword string) error
}

// IUUIDGenerator generates identifiers for new entities.
type IUUIDGenerator interface {
	NewUUID() string
}

// IContentRenderer turns user supplied markdown into safe HTML.
type IContentRenderer interface {
	Render(markdown string) (string, error)
}
