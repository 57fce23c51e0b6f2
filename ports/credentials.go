package ports

import "context"

// CredentialStore looks up the stored password hash for a username.
type CredentialStore interface {
	// LookupHash returns the encoded hash for the username, or
	// core.ErrNotFound when the user is unknown.
	LookupHash(ctx context.Context, username string) (string, error)

	// SaveHash stores or replaces the encoded hash for a username.
	SaveHash(ctx context.Context, username, hash string) error
}

// PasswordHasher hashes and verifies passwords. The encoding is opaque to
// callers; hashes produced by Hash must verify with Verify.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify reports whether the password matches the hash. A mismatch is
	// (false, nil); an error means the hash could not be checked at all.
	Verify(password, hash string) (bool, error)
}
