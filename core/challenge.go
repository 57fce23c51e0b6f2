package core

import "time"

// Challenge represents one captcha instance. The answer lives in the
// short-lived challenge store under Key and is destroyed on first read,
// so a challenge can be validated at most once.
type Challenge struct {
	Key       string    // Unguessable identifier, generated independently of the session ID
	Answer    string    // Expected answer, compared case-insensitively
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the store drops the answer
}
