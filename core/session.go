package core

import "time"

// Session represents the server-side state for one client. The client only
// ever holds the opaque ID, carried in an HTTP-only cookie.
type Session struct {
	ID           string    // Unique session identifier
	Identity     string    // Username, empty until login succeeds
	Fingerprint  string    // Client fingerprint captured at login, never mutated afterwards
	LoginAt      time.Time // When the identity was established
	ChallengeKey string    // Key of the captcha issued for this session, empty if none
	CreatedAt    time.Time // When the session was minted
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != ""
}
