package core

import "errors"

var (
	// ErrInvalidRequest is returned when a required input field is missing.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrChallengeInvalid is returned when the submitted captcha key does not
	// match the one issued for the session.
	ErrChallengeInvalid = errors.New("challenge does not belong to this session")

	// ErrChallengeExpired is returned when the challenge store no longer holds
	// an answer for the key, either through TTL expiry or prior consumption.
	ErrChallengeExpired = errors.New("challenge expired or already consumed")

	// ErrChallengeIncorrect is returned when the submitted answer does not match.
	ErrChallengeIncorrect = errors.New("challenge answer incorrect")

	// ErrInvalidCredentials covers both unknown username and wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a protected operation is invoked
	// without an authenticated session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the identity lacks a required permission.
	ErrForbidden = errors.New("permission denied")

	// ErrSessionAnomaly is returned when the request fingerprint differs from
	// the one recorded at login. The session is destroyed as a side effect.
	ErrSessionAnomaly = errors.New("session anomaly detected")

	// ErrNotFound is returned by stores when a key is absent or expired.
	ErrNotFound = errors.New("not found")

	// ErrStoreOperationFailed is returned when a backing store fails.
	ErrStoreOperationFailed = errors.New("store operation failed")
)
