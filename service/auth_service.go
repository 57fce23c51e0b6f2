package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
)

// Answers are drawn from a lowercase alphabet; comparison is
// case-insensitive so clients may type either case.
const answerAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// dummyHash is verified when the username is unknown so that lookup misses
// and password mismatches take the same time. It never matches any password.
const dummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginInput carries one login attempt.
type LoginInput struct {
	Username      string
	Password      string
	CaptchaAnswer string
	CaptchaKey    string
	Fingerprint   string
}

// AuthService sequences the login handshake: challenge issuance and
// consumption, credential verification, and session rotation.
type AuthService struct {
	sessions   ports.SessionStore
	challenges ports.ChallengeStore
	creds      ports.CredentialStore
	hasher     ports.PasswordHasher
	events     ports.EventPublisher
	log        *slog.Logger

	challengeTTL time.Duration
	answerLen    int
}

// Option configures an AuthService.
type Option func(*AuthService)

// WithChallengeTTL overrides the default five-minute challenge TTL.
func WithChallengeTTL(ttl time.Duration) Option {
	return func(s *AuthService) {
		s.challengeTTL = ttl
	}
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	sessions ports.SessionStore,
	challenges ports.ChallengeStore,
	creds ports.CredentialStore,
	hasher ports.PasswordHasher,
	events ports.EventPublisher,
	log *slog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		sessions:     sessions,
		challenges:   challenges,
		creds:        creds,
		hasher:       hasher,
		events:       events,
		log:          log,
		challengeTTL: 5 * time.Minute,
		answerLen:    4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueChallenge creates a new captcha challenge for the session. A prior
// pending challenge is invalidated: one unconsumed challenge per session.
func (s *AuthService) IssueChallenge(ctx context.Context, session *core.Session) (*core.Challenge, error) {
	if session.ChallengeKey != "" {
		if err := s.challenges.Delete(ctx, session.ChallengeKey); err != nil {
			s.log.Warn("failed to delete prior challenge",
				"session_id", session.ID, "error", err)
		}
	}

	answer, err := randomAnswer(s.answerLen)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	now := time.Now()
	challenge := &core.Challenge{
		Key:       uuid.New().String(),
		Answer:    answer,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.challengeTTL),
	}

	if err := s.challenges.Put(ctx, challenge.Key, challenge.Answer, s.challengeTTL); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	session.ChallengeKey = challenge.Key
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record challenge on session: %w", err)
	}

	return challenge, nil
}

// Login runs the handshake against the current session. On success the
// session is rotated: the old one is destroyed and a fresh session with a
// new ID, the identity, and the request fingerprint is returned.
//
// The challenge is consumed exactly once per attempt, before credentials
// are checked, so a failed attempt cannot be replayed with the same key.
func (s *AuthService) Login(ctx context.Context, session *core.Session, in LoginInput) (*core.Session, error) {
	if in.Username == "" || in.Password == "" || in.CaptchaAnswer == "" || in.CaptchaKey == "" {
		return nil, core.ErrInvalidRequest
	}

	if session.ChallengeKey == "" || in.CaptchaKey != session.ChallengeKey {
		return nil, core.ErrChallengeInvalid
	}

	expected, err := s.challenges.Consume(ctx, in.CaptchaKey)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrChallengeExpired
		}
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}

	if !strings.EqualFold(expected, in.CaptchaAnswer) {
		return nil, core.ErrChallengeIncorrect
	}

	if err := s.verifyCredentials(ctx, in.Username, in.Password); err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to destroy pre-login session: %w", err)
	}

	now := time.Now()
	fresh := &core.Session{
		ID:          uuid.New().String(),
		Identity:    in.Username,
		Fingerprint: in.Fingerprint,
		LoginAt:     now,
		CreatedAt:   now,
	}

	if err := s.sessions.Create(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.events.PublishLogin(ctx, fresh.Identity, fresh.ID); err != nil {
		// The session is already established; event delivery is best effort.
		s.log.Warn("failed to publish login event",
			"identity", fresh.Identity, "error", err)
	}

	return fresh, nil
}

// Logout destroys the session. Logging out an already-destroyed session
// succeeds with no further effect: no delete, no second logout event.
func (s *AuthService) Logout(ctx context.Context, session *core.Session) error {
	if session == nil {
		return nil
	}

	if _, err := s.sessions.Get(ctx, session.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if session.Authenticated() {
		if err := s.events.PublishLogout(ctx, session.Identity, session.ID); err != nil {
			s.log.Warn("failed to publish logout event",
				"identity", session.Identity, "error", err)
		}
	}

	return nil
}

// verifyCredentials checks the password against the stored hash. Unknown
// usernames verify against a dummy hash so both failure modes return the
// same error in roughly the same time.
func (s *AuthService) verifyCredentials(ctx context.Context, username, password string) error {
	hash, err := s.creds.LookupHash(ctx, username)
	known := true
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("failed to look up credentials: %w", err)
		}
		hash = dummyHash
		known = false
	}

	valid, err := s.hasher.Verify(password, hash)
	if err != nil {
		if !known {
			return core.ErrInvalidCredentials
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	if !known || !valid {
		return core.ErrInvalidCredentials
	}
	return nil
}

func randomAnswer(length int) (string, error) {
	// Reject bytes beyond the largest multiple of the alphabet size so
	// every character is drawn uniformly.
	const limit = 256 - 256%len(answerAlphabet)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, answerAlphabet[int(b)%len(answerAlphabet)])
			if len(out) == length {
				return string(out), nil
			}
		}
	}
}
