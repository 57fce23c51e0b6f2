package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpress/warden/adapters/creds"
	"github.com/openpress/warden/adapters/events"
	"github.com/openpress/warden/adapters/store"
	"github.com/openpress/warden/core"
)

// plainHasher avoids argon2 cost in handshake tests. The dummy-hash path
// still behaves correctly: no plaintext ever "matches" a PHC string.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, hash string) (bool, error) {
	return hash == "plain:"+password, nil
}

type fixture struct {
	auth       *AuthService
	sessions   *store.MemorySessionStore
	challenges *store.MemoryChallengeStore
	creds      *creds.MemoryCredentialStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		sessions:   store.NewMemorySessionStore(30 * time.Minute),
		challenges: store.NewMemoryChallengeStore(),
		creds:      creds.NewMemoryCredentialStore(),
	}
	f.auth = NewAuthService(
		f.sessions, f.challenges, f.creds, plainHasher{}, events.NewNopPublisher(),
		slog.New(slog.DiscardHandler))

	require.NoError(t, f.creds.SaveHash(context.Background(), "alice", "plain:s3cret"))
	t.Cleanup(f.sessions.Clear)
	return f
}

// countingPublisher records how many events of each kind were published.
type countingPublisher struct {
	logins, logouts, anomalies int
}

func (p *countingPublisher) PublishLogin(ctx context.Context, identity, sessionID string) error {
	p.logins++
	return nil
}

func (p *countingPublisher) PublishLogout(ctx context.Context, identity, sessionID string) error {
	p.logouts++
	return nil
}

func (p *countingPublisher) PublishAnomaly(ctx context.Context, identity, sessionID string) error {
	p.anomalies++
	return nil
}

func (f *fixture) anonymousSession(t *testing.T) *core.Session {
	t.Helper()

	session := &core.Session{ID: "pre-login", CreatedAt: time.Now()}
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return session
}

func (f *fixture) issuedChallenge(t *testing.T, session *core.Session) *core.Challenge {
	t.Helper()

	challenge, err := f.auth.IssueChallenge(context.Background(), session)
	require.NoError(t, err)
	return challenge
}

func validInput(challenge *core.Challenge) LoginInput {
	return LoginInput{
		Username:      "alice",
		Password:      "s3cret",
		CaptchaAnswer: challenge.Answer,
		CaptchaKey:    challenge.Key,
		Fingerprint:   "agent-a",
	}
}

func TestLoginSuccessRotatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.anonymousSession(t)
	challenge := f.issuedChallenge(t, session)

	in := validInput(challenge)
	in.CaptchaAnswer = strings.ToUpper(challenge.Answer) // case-insensitive

	fresh, err := f.auth.Login(ctx, session, in)
	require.NoError(t, err)

	assert.NotEqual(t, session.ID, fresh.ID)
	assert.Equal(t, "alice", fresh.Identity)
	assert.Equal(t, "agent-a", fresh.Fingerprint)
	assert.False(t, fresh.LoginAt.IsZero())

	// The pre-login session is destroyed.
	_, err = f.sessions.Get(ctx, session.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// The rotated session is live.
	stored, err := f.sessions.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Identity)
}

func TestLoginEmptyFields(t *testing.T) {
	f := newFixture(t)
	session := f.anonymousSession(t)
	challenge := f.issuedChallenge(t, session)

	for _, mutate := range []func(*LoginInput){
		func(in *LoginInput) { in.Username = "" },
		func(in *LoginInput) { in.Password = "" },
		func(in *LoginInput) { in.CaptchaAnswer = "" },
		func(in *LoginInput) { in.CaptchaKey = "" },
	} {
		in := validInput(challenge)
		mutate(&in)

		_, err := f.auth.Login(context.Background(), session, in)
		assert.ErrorIs(t, err, core.ErrInvalidRequest)
	}

	// Validation failures must not consume the challenge.
	_, err := f.auth.Login(context.Background(), session, validInput(challenge))
	assert.NoError(t, err)
}

func TestLoginForeignChallengeKey(t *testing.T) {
	f := newFixture(t)
	session := f.anonymousSession(t)
	challenge := f.issuedChallenge(t, session)

	in := validInput(challenge)
	in.CaptchaKey = "some-other-key"

	_, err := f.auth.Login(context.Background(), session, in)
	assert.ErrorIs(t, err, core.ErrChallengeInvalid)
}

func TestLoginWithoutIssuedChallenge(t *testing.T) {
	f := newFixture(t)
	session := f.anonymousSession(t)

	in := LoginInput{
		Username:      "alice",
		Password:      "s3cret",
		CaptchaAnswer: "abcd",
		CaptchaKey:    "never-issued",
	}

	_, err := f.auth.Login(context.Background(), session, in)
	assert.ErrorIs(t, err, core.ErrChallengeInvalid)
}

func TestLoginFailureConsumesChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.anonymousSession(t)
	challenge := f.issuedChallenge(t, session)

	wrong := validInput(challenge)
	wrong.CaptchaAnswer = "wrong"
	_, err := f.auth.Login(ctx, session, wrong)
	assert.ErrorIs(t, err, core.ErrChallengeIncorrect)

	// Retrying with the correct answer and the same key must fail: the
	// first attempt already consumed the challenge.
	_, err = f.auth.Login(ctx, session, validInput(challenge))
	assert.ErrorIs(t, err, core.ErrChallengeExpired)
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.anonymousSession(t)

	wrongPassword := validInput(f.issuedChallenge(t, session))
	wrongPassword.Password = "nope"
	_, errWrongPassword := f.auth.Login(ctx, session, wrongPassword)

	unknownUser := validInput(f.issuedChallenge(t, session))
	unknownUser.Username = "nobody"
	_, errUnknownUser := f.auth.Login(ctx, session, unknownUser)

	assert.ErrorIs(t, errWrongPassword, core.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownUser, core.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestLoginBadCredentialsConsumeChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.anonymousSession(t)
	challenge := f.issuedChallenge(t, session)

	in := validInput(challenge)
	in.Password = "nope"
	_, err := f.auth.Login(ctx, session, in)
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	// Credential failure happens after consumption, so the same key is gone.
	_, err = f.auth.Login(ctx, session, validInput(challenge))
	assert.ErrorIs(t, err, core.ErrChallengeExpired)
}

func TestIssueChallengeReplacesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.anonymousSession(t)

	first := f.issuedChallenge(t, session)
	second := f.issuedChallenge(t, session)

	assert.NotEqual(t, first.Key, second.Key)
	assert.Equal(t, second.Key, session.ChallengeKey)

	// The first challenge is gone from the store.
	_, err := f.challenges.Consume(ctx, first.Key)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLogoutIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.anonymousSession(t)
	fresh, err := f.auth.Login(ctx, session, validInput(f.issuedChallenge(t, session)))
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, fresh))
	_, err = f.sessions.Get(ctx, fresh.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Second logout on the destroyed session has no further effect.
	require.NoError(t, f.auth.Logout(ctx, fresh))
	require.NoError(t, f.auth.Logout(ctx, nil))
}

func TestLogoutPublishesOneEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	publisher := &countingPublisher{}
	auth := NewAuthService(
		f.sessions, f.challenges, f.creds, plainHasher{}, publisher,
		slog.New(slog.DiscardHandler))

	session := f.anonymousSession(t)
	fresh, err := auth.Login(ctx, session, validInput(f.issuedChallenge(t, session)))
	require.NoError(t, err)
	require.Equal(t, 1, publisher.logins)

	require.NoError(t, auth.Logout(ctx, fresh))
	require.NoError(t, auth.Logout(ctx, fresh))
	require.NoError(t, auth.Logout(ctx, fresh))

	// Only the logout that removed the session emits an event.
	assert.Equal(t, 1, publisher.logouts)
}

func TestRandomAnswer(t *testing.T) {
	for i := 0; i < 64; i++ {
		answer, err := randomAnswer(4)
		require.NoError(t, err)
		require.Len(t, answer, 4)
		for _, r := range answer {
			assert.Contains(t, answerAlphabet, string(r))
		}
	}
}
