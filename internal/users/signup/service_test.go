// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signup

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/constants"
	"github.com/taibuivan/revuo/internal/platform/sec"
)

// # Test Doubles

type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]*User{}}
}

func (r *memoryUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return apperr.Conflict("Username is already taken", userConflicts["users_username_key"])
		}
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered", userConflicts["users_email_key"])
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *memoryUserRepository) SetConfirmationHash(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.ConfirmationHash = hash
	}
	return nil
}

func (r *memoryUserRepository) ClearConfirmationHash(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.ConfirmationHash = ""
	}
	return nil
}

type memoryThrottle struct {
	mu       sync.Mutex
	failures map[string]int
}

func newMemoryThrottle() *memoryThrottle {
	return &memoryThrottle{failures: map[string]int{}}
}

func (t *memoryThrottle) Failures(_ context.Context, username string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures[username], nil
}

func (t *memoryThrottle) RecordFailure(_ context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[username]++
	return nil
}

func (t *memoryThrottle) Reset(_ context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, username)
	return nil
}

// staticTokenProvider returns a fixed token so tests can assert the grant
// without parsing JWTs.
type staticTokenProvider struct{}

func (staticTokenProvider) GenerateAccessToken(_, _, _ string, _ time.Duration) (string, error) {
	return "signed.jwt.token", nil
}

// captureMailer records every delivered code instead of sending mail.
type captureMailer struct {
	mu    sync.Mutex
	codes map[string][]string // keyed by username
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string][]string{}}
}

func (m *captureMailer) SendConfirmationCode(_ context.Context, _, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[username] = append(m.codes[username], code)
	return nil
}

func (m *captureMailer) lastCode(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	delivered := m.codes[username]
	if len(delivered) == 0 {
		return ""
	}
	return delivered[len(delivered)-1]
}

type fixture struct {
	service  *Service
	users    *memoryUserRepository
	throttle *memoryThrottle
	mail     *captureMailer
}

func newFixture(t *testing.T, singleUse bool) *fixture {
	t.Helper()
	users := newMemoryUserRepository()
	throttle := newMemoryThrottle()
	mail := newCaptureMailer()
	service := NewService(users, throttle, staticTokenProvider{}, mail, time.Hour, singleUse)
	return &fixture{service: service, users: users, throttle: throttle, mail: mail}
}

// # Signup

func TestSignup_CreatesUserAndDeliversCode(t *testing.T) {
	fx := newFixture(t, true)

	user, err := fx.service.Signup(context.Background(), SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)

	code := fx.mail.lastCode("alice")
	require.NotEmpty(t, code)

	stored, err := fx.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, sec.CheckSecret(code, stored.ConfirmationHash))
}

func TestSignup_ValidationFailures(t *testing.T) {
	fx := newFixture(t, true)

	tests := []struct {
		name     string
		username string
		email    string
		field    string
	}{
		{"empty username", "", "a@example.com", FieldUsername},
		{"reserved username", "me", "a@example.com", FieldUsername},
		{"illegal characters", "not valid!", "a@example.com", FieldUsername},
		{"bad email", "alice", "not-an-email", FieldEmail},
		{"empty email", "alice", "", FieldEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Signup(context.Background(), SignupInput{
				Username: tc.username,
				Email:    tc.email,
			})
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)

			fields := make([]string, 0, len(appError.Details))
			for _, detail := range appError.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestSignup_ExactPairIsIdempotentAndRotatesSecret(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	first, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	firstCode := fx.mail.lastCode("alice")

	second, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	secondCode := fx.mail.lastCode("alice")

	// Same account, no duplicate row.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fx.users.users, 1)

	// The new code replaces the old one entirely.
	require.NotEqual(t, firstCode, secondCode)
	stored, err := fx.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, sec.CheckSecret(firstCode, stored.ConfirmationHash))
	assert.True(t, sec.CheckSecret(secondCode, stored.ConfirmationHash))
}

func TestSignup_PartialCollisionsConflict(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = fx.service.Signup(ctx, SignupInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
		fields   []string
	}{
		{"username taken by other email", "alice", "new@example.com", []string{FieldUsername}},
		{"email taken by other username", "carol", "alice@example.com", []string{FieldEmail}},
		{"cross pair collides on both", "alice", "bob@example.com", []string{FieldUsername, FieldEmail}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Signup(ctx, SignupInput{Username: tc.username, Email: tc.email})
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusConflict, appError.HTTPStatus)

			fields := make([]string, 0, len(appError.Details))
			for _, detail := range appError.Details {
				fields = append(fields, detail.Field)
			}
			assert.ElementsMatch(t, tc.fields, fields)
		})
	}
}

// # Token Exchange

func TestExchangeToken_Success(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	grant, err := fx.service.ExchangeToken(ctx, ExchangeInput{
		Username:         "alice",
		ConfirmationCode: fx.mail.lastCode("alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", grant.AccessToken)
	assert.Equal(t, time.Hour, grant.ExpiresIn)
}

func TestExchangeToken_UnknownUsernameIsNotFound(t *testing.T) {
	fx := newFixture(t, true)

	_, err := fx.service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "ghost",
		ConfirmationCode: "whatever",
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestExchangeToken_WrongCodeFailsAndCountsAttempt(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{
		Username:         "alice",
		ConfirmationCode: "definitely-wrong",
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, FieldConfirmationCode, appError.Details[0].Field)
	assert.Equal(t, "invalid", appError.Details[0].Message)

	failures, err := fx.throttle.Failures(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
}

func TestExchangeToken_StaleCodeFailsAfterReissue(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	staleCode := fx.mail.lastCode("alice")

	// Re-signup rotates the secret.
	_, err = fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{
		Username:         "alice",
		ConfirmationCode: staleCode,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	// The current code still works.
	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{
		Username:         "alice",
		ConfirmationCode: fx.mail.lastCode("alice"),
	})
	assert.NoError(t, err)
}

func TestExchangeToken_ThrottleBlocksAfterLimit(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	for i := 0; i < constants.ConfirmationAttemptLimit; i++ {
		_, err := fx.service.ExchangeToken(ctx, ExchangeInput{
			Username:         "alice",
			ConfirmationCode: "wrong",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
	}

	// Attempt limit+1 is rejected before the secret is even checked, with
	// the CORRECT code.
	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{
		Username:         "alice",
		ConfirmationCode: fx.mail.lastCode("alice"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, apperr.As(err).HTTPStatus)
}

func TestExchangeToken_SuccessResetsThrottle(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	for i := 0; i < constants.ConfirmationAttemptLimit-1; i++ {
		_, _ = fx.service.ExchangeToken(ctx, ExchangeInput{Username: "alice", ConfirmationCode: "wrong"})
	}

	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{
		Username:         "alice",
		ConfirmationCode: fx.mail.lastCode("alice"),
	})
	require.NoError(t, err)

	failures, err := fx.throttle.Failures(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, failures)
}

func TestExchangeToken_SingleUseBurnsSecret(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := fx.mail.lastCode("alice")

	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)

	// Second use of the same code is rejected.
	_, err = fx.service.ExchangeToken(ctx, ExchangeInput{Username: "alice", ConfirmationCode: code})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

func TestExchangeToken_ReusableSecretWhenSingleUseDisabled(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	_, err := fx.service.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := fx.mail.lastCode("alice")

	for i := 0; i < 2; i++ {
		_, err = fx.service.ExchangeToken(ctx, ExchangeInput{Username: "alice", ConfirmationCode: code})
		require.NoError(t, err)
	}
}
