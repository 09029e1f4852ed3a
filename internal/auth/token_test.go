package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("super-secret", 0)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		userID := uuid.New()
		tok, err := m.Issue(userID)
		require.NoError(t, err)
		require.NotEmpty(t, tok)

		got, err := m.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestVerify_Missing(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", 0)
	_, err := m.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, _ := NewTokenManager("right-secret", 0)
	verifier, _ := NewTokenManager("wrong-secret", 0)

	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", 0)
	tok, err := m.Issue(uuid.New())
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	// подменяем payload на чужой, подпись остаётся старой
	other, err := m.Issue(uuid.New())
	require.NoError(t, err)
	forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	_, err = m.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = m.Verify(parts[0] + "." + parts[1] + "." + string(sig))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", 0)
	for _, tok := range []string{"not.a.jwt", "abc", "a.b", "Bearer x.y.z"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }

	tok, err := m.Issue(uuid.New())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", 0)
	claims := Claims{UserID: uuid.New().String()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_BadUserID(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", 0)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "42"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
