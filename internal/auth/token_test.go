package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 0)
	assert.Equal(t, DefaultTTL, issuer.TTL())

	id := Identity{ID: 7, Name: "Ada", Avatar: "//www.gravatar.com/avatar/x"}
	token, err := issuer.Issue(id)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
	assert.NotEmpty(t, claims.RegisteredClaims.ID, "jti must be set")
	assert.Equal(t, 3600*time.Second, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerify_Rejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	valid, err := issuer.Issue(Identity{ID: 1, Name: "A"})
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer(testSecret, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(Identity{ID: 1, Name: "A"})
	require.NoError(t, err)

	otherKey, err := NewTokenIssuer("another-secret-that-is-long-enough!!", time.Hour).Issue(Identity{ID: 1})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not.a.token"},
		{"Expired", expired},
		{"Wrong Key", otherKey},
		{"Alg None", noneToken},
		{"Tampered", valid + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestIssue_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour).Issue(Identity{ID: 1})
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"Bearer a b", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := ExtractBearer(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
