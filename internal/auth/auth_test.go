package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
)

const (
	testSecret      = "test-secret-key-for-jwt-testing"
	testWrongSecret = "wrong-secret-key-for-jwt-testing"
)

func TestMakeAndValidateJWT(t *testing.T) {
	roles := []string{mongodb.RoleUser, mongodb.RoleModerator, mongodb.RoleAdmin}

	for _, role := range roles {
		t.Run(role, func(t *testing.T) {
			token, err := MakeJWT("65f1c0ffee0000000000abcd", role, testSecret, time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := ValidateJWT(token, testSecret)
			require.NoError(t, err)
			require.Equal(t, "65f1c0ffee0000000000abcd", claims.Subject)
			require.Equal(t, role, claims.Role)
		})
	}
}

func TestValidateJWTErrors(t *testing.T) {
	t.Run("Expired token", func(t *testing.T) {
		token, err := MakeJWT("user-id", mongodb.RoleUser, testSecret, -time.Hour)
		require.NoError(t, err)

		_, err = ValidateJWT(token, testSecret)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := MakeJWT("user-id", mongodb.RoleUser, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ValidateJWT(token, testWrongSecret)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := ValidateJWT("not.a.token", testSecret)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Token without subject", func(t *testing.T) {
		claims := Claims{
			Role: mongodb.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateJWT(token, testSecret)
		require.ErrorIs(t, err, ErrTokenWithNoSubject)
	})

	t.Run("Unexpected signing method", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "user-id"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ValidateJWT(token, testSecret)
		require.Error(t, err)
	})
}

func TestGetBearerToken(t *testing.T) {
	cases := []struct {
		name          string
		header        string
		expectedToken string
		expectedErr   error
	}{
		{name: "Valid header", header: "Bearer abc.def.ghi", expectedToken: "abc.def.ghi"},
		{name: "Extra spaces are trimmed", header: "Bearer   abc.def.ghi  ", expectedToken: "abc.def.ghi"},
		{name: "Missing header", header: "", expectedErr: ErrNoAuthorizationHeader},
		{name: "Wrong scheme", header: "Basic dXNlcjpwYXNz", expectedErr: ErrMalformedAuthHeader},
		{name: "Empty token", header: "Bearer    ", expectedErr: ErrNoTokenInAuthHeader},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			headers := http.Header{}
			if tc.header != "" {
				headers.Set("Authorization", tc.header)
			}

			token, err := GetBearerToken(headers)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedToken, token)
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	require.NoError(t, CheckPasswordHash(hash, "secret123"))
	require.ErrorIs(t, CheckPasswordHash(hash, "wrong"), ErrInvalidCredentials)
}

func TestHasRole(t *testing.T) {
	require.True(t, HasRole(mongodb.RoleUser))
	require.True(t, HasRole(mongodb.RoleAdmin, mongodb.RoleAdmin, mongodb.RoleModerator))
	require.False(t, HasRole(mongodb.RoleUser, mongodb.RoleAdmin, mongodb.RoleModerator))
	require.False(t, IsValidRole("superuser"))
}

func TestUserContext(t *testing.T) {
	require.Nil(t, GetUserFromContext(context.Background()))

	ctx := WithUser(context.Background(), mongodb.UserDb{Id: "user-id", Username: "alice"})
	user := GetUserFromContext(ctx)
	require.NotNil(t, user)
	require.Equal(t, "alice", user.Username)
}
