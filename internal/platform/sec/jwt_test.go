// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/platform/sec"
)

func newKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

/*
TestTokenService_RoundTrip signs a token and verifies it again.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key := newKeyPair(t)
	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "khatmah.app")

	token, err := service.GenerateAccessToken("user-1", "Maryam", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Maryam", claims.DisplayName)
}

/*
TestTokenService_Rejects covers expired, foreign-issuer and foreign-key tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	key := newKeyPair(t)
	verifier := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "khatmah.app")

	expired, err := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "khatmah.app").
		GenerateAccessToken("user-1", "", -time.Minute)
	require.NoError(t, err)

	foreignIssuer, err := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "elsewhere").
		GenerateAccessToken("user-1", "", time.Minute)
	require.NoError(t, err)

	other := newKeyPair(t)
	foreignKey, err := sec.NewTokenServiceFromKeys(other, &other.PublicKey, "khatmah.app").
		GenerateAccessToken("user-1", "", time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":        expired,
		"foreign_issuer": foreignIssuer,
		"foreign_key":    foreignKey,
		"garbage":        "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

/*
TestTokenService_VerifyOnly refuses to sign without a private key.
*/
func TestTokenService_VerifyOnly(t *testing.T) {
	key := newKeyPair(t)
	verifier := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "khatmah.app")

	_, err := verifier.GenerateAccessToken("user-1", "", time.Minute)
	assert.ErrorIs(t, err, sec.ErrSigningDisabled)
}
