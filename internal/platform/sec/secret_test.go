// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revuo/internal/platform/sec"
)

func TestNewConfirmationSecret_Unique(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		secret, err := sec.NewConfirmationSecret()
		require.NoError(t, err)

		// 32 random bytes base64url-encoded → 43 characters, no padding.
		assert.Len(t, secret, 43)
		assert.False(t, seen[secret], "secret generated twice")
		seen[secret] = true
	}
}

func TestHashSecret_RoundTrip(t *testing.T) {
	secret, err := sec.NewConfirmationSecret()
	require.NoError(t, err)

	hash, err := sec.HashSecret(secret)
	require.NoError(t, err)
	assert.NotEqual(t, secret, hash)

	assert.True(t, sec.CheckSecret(secret, hash))
	assert.False(t, sec.CheckSecret(secret+"x", hash))
	assert.False(t, sec.CheckSecret("", hash))
}

func TestCheckSecret_RejectsForeignHash(t *testing.T) {
	first, err := sec.NewConfirmationSecret()
	require.NoError(t, err)
	second, err := sec.NewConfirmationSecret()
	require.NoError(t, err)

	hashOfFirst, err := sec.HashSecret(first)
	require.NoError(t, err)

	// A secret that was valid for a previous issuance must not verify
	// against a newer hash, and vice versa.
	assert.False(t, sec.CheckSecret(second, hashOfFirst))
}
