// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Confirmation Secrets

// ConfirmationSecretLength is the byte length of the random confirmation
// secret (256 bits of entropy, rendered as base64url text).
const ConfirmationSecretLength = 32

// NewConfirmationSecret generates a fresh cryptographically-random opaque
// secret for out-of-band delivery. The returned string is URL-safe.
func NewConfirmationSecret() (string, error) {
	raw := make([]byte, ConfirmationSecretLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashSecret hashes a plain-text secret using the bcrypt algorithm.
//
// Only the hash is ever persisted; the plain secret exists solely in the
// delivery path (email) and in the client's exchange request.
func HashSecret(plainSecret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainSecret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckSecret compares a plain-text secret with its stored hash.
//
// bcrypt performs a constant-time comparison internally, which protects the
// token-exchange endpoint against timing side channels.
func CheckSecret(plainSecret, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainSecret))
	return err == nil
}
