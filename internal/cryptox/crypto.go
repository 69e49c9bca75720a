package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

const signingKeyInfo = "mylibrary session signing key v1"

// DeriveSigningKey expands the configured session secret into a 32-byte
// HMAC key. The result is deterministic for a given secret.
func DeriveSigningKey(secret []byte) []byte {
	r := hkdf.New(sha256.New, secret, nil, []byte(signingKeyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only fails after 255*32 bytes of output
		panic(err)
	}
	return key
}

// EqualSecrets compares two secrets in constant time.
func EqualSecrets(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RandomHex returns size random bytes, hex encoded.
func RandomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
