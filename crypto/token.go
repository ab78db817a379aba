package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateHostToken mints the secret that authorizes start-game calls.
func GenerateHostToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// VerifySecret compares a presented secret against the expected one in
// constant time.
func VerifySecret(provided, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
