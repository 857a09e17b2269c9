package security

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/matthewhartstonge/argon2"
)

// HashPassword hashes a plaintext password with argon2id.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()

	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the plaintext password matches the encoded
// hash. Comparison happens inside the argon2 verifier, never on raw strings.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}

// GenerateOpaqueToken returns a random hex string suitable for identity
// tokens. The length parameter is the number of random bytes.
func GenerateOpaqueToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
