// Package auth implements the credential and token primitives of the server:
// bcrypt password hashing, HS256 JWT issuing/verification and bearer-token
// extraction from incoming requests.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 10

// bcrypt only keys on the first 72 bytes of input. Longer passwords are
// truncated instead of rejected, so every password that passed field
// validation (up to 100 chars) can be hashed and verified.
const bcryptMaxPasswordLen = 72

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxPasswordLen {
		b = b[:bcryptMaxPasswordLen]
	}
	return b
}

// HashPassword derives a salted bcrypt hash from the plaintext password.
// The salt is generated per call, so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// Malformed hashes simply yield false.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}
