package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt digest of plain at the given cost.
// Plaintext passwords never travel past this boundary; everything
// downstream stores and compares digests only.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt digest with a plaintext candidate.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
