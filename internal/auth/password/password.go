// Package password wraps bcrypt hashing for credential storage.
package password

import "golang.org/x/crypto/bcrypt"

const cost = 12

// Hash produces a bcrypt hash of the plaintext password.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether the plaintext matches the stored hash.
func Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
