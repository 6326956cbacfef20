package tokenhash

import "golang.org/x/crypto/bcrypt"

// Cost 10 keeps a verify around the 100ms mark, matching the stored
// device-token contract.
const cost = 10

// Hash returns the bcrypt hash of a plaintext session token for storage.
// The plaintext itself is never persisted.
func Hash(token string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether token matches the stored bcrypt hash.
// bcrypt's comparison is constant-time over the derived key.
func Verify(token, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(token)) == nil
}
