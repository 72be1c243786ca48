package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Verifier proves that a caller controls an account. The engine only ever
// sees the boolean outcome, never the stored representation.
type Verifier interface {
	Verify(hash, presented string) bool
}

// Hasher produces the stored form of a new credential at registration.
type Hasher interface {
	Hash(secret string) (string, error)
}

// BcryptVerifier implements Verifier and Hasher with salted bcrypt digests.
type BcryptVerifier struct {
	Cost int
}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{Cost: bcrypt.DefaultCost}
}

func (v *BcryptVerifier) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("credential cannot be empty")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), v.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (v *BcryptVerifier) Verify(hash, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
}
