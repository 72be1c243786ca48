package credential

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	v := &BcryptVerifier{Cost: bcrypt.MinCost}

	hash, err := v.Hash("1234")
	assert.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.True(t, v.Verify(hash, "1234"))
	assert.False(t, v.Verify(hash, "4321"))
	assert.False(t, v.Verify(hash, ""))
}

func TestHashRejectsEmptySecret(t *testing.T) {
	v := NewBcryptVerifier()
	_, err := v.Hash("")
	assert.Error(t, err)
}

func TestHashesAreSalted(t *testing.T) {
	v := &BcryptVerifier{Cost: bcrypt.MinCost}
	first, err := v.Hash("1234")
	assert.NoError(t, err)
	second, err := v.Hash("1234")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
