package registry

import (
	"crypto/rand"
	"math/big"
)

const (
	familyCodeLength   = 6
	familyCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxCodeAttempts    = 10
)

// GenerateFamilyCode returns a random code of uppercase letters and digits.
func GenerateFamilyCode() (string, error) {
	max := big.NewInt(int64(len(familyCodeAlphabet)))
	b := make([]byte, familyCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = familyCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
