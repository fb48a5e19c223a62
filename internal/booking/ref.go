package booking

import (
	"crypto/rand"
	"math/big"
)

const (
	RefLength   = 6
	refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// RefGenerator produces candidate booking references. Uniqueness is checked
// by the caller.
type RefGenerator func() (string, error)

func RandomRef() (string, error) {
	b := make([]byte, RefLength)
	n := big.NewInt(int64(len(refAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		b[i] = refAlphabet[idx.Int64()]
	}
	return string(b), nil
}
