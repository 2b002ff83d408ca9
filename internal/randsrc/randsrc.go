// Package randsrc is the vault's sole source of random bytes: salts,
// nonces, and the bytes behind generated passwords all flow through Fill.
// The padding of fixed-size on-disk records is zero bytes, not random.
package randsrc

import (
	"crypto/rand"

	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
)

// Fill fills buf with cryptographically strong random bytes read from the
// OS's non-blocking random source (crypto/rand, backed by getrandom(2) on
// Linux). There is no retry loop: the call is rare, interactive, and a
// short read from crypto/rand indicates a broken host, which this module
// treats as fatal rather than something worth looping on.
func Fill(buf []byte) error {
	_, err := rand.Read(buf)
	if err != nil {
		return pwmerrors.NewInternalError("randsrc.Fill", "could not get random numbers", err)
	}
	return nil
}

// Bytes is a convenience wrapper that allocates and fills an n-byte slice.
func Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := Fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
