// Package aead wraps ChaCha20-Poly1305 with the vault's fixed parameter
// sizes and its one load-bearing convention: data-at-rest encryption
// always uses a fresh, per-message derived key paired with a fixed
// nonce, while the (reused) name-encryption key always pairs with a
// fresh random nonce. See FixedNonce's doc comment for why this is safe.
package aead

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
)

const (
	// KeySize is the ChaCha20-Poly1305 key size in bytes.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the ChaCha20-Poly1305 nonce size in bytes.
	NonceSize = chacha20poly1305.NonceSize
	// TagSize is the Poly1305 authentication tag size in bytes.
	TagSize = chacha20poly1305.Overhead
)

// FixedNonce is the 12-byte constant reused for every data-at-rest
// encryption (config record, item data). It is safe to reuse because
// every call pairs it with a key freshly derived from a unique salt --
// the (key, nonce) pair is therefore unique even though the nonce never
// changes. Do not "fix" this by randomizing the nonce while continuing to
// reuse keys; do not reuse this nonce with any key that is itself reused
// (the name-encryption key is the one key that is reused, and it always
// pairs with a random nonce instead, supplied by the caller).
var FixedNonce = [NonceSize]byte{0x81, 0x88, 0x77, 0x9a, 0xe0, 0x81, 0xc6, 0x9b, 0x4f, 0x11, 0x15, 0x5a}

// Encrypt seals plaintext under key and nonce with no associated data,
// returning the ciphertext and its detached 16-byte tag.
func Encrypt(key, nonce, plaintext []byte) (ciphertext, tag []byte, err error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, nil, pwmerrors.NewInternalError("aead.Encrypt", "could not initialize cipher", err)
	}
	if len(nonce) != NonceSize {
		return nil, nil, pwmerrors.NewInternalError("aead.Encrypt", "invalid nonce size", nil)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	ct := sealed[:len(sealed)-TagSize]
	t := sealed[len(sealed)-TagSize:]
	return ct, t, nil
}

// Decrypt opens ciphertext+tag under key and nonce with no associated
// data. A tag mismatch is reported as an error; the caller decides
// whether that means "wrong master password" (pre-auth) or "corrupted
// store" (post-auth) -- aead itself has no opinion on that distinction.
func Decrypt(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, pwmerrors.NewInternalError("aead.Decrypt", "could not initialize cipher", err)
	}
	if len(nonce) != NonceSize {
		return nil, pwmerrors.NewInternalError("aead.Decrypt", "invalid nonce size", nil)
	}

	sealed := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, pwmerrors.NewAuthError("authentication tag did not verify", err)
	}
	return plaintext, nil
}
