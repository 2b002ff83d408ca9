// Package codec is a thin wrapper over encoding/hex, used exclusively by
// the KDF's DeriveName to turn a derived binary preimage into the
// lowercase hex string used as an on-disk item filename.
package codec

import "encoding/hex"

// BinToHex lowercase-hex-encodes b with no separators.
func BinToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBin decodes a lowercase hex string back to its binary form.
func HexToBin(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
