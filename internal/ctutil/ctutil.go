// Package ctutil provides a constant-time byte-slice comparison for the
// handful of call sites in the vault that compare secret material
// directly (rather than through an AEAD tag check, which is already
// constant-time internally).
package ctutil

// Equal reports whether a and b are identical. It XOR-accumulates every
// byte pair into a single accumulator and only inspects the accumulator
// at the end, so there is no data-dependent branch or early exit on the
// first differing byte. A length mismatch is folded into the accumulator
// rather than returned immediately, so the comparison time does not
// depend on where (or whether) the inputs first diverge.
func Equal(a, b []byte) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var diff byte
	if len(a) != len(b) {
		diff = 1
	}
	for i := 0; i < n; i++ {
		var x, y byte
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		diff |= x ^ y
	}
	return diff == 0
}
