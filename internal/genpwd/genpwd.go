// Package genpwd implements the vault's password policy and generator:
// a configurable symbol-pool generator using unbiased rejection sampling,
// and the printable/length validator every user-entered password must
// pass.
package genpwd

import (
	"unicode"

	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
	"github.com/narwhaltorpedo/pwm/internal/randsrc"
)

// Policy length bounds. MaxPasswordSize accounts for a trailing
// terminator when the caller sizes a fixed buffer; it is never the
// length of a password value itself.
const (
	MinPasswordLen  = 8
	MaxPasswordLen  = 64
	MaxPasswordSize = MaxPasswordLen + 1
)

var (
	digits = []byte("0123456789")
	// letters is the canonical 52-symbol upper+lower alphabet. The
	// reference implementation's table duplicates 'w'/'W' at the
	// positions where 'e'/'E' belong, silently dropping 'e' and 'E' from
	// the effective pool and biasing the letter distribution. This
	// rewrite uses the correct alphabet; see SPEC_FULL.md's Design Notes
	// for why the bug is not reproduced.
	letters  = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	specials = []byte(`!@#$%^&*()-_=+[{}]\|;:'",<.>/?`)
)

// Config is the password-generation policy: which symbol pools are
// active, and the length to generate. It is the in-memory form of the
// 4-byte on-disk config record.
type Config struct {
	UseNums     bool
	UseLetters  bool
	UseSpecials bool
	PasswordLen uint8
}

// DefaultConfig matches the reference implementation's factory defaults.
func DefaultConfig() Config {
	return Config{UseNums: true, UseLetters: true, UseSpecials: true, PasswordLen: 25}
}

// Serialize encodes cfg as the 4-byte on-disk config plaintext:
// [useNums][useLetters][useSpecials][passwordLen].
func (c Config) Serialize() [4]byte {
	var buf [4]byte
	buf[0] = boolByte(c.UseNums)
	buf[1] = boolByte(c.UseLetters)
	buf[2] = boolByte(c.UseSpecials)
	buf[3] = c.PasswordLen
	return buf
}

// ParseConfig decodes the 4-byte on-disk config plaintext.
func ParseConfig(buf []byte) (Config, error) {
	if len(buf) != 4 {
		return Config{}, pwmerrors.NewCorruptionError("", "config record must be exactly 4 bytes", nil)
	}
	return Config{
		UseNums:     buf[0] != 0,
		UseLetters:  buf[1] != 0,
		UseSpecials: buf[2] != 0,
		PasswordLen: buf[3],
	}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// pool builds the active symbol pool by concatenating, in order, the
// enabled sub-pools: digits, then letters, then specials.
func (c Config) pool() []byte {
	var p []byte
	if c.UseNums {
		p = append(p, digits...)
	}
	if c.UseLetters {
		p = append(p, letters...)
	}
	if c.UseSpecials {
		p = append(p, specials...)
	}
	return p
}

// Generate produces a password of cfg.PasswordLen characters drawn from
// cfg's active symbol pool. It draws random bytes from the OS source and
// rejects any byte at or above floor(256/|pool|)*|pool| to avoid modulo
// bias, mapping accepted bytes by pool[byte % len(pool)].
func Generate(cfg Config) (string, error) {
	pool := cfg.pool()
	if len(pool) == 0 {
		return "", pwmerrors.NewUserError("no symbol pools enabled for password generation")
	}

	maxSymIndex := byte((256/len(pool))*len(pool) - 1)

	out := make([]byte, 0, cfg.PasswordLen)
	scratch := make([]byte, MaxPasswordSize)

	for len(out) < int(cfg.PasswordLen) {
		if err := randsrc.Fill(scratch); err != nil {
			return "", err
		}
		for _, b := range scratch {
			if b <= maxSymIndex {
				out = append(out, pool[int(b)%len(pool)])
				if len(out) >= int(cfg.PasswordLen) {
					break
				}
			}
		}
	}

	return string(out), nil
}

// IsValid reports whether pwd is acceptable: every rune printable, and
// length within [MinPasswordLen, MaxPasswordLen].
func IsValid(pwd string) bool {
	n := len([]rune(pwd))
	if n < MinPasswordLen || n > MaxPasswordLen {
		return false
	}
	for _, r := range pwd {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
