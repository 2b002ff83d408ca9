package pwmerrors

import (
	"errors"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"user no cause", NewUserError("bad name"), "bad name"},
		{"auth with cause", NewAuthError("tag mismatch", cause), "tag mismatch: boom"},
		{"corruption with path", NewCorruptionError("deadbeef", "short read", nil), "data corrupted: deadbeef: short read"},
		{"corruption without path", NewCorruptionError("", "short read", nil), "data corrupted: short read"},
		{"internal with op", NewInternalError("kdf.DeriveKey", "argon2 failed", cause), "internal error: kdf.DeriveKey: argon2 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCheckersMatchClass(t *testing.T) {
	wrapped := fmtWrap(NewAuthError("bad password", nil))

	if !IsAuthError(wrapped) {
		t.Error("IsAuthError should see through a wrapping error")
	}
	if IsUserError(wrapped) || IsCorruptionError(wrapped) || IsInternalError(wrapped) {
		t.Error("wrong class matched an AuthError")
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("fileio.WriteAll", "could not write", cause).(*InternalError)
	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return the original cause")
	}
}

func fmtWrap(err error) error {
	return errors.Join(err)
}
