package sensitive

import "testing"

func TestZeroOverwritesEveryByte(t *testing.T) {
	buf := []byte("supersecretvalue")
	Zero(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d was not zeroed: %v", i, buf)
		}
	}
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	r := &Registry{}

	buf, err := r.Acquire(16)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	copy(buf, "top secret value")

	if err := r.Release(buf); err != nil {
		t.Fatalf("Release: %v", err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed after Release: %v", i, buf)
		}
	}
}

func TestReleaseUnregisteredIsAnError(t *testing.T) {
	r := &Registry{}
	if err := r.Release([]byte("never acquired")); err == nil {
		t.Fatal("expected an error releasing a buffer the registry never issued")
	}
}

func TestAcquireTableFullFails(t *testing.T) {
	r := &Registry{}
	for i := 0; i < MaxBuffers; i++ {
		if _, err := r.Acquire(8); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}
	if _, err := r.Acquire(8); err == nil {
		t.Fatal("expected the table-full error on the 101st Acquire")
	}
}

func TestWipeAllZeroesWithoutDeregistering(t *testing.T) {
	r := &Registry{}
	buf, err := r.Acquire(8)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	copy(buf, "secretz!")

	r.WipeAll()
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed by WipeAll: %v", i, buf)
		}
	}

	// The slot is still registered, so a later Release should succeed.
	if err := r.Release(buf); err != nil {
		t.Fatalf("Release after WipeAll: %v", err)
	}
}

func TestSecretScopedRelease(t *testing.T) {
	s, err := NewSecret(32)
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	copy(s.Bytes(), []byte("0123456789abcdef0123456789abcde"))
	s.Release()

	// Releasing twice must be a safe no-op.
	s.Release()
}
