package listener

import (
	"errors"
	"testing"
)

var (
	errSkipped = errors.New("test skipped")
	errFailed  = errors.New("test failed")
)

// Bind runs l's start hook for t and registers its end hook as a cleanup,
// so the recorder is released however t ends.
func Bind(t testing.TB, l TestListener) {
	t.Helper()

	t.Cleanup(func() {
		switch {
		case t.Skipped():
			l.AddSkipped(t, errSkipped)
		case t.Failed():
			l.AddFailure(t, errFailed)
		}
		if err := l.EndTest(t); err != nil {
			t.Errorf("vcr: ending test: %v", err)
		}
	})

	if _, err := l.StartTest(t); err != nil {
		t.Fatalf("vcr: starting test: %v", err)
	}
}

// Bind binds the listener to t. See the package-level Bind.
func (l *Listener) Bind(t testing.TB) {
	t.Helper()
	Bind(t, l)
}
