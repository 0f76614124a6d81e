package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("replacement logger was not called")
	}

	// nil installs a no-op, not a nil function.
	SetLogger(nil)
	if Logf == nil {
		t.Fatal("Logf must never be nil")
	}
	Logf("must not panic")
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should default to a usable logger")
	}
}
