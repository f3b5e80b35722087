package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op; this should not panic
	SetLogger(nil)
	Logf("test message")
}

func TestSetOutput(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	SetOutput(&buf, "[vrtypes] ")
	Logf("wrote %d chunks", 3)

	out := buf.String()
	if !strings.HasPrefix(out, "[vrtypes] ") {
		t.Errorf("missing prefix: %q", out)
	}
	if !strings.Contains(out, "wrote 3 chunks") {
		t.Errorf("missing message: %q", out)
	}

	buf.Reset()
	SetOutput(nil, "")
	Logf("muted")
	if buf.Len() != 0 {
		t.Errorf("expected no output after muting, got %q", buf.String())
	}
}
