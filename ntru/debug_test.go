package ntru

import (
	"bytes"
	"testing"
)

func TestDebugToggle(t *testing.T) {
	prev := debugOn.Load()
	defer SetDebug(prev)

	var buf bytes.Buffer
	SetDebug(false)
	dbg(&buf, "hidden %d\n", 1)
	if buf.Len() != 0 {
		t.Fatalf("trace written while disabled: %q", buf.String())
	}
	SetDebug(true)
	dbg(&buf, "shown %d\n", 2)
	if buf.String() != "shown 2\n" {
		t.Fatalf("got %q", buf.String())
	}
}
