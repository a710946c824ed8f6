package ntru

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

var debugOn atomic.Bool

func init() { debugOn.Store(os.Getenv("NTRU_DEBUG") == "1") }

// SetDebug switches tracing to stderr on or off. NTRU_DEBUG=1 turns it on
// at start-up.
func SetDebug(on bool) { debugOn.Store(on) }

// Debugf writes a trace line to stderr when tracing is on.
func Debugf(format string, args ...any) { dbg(os.Stderr, format, args...) }

func dbg(w io.Writer, f string, a ...any) {
	if debugOn.Load() {
		fmt.Fprintf(w, f, a...)
	}
}
