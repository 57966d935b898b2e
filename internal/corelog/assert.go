package corelog

import (
	"fmt"
	"runtime"

	"github.com/devlights/gomy/output"
)

// Assert panics if cond is false. Use it only for contract violations that are
// a caller bug, never for conditions a caller should be able to recover from.
func Assert(cond bool, msg string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(msg, args...))
	}
}

// FatalStack dumps every goroutine's stack trace and then panics with msg.
// Use it when a page guard's drop, or a replacer's internal bookkeeping,
// finds itself in a state that cannot be a caller mistake alone.
func FatalStack(msg string, args ...interface{}) {
	buf := make([]byte, 1<<16)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	output.Stdoutl("=== fatal: goroutine dump ===", string(buf))
	panic(fmt.Sprintf(msg, args...))
}
