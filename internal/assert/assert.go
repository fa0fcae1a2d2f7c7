// Package assert guards internal invariants. A failed check is a programming
// error, not a recoverable condition.
package assert

import "fmt"

func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
