package fiber

import "fmt"

// Assert is the modm_assert collaborator this module's primitives consume
// for conditions that must stop the fiber rather than silently continue on
// corrupted state. Currently the only caller is Task.StackOverflow, mirroring
// the original runtime's `modm_assert(!stack_overflow, "fbr.stkof", ...)`
// call site in its fiber_overflow example.
//
// The default implementation panics; a bare-metal embedder overrides this
// variable with its own fault handler (reset, blink an LED, whatever),
// matching modm_assert's "Assert + terminate; no recovery" contract.
var Assert = func(cond bool, tag, message string, detail uint64) {
	if !cond {
		panic(fmt.Sprintf("fiber: assertion %q failed: %s (detail=%#x)", tag, message, detail))
	}
}
