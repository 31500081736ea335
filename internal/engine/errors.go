package engine

import "fmt"

// EvalErrorKind classifies evaluation failures. Non-finite results are not
// failures; they come back as ordinary Numbers for the caller to inspect.
type EvalErrorKind int

const (
	// NotFound means the handle does not name a compiled function, either
	// because Differentiate never issued it or because the entry was
	// evicted or the engine closed.
	NotFound EvalErrorKind = iota
	// NativeTrap means the compiled function faulted during execution.
	NativeTrap
)

func (k EvalErrorKind) String() string {
	if k == NativeTrap {
		return "trap during native execution"
	}
	return "function not found"
}

// EvalError reports a failed derivative evaluation. Handle names the
// function that was requested.
type EvalError struct {
	Kind   EvalErrorKind
	Handle string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Handle)
}
