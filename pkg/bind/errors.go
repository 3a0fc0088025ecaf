package bind

import (
	"fmt"
	"log"
	"sync"
)

// Kind categorizes an engine error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfig indicates a construction-time configuration error:
	// multiple roots, unknown action, malformed iteration grammar,
	// missing model for a binding modifier. Templates that fail this way
	// are unusable; no subscriptions are left wired.
	KindConfig
	// KindExpr indicates a malformed expression.
	KindExpr
	// KindEval indicates a runtime failure inside a formatter or
	// expression body. These surface to the Render caller unmodified.
	KindEval
	// KindTeardown indicates a recovered panic in a teardown callback
	// during destroy. Destroy continues best-effort past these.
	KindTeardown
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindExpr:
		return "expr"
	case KindEval:
		return "eval"
	case KindTeardown:
		return "teardown"
	default:
		return "unknown"
	}
}

// Error is a structured engine error.
type Error struct {
	// Op is the operation that failed (e.g., "bind.compile", "action.each").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func wrapError(op string, kind Kind, err error) *Error {
	if structured, ok := err.(*Error); ok {
		return structured
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Handler receives errors that have no caller on the stack to return to:
// failures in subscription-triggered re-renders and recovered teardown
// panics. Construction and explicit Render errors are returned to the
// caller instead and never reach the handler.
type Handler interface {
	HandleError(err *Error)
}

// LogHandler writes errors to the standard logger.
type LogHandler struct{}

func (LogHandler) HandleError(err *Error) {
	log.Printf("rivet: %v", err)
}

var (
	handler   Handler = LogHandler{}
	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler. Pass nil to restore the
// default LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		handler = LogHandler{}
	} else {
		handler = h
	}
}

// Report sends an error to the global handler.
func Report(err *Error) {
	if err == nil {
		return
	}
	handlerMu.RLock()
	h := handler
	handlerMu.RUnlock()
	if h != nil {
		h.HandleError(err)
	}
}
