// Package errs holds the engine's sentinel errors. They signal broken
// invariants or programmer mistakes, not recoverable runtime conditions.
package errs

import "errors"

var (
	ErrUnknownTool        = errors.New("unknown tool")
	ErrUnknownElementType = errors.New("unknown element type")
	ErrUnknownUsermode    = errors.New("unknown usermode")
	ErrImpossibleState    = errors.New("impossible state reached")
	ErrDuplicateAction    = errors.New("action already registered")
	ErrUnknownAction      = errors.New("unknown action")
	ErrElementNotFound    = errors.New("element not found")
	ErrInvalidScript      = errors.New("invalid gesture script")
)
