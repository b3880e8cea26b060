package turing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAlphabet is returned when an alphabet accepts its own empty symbol.
	ErrInvalidAlphabet = errors.New("turing: empty symbol cannot be in the alphabet")

	// ErrSymbol is the sentinel wrapped by every *SymbolError.
	ErrSymbol = errors.New("turing: invalid symbol")

	// ErrInvalidAction is the sentinel wrapped by every *InvalidActionError.
	ErrInvalidAction = errors.New("turing: invalid action")

	// ErrRange is the sentinel wrapped by every *RangeError.
	ErrRange = errors.New("turing: value out of range")

	// ErrEmptyStack is returned when pop-to-active runs on an empty stack.
	ErrEmptyStack = errors.New("turing: pop on empty stack")

	// ErrStepLimit is returned when a run exceeds the budget set with WithMaxSteps.
	ErrStepLimit = errors.New("turing: step limit reached")

	// ErrSealed is returned when a transition is added after a run has started.
	ErrSealed = errors.New("turing: machine is sealed")
)

// SymbolError reports a symbol that is not exactly one rune long or is not
// a member of the alphabet.
type SymbolError struct {
	Symbol   string
	Alphabet string
	Reason   string
}

// Error describes the symbol and why it was rejected.
func (e *SymbolError) Error() string {
	if e.Alphabet != "" {
		return fmt.Sprintf("turing: symbol %q: %s (alphabet %s)", e.Symbol, e.Reason, e.Alphabet)
	}
	return fmt.Sprintf("turing: symbol %q: %s", e.Symbol, e.Reason)
}

// Unwrap returns ErrSymbol.
func (e *SymbolError) Unwrap() error { return ErrSymbol }

// InvalidActionError reports an action whose kind or program is not recognized.
type InvalidActionError struct {
	Kind   ActionKind
	Detail string
}

// Error names the action kind and the problem.
func (e *InvalidActionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("turing: invalid action %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("turing: invalid action %s", e.Kind)
}

// Unwrap returns ErrInvalidAction.
func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// RangeError reports a value outside the range an action machine operation
// accepts: a character at or above 128 for set-active, or a register that
// does not hold a printable code point.
type RangeError struct {
	Op    Opcode
	Value int64
	Max   int64
}

// Error names the operation, the value and the accepted range.
func (e *RangeError) Error() string {
	return fmt.Sprintf("turing: %s: value %d outside [0, %d]", e.Op, e.Value, e.Max)
}

// Unwrap returns ErrRange.
func (e *RangeError) Unwrap() error { return ErrRange }
