package turing

import (
	"fmt"
)

// Builder constructs a Machine. Declare the accepting states, the alphabet
// and the transitions, then call Build() to validate every transition and
// produce the machine together with its verification report.
type Builder[S comparable] struct {
	initial     S
	accepting   []S
	alphabet    *Alphabet
	transitions []Transition[S]
}

// NewBuilder creates a Builder for a machine starting in initial.
// The alphabet defaults to ASCII.
func NewBuilder[S comparable](initial S) *Builder[S] {
	return &Builder[S]{initial: initial, alphabet: ASCII}
}

// Accept declares accepting states.
func (b *Builder[S]) Accept(states ...S) *Builder[S] {
	b.accepting = append(b.accepting, states...)
	return b
}

// Alphabet sets the alphabet transitions are validated against.
func (b *Builder[S]) Alphabet(a *Alphabet) *Builder[S] {
	b.alphabet = a
	return b
}

// Transition adds a prebuilt transition.
func (b *Builder[S]) Transition(c Condition[S], a Action[S]) *Builder[S] {
	b.transitions = append(b.transitions, Transition[S]{Condition: c, Action: a})
	return b
}

// TransitionBuilder provides a fluent API for declaring one transition.
type TransitionBuilder[S comparable] struct {
	b      *Builder[S]
	cond   Condition[S]
	action Action[S]
}

// On begins declaring the transition taken in state reading symbol.
func (b *Builder[S]) On(state S, symbol string) *TransitionBuilder[S] {
	return &TransitionBuilder[S]{b: b, cond: On(state, symbol)}
}

// Left moves the head left.
func (tb *TransitionBuilder[S]) Left() *TransitionBuilder[S] {
	tb.action.Kind = MoveLeft
	return tb
}

// Right moves the head right.
func (tb *TransitionBuilder[S]) Right() *TransitionBuilder[S] {
	tb.action.Kind = MoveRight
	return tb
}

// Write writes symbol under the head.
func (tb *TransitionBuilder[S]) Write(symbol string) *TransitionBuilder[S] {
	tb.action.Kind = WriteSymbol
	tb.action.Symbol = symbol
	return tb
}

// Exec runs a program on the action machine.
func (tb *TransitionBuilder[S]) Exec(p Program) *TransitionBuilder[S] {
	tb.action.Kind = RunProgram
	tb.action.Program = p
	return tb
}

// Branch sends the machine to state when the program leaves value in the
// active register.
func (tb *TransitionBuilder[S]) Branch(value int64, state S) *TransitionBuilder[S] {
	tb.action = tb.action.Branch(value, state)
	return tb
}

// Goto sets the next state and registers the transition with the builder.
func (tb *TransitionBuilder[S]) Goto(next S) *Builder[S] {
	tb.action.Next = next
	tb.b.transitions = append(tb.b.transitions, Transition[S]{Condition: tb.cond, Action: tb.action})
	return tb.b
}

// Build validates every transition and returns the machine and its report.
// The first invalid transition aborts the build.
func (b *Builder[S]) Build() (*Machine[S], *Report, error) {
	if b.alphabet == nil {
		return nil, nil, fmt.Errorf("turing: builder has no alphabet")
	}
	m := New(b.accepting, b.initial, b.alphabet)
	if err := m.Err(); err != nil {
		return nil, nil, err
	}
	for _, t := range b.transitions {
		if err := m.AddTransition(t.Condition, t.Action); err != nil {
			return nil, nil, fmt.Errorf("turing: transition (%v, %q): %w", t.Condition.State, t.Condition.Symbol, err)
		}
	}
	return m, m.Verify(), nil
}
