package turing

import "fmt"

// ActionKind is the closed set of effects a transition can have.
type ActionKind int

const (
	// ActionInvalid is the zero ActionKind; AddTransition rejects it.
	ActionInvalid ActionKind = iota
	// MoveLeft moves the head one cell left.
	MoveLeft
	// MoveRight moves the head one cell right.
	MoveRight
	// WriteSymbol replaces the symbol under the head.
	WriteSymbol
	// RunProgram runs an action machine program on the head cell.
	RunProgram
)

// String returns the one-letter code used in definition files.
func (k ActionKind) String() string {
	switch k {
	case MoveLeft:
		return "L"
	case MoveRight:
		return "R"
	case WriteSymbol:
		return "W"
	case RunProgram:
		return "X"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Condition is the lookup key of a transition: the current state and the
// symbol under the head.
type Condition[S comparable] struct {
	State  S
	Symbol string
}

// On is shorthand for Condition{state, symbol}.
func On[S comparable](state S, symbol string) Condition[S] {
	return Condition[S]{State: state, Symbol: symbol}
}

// Action is the effect of a transition and the state it leads to.
// Build one with Left, Right, Write or Exec; the zero Action is invalid.
type Action[S comparable] struct {
	Kind ActionKind
	Next S

	// Symbol is the symbol a WriteSymbol action writes. It is required for
	// writes and must be empty for every other kind.
	Symbol string

	// Program is run by RunProgram actions.
	Program Program

	// Branches picks the next state of a RunProgram action from the value of
	// the active register after the program ran. Values not listed go to Next.
	Branches map[int64]S
}

// Left moves the head one cell left, then goes to next.
func Left[S comparable](next S) Action[S] {
	return Action[S]{Kind: MoveLeft, Next: next}
}

// Right moves the head one cell right, then goes to next.
func Right[S comparable](next S) Action[S] {
	return Action[S]{Kind: MoveRight, Next: next}
}

// Write replaces the symbol under the head and holds position.
func Write[S comparable](symbol string, next S) Action[S] {
	return Action[S]{Kind: WriteSymbol, Symbol: symbol, Next: next}
}

// Exec runs p on the run's action machine. While p runs, read yields the
// symbol under the head and print writes onto the head cell.
func Exec[S comparable](p Program, next S) Action[S] {
	return Action[S]{Kind: RunProgram, Program: p, Next: next}
}

// Branch returns a copy of a whose program sends the machine to state when
// the active register ends at value.
func (a Action[S]) Branch(value int64, state S) Action[S] {
	branches := make(map[int64]S, len(a.Branches)+1)
	for v, s := range a.Branches {
		branches[v] = s
	}
	branches[value] = state
	a.Branches = branches
	return a
}

// targets lists every state the action can lead to.
func (a Action[S]) targets() []S {
	out := []S{a.Next}
	for _, s := range a.Branches {
		out = append(out, s)
	}
	return out
}

// rule is a validated action as stored in the table.
type rule[S comparable] struct {
	kind     ActionKind
	symbol   rune
	program  Program
	next     S
	branches map[int64]S
	action   Action[S]
}

// compile validates a against alphabet and returns its stored form.
func (a Action[S]) compile(alphabet *Alphabet) (rule[S], error) {
	r := rule[S]{kind: a.Kind, next: a.Next, action: a}
	switch a.Kind {
	case MoveLeft, MoveRight:
		if a.Symbol != "" {
			return rule[S]{}, &InvalidActionError{Kind: a.Kind, Detail: "moves do not write a symbol"}
		}
	case WriteSymbol:
		sym, err := alphabet.Check(a.Symbol)
		if err != nil {
			return rule[S]{}, err
		}
		r.symbol = sym
	case RunProgram:
		if a.Symbol != "" {
			return rule[S]{}, &InvalidActionError{Kind: a.Kind, Detail: "programs write through print"}
		}
		if err := a.Program.Validate(); err != nil {
			return rule[S]{}, err
		}
		r.program = append(Program(nil), a.Program...)
		if len(a.Branches) > 0 {
			r.branches = make(map[int64]S, len(a.Branches))
			for v, s := range a.Branches {
				r.branches[v] = s
			}
		}
		r.action.Program, r.action.Branches = r.program, r.branches
	default:
		return rule[S]{}, &InvalidActionError{Kind: a.Kind}
	}
	if a.Kind != RunProgram && len(a.Branches) > 0 {
		return rule[S]{}, &InvalidActionError{Kind: a.Kind, Detail: "only programs branch"}
	}
	return r, nil
}
