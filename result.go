package turing

import (
	"fmt"
	"sort"
	"strings"
)

// Result is the configuration a run halted in.
type Result[S comparable] struct {
	Accepted bool
	State    S
	// Steps counts control-loop iterations that looked up a transition,
	// including a final failed lookup.
	Steps int

	Tape []rune
	Head int // index into Tape

	// Action machine registers at halt.
	Active   int64
	Inactive int64
	Stack    []int64
}

// TapeString returns the tape contents.
func (r *Result[S]) TapeString() string { return string(r.Tape) }

// Verdict returns "ACCEPT" or "REJECT".
func (r *Result[S]) Verdict() string {
	if r.Accepted {
		return "ACCEPT"
	}
	return "REJECT"
}

// String renders the tape with a caret under the head.
func (r *Result[S]) String() string {
	return fmt.Sprintf("%s\n%s^", string(r.Tape), strings.Repeat(" ", r.Head))
}

func sortStates[S comparable](states []S) {
	sort.Slice(states, func(i, j int) bool {
		return compareStates(states[i], states[j]) < 0
	})
}

// compareStates orders states by printed form. States that print alike,
// such as 1 and "1" in a Machine[any], are ordered by dynamic type.
func compareStates[S comparable](a, b S) int {
	if c := strings.Compare(fmt.Sprint(a), fmt.Sprint(b)); c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}
