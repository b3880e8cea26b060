package turing

import (
	"fmt"
	"sort"
	"strings"
)

// Report summarizes the structure of a machine's transition graph.
type Report struct {
	Alphabet    string
	Initial     string
	States      int
	Transitions int

	Moves    int
	Writes   int
	Programs int

	// Reachability from the initial state over next-state edges.
	Reachable          int
	AcceptingReachable bool
	Unreachable        []string // states never entered from the initial state

	// DeadEnds are reachable, non-accepting states with no transitions;
	// entering one always rejects.
	DeadEnds []string
}

// String renders the report for terminal output.
func (r *Report) String() string {
	s := fmt.Sprintf("Alphabet: %s\n", r.Alphabet)
	s += fmt.Sprintf("  Initial: %s\n", r.Initial)
	s += fmt.Sprintf("  States: %d\n", r.States)
	s += fmt.Sprintf("  Transitions: %d (%d moves, %d writes, %d programs)\n",
		r.Transitions, r.Moves, r.Writes, r.Programs)
	s += "\n"
	s += fmt.Sprintf("  Reachable: %d/%d\n", r.Reachable, r.States)
	if r.AcceptingReachable {
		s += "  Accepting state: REACHABLE\n"
	} else {
		s += "  Accepting state: UNREACHABLE (every run rejects or never halts)\n"
	}
	if len(r.Unreachable) > 0 {
		s += fmt.Sprintf("  Unreachable: %s\n", strings.Join(r.Unreachable, ", "))
	}
	if len(r.DeadEnds) > 0 {
		s += fmt.Sprintf("  Dead ends: %s\n", strings.Join(r.DeadEnds, ", "))
	}
	return s
}

// Verify walks the transition graph and reports its shape. It does not
// decide halting; it only finds states no input can reach.
func (m *Machine[S]) Verify() *Report {
	report := &Report{
		Alphabet:    m.table.alphabet.Name(),
		Initial:     fmt.Sprint(m.initial),
		Transitions: m.table.Len(),
	}

	if m.invalid != nil {
		return report
	}

	states := map[S]struct{}{m.initial: {}}
	edges := make(map[S][]S)
	outgoing := make(map[S]bool)
	for s := range m.accepting {
		states[s] = struct{}{}
	}
	for k, r := range m.table.rules {
		states[k.state] = struct{}{}
		outgoing[k.state] = true
		for _, next := range r.action.targets() {
			states[next] = struct{}{}
			edges[k.state] = append(edges[k.state], next)
		}
		switch r.kind {
		case MoveLeft, MoveRight:
			report.Moves++
		case WriteSymbol:
			report.Writes++
		case RunProgram:
			report.Programs++
		}
	}
	report.States = len(states)

	seen := map[S]bool{m.initial: true}
	queue := []S{m.initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if m.IsAccepting(s) {
			report.AcceptingReachable = true
			continue
		}
		if !outgoing[s] {
			report.DeadEnds = append(report.DeadEnds, fmt.Sprint(s))
		}
		for _, next := range edges[s] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	report.Reachable = len(seen)

	var unreachable []S
	for s := range states {
		if !seen[s] {
			unreachable = append(unreachable, s)
		}
	}
	sortStates(unreachable)
	for _, s := range unreachable {
		report.Unreachable = append(report.Unreachable, fmt.Sprint(s))
	}
	sort.Strings(report.DeadEnds)
	return report
}
