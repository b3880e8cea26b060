package definition

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/agnivade/levenshtein"
	"github.com/blackwell-systems/turing"
)

// Compile builds the machine a definition describes. Every problem in the
// definition is reported, joined into one error; the machine is returned only
// when there are none.
func Compile(f *File) (*turing.Machine[string], *turing.Report, error) {
	var errs []error

	alphabet, err := f.Alphabet.build(f.Name)
	if err != nil {
		errs = append(errs, err)
		alphabet = turing.ASCII
	}
	if f.Initial == "" {
		errs = append(errs, fmt.Errorf("initial state is required"))
	}

	known := f.states()
	m := turing.New(f.Accepting, f.Initial, alphabet)
	for i, t := range f.Transitions {
		where := fmt.Sprintf("transition %d (%s, %q)", i+1, t.State, t.Read)
		action, err := t.action()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
			continue
		}
		for _, next := range targets(action) {
			if _, ok := known[next]; !ok {
				errs = append(errs, fmt.Errorf("%s: undefined state %q%s", where, next, suggest(next, sortedKeys(known))))
			}
		}
		if err := m.AddTransition(turing.On(t.State, t.Read), action); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return m, m.Verify(), nil
}

// states returns every state the file declares: the initial state, the
// accepting and extra states, and every state a transition leaves from.
func (f *File) states() map[string]struct{} {
	known := map[string]struct{}{}
	if f.Initial != "" {
		known[f.Initial] = struct{}{}
	}
	for _, s := range f.Accepting {
		known[s] = struct{}{}
	}
	for _, s := range f.States {
		known[s] = struct{}{}
	}
	for _, t := range f.Transitions {
		known[t.State] = struct{}{}
	}
	return known
}

func (t Transition) action() (turing.Action[string], error) {
	if t.Next == "" {
		return turing.Action[string]{}, fmt.Errorf("next state is required")
	}
	if t.Action != "X" && (t.Program != "" || len(t.Branches) > 0) {
		return turing.Action[string]{}, fmt.Errorf("program and branches need action X")
	}
	if t.Action != "W" && t.Write != "" {
		return turing.Action[string]{}, fmt.Errorf("write needs action W")
	}

	switch t.Action {
	case "L":
		return turing.Left(t.Next), nil
	case "R":
		return turing.Right(t.Next), nil
	case "W":
		return turing.Write(t.Write, t.Next), nil
	case "X":
		p, err := turing.ParseProgram(t.Program)
		if err != nil {
			return turing.Action[string]{}, err
		}
		a := turing.Exec(p, t.Next)
		for value, state := range t.Branches {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return turing.Action[string]{}, fmt.Errorf("branch %q: not an integer", value)
			}
			a = a.Branch(n, state)
		}
		return a, nil
	default:
		return turing.Action[string]{}, &turing.InvalidActionError{Detail: fmt.Sprintf("unknown action %q, want L, R, W or X", t.Action)}
	}
}

func targets(a turing.Action[string]) []string {
	out := []string{a.Next}
	for _, s := range a.Branches {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// suggest returns a ` (did you mean "x"?)` hint naming the closest
// candidate, or "" when nothing is close.
func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(name)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
