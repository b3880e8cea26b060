// Package turing implements tape automata: a finite control that reads and
// rewrites a bi-infinite tape according to a table of transitions, plus a
// small register/stack machine from which transition actions can be built.
//
// Transitions are validated against the machine's alphabet when they are
// added, so a run never re-checks symbols on its per-step path.
package turing

import "unicode/utf8"

// Alphabet is the set of symbols a tape may hold, plus one reserved empty
// symbol used to extend the tape. The empty symbol is never a member.
type Alphabet struct {
	name     string
	contains func(rune) bool
	empty    rune
}

// ASCII accepts runes below 128 and uses 'ε' as the empty symbol.
var ASCII = mustAlphabet(NewAlphabet("ascii", func(r rune) bool { return r >= 0 && r < 128 }, 'ε'))

// NewAlphabet returns an alphabet backed by the given membership predicate.
// It fails with ErrInvalidAlphabet if the predicate accepts the empty symbol.
func NewAlphabet(name string, contains func(rune) bool, empty rune) (*Alphabet, error) {
	if contains == nil {
		contains = func(rune) bool { return false }
	}
	a := &Alphabet{name: name, contains: contains, empty: empty}
	if a.Contains(empty) {
		return nil, ErrInvalidAlphabet
	}
	return a, nil
}

// Symbols returns an alphabet containing exactly the runes of set.
func Symbols(name, set string, empty rune) (*Alphabet, error) {
	members := make(map[rune]struct{}, len(set))
	for _, r := range set {
		members[r] = struct{}{}
	}
	return NewAlphabet(name, func(r rune) bool {
		_, ok := members[r]
		return ok
	}, empty)
}

func mustAlphabet(a *Alphabet, err error) *Alphabet {
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the alphabet's name.
func (a *Alphabet) Name() string { return a.name }

// Empty returns the reserved empty symbol.
func (a *Alphabet) Empty() rune { return a.empty }

// Contains reports whether r is a member of the alphabet.
func (a *Alphabet) Contains(r rune) bool { return a.contains(r) }

// Check validates a single symbol and returns it as a rune.
// Every symbol that reaches a tape or a transition table passes through here.
func (a *Alphabet) Check(symbol string) (rune, error) {
	if utf8.RuneCountInString(symbol) != 1 {
		return 0, &SymbolError{Symbol: symbol, Alphabet: a.name, Reason: "not a single character"}
	}
	r, _ := utf8.DecodeRuneInString(symbol)
	if r == utf8.RuneError && symbol != string(utf8.RuneError) {
		return 0, &SymbolError{Symbol: symbol, Alphabet: a.name, Reason: "not valid UTF-8"}
	}
	if !a.Contains(r) {
		return 0, &SymbolError{Symbol: symbol, Alphabet: a.name, Reason: "not in alphabet"}
	}
	return r, nil
}

// checkRune is Check for a rune already decoded from input.
func (a *Alphabet) checkRune(r rune) error {
	if !a.Contains(r) {
		return &SymbolError{Symbol: string(r), Alphabet: a.name, Reason: "not in alphabet"}
	}
	return nil
}
