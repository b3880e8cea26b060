package turing

import (
	"fmt"
	"reflect"
	"sort"
)

type ruleKey[S comparable] struct {
	state  S
	symbol rune
}

// Table maps (state, symbol) conditions to validated actions. Every symbol
// is checked against the table's alphabet on insertion; lookups never
// validate. Re-adding a condition replaces its action.
type Table[S comparable] struct {
	alphabet *Alphabet
	rules    map[ruleKey[S]]rule[S]
}

// Transition is one entry of a Table.
type Transition[S comparable] struct {
	Condition Condition[S]
	Action    Action[S]
}

// NewTable creates an empty table over alphabet. A nil alphabet means ASCII.
func NewTable[S comparable](alphabet *Alphabet) *Table[S] {
	if alphabet == nil {
		alphabet = ASCII
	}
	return &Table[S]{alphabet: alphabet, rules: make(map[ruleKey[S]]rule[S])}
}

// Add validates and stores a transition.
func (t *Table[S]) Add(c Condition[S], a Action[S]) error {
	sym, err := t.alphabet.Check(c.Symbol)
	if err != nil {
		return err
	}
	if !hashable(c.State) {
		return fmt.Errorf("turing: state %v (%T) is not comparable", c.State, c.State)
	}
	for _, s := range a.targets() {
		if !hashable(s) {
			return fmt.Errorf("turing: next state %v (%T) is not comparable", s, s)
		}
	}
	r, err := a.compile(t.alphabet)
	if err != nil {
		return err
	}
	t.rules[ruleKey[S]{state: c.State, symbol: sym}] = r
	return nil
}

// Len returns the number of transitions.
func (t *Table[S]) Len() int { return len(t.rules) }

// Alphabet returns the alphabet the table validates against.
func (t *Table[S]) Alphabet() *Alphabet { return t.alphabet }

// Lookup returns the action for state reading symbol.
func (t *Table[S]) Lookup(state S, symbol rune) (Action[S], bool) {
	r, ok := t.rules[ruleKey[S]{state: state, symbol: symbol}]
	return r.action, ok
}

func (t *Table[S]) lookup(state S, symbol rune) (rule[S], bool) {
	r, ok := t.rules[ruleKey[S]{state: state, symbol: symbol}]
	return r, ok
}

// Transitions lists every transition ordered by state, then symbol.
// States are ordered by their printed form, then by their dynamic type.
func (t *Table[S]) Transitions() []Transition[S] {
	out := make([]Transition[S], 0, len(t.rules))
	for k, r := range t.rules {
		out = append(out, Transition[S]{
			Condition: Condition[S]{State: k.state, Symbol: string(k.symbol)},
			Action:    r.action,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := compareStates(out[i].Condition.State, out[j].Condition.State); c != 0 {
			return c < 0
		}
		return out[i].Condition.Symbol < out[j].Condition.Symbol
	})
	return out
}

// hashable guards map keys when S is an interface type: a dynamic value of
// a non-comparable type would panic on insertion.
func hashable[S comparable](s S) bool {
	v := reflect.ValueOf(any(s))
	return !v.IsValid() || v.Comparable()
}
