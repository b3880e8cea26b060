package turing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// Machine is a tape automaton definition: an alphabet, an initial state,
// a set of accepting states and a transition table.
//
// Add transitions first, then run. The first run seals the machine; after
// that the table is read-only and any number of runs may proceed
// concurrently, each on its own tape and action machine.
type Machine[S comparable] struct {
	initial   S
	accepting map[S]struct{}
	table     *Table[S]
	sealed    atomic.Bool

	// invalid is set when New was given a state that cannot be a map key.
	invalid error
}

// New creates a machine with an empty table. A nil alphabet means ASCII.
//
// States of interface type must hold comparable values. A non-comparable
// initial or accepting state is not stored; it makes AddTransition,
// RunContext and Err report an error instead.
func New[S comparable](accepting []S, initial S, alphabet *Alphabet) *Machine[S] {
	m := &Machine[S]{
		initial:   initial,
		accepting: make(map[S]struct{}, len(accepting)),
		table:     NewTable[S](alphabet),
	}
	if !hashable(initial) {
		m.invalid = fmt.Errorf("turing: initial state %v (%T) is not comparable", initial, initial)
	}
	for _, s := range accepting {
		if !hashable(s) {
			if m.invalid == nil {
				m.invalid = fmt.Errorf("turing: accepting state %v (%T) is not comparable", s, s)
			}
			continue
		}
		m.accepting[s] = struct{}{}
	}
	return m
}

// Err reports a non-comparable state given to New.
func (m *Machine[S]) Err() error { return m.invalid }

// AddTransition validates and stores a transition. It fails with ErrSealed
// once a run has started.
func (m *Machine[S]) AddTransition(c Condition[S], a Action[S]) error {
	if m.invalid != nil {
		return m.invalid
	}
	if m.sealed.Load() {
		return ErrSealed
	}
	return m.table.Add(c, a)
}

// Initial returns the initial state.
func (m *Machine[S]) Initial() S { return m.initial }

// Alphabet returns the machine's alphabet.
func (m *Machine[S]) Alphabet() *Alphabet { return m.table.alphabet }

// Table returns the transition table. Do not add to it once runs have begun.
func (m *Machine[S]) Table() *Table[S] { return m.table }

// IsAccepting reports whether s is an accepting state.
func (m *Machine[S]) IsAccepting(s S) bool {
	if !hashable(s) {
		return false
	}
	_, ok := m.accepting[s]
	return ok
}

// Accepting returns the accepting states ordered by their printed form.
func (m *Machine[S]) Accepting() []S {
	out := make([]S, 0, len(m.accepting))
	for s := range m.accepting {
		out = append(out, s)
	}
	sortStates(out)
	return out
}

// Step describes one iteration of the control loop, as seen by a step hook.
type Step[S comparable] struct {
	N      int // 1-based
	State  S
	Symbol rune
	Head   int
	Action Action[S]
}

type runConfig[S comparable] struct {
	maxSteps int
	hook     func(Step[S]) error
	logger   *slog.Logger
}

// RunOption configures a single run.
type RunOption[S comparable] func(*runConfig[S])

// WithMaxSteps stops the run with ErrStepLimit once n steps have been taken.
// Zero means no limit.
func WithMaxSteps[S comparable](n int) RunOption[S] {
	return func(c *runConfig[S]) { c.maxSteps = n }
}

// WithStepHook calls fn before each transition is applied. A non-nil error
// stops the run and is returned.
func WithStepHook[S comparable](fn func(Step[S]) error) RunOption[S] {
	return func(c *runConfig[S]) { c.hook = fn }
}

// WithLogger traces every step at debug level.
func WithLogger[S comparable](l *slog.Logger) RunOption[S] {
	return func(c *runConfig[S]) { c.logger = l }
}

// Run runs the machine on input and reports whether it was accepted.
func (m *Machine[S]) Run(input string) (bool, error) {
	res, err := m.RunContext(context.Background(), input)
	if err != nil {
		return false, err
	}
	return res.Accepted, nil
}

// RunContext runs the machine on input. The run halts when an accepting
// state is reached (accepted) or when no transition matches (rejected).
// Without a step limit a machine that never halts runs until ctx is done.
//
// On error the returned Result, when non-nil, holds the configuration the
// machine stopped in.
func (m *Machine[S]) RunContext(ctx context.Context, input string, opts ...RunOption[S]) (*Result[S], error) {
	var cfg runConfig[S]
	for _, opt := range opts {
		opt(&cfg)
	}
	if m.invalid != nil {
		return nil, m.invalid
	}
	m.sealed.Store(true)

	tape, err := NewTape(input, m.table.alphabet)
	if err != nil {
		return nil, err
	}
	r := &run[S]{
		m:     m,
		ctx:   ctx,
		tape:  tape,
		vm:    NewVM(),
		state: m.initial,
		cfg:   cfg,
	}
	if ctx.Done() != nil {
		r.vm.Hook = func(Instruction) error { return ctx.Err() }
	}
	accepted, err := r.loop()
	res := r.result(accepted)
	if cfg.logger != nil {
		cfg.logger.DebugContext(ctx, "run halted",
			"accepted", accepted,
			"state", fmt.Sprint(r.state),
			"steps", r.steps,
			"error", err,
		)
	}
	return res, err
}

type run[S comparable] struct {
	m     *Machine[S]
	ctx   context.Context
	tape  *Tape
	vm    *VM
	state S
	steps int
	cfg   runConfig[S]
}

func (r *run[S]) loop() (bool, error) {
	for !r.m.IsAccepting(r.state) {
		if err := r.ctx.Err(); err != nil {
			return false, err
		}
		if r.cfg.maxSteps > 0 && r.steps >= r.cfg.maxSteps {
			return false, ErrStepLimit
		}
		r.steps++
		sym := r.tape.Read()
		rl, ok := r.m.table.lookup(r.state, sym)
		if !ok {
			if r.cfg.logger != nil {
				r.cfg.logger.DebugContext(r.ctx, "no transition", "state", fmt.Sprint(r.state), "symbol", string(sym))
			}
			return false, nil
		}
		if r.cfg.hook != nil {
			err := r.cfg.hook(Step[S]{N: r.steps, State: r.state, Symbol: sym, Head: r.tape.Head(), Action: rl.action})
			if err != nil {
				return false, err
			}
		}
		next, err := r.apply(rl)
		if err != nil {
			return false, err
		}
		if r.cfg.logger != nil {
			r.cfg.logger.DebugContext(r.ctx, "step",
				"n", r.steps,
				"state", fmt.Sprint(r.state),
				"symbol", string(sym),
				"action", rl.kind.String(),
				"next", fmt.Sprint(next),
			)
		}
		r.state = next
	}
	return true, nil
}

func (r *run[S]) apply(rl rule[S]) (S, error) {
	switch rl.kind {
	case MoveLeft:
		r.tape.MoveLeft()
	case MoveRight:
		r.tape.MoveRight()
	case WriteSymbol:
		r.tape.Write(rl.symbol)
	case RunProgram:
		return r.exec(rl)
	}
	return rl.next, nil
}

// exec runs a program action with the VM's I/O bound to the head cell.
func (r *run[S]) exec(rl rule[S]) (S, error) {
	r.vm.In = strings.NewReader(string(r.tape.Read()))
	r.vm.Out = &headWriter{tape: r.tape, alphabet: r.m.table.alphabet}
	defer func() { r.vm.In, r.vm.Out = nil, nil }()
	if err := r.vm.Exec(rl.program); err != nil {
		var zero S
		return zero, err
	}
	if next, ok := rl.branches[r.vm.Active]; ok {
		return next, nil
	}
	return rl.next, nil
}

// headWriter writes printed runes onto the cell under the head. A printed
// rune outside the alphabet fails the run.
type headWriter struct {
	tape     *Tape
	alphabet *Alphabet
}

func (w *headWriter) Write(p []byte) (int, error) {
	for i := 0; i < len(p); {
		c, size := utf8.DecodeRune(p[i:])
		if err := w.alphabet.checkRune(c); err != nil {
			return i, err
		}
		w.tape.Write(c)
		i += size
	}
	return len(p), nil
}

func (r *run[S]) result(accepted bool) *Result[S] {
	return &Result[S]{
		Accepted: accepted,
		State:    r.state,
		Steps:    r.steps,
		Tape:     r.tape.Cells(),
		Head:     r.tape.Head(),
		Active:   r.vm.Active,
		Inactive: r.vm.Inactive,
		Stack:    r.vm.Stack(),
	}
}
