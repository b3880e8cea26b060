package turing

import (
	"fmt"
	"sort"
)

// radix is the base the left half of the tape is encoded in. A cell's code
// is its code point; 0 is the empty cell.
const radix = maxChar + 1

// Program compiles the whole machine into a single action machine program,
// built only from the register and stack primitives plus read, print and
// the error toggle.
//
// The program keeps the head cell and every cell right of it on the stack,
// head on top, and packs the cells left of the head into one integer: a
// base-128 number whose lowest digit is the cell next to the head. It reads
// its input reversed (see ProgramInput), runs until the machine halts, and
// prints "ACCEPT\n" or "REJECT\n". Errors are toggled off, so popping past
// the right end of the tape yields the empty cell.
//
// Only moves and writes compile, and every symbol must be a code point from
// 1 to 127. A right move costs time proportional to the packed left half,
// and the left half overflows beyond eight cells.
func (m *Machine[S]) Program() (Program, error) {
	if m.invalid != nil {
		return nil, m.invalid
	}

	states := m.programStates()
	ids := make(map[S]int, len(states))
	for i, s := range states {
		ids[s] = i + 1
	}

	byState := make(map[S][]loweredRule, len(states))
	for k, r := range m.table.rules {
		lr, err := m.lower(k, r, ids)
		if err != nil {
			return nil, fmt.Errorf("turing: transition (%v, %q): %w", k.state, string(k.symbol), err)
		}
		byState[k.state] = append(byState[k.state], lr)
	}

	p := Program{
		ToggleErrors().With("popping an empty stack yields the empty cell"),
		Comment("push the reversed input, first symbol on top"),
		Read(),
		While(PushActive(), PushZero(), PopToActive(), Read()),
		PushZero().With("empty left half"),
	}
	p = append(p, repeat(Incr(), ids[m.initial])...)

	var loop Program
	for _, s := range states {
		rules := byState[s]
		sort.Slice(rules, func(i, j int) bool { return rules[i].read < rules[j].read })
		loop = append(loop, stateBlock(fmt.Sprint(s), m.IsAccepting(s), rules)...)
	}
	loop = append(loop, PopToActive().With("next state, 0 accepts, -1 rejects"))

	p = append(p, Comment("one state per pass"), While(loop...))
	p = append(p, If(printLine("ACCEPT")...), Incr(), If(printLine("REJECT")...))
	return p, nil
}

// ProgramInput checks input the way a run does and returns it reversed, as
// the program built by Program reads it.
func (m *Machine[S]) ProgramInput(input string) (string, error) {
	runes := []rune(input)
	for _, r := range runes {
		if err := m.table.alphabet.checkRune(r); err != nil {
			return "", err
		}
		if _, err := cellCode(r, m.table.alphabet); err != nil {
			return "", err
		}
	}
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes), nil
}

// programStates numbers the states: the initial state first, the rest in
// printed order.
func (m *Machine[S]) programStates() []S {
	seen := map[S]bool{m.initial: true}
	var rest []S
	add := func(s S) {
		if !seen[s] {
			seen[s] = true
			rest = append(rest, s)
		}
	}
	for s := range m.accepting {
		add(s)
	}
	for k, r := range m.table.rules {
		add(k.state)
		add(r.next)
	}
	sortStates(rest)
	return append([]S{m.initial}, rest...)
}

type loweredRule struct {
	read  int
	kind  ActionKind
	write int
	next  int
}

func (m *Machine[S]) lower(k ruleKey[S], r rule[S], ids map[S]int) (loweredRule, error) {
	if r.kind != MoveLeft && r.kind != MoveRight && r.kind != WriteSymbol {
		return loweredRule{}, &InvalidActionError{Kind: r.kind, Detail: "only moves and writes compile to a program"}
	}
	read, err := cellCode(k.symbol, m.table.alphabet)
	if err != nil {
		return loweredRule{}, err
	}
	lr := loweredRule{read: read, kind: r.kind, next: ids[r.next]}
	if r.kind == WriteSymbol {
		if lr.write, err = cellCode(r.symbol, m.table.alphabet); err != nil {
			return loweredRule{}, err
		}
	}
	return lr, nil
}

func cellCode(r rune, a *Alphabet) (int, error) {
	if r < 1 || r > maxChar {
		return 0, &SymbolError{Symbol: string(r), Alphabet: a.Name(), Reason: "outside the compiled range 1 to 127"}
	}
	return int(r), nil
}

// stateBlock dispatches on the state counter in active: it counts down by
// one and runs its body when the counter reaches the inactive 0.
//
// Body entry: active 0, inactive 0, stack [... right, head, left].
// Body exit: active 0, inactive 0, stack [... right, head, left, next].
func stateBlock(name string, accepting bool, rules []loweredRule) Program {
	body := Program{
		Comment("split off the head"),
		PopToActive(), Swap(), PopToActive(), Swap(), PushActive(),
		PushZero(), PopToActive(),
	}
	// active counts up through the symbols, inactive holds the head.
	if !accepting {
		at := 0
		for _, r := range rules {
			body = append(body, repeat(Incr(), r.read-at)...)
			at = r.read
			body = append(body, If(transition(r)...).With(fmt.Sprintf("on %d", r.read)))
		}
	}

	// A taken transition leaves inactive at -1; otherwise it holds the head
	// and the state halts.
	halt := Program{
		Decr(), Swap(), PopToActive(), Swap(), PushActive(), Swap(), PushActive(),
		PushZero(), PopToActive(), Save(),
	}
	if accepting {
		halt = append(halt, PushZero().With("accept"))
	} else {
		halt = append(halt, Decr(), PushActive().With("reject"), Incr())
	}
	body = append(body, Swap(), Incr(), While(halt...), Save())

	return Program{
		Comment(oneLine("state " + name)),
		Decr(),
		If(body...),
	}
}

// transition applies one rule.
//
// Entry: active and inactive hold the head, stack [... right, left].
// Exit: active 0, inactive -1, stack [... right, head, left, next].
func transition(r loweredRule) Program {
	p := Program{PopToActive(), Swap(), PushActive()}
	switch r.kind {
	case MoveLeft:
		p = append(p, moveLeft()...)
	case MoveRight:
		p = append(p, moveRight()...)
	case WriteSymbol:
		p = append(p, write(r.write)...)
	}
	p = append(p, Swap(), PushActive(), PushZero(), PopToActive(), Save())
	p = append(p, repeat(Incr(), r.next)...)
	return append(p, PushActive(), PushZero(), PopToActive(), Decr(), Swap())
}

// The tape operations below share one contract.
//
// Entry: inactive holds the left half, stack [... right, head].
// Exit: inactive holds the new left half, stack [... new right, new head].

func write(code int) Program {
	p := Program{PopToActive(), PushZero(), PopToActive()}
	p = append(p, repeat(Incr(), code)...)
	return append(p, PushActive())
}

// moveLeft divides left+1 by the radix with repeated subtraction. The count
// of subtractions is the quotient plus one, and the remainder is left over
// after adding the radix back and subtracting one.
func moveLeft() Program {
	p := Program{
		PushZero(), PopToActive(), Swap(), Incr(),
		While(append(repeat(Decr(), radix), Swap(), Incr(), Swap())...),
	}
	p = append(p, repeat(Incr(), radix-1)...)
	return append(p, PushActive().With("new head"), Swap(), Decr(), Swap())
}

// moveRight multiplies the left half by the radix with repeated addition
// onto the old head, then drops the head from the stack.
func moveRight() Program {
	p := Program{Swap(), PushActive()}
	for i := 0; i < radix; i++ {
		p = append(p, While(Decr(), Swap(), Incr(), Swap()), PopToActive(), PushActive())
	}
	return append(p, PopToActive(), PopToActive())
}

// printLine prints s and a newline, starting and ending with active at 0.
func printLine(s string) Program {
	var p Program
	for _, c := range s + "\n" {
		p = append(p, repeat(Incr(), int(c))...)
		p = append(p, Print(), PushZero(), PopToActive())
	}
	return p
}

func repeat(in Instruction, n int) Program {
	p := make(Program, n)
	for i := range p {
		p[i] = in
	}
	return p
}
