package turing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/blackwell-systems/turing"
)

// runProgram runs p, compiled from m, on input and returns what it printed.
func runProgram[S comparable](t *testing.T, m *turing.Machine[S], p turing.Program, input string) string {
	t.Helper()
	in, err := m.ProgramInput(input)
	if err != nil {
		t.Fatalf("ProgramInput(%q): %v", input, err)
	}
	var out strings.Builder
	vm := turing.NewVM()
	vm.In = strings.NewReader(in)
	vm.Out = &out
	if err := vm.Exec(p); err != nil {
		t.Fatalf("Exec on %q: %v", input, err)
	}
	return out.String()
}

func checkProgramMatchesRun[S comparable](t *testing.T, m *turing.Machine[S], inputs ...string) {
	t.Helper()
	p, err := m.Program()
	if err != nil {
		t.Fatalf("Program failed: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("compiled program invalid: %v", err)
	}
	for _, input := range inputs {
		accepted, err := m.Run(input)
		if err != nil {
			t.Fatalf("Run(%q): %v", input, err)
		}
		want := "REJECT\n"
		if accepted {
			want = "ACCEPT\n"
		}
		if got := runProgram(t, m, p, input); got != want {
			t.Errorf("program on %q printed %q, Run says %q", input, got, want)
		}
	}
}

func TestProgramUppercase(t *testing.T) {
	checkProgramMatchesRun(t, buildUppercase(t), "abc", "cba", "ab", "", "abcd", "aBc")
}

func TestProgramMovesBothWays(t *testing.T) {
	// Upper-cases up to the c, walks back to the first cell and restores it.
	m := turing.New([]string{"done"}, "up", nil)
	rules := []struct {
		state, read string
		action      turing.Action[string]
	}{
		{"up", "a", turing.Write("A", "up")},
		{"up", "A", turing.Right("up")},
		{"up", "b", turing.Write("B", "up")},
		{"up", "B", turing.Right("up")},
		{"up", "c", turing.Write("C", "back")},
		{"back", "C", turing.Left("back")},
		{"back", "B", turing.Left("back")},
		{"back", "A", turing.Write("a", "done")},
	}
	for _, r := range rules {
		if err := m.AddTransition(turing.On(r.state, r.read), r.action); err != nil {
			t.Fatal(err)
		}
	}
	checkProgramMatchesRun(t, m, "abc", "ac", "c", "ab", "bc", "")
}

func TestProgramLeftOverWrittenCell(t *testing.T) {
	m := turing.New([]string{"ok"}, "s", nil)
	add := func(state, read string, a turing.Action[string]) {
		t.Helper()
		if err := m.AddTransition(turing.On(state, read), a); err != nil {
			t.Fatal(err)
		}
	}
	add("s", "a", turing.Right("t"))
	add("t", "b", turing.Left("u"))
	add("u", "a", turing.Right("v"))
	add("v", "b", turing.Write("c", "w"))
	add("w", "c", turing.Left("x"))
	add("x", "a", turing.Right("ok"))
	// Falling off the left edge reads the empty cell and rejects.
	add("s", "z", turing.Left("edge"))

	checkProgramMatchesRun(t, m, "ab", "aa", "abz", "z", "")
}

func TestProgramAcceptingInitial(t *testing.T) {
	m := turing.New([]string{"s"}, "s", nil)
	if err := m.AddTransition(turing.On("s", "a"), turing.Right("s")); err != nil {
		t.Fatal(err)
	}
	checkProgramMatchesRun(t, m, "a", "")
}

func TestProgramRoundTripsThroughText(t *testing.T) {
	m := buildUppercase(t)
	p, err := m.Program()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := turing.ParseProgram(p.String())
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if parsed.String() != p.String() || parsed.Len() != p.Len() {
		t.Fatal("compiled program does not survive its mnemonic form")
	}
	if got := runProgram(t, m, parsed, "abc"); got != "ACCEPT\n" {
		t.Fatalf("parsed program printed %q", got)
	}
	if !strings.HasPrefix(p.Rocketlang(), "No Problem.\nTake the shot!\nGreat pass!\n") {
		t.Fatalf("unexpected rocketlang prelude:\n%.80s", p.Rocketlang())
	}
}

func TestProgramRejectsUncompilable(t *testing.T) {
	m := turing.New([]int{1}, 0, nil)
	if err := m.AddTransition(turing.On(0, "a"), turing.Exec(turing.Program{turing.Incr()}, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Program(); !errors.Is(err, turing.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	wide, err := turing.Symbols("wide", "aé", '_')
	if err != nil {
		t.Fatal(err)
	}
	m2 := turing.New([]int{1}, 0, wide)
	if err := m2.AddTransition(turing.On(0, "é"), turing.Right(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := m2.Program(); !errors.Is(err, turing.ErrSymbol) {
		t.Fatalf("expected ErrSymbol, got %v", err)
	}
	if _, err := m2.ProgramInput("aé"); !errors.Is(err, turing.ErrSymbol) {
		t.Fatalf("expected ErrSymbol for input, got %v", err)
	}
	if _, err := m2.ProgramInput("ax"); !errors.Is(err, turing.ErrSymbol) {
		t.Fatalf("expected ErrSymbol for non-member, got %v", err)
	}
	if got, err := m2.ProgramInput("aaa"); err != nil || got != "aaa" {
		t.Fatalf("ProgramInput = %q, %v", got, err)
	}
}

func TestProgramInputReverses(t *testing.T) {
	m := turing.New[string](nil, "s", nil)
	got, err := m.ProgramInput("abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != "cba" {
		t.Fatalf("got %q, want %q", got, "cba")
	}
}
