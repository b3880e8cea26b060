package turing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/blackwell-systems/turing"
)

func TestResetActive(t *testing.T) {
	vm := turing.NewVM()
	if err := vm.Exec(turing.ResetActive()); err != nil {
		t.Fatal(err)
	}
	if vm.Active != 0 || vm.Depth() != 0 {
		t.Fatalf("active %d depth %d, want 0 0", vm.Active, vm.Depth())
	}

	for i := 0; i < 5; i++ {
		vm.Incr()
	}
	if err := vm.Exec(turing.ResetActive()); err != nil {
		t.Fatal(err)
	}
	if vm.Active != 0 || vm.Depth() != 0 {
		t.Fatalf("after reset: active %d depth %d, want 0 0", vm.Active, vm.Depth())
	}
}

func TestWhileRunsExactly(t *testing.T) {
	vm := turing.NewVM()
	vm.Active = 3

	iterations := 0
	vm.Hook = func(in turing.Instruction) error {
		if in.Op == turing.OpDecr {
			iterations++
		}
		return nil
	}
	if err := vm.Exec(turing.Program{turing.While(turing.Decr())}); err != nil {
		t.Fatal(err)
	}
	if vm.Active != 0 {
		t.Fatalf("active = %d, want 0", vm.Active)
	}
	if iterations != 3 {
		t.Fatalf("loop ran %d times, want 3", iterations)
	}
}

func TestWhileSkipsNonPositive(t *testing.T) {
	for _, start := range []int64{0, -4} {
		vm := turing.NewVM()
		vm.Active = start
		if err := vm.While(turing.Program{turing.Incr()}); err != nil {
			t.Fatal(err)
		}
		if vm.Active != start {
			t.Fatalf("start %d: body ran, active = %d", start, vm.Active)
		}
	}
}

func TestIf(t *testing.T) {
	vm := turing.NewVM()
	vm.Active, vm.Inactive = 7, 7
	if err := vm.If(turing.Program{turing.Incr(), turing.Incr()}); err != nil {
		t.Fatal(err)
	}
	if vm.Active != 9 {
		t.Fatalf("active = %d, want 9", vm.Active)
	}
	// Runs once: after the body active no longer equals inactive.
	if err := vm.If(turing.Program{turing.Incr()}); err != nil {
		t.Fatal(err)
	}
	if vm.Active != 9 {
		t.Fatalf("body ran on unequal registers, active = %d", vm.Active)
	}
}

func TestSaveSwap(t *testing.T) {
	vm := turing.NewVM()
	p := turing.Program{turing.SetActive('a'), turing.Save(), turing.SetActive('b'), turing.Swap()}
	if err := vm.Exec(p); err != nil {
		t.Fatal(err)
	}
	if vm.Active != 'a' || vm.Inactive != 'b' {
		t.Fatalf("active %d inactive %d", vm.Active, vm.Inactive)
	}
}

func TestSetActiveRange(t *testing.T) {
	vm := turing.NewVM()
	if err := vm.SetActive(127); err != nil {
		t.Fatalf("127 rejected: %v", err)
	}
	err := vm.SetActive(128)
	if !errors.Is(err, turing.ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	var re *turing.RangeError
	if !errors.As(err, &re) || re.Value != 128 || re.Op != turing.OpSetActive {
		t.Fatalf("unexpected error %#v", err)
	}
	if vm.Active != 127 {
		t.Fatalf("failed set changed active to %d", vm.Active)
	}
}

func TestIncrBeyondASCII(t *testing.T) {
	vm := turing.NewVM()
	if err := vm.SetActive(127); err != nil {
		t.Fatal(err)
	}
	vm.Incr()
	vm.Incr()
	if vm.Active != 129 {
		t.Fatalf("active = %d, want 129", vm.Active)
	}
	vm.Active = 0
	vm.Decr()
	if vm.Active != -1 {
		t.Fatalf("active = %d, want -1", vm.Active)
	}
}

func TestStackOrder(t *testing.T) {
	vm := turing.NewVM()
	if err := vm.Exec(turing.WriteString("abc")); err != nil {
		t.Fatal(err)
	}
	if got := vm.Stack(); len(got) != 3 || got[0] != 'a' || got[2] != 'c' {
		t.Fatalf("stack = %v", got)
	}
	for _, want := range "cba" {
		if err := vm.PopToActive(); err != nil {
			t.Fatal(err)
		}
		if vm.Active != int64(want) {
			t.Fatalf("popped %d, want %d", vm.Active, want)
		}
	}
}

func TestPopEmptyStack(t *testing.T) {
	vm := turing.NewVM()
	vm.Active = 5
	if err := vm.PopToActive(); !errors.Is(err, turing.ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack, got %v", err)
	}
	if vm.Active != 5 {
		t.Fatalf("failed pop changed active to %d", vm.Active)
	}

	vm.ToggleErrors()
	if vm.ErrorsEnabled() {
		t.Fatal("errors still enabled")
	}
	if err := vm.PopToActive(); err != nil {
		t.Fatalf("pop with errors off: %v", err)
	}
	if vm.Active != 0 {
		t.Fatalf("active = %d, want 0", vm.Active)
	}
}

func TestExecStopsAtFirstError(t *testing.T) {
	vm := turing.NewVM()
	p := turing.Program{turing.Incr(), turing.PopToActive(), turing.Incr()}
	if err := vm.Exec(p); !errors.Is(err, turing.ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack, got %v", err)
	}
	if vm.Active != 1 {
		t.Fatalf("active = %d, want 1", vm.Active)
	}
}

func TestReadPrint(t *testing.T) {
	var out strings.Builder
	vm := turing.NewVM()
	vm.In = strings.NewReader("hi")
	vm.Out = &out

	p := turing.Program{
		turing.Read(), turing.Print(),
		turing.Read(), turing.Incr(), turing.Print(),
		turing.Read(), turing.Print(), // end of input keeps active
	}
	if err := vm.Exec(p); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hjj" {
		t.Fatalf("output = %q, want %q", got, "hjj")
	}
}

func TestPrintInvalidCodePoint(t *testing.T) {
	vm := turing.NewVM()
	vm.Active = -1
	if err := vm.PrintActive(); !errors.Is(err, turing.ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
}

func TestDump(t *testing.T) {
	var dbg strings.Builder
	vm := turing.NewVM()
	vm.Debug = &dbg
	p := turing.Program{turing.SetActive('A'), turing.PushActive(), turing.Save(), turing.Incr(), turing.Dump()}
	if err := vm.Exec(p); err != nil {
		t.Fatal(err)
	}
	want := "\nActive: 66\nInactive: 65\nStack: [65]\n"
	if dbg.String() != want {
		t.Fatalf("dump = %q, want %q", dbg.String(), want)
	}
}

func TestHookStopsExecution(t *testing.T) {
	vm := turing.NewVM()
	vm.Active = 1
	stop := errors.New("stop")
	n := 0
	vm.Hook = func(turing.Instruction) error {
		n++
		if n > 10 {
			return stop
		}
		return nil
	}
	// Never terminates on its own.
	err := vm.Exec(turing.Program{turing.While(turing.Incr())})
	if !errors.Is(err, stop) {
		t.Fatalf("expected hook error, got %v", err)
	}
}

func TestUnknownOpcode(t *testing.T) {
	vm := turing.NewVM()
	err := vm.Exec(turing.Program{{Op: turing.OpInvalid}})
	if !errors.Is(err, turing.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if err := (turing.Program{turing.Incr().With("x"), {Op: turing.OpSave, Body: turing.Program{turing.Incr()}}}).Validate(); !errors.Is(err, turing.ErrInvalidAction) {
		t.Fatalf("expected body on save to be rejected, got %v", err)
	}
}

func TestReset(t *testing.T) {
	vm := turing.NewVM()
	vm.Active, vm.Inactive = 4, 2
	vm.PushActive()
	vm.ToggleErrors()
	vm.Reset()
	if vm.Active != 0 || vm.Inactive != 0 || vm.Depth() != 0 || !vm.ErrorsEnabled() {
		t.Fatalf("reset left state behind: %+v", vm)
	}
}
