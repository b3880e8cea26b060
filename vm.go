package turing

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// maxChar is the largest code point set-active accepts.
const maxChar = 127

// VM is the register/stack machine transition programs run on: two integer
// registers, Active and Inactive, and a stack of integers.
//
// Every primitive and combinator mutates the VM through its receiver; there
// is no other shared state. A VM is not safe for concurrent use.
type VM struct {
	Active   int64
	Inactive int64

	stack     []int64
	errorsOff bool

	// In feeds OpRead. Nil means no input.
	In io.RuneReader
	// Out receives OpPrint. Nil discards.
	Out io.Writer
	// Debug receives OpDump. Nil discards.
	Debug io.Writer

	// Hook, when set, is called before every instruction and before every
	// iteration of a while loop. A non-nil error stops execution.
	Hook func(Instruction) error
}

// NewVM returns a VM with zeroed registers and an empty stack.
func NewVM() *VM {
	return &VM{}
}

// Stack returns a copy of the stack, bottom first.
func (vm *VM) Stack() []int64 {
	return append([]int64(nil), vm.stack...)
}

// Depth returns the number of values on the stack.
func (vm *VM) Depth() int { return len(vm.stack) }

// ErrorsEnabled reports whether runtime errors are raised (the default).
func (vm *VM) ErrorsEnabled() bool { return !vm.errorsOff }

// Reset zeroes the registers, empties the stack and re-enables errors.
// I/O and the hook are kept.
func (vm *VM) Reset() {
	vm.Active, vm.Inactive = 0, 0
	vm.stack = vm.stack[:0]
	vm.errorsOff = false
}

// SetActive loads the code point of c into Active.
func (vm *VM) SetActive(c rune) error {
	if c < 0 || c > maxChar {
		return &RangeError{Op: OpSetActive, Value: int64(c), Max: maxChar}
	}
	vm.Active = int64(c)
	return nil
}

// Incr adds one to Active.
func (vm *VM) Incr() { vm.Active++ }

// Decr subtracts one from Active.
func (vm *VM) Decr() { vm.Active-- }

// Save copies Active into Inactive.
func (vm *VM) Save() { vm.Inactive = vm.Active }

// Swap exchanges Active and Inactive.
func (vm *VM) Swap() { vm.Active, vm.Inactive = vm.Inactive, vm.Active }

// PushZero pushes 0.
func (vm *VM) PushZero() { vm.stack = append(vm.stack, 0) }

// PushActive pushes Active.
func (vm *VM) PushActive() { vm.stack = append(vm.stack, vm.Active) }

// PopToActive moves the top of the stack into Active. With errors toggled
// off, popping an empty stack loads 0.
func (vm *VM) PopToActive() error {
	n := len(vm.stack)
	if n == 0 {
		if vm.errorsOff {
			vm.Active = 0
			return nil
		}
		return ErrEmptyStack
	}
	vm.Active = vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return nil
}

// If runs body once when Active equals Inactive on entry.
func (vm *VM) If(body Program) error {
	if vm.Active != vm.Inactive {
		return nil
	}
	return vm.Exec(body)
}

// While runs body repeatedly for as long as Active is positive, checking
// before every pass. There is no iteration cap.
func (vm *VM) While(body Program) error {
	return vm.loop(Instruction{Op: OpWhile, Body: body})
}

func (vm *VM) loop(in Instruction) error {
	for vm.Active > 0 {
		if vm.Hook != nil {
			if err := vm.Hook(in); err != nil {
				return err
			}
		}
		if err := vm.Exec(in.Body); err != nil {
			return err
		}
	}
	return nil
}

// ReadActive loads the next input rune into Active. At end of input it
// leaves Active unchanged.
func (vm *VM) ReadActive() error {
	if vm.In == nil {
		return nil
	}
	r, _, err := vm.In.ReadRune()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return vm.fail(fmt.Errorf("turing: read: %w", err))
	}
	vm.Active = int64(r)
	return nil
}

// PrintActive writes Active to Out as a UTF-8 encoded rune.
func (vm *VM) PrintActive() error {
	if vm.Active < 0 || vm.Active > utf8.MaxRune || !utf8.ValidRune(rune(vm.Active)) {
		return vm.fail(&RangeError{Op: OpPrint, Value: vm.Active, Max: utf8.MaxRune})
	}
	if vm.Out == nil {
		return nil
	}
	if _, err := io.WriteString(vm.Out, string(rune(vm.Active))); err != nil {
		return vm.fail(fmt.Errorf("turing: print: %w", err))
	}
	return nil
}

// DumpState writes both registers and the stack to Debug.
func (vm *VM) DumpState() error {
	if vm.Debug == nil {
		return nil
	}
	_, err := fmt.Fprintf(vm.Debug, "\nActive: %d\nInactive: %d\nStack: %v\n", vm.Active, vm.Inactive, vm.stack)
	if err != nil {
		return vm.fail(fmt.Errorf("turing: dump: %w", err))
	}
	return nil
}

// ToggleErrors flips whether runtime errors are raised.
func (vm *VM) ToggleErrors() { vm.errorsOff = !vm.errorsOff }

func (vm *VM) fail(err error) error {
	if vm.errorsOff {
		return nil
	}
	return err
}

// Exec runs p in order and stops at the first error.
func (vm *VM) Exec(p Program) error {
	for _, in := range p {
		if err := vm.step(in); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) step(in Instruction) error {
	if vm.Hook != nil {
		if err := vm.Hook(in); err != nil {
			return err
		}
	}
	switch in.Op {
	case OpSetActive:
		return vm.SetActive(in.Char)
	case OpIncr:
		vm.Incr()
	case OpDecr:
		vm.Decr()
	case OpSave:
		vm.Save()
	case OpSwap:
		vm.Swap()
	case OpPushZero:
		vm.PushZero()
	case OpPopToActive:
		return vm.PopToActive()
	case OpPushActive:
		vm.PushActive()
	case OpIf:
		return vm.If(in.Body)
	case OpWhile:
		return vm.loop(in)
	case OpRead:
		return vm.ReadActive()
	case OpPrint:
		return vm.PrintActive()
	case OpDump:
		return vm.DumpState()
	case OpToggleErrors:
		vm.ToggleErrors()
	case OpComment:
	default:
		return &InvalidActionError{Kind: RunProgram, Detail: "unknown opcode " + in.Op.String()}
	}
	return nil
}
