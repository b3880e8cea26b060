package turing

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode identifies one action machine operation.
type Opcode byte

const (
	// OpInvalid is the zero Opcode; Validate rejects it.
	OpInvalid Opcode = iota

	// OpSetActive loads the code point of Char into active.
	OpSetActive
	// OpIncr adds one to active.
	OpIncr
	// OpDecr subtracts one from active.
	OpDecr
	// OpSave copies active into inactive.
	OpSave
	// OpSwap exchanges active and inactive.
	OpSwap
	// OpPushZero pushes 0.
	OpPushZero
	// OpPopToActive pops the top of the stack into active.
	OpPopToActive
	// OpPushActive pushes active.
	OpPushActive

	// OpIf runs Body once when active equals inactive.
	OpIf
	// OpWhile runs Body while active is positive.
	OpWhile

	// OpRead loads the next input rune into active.
	OpRead
	// OpPrint writes active as a rune.
	OpPrint
	// OpDump writes the registers and the stack to the debug writer.
	OpDump
	// OpToggleErrors flips error reporting.
	OpToggleErrors
	// OpComment has no effect.
	OpComment

	opCount
)

var opNames = [...]string{
	OpInvalid:      "invalid",
	OpSetActive:    "set",
	OpIncr:         "incr",
	OpDecr:         "decr",
	OpSave:         "save",
	OpSwap:         "swap",
	OpPushZero:     "push0",
	OpPopToActive:  "pop",
	OpPushActive:   "push",
	OpIf:           "if",
	OpWhile:        "while",
	OpRead:         "read",
	OpPrint:        "print",
	OpDump:         "dump",
	OpToggleErrors: "errors",
	OpComment:      "#",
}

// String returns the mnemonic of op.
func (op Opcode) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

// Instruction is one step of a Program. Char is the operand of OpSetActive,
// Body the nested program of OpIf and OpWhile. Note is a comment carried
// alongside the instruction; it has no effect.
type Instruction struct {
	Op   Opcode
	Char rune
	Body Program
	Note string
}

// Program is an ordered list of instructions.
type Program []Instruction

// SetActive loads the code point of c into active.
func SetActive(c rune) Instruction { return Instruction{Op: OpSetActive, Char: c} }

// Incr adds one to active.
func Incr() Instruction { return Instruction{Op: OpIncr} }

// Decr subtracts one from active.
func Decr() Instruction { return Instruction{Op: OpDecr} }

// Save copies active into inactive.
func Save() Instruction { return Instruction{Op: OpSave} }

// Swap exchanges active and inactive.
func Swap() Instruction { return Instruction{Op: OpSwap} }

// PushZero pushes 0.
func PushZero() Instruction { return Instruction{Op: OpPushZero} }

// PopToActive pops the top of the stack into active.
func PopToActive() Instruction { return Instruction{Op: OpPopToActive} }

// PushActive pushes active.
func PushActive() Instruction { return Instruction{Op: OpPushActive} }

// If runs body once when active equals inactive.
func If(body ...Instruction) Instruction { return Instruction{Op: OpIf, Body: body} }

// While runs body for as long as active is positive.
func While(body ...Instruction) Instruction { return Instruction{Op: OpWhile, Body: body} }

// Read loads the next input rune into active.
func Read() Instruction { return Instruction{Op: OpRead} }

// Print writes active as a rune.
func Print() Instruction { return Instruction{Op: OpPrint} }

// Dump writes the registers and the stack to the debug writer.
func Dump() Instruction { return Instruction{Op: OpDump} }

// ToggleErrors flips whether runtime errors are raised.
func ToggleErrors() Instruction { return Instruction{Op: OpToggleErrors} }

// Comment is a comment line with no effect.
func Comment(text string) Instruction { return Instruction{Op: OpComment, Note: text} }

// With returns the instruction with an attached note. Notes are single
// lines; Validate rejects line breaks.
func (in Instruction) With(note string) Instruction {
	in.Note = note
	return in
}

// ResetActive sets active to zero using only push-zero and pop-to-active.
func ResetActive() Program {
	return Program{PushZero(), PopToActive()}
}

// WriteString pushes the code point of every rune of s, so the last rune
// ends on top of the stack.
func WriteString(s string) Program {
	var p Program
	for _, c := range s {
		p = append(p, SetActive(c), PushActive())
	}
	return p
}

// Validate rejects instructions with unknown opcodes, at any depth.
func (p Program) Validate() error {
	for i, in := range p {
		if in.Op == OpInvalid || in.Op >= opCount {
			return &InvalidActionError{Kind: RunProgram, Detail: fmt.Sprintf("instruction %d: unknown opcode %s", i, in.Op)}
		}
		if strings.ContainsAny(in.Note, "\r\n") {
			return &InvalidActionError{Kind: RunProgram, Detail: fmt.Sprintf("instruction %d: note spans lines", i)}
		}
		if len(in.Body) > 0 && in.Op != OpIf && in.Op != OpWhile {
			return &InvalidActionError{Kind: RunProgram, Detail: fmt.Sprintf("instruction %d: %s takes no body", i, in.Op)}
		}
		if err := in.Body.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Len counts instructions at every depth.
func (p Program) Len() int {
	n := 0
	for _, in := range p {
		n += 1 + in.Body.Len()
	}
	return n
}

// String renders the program in the mnemonic syntax read by ParseProgram.
func (p Program) String() string {
	var sb strings.Builder
	p.write(&sb, 0)
	return sb.String()
}

func (p Program) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, in := range p {
		sb.WriteString(indent)
		switch in.Op {
		case OpComment:
			sb.WriteString("# " + oneLine(in.Note) + "\n")
			continue
		case OpSetActive:
			sb.WriteString("set " + strconv.QuoteRune(in.Char))
		case OpIf, OpWhile:
			sb.WriteString(in.Op.String() + " {")
		default:
			sb.WriteString(in.Op.String())
		}
		if in.Note != "" {
			sb.WriteString(" # " + oneLine(in.Note))
		}
		sb.WriteString("\n")
		if in.Op == OpIf || in.Op == OpWhile {
			in.Body.write(sb, depth+1)
			sb.WriteString(indent + "}\n")
		}
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine keeps a note on the line of its instruction.
func oneLine(note string) string { return lineBreaks.Replace(note) }

var rocketPhrases = [...]string{
	OpIncr:         "Wow!",
	OpDecr:         "Close one!",
	OpSave:         "Whoops...",
	OpSwap:         "OMG!",
	OpPushZero:     "Noooo!",
	OpPopToActive:  "Centering...",
	OpPushActive:   "Defending...",
	OpRead:         "Take the shot!",
	OpPrint:        "I got it!",
	OpDump:         "Sorry!",
	OpToggleErrors: "No Problem.",
}

// Rocketlang renders the program as rocketlang source, one phrase per line.
// Rocketlang has no literal load, so set-active expands to a reset followed
// by one increment per code point. Comments are dropped.
func (p Program) Rocketlang() string {
	var lines []string
	p.rocket(&lines)
	return strings.Join(lines, "\n")
}

func (p Program) rocket(lines *[]string) {
	for _, in := range p {
		switch in.Op {
		case OpComment:
		case OpSetActive:
			*lines = append(*lines, rocketPhrases[OpPushZero], rocketPhrases[OpPopToActive])
			for i := rune(0); i < in.Char; i++ {
				*lines = append(*lines, rocketPhrases[OpIncr])
			}
		case OpIf:
			*lines = append(*lines, "Nice shot!")
			in.Body.rocket(lines)
			*lines = append(*lines, "What a save!")
		case OpWhile:
			*lines = append(*lines, "Great pass!")
			in.Body.rocket(lines)
			*lines = append(*lines, "Thanks!")
		default:
			if int(in.Op) < len(rocketPhrases) && rocketPhrases[in.Op] != "" {
				*lines = append(*lines, rocketPhrases[in.Op])
			}
		}
	}
}
