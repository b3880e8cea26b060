package turing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var opByName = func() map[string]Opcode {
	m := make(map[string]Opcode, opCount)
	for op := OpSetActive; op < opCount; op++ {
		if op != OpComment {
			m[opNames[op]] = op
		}
	}
	return m
}()

// ParseProgram reads the mnemonic syntax produced by Program.String:
//
//	set 'a'       # operand is a quoted rune or a decimal code point
//	while {
//	  decr; push
//	}
//
// Statements are separated by newlines or semicolons. A comment on the same
// line as an instruction becomes that instruction's note; a comment on a line
// of its own becomes a comment instruction.
func ParseProgram(src string) (Program, error) {
	p := &asmParser{src: []rune(src), line: 1}
	prog, err := p.block(false)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

type asmParser struct {
	src  []rune
	pos  int
	line int

	// newline is set once a line break is crossed after the last statement.
	newline bool
}

func (p *asmParser) errorf(format string, args ...any) error {
	return fmt.Errorf("turing: program line %d: %s", p.line, fmt.Sprintf(format, args...))
}

func (p *asmParser) eof() bool  { return p.pos >= len(p.src) }
func (p *asmParser) peek() rune { return p.src[p.pos] }

func (p *asmParser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.newline = true
	}
	return r
}

// skip consumes whitespace and statement separators.
func (p *asmParser) skip() {
	for !p.eof() {
		r := p.peek()
		if r != ';' && !unicode.IsSpace(r) {
			return
		}
		p.next()
	}
}

// skipInline consumes spaces and tabs only.
func (p *asmParser) skipInline() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.next()
	}
}

func (p *asmParser) comment() string {
	p.next() // '#'
	start := p.pos
	for !p.eof() && p.peek() != '\n' {
		p.pos++
	}
	return strings.TrimSpace(string(p.src[start:p.pos]))
}

func (p *asmParser) word() string {
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *asmParser) block(nested bool) (Program, error) {
	prog := Program{}
	for {
		p.skip()
		if p.eof() {
			if nested {
				return nil, p.errorf("missing }")
			}
			return prog, nil
		}
		switch r := p.peek(); {
		case r == '}':
			if !nested {
				return nil, p.errorf("unexpected }")
			}
			p.next()
			return prog, nil
		case r == '#':
			inline := !p.newline && len(prog) > 0
			text := p.comment()
			if inline {
				prog[len(prog)-1].Note = text
			} else {
				prog = append(prog, Comment(text))
			}
		case unicode.IsLetter(r):
			in, err := p.statement()
			if err != nil {
				return nil, err
			}
			prog = append(prog, in)
			p.newline = false
		default:
			return nil, p.errorf("unexpected %q", r)
		}
	}
}

func (p *asmParser) statement() (Instruction, error) {
	name := p.word()
	op, ok := opByName[strings.ToLower(name)]
	if !ok {
		return Instruction{}, p.errorf("unknown instruction %q", name)
	}
	in := Instruction{Op: op}
	switch op {
	case OpSetActive:
		p.skipInline()
		c, err := p.operand()
		if err != nil {
			return Instruction{}, err
		}
		in.Char = c
	case OpIf, OpWhile:
		p.skip()
		if p.eof() || p.peek() != '{' {
			return Instruction{}, p.errorf("%s needs a { body }", op)
		}
		p.next()
		p.skipInline()
		if !p.eof() && p.peek() == '#' {
			in.Note = p.comment()
		}
		body, err := p.block(true)
		if err != nil {
			return Instruction{}, err
		}
		in.Body = body
	}
	return in, nil
}

func (p *asmParser) operand() (rune, error) {
	if p.eof() {
		return 0, p.errorf("set needs an operand")
	}
	if p.peek() == '\'' {
		start := p.pos
		p.pos++
		for !p.eof() && p.peek() != '\'' {
			if p.peek() == '\\' {
				p.pos++
			}
			p.pos++
		}
		if p.eof() {
			return 0, p.errorf("unterminated character literal")
		}
		p.pos++
		lit := string(p.src[start:p.pos])
		s, err := strconv.Unquote(lit)
		if err != nil {
			return 0, p.errorf("bad character literal %s", lit)
		}
		return []rune(s)[0], nil
	}
	digits := p.word()
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, p.errorf("bad operand %q", digits)
	}
	return rune(n), nil
}
