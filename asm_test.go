package turing_test

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/turing"
)

func TestParseProgram(t *testing.T) {
	src := `# count down from three
set 3 # code point
while {
  decr; push
}
if { # equal
  swap
}
set 'a'
print`

	p, err := turing.ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	want := turing.Program{
		turing.Comment("count down from three"),
		turing.SetActive(3).With("code point"),
		turing.While(turing.Decr(), turing.PushActive()),
		turing.If(turing.Swap()).With("equal"),
		turing.SetActive('a'),
		turing.Print(),
	}
	if p.String() != want.String() {
		t.Fatalf("parsed:\n%s\nwant:\n%s", p, want)
	}
	if p.Len() != 9 {
		t.Fatalf("Len = %d, want 9", p.Len())
	}
}

func TestProgramStringRoundTrip(t *testing.T) {
	p := turing.Program{
		turing.SetActive('\''),
		turing.SetActive('\n').With("newline"),
		turing.PushZero(), turing.PopToActive(),
		turing.While(
			turing.Decr(),
			turing.If(turing.Dump(), turing.ToggleErrors()),
		),
		turing.Read(),
	}
	text := p.String()
	back, err := turing.ParseProgram(text)
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", text, err)
	}
	if back.String() != text {
		t.Fatalf("round trip changed program:\n%s\n---\n%s", text, back)
	}
}

func TestParseProgramErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"jump", "unknown instruction"},
		{"while", "needs a { body }"},
		{"if {\n incr", "missing }"},
		{"}", "unexpected }"},
		{"set", "set needs an operand"},
		{"set 'a", "unterminated"},
		{"set x", "bad operand"},
		{"incr\n\n!", "line 3"},
	}
	for _, tt := range tests {
		_, err := turing.ParseProgram(tt.src)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("ParseProgram(%q) = %v, want error containing %q", tt.src, err, tt.want)
		}
	}
}

func TestParsedProgramRuns(t *testing.T) {
	p, err := turing.ParseProgram("set 3; while { decr; push }")
	if err != nil {
		t.Fatal(err)
	}
	vm := turing.NewVM()
	if err := vm.Exec(p); err != nil {
		t.Fatal(err)
	}
	if got := vm.Stack(); len(got) != 3 || got[0] != 2 || got[2] != 0 {
		t.Fatalf("stack = %v, want [2 1 0]", got)
	}
}

func TestRocketlang(t *testing.T) {
	p := turing.Program{
		turing.Comment("dropped"),
		turing.SetActive(2),
		turing.While(turing.Decr()),
		turing.If(turing.Print()),
	}
	want := strings.Join([]string{
		"Noooo!", "Centering...", "Wow!", "Wow!",
		"Great pass!", "Close one!", "Thanks!",
		"Nice shot!", "I got it!", "What a save!",
	}, "\n")
	if got := p.Rocketlang(); got != want {
		t.Fatalf("rocketlang:\n%s\nwant:\n%s", got, want)
	}
}

func TestMultilineNotes(t *testing.T) {
	p := turing.Program{turing.Incr().With("a\nb"), turing.Comment("x\r\ny")}
	if err := p.Validate(); err == nil {
		t.Fatal("Validate accepted a note with a line break")
	}

	parsed, err := turing.ParseProgram(p.String())
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", p.String(), err)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d instructions from %q, want 2", len(parsed), p.String())
	}
	if parsed[0].Op != turing.OpIncr || parsed[0].Note != "a b" {
		t.Fatalf("first = %+v", parsed[0])
	}
	if parsed[1].Op != turing.OpComment || parsed[1].Note != "x y" {
		t.Fatalf("second = %+v", parsed[1])
	}
}
