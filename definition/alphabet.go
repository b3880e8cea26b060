package definition

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/blackwell-systems/turing"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const defaultEmpty = 'ε'

var exprOptions = &syntax.FileOptions{}

// build resolves the alphabet a file asks for.
func (a Alphabet) build(name string) (*turing.Alphabet, error) {
	set := 0
	for _, s := range []string{a.Preset, a.Symbols, a.Expr} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("alphabet: preset, symbols and expr are exclusive")
	}

	if a.Symbols == "" && a.Expr == "" {
		preset := a.Preset
		if preset == "" {
			preset = "ascii"
		}
		if a.Empty != "" {
			return nil, fmt.Errorf("alphabet: preset %q has its own empty symbol", preset)
		}
		alphabet, ok := turing.LookupAlphabet(preset)
		if !ok {
			return nil, fmt.Errorf("alphabet: unknown preset %q%s", preset, suggest(preset, turing.AlphabetNames()))
		}
		return alphabet, nil
	}

	empty := defaultEmpty
	if a.Empty != "" {
		if utf8.RuneCountInString(a.Empty) != 1 {
			return nil, fmt.Errorf("alphabet: empty symbol %q is not a single character", a.Empty)
		}
		empty, _ = utf8.DecodeRuneInString(a.Empty)
	}
	if name == "" {
		name = "custom"
	}

	var (
		alphabet *turing.Alphabet
		err      error
	)
	if a.Symbols != "" {
		alphabet, err = turing.Symbols(name, a.Symbols, empty)
	} else {
		var contains func(rune) bool
		contains, err = compileExpr(a.Expr)
		if err != nil {
			return nil, err
		}
		alphabet, err = turing.NewAlphabet(name, contains, empty)
	}
	if err != nil {
		return nil, fmt.Errorf("alphabet: %w", err)
	}
	return alphabet, nil
}

// compileExpr turns a Starlark expression over c into a membership
// predicate. Results are memoized per rune; an expression that fails to
// evaluate rejects the rune.
func compileExpr(expr string) (func(rune) bool, error) {
	thread := &starlark.Thread{Name: "alphabet"}
	v, err := starlark.EvalOptions(exprOptions, thread, "alphabet.expr", "lambda c: ("+expr+")", nil)
	if err != nil {
		return nil, fmt.Errorf("alphabet: expr: %w", err)
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("alphabet: expr did not compile to a function")
	}
	v.Freeze()

	var cache sync.Map // rune -> bool
	return func(r rune) bool {
		if hit, ok := cache.Load(r); ok {
			return hit.(bool)
		}
		thread := &starlark.Thread{Name: "alphabet"}
		out, err := starlark.Call(thread, fn, starlark.Tuple{starlark.String(string(r))}, nil)
		member := err == nil && bool(out.Truth())
		cache.Store(r, member)
		return member
	}, nil
}
