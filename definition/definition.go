// Package definition reads and writes machine definition files.
//
// A definition names an alphabet, an initial state, the accepting states and
// a list of transitions. It can be stored as TOML, JSON, CUE or CBOR; the
// format is chosen by file extension. Compile turns a definition into a
// runnable *turing.Machine[string].
package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
)

// File is a machine definition document.
type File struct {
	Name     string   `json:"name,omitempty" toml:"name,omitempty" cbor:"1,keyasint,omitempty"`
	Alphabet Alphabet `json:"alphabet" toml:"alphabet" cbor:"2,keyasint"`
	Initial  string   `json:"initial" toml:"initial" cbor:"3,keyasint"`

	Accepting []string `json:"accepting" toml:"accepting" cbor:"4,keyasint"`

	// States lists extra states that no transition leaves, such as explicit
	// reject states. Without it a next state that is neither accepting nor
	// the source of a transition is reported as undefined.
	States []string `json:"states,omitempty" toml:"states,omitempty" cbor:"5,keyasint,omitempty"`

	Transitions []Transition `json:"transitions" toml:"transitions" cbor:"6,keyasint"`
}

// Alphabet selects the machine's alphabet. At most one of Preset, Symbols
// and Expr may be set; none means the "ascii" preset.
type Alphabet struct {
	// Preset names a registered alphabet, see turing.AlphabetNames.
	Preset string `json:"preset,omitempty" toml:"preset,omitempty" cbor:"1,keyasint,omitempty"`
	// Symbols lists every member.
	Symbols string `json:"symbols,omitempty" toml:"symbols,omitempty" cbor:"2,keyasint,omitempty"`
	// Expr is a Starlark boolean expression over the one-character string c.
	Expr string `json:"expr,omitempty" toml:"expr,omitempty" cbor:"3,keyasint,omitempty"`
	// Empty is the empty symbol for Symbols and Expr alphabets. Default "ε".
	Empty string `json:"empty,omitempty" toml:"empty,omitempty" cbor:"4,keyasint,omitempty"`
}

// Transition is one row of the transition table.
type Transition struct {
	State string `json:"state" toml:"state" cbor:"1,keyasint"`
	Read  string `json:"read" toml:"read" cbor:"2,keyasint"`
	// Action is "L", "R", "W" or "X".
	Action string `json:"action" toml:"action" cbor:"3,keyasint"`
	Write  string `json:"write,omitempty" toml:"write,omitempty" cbor:"4,keyasint,omitempty"`
	// Program is action machine source in mnemonic form, for "X".
	Program string `json:"program,omitempty" toml:"program,omitempty" cbor:"5,keyasint,omitempty"`
	// Branches maps a decimal active register value to a next state, for "X".
	Branches map[string]string `json:"branches,omitempty" toml:"branches,omitempty" cbor:"6,keyasint,omitempty"`
	Next     string            `json:"next" toml:"next" cbor:"7,keyasint"`
}

// Format is a definition file encoding.
type Format string

const (
	// TOML is the .toml encoding.
	TOML Format = "toml"
	// JSON is the .json encoding.
	JSON Format = "json"
	// CUE is the .cue encoding, validated against the definition schema.
	CUE Format = "cue"
	// CBOR is the .cbor encoding, canonical on output.
	CBOR Format = "cbor"
)

// FormatOf picks a format from a file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	case ".cue":
		return CUE, nil
	case ".cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("definition: unknown file extension %q", ext)
	}
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("definition: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Load reads a definition file, choosing the format by extension.
func Load(path string) (*File, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: cannot read %s: %w", path, err)
	}
	file, err := decode(data, f, path)
	if err != nil {
		return nil, fmt.Errorf("definition: parse error in %s: %w", path, err)
	}
	return file, nil
}

// Save writes file to path, choosing the format by extension.
func Save(path string, file *File) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(file, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("definition: write failed: %w", err)
	}
	return nil
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (*File, error) {
	return decode(data, f, "definition."+string(f))
}

func decode(data []byte, f Format, filename string) (*File, error) {
	var file File
	switch f {
	case TOML:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, err
		}
	case CUE:
		if err := decodeCUE(data, filename, &file); err != nil {
			return nil, err
		}
	case CBOR:
		if err := cbor.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("definition: unknown format %q", f)
	}
	return &file, nil
}

// decodeCUE unifies the document with the definition schema before decoding,
// so type errors are reported with CUE positions.
func decodeCUE(data []byte, filename string, file *File) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString("close({" + schemaSrc + "})")
	if err := schema.Err(); err != nil {
		return err
	}
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return err
	}
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return unified.Decode(file)
}

// Encode renders file in the given format. CBOR output is canonical.
func Encode(file *File, f Format) ([]byte, error) {
	switch f {
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(file); err != nil {
			return nil, fmt.Errorf("definition: marshal failed: %w", err)
		}
		return buf.Bytes(), nil
	case JSON:
		data, err := json.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("definition: marshal failed: %w", err)
		}
		return append(data, '\n'), nil
	case CUE:
		v := cuecontext.New().Encode(file.normalized())
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("definition: marshal failed: %w", err)
		}
		data, err := format.Node(v.Syntax(cue.Final(), cue.Concrete(true)))
		if err != nil {
			return nil, fmt.Errorf("definition: marshal failed: %w", err)
		}
		return data, nil
	case CBOR:
		data, err := cborEncMode.Marshal(file)
		if err != nil {
			return nil, fmt.Errorf("definition: marshal failed: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("definition: unknown format %q", f)
	}
}

// normalized replaces nil lists with empty ones, which CUE would otherwise
// encode as null.
func (f *File) normalized() *File {
	out := *f
	if out.Accepting == nil {
		out.Accepting = []string{}
	}
	if out.Transitions == nil {
		out.Transitions = []Transition{}
	}
	return &out
}
