package turing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("turing: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Description is a portable rendering of a machine. States are rendered
// with fmt, programs in mnemonic form.
type Description struct {
	Version      int                     `json:"version" cbor:"1,keyasint"`
	Alphabet     string                  `json:"alphabet" cbor:"2,keyasint"`
	Empty        string                  `json:"empty" cbor:"3,keyasint"`
	Initial      string                  `json:"initial" cbor:"4,keyasint"`
	Accepting    []string                `json:"accepting" cbor:"5,keyasint"`
	Transitions  []TransitionDescription `json:"transitions" cbor:"6,keyasint"`
	Verification verifyInfo              `json:"verification" cbor:"7,keyasint"`
	ExportedAt   string                  `json:"exported_at,omitempty" cbor:"8,keyasint,omitempty"`
}

// TransitionDescription is one row of a Description.
type TransitionDescription struct {
	State    string           `json:"state" cbor:"1,keyasint"`
	Read     string           `json:"read" cbor:"2,keyasint"`
	Action   string           `json:"action" cbor:"3,keyasint"` // "L", "R", "W", "X"
	Write    string           `json:"write,omitempty" cbor:"4,keyasint,omitempty"`
	Program  string           `json:"program,omitempty" cbor:"5,keyasint,omitempty"`
	Branches map[int64]string `json:"branches,omitempty" cbor:"6,keyasint,omitempty"`
	Next     string           `json:"next" cbor:"7,keyasint"`
}

type verifyInfo struct {
	States             int  `json:"state_count" cbor:"1,keyasint"`
	Transitions        int  `json:"transition_count" cbor:"2,keyasint"`
	Reachable          int  `json:"reachable_count" cbor:"3,keyasint"`
	AcceptingReachable bool `json:"accepting_reachable" cbor:"4,keyasint"`
}

// Describe renders the machine in portable form. Transitions are ordered as
// Table.Transitions orders them.
func (m *Machine[S]) Describe() Description {
	report := m.Verify()
	d := Description{
		Version:  1,
		Alphabet: m.table.alphabet.Name(),
		Empty:    string(m.table.alphabet.Empty()),
		Initial:  fmt.Sprint(m.initial),
		Verification: verifyInfo{
			States:             report.States,
			Transitions:        report.Transitions,
			Reachable:          report.Reachable,
			AcceptingReachable: report.AcceptingReachable,
		},
	}
	for _, s := range m.Accepting() {
		d.Accepting = append(d.Accepting, fmt.Sprint(s))
	}
	for _, t := range m.table.Transitions() {
		td := TransitionDescription{
			State:  fmt.Sprint(t.Condition.State),
			Read:   t.Condition.Symbol,
			Action: t.Action.Kind.String(),
			Write:  t.Action.Symbol,
			Next:   fmt.Sprint(t.Action.Next),
		}
		if t.Action.Kind == RunProgram {
			td.Program = t.Action.Program.String()
		}
		if len(t.Action.Branches) > 0 {
			td.Branches = make(map[int64]string, len(t.Action.Branches))
			for v, s := range t.Action.Branches {
				td.Branches[v] = fmt.Sprint(s)
			}
		}
		d.Transitions = append(d.Transitions, td)
	}
	return d
}

// Export writes the machine's description to path as indented JSON.
func (m *Machine[S]) Export(path string) error {
	d := m.Describe()
	d.ExportedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("turing: marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("turing: write failed: %w", err)
	}
	return nil
}

// ExportCBOR writes the machine's description to w in canonical CBOR.
// The encoding is deterministic: equal machines produce equal bytes.
func (m *Machine[S]) ExportCBOR(w io.Writer) error {
	data, err := cborEncMode.Marshal(m.Describe())
	if err != nil {
		return fmt.Errorf("turing: marshal failed: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("turing: write failed: %w", err)
	}
	return nil
}
