package turing_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/blackwell-systems/turing"
	"github.com/fxamacker/cbor/v2"
)

// buildBinaryIncrement constructs an unfinished binary incrementer: it has
// no turn-around at the blank after the last bit, so its carry states are
// never entered.
func buildBinaryIncrement(t *testing.T) (*turing.Machine[string], *turing.Report) {
	t.Helper()

	bits, err := turing.Symbols("bits", "01", '_')
	if err != nil {
		t.Fatal(err)
	}
	b := turing.NewBuilder("seek").
		Accept("done").
		Alphabet(bits)

	// Find the least significant bit.
	b.On("seek", "0").Right().Goto("seek")
	b.On("seek", "1").Right().Goto("seek")

	// Carry leftwards.
	b.On("carry", "1").Write("0").Goto("carry_left")
	b.On("carry", "0").Write("1").Goto("done")
	b.On("carry_left", "0").Left().Goto("carry")

	// Never reached.
	b.On("orphan", "1").Right().Goto("orphan")

	m, report, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m, report
}

func TestBuildReport(t *testing.T) {
	_, report := buildBinaryIncrement(t)
	t.Logf("\n%s", report)

	if report.Transitions != 6 {
		t.Fatalf("transitions = %d, want 6", report.Transitions)
	}
	if report.Moves != 4 || report.Writes != 2 || report.Programs != 0 {
		t.Fatalf("kinds = %d/%d/%d, want 4/2/0", report.Moves, report.Writes, report.Programs)
	}
	// seek, done, carry, carry_left, orphan
	if report.States != 5 {
		t.Fatalf("states = %d, want 5", report.States)
	}
	if report.AcceptingReachable {
		t.Fatal("expected accepting state to be unreachable")
	}
	if got := strings.Join(report.Unreachable, ","); got != "carry,carry_left,done,orphan" {
		t.Fatalf("unreachable = %s", got)
	}
}

func TestBuildReportReachable(t *testing.T) {
	m := turing.New[int]([]int{9}, 0, nil)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(m.AddTransition(turing.On(0, "a"), turing.Right(1)))
	must(m.AddTransition(turing.On(1, "b"), turing.Exec(turing.Program{turing.Read()}, 2).Branch('b', 9)))

	report := m.Verify()
	if !report.AcceptingReachable {
		t.Fatal("expected accepting state reachable through a branch")
	}
	if report.Reachable != 4 || report.States != 4 {
		t.Fatalf("reachable %d/%d, want 4/4", report.Reachable, report.States)
	}
	if len(report.DeadEnds) != 1 || report.DeadEnds[0] != "2" {
		t.Fatalf("dead ends = %v, want [2]", report.DeadEnds)
	}
	if !strings.Contains(report.String(), "Dead ends: 2") {
		t.Fatalf("report missing dead ends:\n%s", report)
	}
}

func TestBuildFailsOnInvalidTransition(t *testing.T) {
	b := turing.NewBuilder(0).Accept(1)
	b.On(0, "a").Write("é").Goto(1)

	m, report, err := b.Build()
	if !errors.Is(err, turing.ErrSymbol) {
		t.Fatalf("expected ErrSymbol, got %v", err)
	}
	if m != nil || report != nil {
		t.Fatal("expected no machine on failure")
	}
}

func TestBuilderRuns(t *testing.T) {
	b := turing.NewBuilder("start").Accept("even", "odd")
	b.On("start", "0").
		Exec(turing.Program{turing.Read(), turing.SetActive('0'), turing.Swap(), turing.Decr()}).
		Goto("odd")
	m, _, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.RunContext(t.Context(), "0")
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "odd" || res.Active != '0'-1 || res.Inactive != '0' {
		t.Fatalf("state %s active %d inactive %d", res.State, res.Active, res.Inactive)
	}
}

func TestExport(t *testing.T) {
	m, _ := buildBinaryIncrement(t)

	tmpfile := t.TempDir() + "/increment.tm.json"
	if err := m.Export(tmpfile); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(tmpfile)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var export map[string]interface{}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("JSON unmarshal failed: %v", err)
	}

	if export["version"].(float64) != 1 {
		t.Errorf("wrong version: %v", export["version"])
	}
	if export["alphabet"] != "bits" || export["empty"] != "_" {
		t.Errorf("wrong alphabet: %v %v", export["alphabet"], export["empty"])
	}
	if export["initial"] != "seek" {
		t.Errorf("wrong initial: %v", export["initial"])
	}
	transitions := export["transitions"].([]interface{})
	if len(transitions) != 6 {
		t.Errorf("wrong transition count: %d", len(transitions))
	}
	first := transitions[0].(map[string]interface{})
	if first["state"] != "carry" || first["read"] != "0" || first["action"] != "W" || first["write"] != "1" {
		t.Errorf("unexpected first transition: %v", first)
	}
	if export["exported_at"] == "" {
		t.Error("missing exported_at")
	}
	t.Logf("Exported %d bytes to %s", len(data), tmpfile)
}

func TestExportCBORDeterministic(t *testing.T) {
	m, _ := buildBinaryIncrement(t)

	var a, b bytes.Buffer
	if err := m.ExportCBOR(&a); err != nil {
		t.Fatal(err)
	}
	if err := m.ExportCBOR(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("CBOR export is not deterministic")
	}

	var d turing.Description
	if err := cbor.Unmarshal(a.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Initial != "seek" || len(d.Transitions) != 6 || d.ExportedAt != "" {
		t.Fatalf("unexpected description %+v", d)
	}
}

func TestDescribeProgram(t *testing.T) {
	m := turing.New[int]([]int{1, 2}, 0, nil)
	act := turing.Exec(turing.Program{turing.Read()}, 1).Branch(97, 2)
	if err := m.AddTransition(turing.On(0, "a"), act); err != nil {
		t.Fatal(err)
	}
	d := m.Describe()
	if len(d.Transitions) != 1 {
		t.Fatalf("transitions = %v", d.Transitions)
	}
	tr := d.Transitions[0]
	if tr.Action != "X" || tr.Program != "read\n" || tr.Branches[97] != "2" || tr.Next != "1" {
		t.Fatalf("unexpected description %+v", tr)
	}
	if got := strings.Join(d.Accepting, ","); got != "1,2" {
		t.Fatalf("accepting = %s", got)
	}
}

func TestTransitionsOrderLookalikeStates(t *testing.T) {
	// 1 and "1" print alike; the int sorts first by type name.
	build := func(first, second any) *turing.Machine[any] {
		m := turing.New[any](nil, 1, nil)
		for _, s := range []any{first, second} {
			if err := m.AddTransition(turing.On(s, "a"), turing.Right[any](s)); err != nil {
				t.Fatal(err)
			}
		}
		return m
	}

	var want []byte
	for i, m := range []*turing.Machine[any]{build(1, "1"), build("1", 1)} {
		trs := m.Table().Transitions()
		if len(trs) != 2 {
			t.Fatalf("transitions = %d, want 2", len(trs))
		}
		if _, ok := trs[0].Condition.State.(int); !ok {
			t.Fatalf("first state is %T, want int", trs[0].Condition.State)
		}
		if _, ok := trs[1].Condition.State.(string); !ok {
			t.Fatalf("second state is %T, want string", trs[1].Condition.State)
		}

		var buf bytes.Buffer
		if err := m.ExportCBOR(&buf); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			want = buf.Bytes()
		} else if !bytes.Equal(buf.Bytes(), want) {
			t.Fatal("equal machines exported different CBOR")
		}
	}
}

func TestBuildNonComparableInitial(t *testing.T) {
	_, _, err := turing.NewBuilder[any]([]int{1}).Accept("done").Build()
	if err == nil || !strings.Contains(err.Error(), "not comparable") {
		t.Fatalf("expected not comparable error, got %v", err)
	}
}
