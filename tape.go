package turing

// Tape is a bi-infinite sequence of symbols with a read/write head.
//
// Cells at and right of the origin live in right; cells left of the origin
// live in left in reverse order, so growing either end is an append.
// pos is the head position relative to the origin and is always inside
// [-len(left), len(right)).
type Tape struct {
	left  []rune
	right []rune
	pos   int
	empty rune
}

// NewTape validates every rune of input against a and loads it onto a fresh
// tape with the head on the first cell. A nil alphabet means ASCII.
func NewTape(input string, a *Alphabet) (*Tape, error) {
	if a == nil {
		a = ASCII
	}
	runes := []rune(input)
	for _, r := range runes {
		if err := a.checkRune(r); err != nil {
			return nil, err
		}
	}
	return newTape(runes, a.empty), nil
}

// newTape loads input onto a fresh tape with the head on its first cell.
// An empty input yields a single empty cell.
func newTape(input []rune, empty rune) *Tape {
	t := &Tape{empty: empty}
	if len(input) == 0 {
		t.right = []rune{empty}
		return t
	}
	t.right = append(make([]rune, 0, len(input)), input...)
	return t
}

// Read returns the symbol under the head.
func (t *Tape) Read() rune {
	if t.pos >= 0 {
		return t.right[t.pos]
	}
	return t.left[-t.pos-1]
}

// Write replaces the symbol under the head. The symbol is not validated.
func (t *Tape) Write(r rune) {
	if t.pos >= 0 {
		t.right[t.pos] = r
		return
	}
	t.left[-t.pos-1] = r
}

// MoveLeft shifts the head one cell left, extending the tape if needed.
func (t *Tape) MoveLeft() {
	t.pos--
	if t.pos < -len(t.left) {
		t.left = append(t.left, t.empty)
	}
}

// MoveRight shifts the head one cell right, extending the tape if needed.
func (t *Tape) MoveRight() {
	t.pos++
	if t.pos >= len(t.right) {
		t.right = append(t.right, t.empty)
	}
}

// Len returns the number of cells the tape currently holds.
func (t *Tape) Len() int { return len(t.left) + len(t.right) }

// Head returns the head's index into Cells.
func (t *Tape) Head() int { return t.pos + len(t.left) }

// Cells returns a contiguous copy of the tape, leftmost cell first.
func (t *Tape) Cells() []rune {
	cells := make([]rune, 0, t.Len())
	for i := len(t.left) - 1; i >= 0; i-- {
		cells = append(cells, t.left[i])
	}
	return append(cells, t.right...)
}

// String returns the tape contents.
func (t *Tape) String() string { return string(t.Cells()) }
