package main

import (
	"io"
	"strings"

	"github.com/blackwell-systems/turing"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha
const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorCrust    lipgloss.Color = "#11111b"
)

const (
	colorHead    = colorMauve
	colorAccept  = colorGreen
	colorReject  = colorRed
	colorSubdued = colorOverlay1
)

// theme renders results for one output stream. Its renderer detects whether
// the stream supports color.
type theme struct {
	color   bool
	head    lipgloss.Style
	accept  lipgloss.Style
	reject  lipgloss.Style
	subdued lipgloss.Style
}

func newTheme(w io.Writer, color bool) theme {
	r := lipgloss.NewRenderer(w)
	return theme{
		color:   color,
		head:    r.NewStyle().Bold(true).Foreground(colorCrust).Background(colorHead),
		accept:  r.NewStyle().Bold(true).Foreground(colorAccept),
		reject:  r.NewStyle().Bold(true).Foreground(colorReject),
		subdued: r.NewStyle().Foreground(colorSubdued),
	}
}

func (t theme) verdict(res *turing.Result[string]) string {
	if !t.color {
		return res.Verdict()
	}
	if res.Accepted {
		return t.accept.Render(res.Verdict())
	}
	return t.reject.Render(res.Verdict())
}

// tape renders the tape with the head cell highlighted. Without color the
// head is marked by a caret on the following line.
func (t theme) tape(res *turing.Result[string]) string {
	if !t.color {
		return res.String()
	}
	var sb strings.Builder
	sb.WriteString(string(res.Tape[:res.Head]))
	sb.WriteString(t.head.Render(string(res.Tape[res.Head])))
	sb.WriteString(string(res.Tape[res.Head+1:]))
	return sb.String()
}

func (t theme) dim(s string) string {
	if !t.color {
		return s
	}
	return t.subdued.Render(s)
}
