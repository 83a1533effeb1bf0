package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed geometry for a given terminal size.
type Layout struct {
	Header, Body, Footer Rect
	TooSmall             bool // below 40×12
}

// Minimum terminal size.
const (
	MinWidth  = 40
	MinHeight = 12
)

// Calculate computes the layout for a terminal of the given dimensions:
// a one-row header, a one-row footer and the body in between.
func Calculate(width, height int) Layout {
	if width < MinWidth || height < MinHeight {
		return Layout{TooSmall: true}
	}
	return Layout{
		Header: Rect{X: 0, Y: 0, Width: width, Height: 1},
		Body:   Rect{X: 0, Y: 1, Width: width, Height: height - 2},
		Footer: Rect{X: 0, Y: height - 1, Width: width, Height: 1},
	}
}

// progressWidth sizes the progress bar to the body, capped for readability.
func (l Layout) progressWidth() int {
	w := l.Body.Width - 8
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}
