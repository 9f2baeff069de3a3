package tui

import (
	"strings"
	"unicode"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// EditableTextView is a multi-line editor built on a TextView. The buffer is
// displayed escaped, so typed text never turns into color tags. Tab, Backtab
// and Escape are left to the surrounding layout.
type EditableTextView struct {
	*tview.TextView

	lines    [][]rune
	line     int
	col      int
	editable bool
	changed  func(string)
}

// NewEditableTextView creates an empty, editable text view.
func NewEditableTextView() *EditableTextView {
	e := &EditableTextView{
		TextView: tview.NewTextView(),
		lines:    [][]rune{{}},
		editable: true,
	}
	e.TextView.SetDynamicColors(true)
	e.TextView.SetWrap(true)
	e.TextView.SetWordWrap(true)
	e.TextView.SetInputCapture(e.capture)
	return e
}

func (e *EditableTextView) capture(event *tcell.EventKey) *tcell.EventKey {
	if !e.editable {
		return event
	}

	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyTab, tcell.KeyBacktab:
		return event
	case tcell.KeyEnter:
		e.insertNewline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteForward()
	case tcell.KeyUp:
		e.moveUp()
	case tcell.KeyDown:
		e.moveDown()
	case tcell.KeyLeft:
		e.moveLeft()
	case tcell.KeyRight:
		e.moveRight()
	case tcell.KeyHome, tcell.KeyCtrlA:
		e.col = 0
		e.updateDisplay()
	case tcell.KeyEnd, tcell.KeyCtrlE:
		e.col = len(e.lines[e.line])
		e.updateDisplay()
	case tcell.KeyRune:
		if !unicode.IsPrint(event.Rune()) {
			return event
		}
		e.insertRune(event.Rune())
	default:
		return event
	}
	// Consumed: keeps single-key shortcuts like q from firing while typing.
	return nil
}

// Focus shows the cursor.
func (e *EditableTextView) Focus(delegate func(p tview.Primitive)) {
	e.TextView.Focus(delegate)
	e.updateDisplay()
}

// Blur hides the cursor.
func (e *EditableTextView) Blur() {
	e.TextView.Blur()
	e.updateDisplay()
}

// SetText replaces the buffer and moves the cursor to the start. The change
// callback is not invoked.
func (e *EditableTextView) SetText(text string) *EditableTextView {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	e.lines = e.lines[:0]
	for _, l := range strings.Split(text, "\n") {
		e.lines = append(e.lines, []rune(l))
	}
	e.line, e.col = 0, 0
	e.updateDisplay()
	return e
}

// GetText returns the buffer.
func (e *EditableTextView) GetText() string {
	parts := make([]string, len(e.lines))
	for i, l := range e.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// SetChangedFunc sets the callback invoked after every edit.
func (e *EditableTextView) SetChangedFunc(changed func(text string)) *EditableTextView {
	e.changed = changed
	return e
}

// SetEditable enables or disables editing.
func (e *EditableTextView) SetEditable(editable bool) *EditableTextView {
	e.editable = editable
	e.updateDisplay()
	return e
}

// GetCursorPosition returns the cursor line and column, in runes.
func (e *EditableTextView) GetCursorPosition() (int, int) {
	return e.line, e.col
}

// SetCursorPosition moves the cursor, clamping the column to the line.
func (e *EditableTextView) SetCursorPosition(line, col int) {
	if line < 0 || line >= len(e.lines) {
		return
	}
	e.line = line
	e.col = clamp(col, 0, len(e.lines[line]))
	e.updateDisplay()
}

func (e *EditableTextView) insertRune(r rune) {
	cur := e.lines[e.line]
	next := make([]rune, 0, len(cur)+1)
	next = append(next, cur[:e.col]...)
	next = append(next, r)
	next = append(next, cur[e.col:]...)
	e.lines[e.line] = next
	e.col++
	e.textChanged()
}

func (e *EditableTextView) insertNewline() {
	cur := e.lines[e.line]
	left := append([]rune(nil), cur[:e.col]...)
	right := append([]rune(nil), cur[e.col:]...)

	lines := make([][]rune, 0, len(e.lines)+1)
	lines = append(lines, e.lines[:e.line]...)
	lines = append(lines, left, right)
	lines = append(lines, e.lines[e.line+1:]...)
	e.lines = lines

	e.line++
	e.col = 0
	e.textChanged()
}

func (e *EditableTextView) backspace() {
	switch {
	case e.col > 0:
		cur := e.lines[e.line]
		e.lines[e.line] = append(cur[:e.col-1:e.col-1], cur[e.col:]...)
		e.col--
	case e.line > 0:
		prev := e.lines[e.line-1]
		e.col = len(prev)
		e.lines[e.line-1] = append(prev[:len(prev):len(prev)], e.lines[e.line]...)
		e.lines = append(e.lines[:e.line], e.lines[e.line+1:]...)
		e.line--
	default:
		return
	}
	e.textChanged()
}

func (e *EditableTextView) deleteForward() {
	cur := e.lines[e.line]
	switch {
	case e.col < len(cur):
		e.lines[e.line] = append(cur[:e.col:e.col], cur[e.col+1:]...)
	case e.line < len(e.lines)-1:
		e.lines[e.line] = append(cur[:len(cur):len(cur)], e.lines[e.line+1]...)
		e.lines = append(e.lines[:e.line+1], e.lines[e.line+2:]...)
	default:
		return
	}
	e.textChanged()
}

func (e *EditableTextView) moveUp() {
	if e.line > 0 {
		e.line--
		e.col = clamp(e.col, 0, len(e.lines[e.line]))
		e.updateDisplay()
	}
}

func (e *EditableTextView) moveDown() {
	if e.line < len(e.lines)-1 {
		e.line++
		e.col = clamp(e.col, 0, len(e.lines[e.line]))
		e.updateDisplay()
	}
}

func (e *EditableTextView) moveLeft() {
	switch {
	case e.col > 0:
		e.col--
	case e.line > 0:
		e.line--
		e.col = len(e.lines[e.line])
	default:
		return
	}
	e.updateDisplay()
}

func (e *EditableTextView) moveRight() {
	switch {
	case e.col < len(e.lines[e.line]):
		e.col++
	case e.line < len(e.lines)-1:
		e.line++
		e.col = 0
	default:
		return
	}
	e.updateDisplay()
}

func (e *EditableTextView) textChanged() {
	e.updateDisplay()
	if e.changed != nil {
		e.changed(e.GetText())
	}
}

// updateDisplay redraws the buffer with a reverse-video cursor while focused.
func (e *EditableTextView) updateDisplay() {
	showCursor := e.editable && e.TextView.HasFocus()

	var b strings.Builder
	for i, l := range e.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if !showCursor || i != e.line {
			b.WriteString(tview.Escape(string(l)))
			continue
		}
		under := " "
		if e.col < len(l) {
			under = string(l[e.col])
		}
		b.WriteString(tview.Escape(string(l[:e.col])))
		b.WriteString("[::r]" + tview.Escape(under) + "[::-]")
		if e.col < len(l) {
			b.WriteString(tview.Escape(string(l[e.col+1:])))
		}
	}
	e.TextView.SetText(b.String())
	if showCursor {
		e.TextView.ScrollTo(e.line, 0)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
