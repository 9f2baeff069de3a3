package tui

import (
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestEditableTextView_Typing(t *testing.T) {
	e := NewEditableTextView()
	var changes []string
	e.SetChangedFunc(func(text string) { changes = append(changes, text) })

	typeText(e, "héllo")
	press(e, tcell.KeyEnter)
	typeText(e, "wörld")

	assert.Equal(t, "héllo\nwörld", e.GetText())
	assert.Len(t, changes, 11)
	line, col := e.GetCursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 5, col)
}

func TestEditableTextView_SetTextDoesNotNotify(t *testing.T) {
	e := NewEditableTextView()
	called := false
	e.SetChangedFunc(func(string) { called = true })

	e.SetText("a\r\nb")
	assert.False(t, called)
	assert.Equal(t, "a\nb", e.GetText())
	line, col := e.GetCursorPosition()
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, col)
}

func TestEditableTextView_BackspaceAndDeleteJoinLines(t *testing.T) {
	e := NewEditableTextView().SetText("ab\ncd")

	e.SetCursorPosition(1, 0)
	press(e, tcell.KeyBackspace2)
	assert.Equal(t, "abcd", e.GetText())
	line, col := e.GetCursorPosition()
	assert.Equal(t, 0, line)
	assert.Equal(t, 2, col)

	press(e, tcell.KeyEnter)
	assert.Equal(t, "ab\ncd", e.GetText())

	e.SetCursorPosition(0, 2)
	press(e, tcell.KeyDelete)
	assert.Equal(t, "abcd", e.GetText())

	press(e, tcell.KeyDelete)
	assert.Equal(t, "abd", e.GetText())
}

func TestEditableTextView_BoundaryKeysAreNoops(t *testing.T) {
	e := NewEditableTextView().SetText("x")
	called := 0
	e.SetChangedFunc(func(string) { called++ })

	press(e, tcell.KeyBackspace)
	press(e, tcell.KeyLeft)
	press(e, tcell.KeyUp)
	e.SetCursorPosition(0, 1)
	press(e, tcell.KeyDelete)
	press(e, tcell.KeyRight)
	press(e, tcell.KeyDown)

	assert.Equal(t, "x", e.GetText())
	assert.Zero(t, called)
}

func TestEditableTextView_CursorMovementClampsColumn(t *testing.T) {
	e := NewEditableTextView().SetText("long line\nab")

	e.SetCursorPosition(0, 9)
	press(e, tcell.KeyDown)
	line, col := e.GetCursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)

	press(e, tcell.KeyRight)
	line, col = e.GetCursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)

	press(e, tcell.KeyHome)
	press(e, tcell.KeyLeft)
	line, col = e.GetCursorPosition()
	assert.Equal(t, 0, line)
	assert.Equal(t, 9, col)
}

func TestEditableTextView_ReadOnlyPassesKeysThrough(t *testing.T) {
	e := NewEditableTextView().SetText("fixed")
	e.SetEditable(false)

	typeText(e, "zz")
	assert.Equal(t, "fixed", e.GetText())
}

func TestEditableTextView_MarkupIsNotInterpreted(t *testing.T) {
	e := NewEditableTextView()
	typeText(e, "[red]x")
	assert.Equal(t, "[red]x", e.GetText())
}
