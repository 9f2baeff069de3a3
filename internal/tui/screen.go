package tui

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"

	"github.com/ajramos/mailassist-tui/internal/config"
	"github.com/ajramos/mailassist-tui/internal/render"
)

const (
	pageMain     = "main"
	pageAlert    = "alert"
	sidebarWidth = 28
	panelMaxRows = 12
)

// Screen is the terminal Surface. Every region is a bordered box in a fixed
// layout; alerts are a page on top of it.
type Screen struct {
	app      *tview.Application
	pages    *tview.Pages
	theme    *config.ColorsConfig
	logger   *log.Logger
	dispatch func(Event)

	regions     map[Region]*regionView
	alertOpen   bool
	alertReturn tview.Primitive
}

// regionView holds the widgets built for the fragment a region currently shows.
type regionView struct {
	region Region
	box    *tview.Flex
	parent *tview.Flex
	size   func(render.Fragment) (fixed, proportion int)
	inline bool

	frag     render.Fragment
	focus    []tview.Primitive
	inputs   map[string]*tview.InputField
	changed  map[string]func(string)
	editors  map[string]*EditableTextView
	buttons  map[string]*tview.Button
	bars     map[string]*tview.Flex
	messages map[string]*tview.TextView
}

// NewScreen builds the layout, installs it as the application root and
// routes global keys. Call SetDispatcher before running the application.
func NewScreen(app *tview.Application, theme *config.ColorsConfig, logger *log.Logger) *Screen {
	if theme == nil {
		theme = config.DefaultColors()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Screen{
		app:     app,
		pages:   tview.NewPages(),
		theme:   theme,
		logger:  logger,
		regions: make(map[Region]*regionView),
	}
	s.applyTheme()

	top := tview.NewFlex().SetDirection(tview.FlexColumn)
	body := tview.NewFlex().SetDirection(tview.FlexColumn)
	right := tview.NewFlex().SetDirection(tview.FlexRow)
	root := tview.NewFlex().SetDirection(tview.FlexRow)

	fixed := func(n int) func(render.Fragment) (int, int) {
		return func(render.Fragment) (int, int) { return n, 0 }
	}
	share := func(n int) func(render.Fragment) (int, int) {
		return func(render.Fragment) (int, int) { return 0, n }
	}
	collapsible := func(size func(render.Fragment) (int, int)) func(render.Fragment) (int, int) {
		return func(f render.Fragment) (int, int) {
			if f.Empty() {
				return 0, 0
			}
			return size(f)
		}
	}
	panel := func(f render.Fragment) (int, int) {
		return min(len(f.Lines)+2, panelMaxRows), 0
	}

	s.addRegion(RegionHeader, top, true, true, share(1))
	s.addRegion(RegionSearch, top, true, false, share(3))
	s.addRegion(RegionSidebar, body, true, false, collapsible(fixed(sidebarWidth)))
	body.AddItem(right, 0, 1, false)
	s.addRegion(RegionMain, right, true, false, share(3))
	s.addRegion(RegionSummary, right, true, false, collapsible(panel))
	s.addRegion(RegionActionItems, right, true, false, collapsible(panel))
	s.addRegion(RegionDraftInput, right, true, false, collapsible(fixed(4)))
	s.addRegion(RegionDraft, right, true, false, collapsible(share(2)))
	root.AddItem(top, 3, 0, false)
	root.AddItem(body, 0, 1, false)
	s.addRegion(RegionStatus, root, false, true, fixed(1))

	s.pages.AddPage(pageMain, root, true, true)
	app.SetRoot(s.pages, true)
	app.SetInputCapture(s.capture)
	return s
}

// SetDispatcher sets the receiver of user interactions.
func (s *Screen) SetDispatcher(dispatch func(Event)) {
	s.dispatch = dispatch
}

func (s *Screen) applyTheme() {
	tview.Styles.PrimitiveBackgroundColor = s.theme.Body.BgColor.Color()
	tview.Styles.ContrastBackgroundColor = s.theme.Form.FieldBgColor.Color()
	tview.Styles.PrimaryTextColor = s.theme.Body.FgColor.Color()
	tview.Styles.BorderColor = s.theme.Frame.BorderColor.Color()
	tview.Styles.TitleColor = s.theme.Frame.TitleColor.Color()
}

func (s *Screen) addRegion(region Region, parent *tview.Flex, border, inline bool, size func(render.Fragment) (int, int)) {
	box := tview.NewFlex().SetDirection(tview.FlexRow)
	box.SetBorder(border)
	box.SetBorderColor(s.theme.Frame.BorderColor.Color())
	box.SetTitleColor(s.theme.Frame.TitleColor.Color())
	box.SetBackgroundColor(s.theme.Body.BgColor.Color())

	rv := &regionView{region: region, box: box, parent: parent, size: size, inline: inline}
	rv.reset(render.Fragment{})
	s.regions[region] = rv

	fixed, proportion := size(render.Fragment{})
	parent.AddItem(box, fixed, proportion, false)
}

func (rv *regionView) reset(frag render.Fragment) {
	frag.Controls = append([]render.Control(nil), frag.Controls...)
	rv.frag = frag
	rv.focus = nil
	rv.inputs = make(map[string]*tview.InputField)
	rv.changed = make(map[string]func(string))
	rv.editors = make(map[string]*EditableTextView)
	rv.buttons = make(map[string]*tview.Button)
	rv.bars = make(map[string]*tview.Flex)
	rv.messages = make(map[string]*tview.TextView)
}

// values reports the current text of every input in the region.
func (rv *regionView) values() map[string]string {
	out := make(map[string]string, len(rv.inputs)+len(rv.editors))
	for id, in := range rv.inputs {
		out[id] = in.GetText()
	}
	for id, ed := range rv.editors {
		out[id] = ed.GetText()
	}
	return out
}

func (rv *regionView) owns(p tview.Primitive) bool {
	if p == nil {
		return false
	}
	for _, f := range rv.focus {
		if f == p {
			return true
		}
	}
	return false
}

func (rv *regionView) emits(action render.Action) bool {
	for _, a := range rv.frag.Actions() {
		if a == action {
			return true
		}
	}
	return false
}

// Render replaces the content of a region.
func (s *Screen) Render(region Region, frag render.Fragment) {
	rv, ok := s.regions[region]
	if !ok {
		return
	}
	hadFocus := rv.owns(s.app.GetFocus())

	rv.reset(frag)
	rv.box.Clear()
	if frag.Title != "" {
		rv.box.SetTitle(" " + frag.Title + " ")
	} else {
		rv.box.SetTitle("")
	}

	if len(frag.Lines) > 0 {
		tv := s.linesView(frag.Lines, rv.inline)
		if len(frag.Rows) > 0 {
			rv.box.AddItem(tv, len(frag.Lines), 0, false)
		} else {
			rv.box.AddItem(tv, 0, 1, false)
			if !rv.inline {
				rv.focus = append(rv.focus, tv)
			}
		}
	}
	if len(frag.Rows) > 0 {
		list := s.rowsList(rv, frag.Rows)
		rv.box.AddItem(list, 0, 1, false)
		rv.focus = append(rv.focus, list)
	}
	s.addControls(rv, frag.Controls)

	fixed, proportion := rv.size(frag)
	rv.parent.ResizeItem(rv.box, fixed, proportion)

	switch {
	case hadFocus:
		if !s.focusRegion(region) {
			s.focusRegion(RegionMain)
		}
	case region == RegionMain && !s.alertOpen && !s.anyOwns(s.app.GetFocus()):
		s.focusRegion(RegionMain)
	}
}

// Patch updates one control in place.
func (s *Screen) Patch(region Region, ctl render.Control) {
	rv, ok := s.regions[region]
	if !ok {
		return
	}
	for i := range rv.frag.Controls {
		if rv.frag.Controls[i].ID == ctl.ID {
			rv.frag.Controls[i] = ctl
		}
	}

	switch ctl.Kind {
	case render.ControlButton:
		b, ok := rv.buttons[ctl.ID]
		if !ok {
			break
		}
		s.styleButton(rv, b, ctl)
		rv.bars[ctl.ID].ResizeItem(b, buttonWidth(ctl), 0)
		return
	case render.ControlMessage:
		tv, ok := rv.messages[ctl.ID]
		if !ok {
			break
		}
		s.styleMessage(tv, ctl)
		rv.box.ResizeItem(tv, messageHeight(ctl), 0)
		return
	case render.ControlInput, render.ControlPassword:
		in, ok := rv.inputs[ctl.ID]
		if !ok {
			break
		}
		in.SetChangedFunc(nil)
		in.SetText(ctl.Value)
		if fn := rv.changed[ctl.ID]; fn != nil {
			in.SetChangedFunc(fn)
		}
		return
	case render.ControlTextArea:
		ed, ok := rv.editors[ctl.ID]
		if !ok {
			break
		}
		ed.SetText(ctl.Value)
		return
	}
	s.logger.Printf("screen: patch %s/%s: no such control", region, ctl.ID)
}

// Alert shows msg in a dialog that closes on OK or Escape.
func (s *Screen) Alert(msg string) {
	s.logger.Printf("screen: alert: %s", msg)

	text := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true).SetTextAlign(tview.AlignCenter)
	text.SetText(render.EscapeLine(msg))
	text.SetTextColor(s.theme.Text.ErrorColor.Color())

	ok := tview.NewButton("OK")
	ok.SetBackgroundColor(s.theme.Form.ButtonBgColor.Color())
	ok.SetLabelColor(s.theme.Form.ButtonFgColor.Color())
	ok.SetSelectedFunc(s.closeAlert)

	buttons := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(ok, 6, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)

	dialog := tview.NewFlex().SetDirection(tview.FlexRow)
	dialog.SetBorder(true)
	dialog.SetTitle(" Notice ")
	dialog.SetBorderColor(s.theme.Frame.FocusColor.Color())
	dialog.AddItem(text, 0, 1, false)
	dialog.AddItem(buttons, 1, 0, true)

	if !s.alertOpen {
		s.alertReturn = s.app.GetFocus()
	}
	s.alertOpen = true
	s.pages.AddPage(pageAlert, centered(dialog, 60, 7), true, true)
	s.app.SetFocus(ok)
}

func (s *Screen) closeAlert() {
	if !s.alertOpen {
		return
	}
	s.alertOpen = false
	s.pages.RemovePage(pageAlert)
	if s.alertReturn != nil && s.anyOwns(s.alertReturn) {
		s.setFocus(s.alertReturn)
	} else {
		s.focusRegion(RegionMain)
	}
	s.alertReturn = nil
}

// Post runs fn on the UI goroutine and redraws.
func (s *Screen) Post(fn func()) {
	s.app.QueueUpdateDraw(fn)
}

func (s *Screen) emit(region Region, action render.Action, arg string) {
	if s.dispatch == nil || action == render.ActionNone {
		return
	}
	rv := s.regions[region]
	s.dispatch(Event{Region: region, Action: action, Arg: arg, Values: rv.values()})
}

// --- widgets ---

func (s *Screen) color(style render.Style) config.Color {
	t := s.theme.Text
	switch style {
	case render.StyleMuted:
		return t.MutedColor
	case render.StyleHeading:
		return t.HeadingColor
	case render.StyleUnread:
		return t.UnreadColor
	case render.StyleRead:
		return t.ReadColor
	case render.StyleActive:
		return t.ActiveColor
	case render.StyleError:
		return t.ErrorColor
	case render.StyleSuccess:
		return t.SuccessColor
	case render.StyleInfo:
		return t.InfoColor
	default:
		return s.theme.Body.FgColor
	}
}

// paint wraps already-escaped markup in the style's color.
func (s *Screen) paint(text string, style render.Style) string {
	return fmt.Sprintf("[%s]%s[-]", s.color(style).String(), text)
}

func (s *Screen) linesView(lines []render.Line, inline bool) *tview.TextView {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = s.paint(l.Text, l.Style)
	}
	sep := "\n"
	if inline {
		sep = "  "
	}
	tv := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	tv.SetBackgroundColor(s.theme.Body.BgColor.Color())
	tv.SetText(strings.Join(parts, sep))
	tv.ScrollToBeginning()
	return tv
}

func (s *Screen) rowsList(rv *regionView, rows []render.Row) *tview.List {
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBackgroundColor(s.theme.Body.BgColor.Color())
	list.SetSelectedBackgroundColor(s.theme.Frame.FocusColor.Color())
	list.SetSelectedTextColor(s.theme.Body.FgColor.Color())

	current := 0
	for i, r := range rows {
		list.AddItem(s.paint(r.Text, r.Style), "", 0, nil)
		if r.Style == render.StyleActive {
			current = i
		}
	}
	list.SetCurrentItem(current)

	region := rv.region
	list.SetSelectedFunc(func(i int, _ string, _ string, _ rune) {
		if i < 0 || i >= len(rows) {
			return
		}
		s.emit(region, rows[i].Action, rows[i].Arg)
	})
	return list
}

func (s *Screen) addControls(rv *regionView, controls []render.Control) {
	for i := 0; i < len(controls); i++ {
		ctl := controls[i]
		switch ctl.Kind {
		case render.ControlButton:
			j := i
			for j < len(controls) && controls[j].Kind == render.ControlButton {
				j++
			}
			s.addButtonBar(rv, controls[i:j])
			i = j - 1

		case render.ControlInput, render.ControlPassword:
			in := s.inputField(rv, ctl)
			rv.box.AddItem(in, 1, 0, false)
			rv.inputs[ctl.ID] = in
			rv.focus = append(rv.focus, in)

		case render.ControlTextArea:
			if ctl.Label != "" {
				rv.box.AddItem(s.linesView([]render.Line{{Text: ctl.Label, Style: render.StyleHeading}}, true), 1, 0, false)
			}
			ed := NewEditableTextView().SetText(ctl.Value)
			ed.SetBackgroundColor(s.theme.Form.FieldBgColor.Color())
			ed.SetTextColor(s.theme.Form.FieldFgColor.Color())
			if ctl.Action != render.ActionNone {
				region, action := rv.region, ctl.Action
				ed.SetChangedFunc(func(string) { s.emit(region, action, "") })
			}
			rv.box.AddItem(ed, 0, 1, false)
			rv.editors[ctl.ID] = ed
			rv.focus = append(rv.focus, ed)

		case render.ControlMessage:
			tv := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
			s.styleMessage(tv, ctl)
			rv.box.AddItem(tv, messageHeight(ctl), 0, false)
			rv.messages[ctl.ID] = tv
		}
	}
}

// addButtonBar lays a run of consecutive buttons out on one line.
func (s *Screen) addButtonBar(rv *regionView, controls []render.Control) {
	bar := tview.NewFlex().SetDirection(tview.FlexColumn)
	for _, ctl := range controls {
		b := tview.NewButton(ctl.Label)
		s.styleButton(rv, b, ctl)
		bar.AddItem(b, buttonWidth(ctl), 0, false)
		bar.AddItem(tview.NewBox(), 1, 0, false)
		rv.buttons[ctl.ID] = b
		rv.bars[ctl.ID] = bar
		rv.focus = append(rv.focus, b)
	}
	bar.AddItem(tview.NewBox(), 0, 1, false)
	rv.box.AddItem(bar, 1, 0, false)
}

func (s *Screen) inputField(rv *regionView, ctl render.Control) *tview.InputField {
	in := tview.NewInputField().
		SetLabel(ctl.Label + ": ").
		SetText(ctl.Value).
		SetPlaceholder(ctl.Placeholder).
		SetFieldBackgroundColor(s.theme.Form.FieldBgColor.Color()).
		SetFieldTextColor(s.theme.Form.FieldFgColor.Color()).
		SetLabelColor(s.theme.Text.HeadingColor.Color()).
		SetPlaceholderTextColor(s.theme.Text.MutedColor.Color())
	in.SetBackgroundColor(s.theme.Body.BgColor.Color())
	if ctl.Kind == render.ControlPassword {
		in.SetMaskCharacter('*')
	}
	if ctl.Action == render.ActionNone {
		return in
	}

	region, action := rv.region, ctl.Action
	if ctl.Submit {
		in.SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				s.emit(region, action, "")
			}
		})
		return in
	}
	fn := func(string) { s.emit(region, action, "") }
	rv.changed[ctl.ID] = fn
	in.SetChangedFunc(fn)
	return in
}

// styleButton applies the label and enabled state. A disabled button keeps
// its place in the focus order but ignores presses.
func (s *Screen) styleButton(rv *regionView, b *tview.Button, ctl render.Control) {
	b.SetLabel(ctl.Label)
	if ctl.Disabled {
		b.SetBackgroundColor(s.theme.Form.DisabledBgColor.Color())
		b.SetLabelColor(s.theme.Form.DisabledFgColor.Color())
		if ctl.Style == render.StyleSuccess {
			b.SetLabelColor(s.theme.Text.SuccessColor.Color())
		}
		b.SetSelectedFunc(func() {})
		return
	}
	b.SetBackgroundColor(s.theme.Form.ButtonBgColor.Color())
	b.SetLabelColor(s.theme.Form.ButtonFgColor.Color())
	region, action := rv.region, ctl.Action
	b.SetSelectedFunc(func() { s.emit(region, action, "") })
}

func (s *Screen) styleMessage(tv *tview.TextView, ctl render.Control) {
	if ctl.Hidden {
		tv.SetText("")
		return
	}
	tv.SetText(s.paint(ctl.Value, ctl.Style))
}

func buttonWidth(ctl render.Control) int {
	if ctl.Hidden {
		return 0
	}
	return runewidth.StringWidth(ctl.Label) + 4
}

func messageHeight(ctl render.Control) int {
	if ctl.Hidden {
		return 0
	}
	return strings.Count(ctl.Value, "\n") + 1
}

func centered(p tview.Primitive, width, height int) tview.Primitive {
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(p, height, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
	return tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(column, width, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
}

// --- focus and keys ---

func (s *Screen) anyOwns(p tview.Primitive) bool {
	for _, rv := range s.regions {
		if rv.owns(p) {
			return true
		}
	}
	return false
}

// focusRegion focuses the first focusable widget of a region.
func (s *Screen) focusRegion(region Region) bool {
	rv := s.regions[region]
	if rv == nil || len(rv.focus) == 0 {
		return false
	}
	s.setFocus(rv.focus[0])
	return true
}

func (s *Screen) setFocus(p tview.Primitive) {
	s.app.SetFocus(p)
	for _, rv := range s.regions {
		if rv.owns(p) {
			rv.box.SetBorderColor(s.theme.Frame.FocusColor.Color())
		} else {
			rv.box.SetBorderColor(s.theme.Frame.BorderColor.Color())
		}
	}
}

// focusOrder lists focusable widgets in layout order.
func (s *Screen) focusOrder() []tview.Primitive {
	var out []tview.Primitive
	for _, region := range []Region{RegionSearch, RegionSidebar, RegionMain, RegionSummary, RegionActionItems, RegionDraftInput, RegionDraft} {
		out = append(out, s.regions[region].focus...)
	}
	return out
}

func (s *Screen) cycleFocus(step int) {
	order := s.focusOrder()
	if len(order) == 0 {
		return
	}
	current := s.app.GetFocus()
	next := 0
	for i, p := range order {
		if p == current {
			next = (i + step + len(order)) % len(order)
			break
		}
	}
	s.setFocus(order[next])
}

// typing reports whether keystrokes currently go into a text widget.
func (s *Screen) typing() bool {
	switch s.app.GetFocus().(type) {
	case *tview.InputField, *EditableTextView:
		return true
	}
	return false
}

func (s *Screen) capture(event *tcell.EventKey) *tcell.EventKey {
	if s.alertOpen {
		if event.Key() == tcell.KeyEscape {
			s.closeAlert()
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyTab:
		s.cycleFocus(1)
		return nil
	case tcell.KeyBacktab:
		s.cycleFocus(-1)
		return nil
	case tcell.KeyEscape:
		if s.regions[RegionMain].emits(render.ActionBack) {
			s.emit(RegionMain, render.ActionBack, "")
			return nil
		}
	case tcell.KeyCtrlC:
		s.app.Stop()
		return nil
	case tcell.KeyRune:
		if event.Rune() == 'q' && !s.typing() {
			s.app.Stop()
			return nil
		}
	}
	return event
}
