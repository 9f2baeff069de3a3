package render

// Action names a user interaction a fragment can emit. The controller binds a
// handler per action each time a fragment is rendered into a region.
type Action string

const (
	ActionNone             Action = ""
	ActionConnect          Action = "connect"
	ActionSearch           Action = "search"
	ActionSelectFolder     Action = "select-folder"
	ActionOpenEmail        Action = "open-email"
	ActionRefresh          Action = "refresh"
	ActionCategorize       Action = "categorize"
	ActionBack             Action = "back"
	ActionSummarize        Action = "summarize"
	ActionActionItems      Action = "action-items"
	ActionDraftReply       Action = "draft-reply"
	ActionDraftInstruction Action = "draft-instruction"
	ActionGenerateDraft    Action = "generate-draft"
	ActionSendDraft        Action = "send-draft"
)

// Style is a semantic color class; the display surface maps it onto the
// active theme.
type Style int

const (
	StyleNormal Style = iota
	StyleMuted
	StyleHeading
	StyleUnread
	StyleRead
	StyleActive
	StyleError
	StyleSuccess
	StyleInfo
)

// ControlKind selects the widget used for a Control.
type ControlKind int

const (
	ControlButton ControlKind = iota
	ControlInput
	ControlPassword
	ControlTextArea
	ControlMessage
)

// Line is one line of static content. Text is display markup: every piece of
// untrusted input in it has already been passed through Escape.
type Line struct {
	Text  string
	Style Style
}

// Row is a selectable list entry that emits Action with Arg when chosen.
type Row struct {
	Text   string
	Style  Style
	Action Action
	Arg    string
}

// Control is an interactive widget. Inputs report their Value under ID in
// every event emitted from the same region; an input with an Action emits it
// on every change (or on Enter for single-line inputs with Submit set).
type Control struct {
	ID          string
	Kind        ControlKind
	Label       string
	Value       string
	Placeholder string
	Action      Action
	Submit      bool
	Disabled    bool
	Hidden      bool
	Style       Style
}

// Fragment is the displayable content of one region.
type Fragment struct {
	Title    string
	Lines    []Line
	Rows     []Row
	Controls []Control
}

// Empty reports whether the fragment has nothing to display.
func (f Fragment) Empty() bool {
	return f.Title == "" && len(f.Lines) == 0 && len(f.Rows) == 0 && len(f.Controls) == 0
}

// Control returns the control with the given id.
func (f Fragment) Control(id string) (Control, bool) {
	for _, c := range f.Controls {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}

// Actions lists every action the fragment can emit, in display order and
// without duplicates.
func (f Fragment) Actions() []Action {
	seen := make(map[Action]bool)
	var out []Action
	add := func(a Action) {
		if a == ActionNone || seen[a] {
			return
		}
		seen[a] = true
		out = append(out, a)
	}
	for _, r := range f.Rows {
		add(r.Action)
	}
	for _, c := range f.Controls {
		add(c.Action)
	}
	return out
}
