package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ajramos/mailassist-tui/internal/model"
)

// Control ids shared between the renderer, the surface and the controller.
const (
	FieldIMAPHost     = "imap_host"
	FieldIMAPPort     = "imap_port"
	FieldIMAPUser     = "imap_user"
	FieldIMAPPassword = "imap_password"
	FieldSMTPHost     = "smtp_host"
	FieldSMTPPort     = "smtp_port"
	FieldQuery        = "query"
	FieldInstruction  = "instruction"
	FieldDraftBody    = "draft_body"

	ButtonConnect  = "connect"
	MessageConnect = "connect_error"
	ButtonGenerate = "generate"
	ButtonSend     = "send"
)

// Labels used by the view functions.
const (
	LabelConnect    = "Connect"
	LabelConnecting = "Connecting..."
	LabelSend       = "Send Reply"
	LabelSending    = "Sending..."
	LabelSent       = "Sent!"
	LabelGenerate   = "Generate Draft"

	EmptyList          = "No emails found"
	NoActionItems      = "No action items found."
	FoldersUnavailable = "Failed to load folders"
)

const (
	senderWidth = 24
	dateWidth   = 22
	subjectMax  = 80
)

// SendState is the lifecycle of the send control for one generated draft.
type SendState int

const (
	SendIdle SendState = iota
	SendPending
	SendSent
)

// ConnectForm renders the account form pre-filled with defaults.
func ConnectForm(defaults model.ConnectionConfig) Fragment {
	port := func(p int) string {
		if p <= 0 {
			return ""
		}
		return strconv.Itoa(p)
	}
	return Fragment{
		Title: "Connect to your mailbox",
		Controls: []Control{
			{ID: FieldIMAPHost, Kind: ControlInput, Label: "IMAP Host", Value: defaults.IMAPHost},
			{ID: FieldIMAPPort, Kind: ControlInput, Label: "IMAP Port", Value: port(defaults.IMAPPort)},
			{ID: FieldIMAPUser, Kind: ControlInput, Label: "Email", Value: defaults.IMAPUser, Placeholder: "you@gmail.com"},
			{ID: FieldIMAPPassword, Kind: ControlPassword, Label: "App Password"},
			{ID: FieldSMTPHost, Kind: ControlInput, Label: "SMTP Host", Value: defaults.SMTPHost},
			{ID: FieldSMTPPort, Kind: ControlInput, Label: "SMTP Port", Value: port(defaults.SMTPPort)},
			ConnectButton(false),
			ConnectError(""),
		},
	}
}

// ConnectButton is the form's submit control, disabled while a connect is
// in flight.
func ConnectButton(pending bool) Control {
	c := Control{ID: ButtonConnect, Kind: ControlButton, Label: LabelConnect, Action: ActionConnect}
	if pending {
		c.Label = LabelConnecting
		c.Disabled = true
	}
	return c
}

// ConnectError is the inline error under the connect form. The server's
// message is kept as sent, line breaks included; an empty message hides it.
func ConnectError(msg string) Control {
	return Control{
		ID:     MessageConnect,
		Kind:   ControlMessage,
		Value:  Escape(lineBreaks.Replace(msg)),
		Hidden: msg == "",
		Style:  StyleError,
	}
}

// Header renders the title bar.
func Header(user string) Fragment {
	f := Fragment{Lines: []Line{{Text: "[::b]MailAssist[::-]", Style: StyleHeading}}}
	if user != "" {
		f.Lines = append(f.Lines, Line{Text: EscapeLine(user), Style: StyleMuted})
	}
	return f
}

// SearchBar renders the natural-language search input.
func SearchBar() Fragment {
	return Fragment{
		Controls: []Control{
			{
				ID:          FieldQuery,
				Kind:        ControlInput,
				Label:       "Search",
				Placeholder: "Ask AI to search your email...",
				Action:      ActionSearch,
				Submit:      true,
			},
		},
	}
}

// StatusLine renders a one-line status message.
func StatusLine(msg string, style Style) Fragment {
	if msg == "" {
		return Fragment{}
	}
	return Fragment{Lines: []Line{{Text: EscapeLine(msg), Style: style}}}
}

// FolderList renders the sidebar with the active folder highlighted.
func FolderList(folders []string, active string) Fragment {
	f := Fragment{Title: "Folders", Rows: make([]Row, 0, len(folders))}
	for _, name := range folders {
		style := StyleNormal
		if name == active {
			style = StyleActive
		}
		f.Rows = append(f.Rows, Row{
			Text:   EscapeLine(name),
			Style:  style,
			Action: ActionSelectFolder,
			Arg:    name,
		})
	}
	return f
}

// FolderError replaces the sidebar when the folder list cannot be loaded.
func FolderError() Fragment {
	return Fragment{
		Title:    "Folders",
		Lines:    []Line{{Text: FoldersUnavailable, Style: StyleError}},
		Controls: []Control{{ID: "retry", Kind: ControlButton, Label: "Retry", Action: ActionRefresh}},
	}
}

// Inbox renders a folder listing.
func Inbox(folder string, total int, emails []model.EmailSummary, categories map[string]string) Fragment {
	count := fmt.Sprintf("%d emails", len(emails))
	if total > len(emails) {
		count = fmt.Sprintf("%d of %d emails", len(emails), total)
	}
	f := Fragment{
		Title: EscapeLine(folder),
		Lines: []Line{{Text: count, Style: StyleMuted}},
		Controls: []Control{
			{ID: "refresh", Kind: ControlButton, Label: "Refresh", Action: ActionRefresh},
			{ID: "categorize", Kind: ControlButton, Label: "Categorize", Action: ActionCategorize, Disabled: len(emails) == 0},
		},
	}
	return withEmailRows(f, emails, categories)
}

// SearchResults renders an AI search outcome.
func SearchResults(res model.SearchResult, categories map[string]string) Fragment {
	f := Fragment{Title: "Search Results"}
	if s := strings.TrimSpace(res.Summary); s != "" {
		for _, ln := range strings.Split(normalizeNewlines(s), "\n") {
			f.Lines = append(f.Lines, Line{Text: Escape(ln)})
		}
	}
	f.Lines = append(f.Lines, Line{Text: "IMAP Query: " + EscapeLine(res.IMAPQuery), Style: StyleMuted})
	return withEmailRows(f, res.Emails, categories)
}

func withEmailRows(f Fragment, emails []model.EmailSummary, categories map[string]string) Fragment {
	if len(emails) == 0 {
		f.Lines = append(f.Lines, Line{Text: EmptyList, Style: StyleMuted})
		return f
	}
	f.Rows = make([]Row, 0, len(emails))
	for _, e := range emails {
		f.Rows = append(f.Rows, Row{
			Text:   emailRowText(e, categories[e.UID.String()]),
			Style:  readStyle(e.IsRead),
			Action: ActionOpenEmail,
			Arg:    e.UID.String(),
		})
	}
	return f
}

func readStyle(isRead bool) Style {
	if isRead {
		return StyleRead
	}
	return StyleUnread
}

// emailRowText lays a summary out in fixed-width columns. Widths are measured
// in terminal cells so wide runes do not break alignment.
func emailRowText(e model.EmailSummary, category string) string {
	marker := "  "
	if !e.IsRead {
		marker = "● "
	}
	sender := fitWidth(oneLine(e.Sender), senderWidth)
	date := fitWidth(FormatDate(e.Date), dateWidth)
	subject := oneLine(e.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	subject = runewidth.Truncate(subject, subjectMax, "…")

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(Escape(sender))
	b.WriteString("  ")
	b.WriteString(Escape(date))
	b.WriteString("  ")
	if c := oneLine(category); c != "" {
		b.WriteString("(" + Escape(c) + ") ")
	}
	b.WriteString(Escape(subject))
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(stripControl(s)), " ")
}

// fitWidth truncates or pads s to exactly width terminal cells.
func fitWidth(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// EmailDetail renders a single message with its AI actions.
func EmailDetail(e *model.EmailDetail) Fragment {
	subject := oneLine(e.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	f := Fragment{Title: Escape(subject)}

	header := func(label, value string) {
		f.Lines = append(f.Lines, Line{Text: "[::b]" + label + ":[::-] " + EscapeLine(value)})
	}
	header("From", e.Sender)
	header("To", strings.Join(e.To, ", "))
	if len(e.CC) > 0 {
		header("CC", strings.Join(e.CC, ", "))
	}
	header("Date", FormatDate(e.Date))
	if len(e.Attachments) > 0 {
		parts := make([]string, 0, len(e.Attachments))
		for _, a := range e.Attachments {
			parts = append(parts, fmt.Sprintf("%s (%s)", oneLine(a.Filename), FormatBytes(a.Size)))
		}
		header("Attachments", strings.Join(parts, ", "))
	}
	f.Lines = append(f.Lines, Line{})

	body := e.BodyPlain
	var links []string
	if e.HasHTML() {
		body, links = HTMLToText(e.BodyHTML)
	} else {
		body = normalizeNewlines(body)
	}
	for _, ln := range strings.Split(strings.TrimSpace(body), "\n") {
		f.Lines = append(f.Lines, Line{Text: Escape(ln)})
	}
	if len(links) > 0 {
		f.Lines = append(f.Lines, Line{}, Line{Text: "Links:", Style: StyleMuted})
		for i, href := range links {
			f.Lines = append(f.Lines, Line{Text: EscapeLine(fmt.Sprintf("[%d] %s", i+1, href)), Style: StyleMuted})
		}
	}

	f.Controls = []Control{
		{ID: "back", Kind: ControlButton, Label: "← Back", Action: ActionBack},
		{ID: "summarize", Kind: ControlButton, Label: "Summarize", Action: ActionSummarize},
		{ID: "action_items", Kind: ControlButton, Label: "Action Items", Action: ActionActionItems},
		{ID: "draft_reply", Kind: ControlButton, Label: "Draft Reply", Action: ActionDraftReply},
	}
	return f
}

// Loading renders a pending placeholder.
func Loading(label string) Fragment {
	return Fragment{Lines: []Line{{Text: EscapeLine(label), Style: StyleInfo}}}
}

// Error renders a localized failure message.
func Error(msg string) Fragment {
	f := Fragment{}
	for _, ln := range strings.Split(normalizeNewlines(msg), "\n") {
		f.Lines = append(f.Lines, Line{Text: Escape(ln), Style: StyleError})
	}
	return f
}

// LoadError is Error with a control that re-triggers the failed load. The
// control is omitted when retry is ActionNone.
func LoadError(msg string, retry Action, label string) Fragment {
	f := Error(msg)
	if retry != ActionNone {
		f.Controls = []Control{{ID: "retry", Kind: ControlButton, Label: label, Action: retry}}
	}
	return f
}

// Summary renders an AI summary card.
func Summary(text string) Fragment {
	f := Fragment{Lines: []Line{{Text: "Summary:", Style: StyleHeading}}}
	for _, ln := range strings.Split(normalizeNewlines(strings.TrimSpace(text)), "\n") {
		f.Lines = append(f.Lines, Line{Text: Escape(ln)})
	}
	return f
}

// ActionItems renders extracted action items, or an explicit empty message.
func ActionItems(items []string) Fragment {
	f := Fragment{Lines: []Line{{Text: "Action Items:", Style: StyleHeading}}}
	n := 0
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		n++
		f.Lines = append(f.Lines, Line{Text: "• " + EscapeLine(it)})
	}
	if n == 0 {
		return Fragment{Lines: []Line{{Text: NoActionItems, Style: StyleMuted}}}
	}
	return f
}

// DraftInstruction renders the reply-guidance input and its generate button.
func DraftInstruction(instruction string) Fragment {
	return Fragment{
		Controls: []Control{
			{
				ID:          FieldInstruction,
				Kind:        ControlInput,
				Label:       "Instruction",
				Value:       instruction,
				Placeholder: "e.g. Politely decline the meeting, suggest next week instead",
				Action:      ActionDraftInstruction,
			},
			GenerateButton(strings.TrimSpace(instruction) != ""),
		},
	}
}

// GenerateButton is enabled only when there is an instruction to send.
func GenerateButton(enabled bool) Control {
	return Control{
		ID:       ButtonGenerate,
		Kind:     ControlButton,
		Label:    LabelGenerate,
		Action:   ActionGenerateDraft,
		Disabled: !enabled,
	}
}

// DraftEditor renders the editable reply and its send control.
func DraftEditor(subject, body string, state SendState) Fragment {
	return Fragment{
		Title: "Draft Reply (" + EscapeLine(subject) + ")",
		Controls: []Control{
			{ID: FieldDraftBody, Kind: ControlTextArea, Value: body},
			SendButton(state),
		},
	}
}

// SendButton reflects the send lifecycle: idle, pending, then terminally sent.
func SendButton(state SendState) Control {
	c := Control{ID: ButtonSend, Kind: ControlButton, Label: LabelSend, Action: ActionSendDraft}
	switch state {
	case SendPending:
		c.Label = LabelSending
		c.Disabled = true
	case SendSent:
		c.Label = LabelSent
		c.Disabled = true
		c.Style = StyleSuccess
	}
	return c
}
