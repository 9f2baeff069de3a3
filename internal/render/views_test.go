package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajramos/mailassist-tui/internal/model"
)

func lineTexts(f Fragment) []string {
	out := make([]string, 0, len(f.Lines))
	for _, l := range f.Lines {
		out = append(out, l.Text)
	}
	return out
}

func TestConnectForm_Defaults(t *testing.T) {
	f := ConnectForm(model.ConnectionConfig{IMAPHost: "imap.gmail.com", IMAPPort: 993, SMTPHost: "smtp.gmail.com", SMTPPort: 587})

	host, ok := f.Control(FieldIMAPHost)
	require.True(t, ok)
	assert.Equal(t, "imap.gmail.com", host.Value)
	port, _ := f.Control(FieldSMTPPort)
	assert.Equal(t, "587", port.Value)
	pw, _ := f.Control(FieldIMAPPassword)
	assert.Equal(t, ControlPassword, pw.Kind)

	btn, _ := f.Control(ButtonConnect)
	assert.Equal(t, LabelConnect, btn.Label)
	assert.False(t, btn.Disabled)
	msg, _ := f.Control(MessageConnect)
	assert.True(t, msg.Hidden)
	assert.Equal(t, []Action{ActionConnect}, f.Actions())
}

func TestConnectButtonAndError(t *testing.T) {
	pending := ConnectButton(true)
	assert.True(t, pending.Disabled)
	assert.Equal(t, LabelConnecting, pending.Label)

	e := ConnectError("Login [failed]: bad creds")
	assert.False(t, e.Hidden)
	assert.Equal(t, StyleError, e.Style)
	assert.Equal(t, Escape("Login [failed]: bad creds"), e.Value)

	multi := ConnectError("IMAP login failed:\r\n  [AUTHENTICATIONFAILED]  Invalid credentials")
	assert.Equal(t, Escape("IMAP login failed:\n  [AUTHENTICATIONFAILED]  Invalid credentials"), multi.Value)

	assert.True(t, ConnectError("").Hidden)
}

func TestFolderList_HighlightsActiveAndEscapes(t *testing.T) {
	f := FolderList([]string{"INBOX", "[Gmail]/Sent Mail"}, "[Gmail]/Sent Mail")
	require.Len(t, f.Rows, 2)
	assert.Equal(t, StyleNormal, f.Rows[0].Style)
	assert.Equal(t, StyleActive, f.Rows[1].Style)
	assert.Equal(t, "[Gmail]/Sent Mail", f.Rows[1].Arg)
	assert.Equal(t, Escape("[Gmail]/Sent Mail"), f.Rows[1].Text)
	assert.Equal(t, ActionSelectFolder, f.Rows[1].Action)
}

func TestInbox_EmptyState(t *testing.T) {
	f := Inbox("INBOX", 0, nil, nil)
	assert.Empty(t, f.Rows)
	assert.Contains(t, lineTexts(f), EmptyList)
	assert.Contains(t, lineTexts(f), "0 emails")
	cat, _ := f.Control("categorize")
	assert.True(t, cat.Disabled)
}

func TestInbox_ReadUnreadAndCategories(t *testing.T) {
	emails := []model.EmailSummary{
		{UID: model.StringUID("1"), Sender: "Ann", Subject: "Hello", IsRead: false},
		{UID: model.StringUID("2"), Sender: "Bob", Subject: "", IsRead: true},
	}
	f := Inbox("INBOX", 10, emails, map[string]string{"1": "work"})
	require.Len(t, f.Rows, 2)
	assert.Contains(t, lineTexts(f), "2 of 10 emails")

	assert.Equal(t, StyleUnread, f.Rows[0].Style)
	assert.Equal(t, StyleRead, f.Rows[1].Style)
	assert.Equal(t, "1", f.Rows[0].Arg)
	assert.Equal(t, ActionOpenEmail, f.Rows[0].Action)
	assert.Contains(t, f.Rows[0].Text, "(work)")
	assert.True(t, strings.HasPrefix(f.Rows[0].Text, "●"))
	assert.Contains(t, f.Rows[1].Text, "(no subject)")
}

func TestEmailRowText_FixedColumns(t *testing.T) {
	long := model.EmailSummary{Sender: strings.Repeat("x", 60), Subject: "s", IsRead: true}
	short := model.EmailSummary{Sender: "a", Subject: "s", IsRead: true}
	offset := func(row string) int {
		return runewidth.StringWidth(row[:strings.Index(row, "  s")])
	}
	assert.Equal(t, offset(emailRowText(short, "")), offset(emailRowText(long, "")))
}

func TestSearchResults(t *testing.T) {
	f := SearchResults(model.SearchResult{
		Summary:   "Two invoices",
		IMAPQuery: `SUBJECT "invoice"`,
		Emails:    []model.EmailSummary{{UID: model.IntUID(5), Subject: "Invoice"}},
	}, nil)
	assert.Equal(t, "Search Results", f.Title)
	lines := lineTexts(f)
	assert.Contains(t, lines, "Two invoices")
	assert.Contains(t, lines, `IMAP Query: SUBJECT "invoice"`)
	require.Len(t, f.Rows, 1)
	assert.Equal(t, "5", f.Rows[0].Arg)

	empty := SearchResults(model.SearchResult{}, nil)
	assert.Contains(t, lineTexts(empty), EmptyList)
}

func TestEmailDetail_ConditionalLines(t *testing.T) {
	base := &model.EmailDetail{
		EmailSummary: model.EmailSummary{UID: model.StringUID("1"), Sender: "ann@x", Subject: "Hi"},
		To:           []string{"me@x"},
		BodyPlain:    "line one\r\nline [two]",
	}
	f := EmailDetail(base)
	joined := strings.Join(lineTexts(f), "\n")
	assert.NotContains(t, joined, "CC:")
	assert.NotContains(t, joined, "Attachments:")
	assert.Contains(t, joined, "line one")
	assert.Contains(t, joined, Escape("line [two]"))
	assert.Equal(t, []Action{ActionBack, ActionSummarize, ActionActionItems, ActionDraftReply}, f.Actions())

	withExtras := *base
	withExtras.CC = []string{"cc@x"}
	withExtras.Attachments = []model.Attachment{{Filename: "report.pdf", Size: 2048}}
	joined = strings.Join(lineTexts(EmailDetail(&withExtras)), "\n")
	assert.Contains(t, joined, "CC:[::-] cc@x")
	assert.Contains(t, joined, "report.pdf (2.0 KB)")
}

func TestEmailDetail_HTMLBodyIsFlattened(t *testing.T) {
	d := &model.EmailDetail{
		BodyPlain: "plain fallback",
		BodyHTML:  `<p>Rich <a href="https://example.com">link</a></p><script>steal()</script>`,
	}
	joined := strings.Join(lineTexts(EmailDetail(d)), "\n")
	assert.Contains(t, joined, Escape("Rich link [1]"))
	assert.Contains(t, joined, "https://example.com")
	assert.NotContains(t, joined, "steal")
	assert.NotContains(t, joined, "plain fallback")
}

func TestActionItems(t *testing.T) {
	assert.Equal(t, []string{NoActionItems}, lineTexts(ActionItems(nil)))
	assert.Equal(t, []string{NoActionItems}, lineTexts(ActionItems([]string{" "})))
	f := ActionItems([]string{"Pay invoice", "Call [Bob]"})
	assert.Equal(t, []string{"Action Items:", "• Pay invoice", "• " + Escape("Call [Bob]")}, lineTexts(f))
}

func TestDraftInstruction_GenerateEnabledOnlyWithText(t *testing.T) {
	for _, tc := range []struct {
		instruction string
		enabled     bool
	}{
		{"", false},
		{"   \t", false},
		{" x ", true},
	} {
		btn, ok := DraftInstruction(tc.instruction).Control(ButtonGenerate)
		require.True(t, ok)
		assert.Equal(t, !tc.enabled, btn.Disabled, "instruction %q", tc.instruction)
	}
}

func TestSendButton_States(t *testing.T) {
	idle := SendButton(SendIdle)
	assert.Equal(t, LabelSend, idle.Label)
	assert.False(t, idle.Disabled)

	pending := SendButton(SendPending)
	assert.Equal(t, LabelSending, pending.Label)
	assert.True(t, pending.Disabled)

	sent := SendButton(SendSent)
	assert.Equal(t, LabelSent, sent.Label)
	assert.True(t, sent.Disabled)
}

func TestDraftEditor(t *testing.T) {
	f := DraftEditor("Re: [Plans]", "Sounds good", SendIdle)
	assert.Equal(t, "Draft Reply ("+Escape("Re: [Plans]")+")", f.Title)
	body, ok := f.Control(FieldDraftBody)
	require.True(t, ok)
	assert.Equal(t, "Sounds good", body.Value)
	assert.Equal(t, ControlTextArea, body.Kind)
}

func TestLoadingAndError(t *testing.T) {
	assert.Equal(t, []string{"Loading inbox..."}, lineTexts(Loading("Loading inbox...")))
	e := Error("Failed to load emails: [boom]")
	require.Len(t, e.Lines, 1)
	assert.Equal(t, StyleError, e.Lines[0].Style)
	assert.Equal(t, Escape("Failed to load emails: [boom]"), e.Lines[0].Text)
}
