package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajramos/mailassist-tui/internal/model"
)

func TestNewState_Defaults(t *testing.T) {
	st := NewState()
	assert.False(t, st.Connected)
	assert.Equal(t, DefaultFolder, st.ActiveFolder)
	assert.Empty(t, st.Emails)
	assert.Nil(t, st.CurrentEmail)
	assert.False(t, st.SearchMode)
}

func TestState_WithFolders(t *testing.T) {
	tests := []struct {
		name    string
		active  string
		folders []string
		want    string
	}{
		{"active kept", "Sent", []string{"INBOX", "Sent"}, "Sent"},
		{"active missing", "Gone", []string{"INBOX", "Sent"}, "INBOX"},
		{"empty list keeps active", "INBOX", nil, "INBOX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState().WithConnected("me").WithActiveFolder(tt.active).WithFolders(tt.folders)
			assert.Equal(t, tt.want, st.ActiveFolder)
		})
	}
}

func TestState_WithFoldersCopies(t *testing.T) {
	folders := []string{"INBOX"}
	st := NewState().WithFolders(folders)
	folders[0] = "changed"
	assert.Equal(t, []string{"INBOX"}, st.Folders)
}

func TestState_SearchModeTransitions(t *testing.T) {
	emails := []model.EmailSummary{{UID: model.StringUID("1")}}
	detail := &model.EmailDetail{EmailSummary: emails[0]}

	st := NewState().WithConnected("me").WithEmails(emails).WithCurrentEmail(detail)

	searching := st.WithSearchStarted()
	assert.True(t, searching.SearchMode)
	assert.Empty(t, searching.Emails)
	assert.Nil(t, searching.CurrentEmail)

	found := searching.WithSearchResults(emails)
	assert.True(t, found.SearchMode)
	assert.Equal(t, emails, found.Emails)

	back := found.WithActiveFolder("INBOX")
	assert.False(t, back.SearchMode)

	listed := found.WithEmails(nil)
	assert.False(t, listed.SearchMode)

	// the receiver is never modified
	assert.False(t, st.SearchMode)
	assert.Equal(t, detail, st.CurrentEmail)
}

func TestState_DisconnectedClearsSession(t *testing.T) {
	st := NewState().WithConnected("me").WithFolders([]string{"INBOX"}).
		WithEmails([]model.EmailSummary{{UID: model.StringUID("1")}}).
		WithCategories([]model.Category{{UID: model.StringUID("1"), Category: "work"}})
	next := st.Disconnected()
	assert.False(t, next.Connected)
	assert.Empty(t, next.User)
	assert.Empty(t, next.Folders)
	assert.Empty(t, next.Emails)
	assert.Nil(t, next.Categories)
	assert.Equal(t, DefaultFolder, next.ActiveFolder)
	assert.NotEqual(t, st.listID, next.listID)
}

func TestState_CategoriesAreScopedToTheList(t *testing.T) {
	tagged := NewState().WithConnected("me").WithFolders([]string{"INBOX", "Sent"}).
		WithCategories([]model.Category{{UID: model.StringUID("101"), Category: "personal"}})

	tests := []struct {
		name string
		next State
		keep bool
	}{
		{"reload same folder", tagged.WithActiveFolder("INBOX"), true},
		{"other folder", tagged.WithActiveFolder("Sent"), false},
		{"search", tagged.WithSearchStarted(), false},
		{"back from search", tagged.WithSearchStarted().WithSearchResults(nil).WithActiveFolder("INBOX"), false},
		{"active folder vanished", tagged.WithFolders([]string{"Archive"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.keep {
				assert.Equal(t, tagged.Categories, tt.next.Categories)
				assert.Equal(t, tagged.listID, tt.next.listID)
				return
			}
			assert.Nil(t, tt.next.Categories)
			assert.NotEqual(t, tagged.listID, tt.next.listID)
		})
	}
}

func TestState_WithCategoriesMerges(t *testing.T) {
	st := NewState().WithCategories([]model.Category{{UID: model.StringUID("1"), Category: "work"}})
	next := st.WithCategories([]model.Category{
		{UID: model.StringUID("2"), Category: "news"},
		{UID: model.StringUID("1"), Category: "personal"},
		{Category: "ignored"},
	})
	assert.Equal(t, map[string]string{"1": "work"}, st.Categories)
	assert.Equal(t, map[string]string{"1": "personal", "2": "news"}, next.Categories)
}

func TestState_FindEmail(t *testing.T) {
	st := NewState().WithEmails([]model.EmailSummary{{UID: model.IntUID(7), Subject: "x"}})
	e, ok := st.FindEmail("7")
	assert.True(t, ok)
	assert.Equal(t, "x", e.Subject)
	_, ok = st.FindEmail("8")
	assert.False(t, ok)
}
