package tui

import (
	"slices"

	"github.com/ajramos/mailassist-tui/internal/model"
)

// DefaultFolder is the mailbox shown after connecting.
const DefaultFolder = "INBOX"

// State is the controller's single source of truth. Transitions return a new
// value; the renderer only ever sees the fields it is handed.
type State struct {
	Connected    bool
	User         string
	Folders      []string
	ActiveFolder string
	Emails       []model.EmailSummary
	CurrentEmail *model.EmailDetail
	SearchMode   bool
	// Categories maps a uid of the current list to its AI category label.
	// UIDs are only unique within a folder, so the map is dropped whenever
	// the list switches to another folder or to search results.
	Categories map[string]string

	// listID changes every time Categories is dropped.
	listID uint64
}

// NewState returns the initial, disconnected state.
func NewState() State {
	return State{ActiveFolder: DefaultFolder}
}

// WithConnected records a live session for user.
func (s State) WithConnected(user string) State {
	s.Connected = true
	s.User = user
	return s
}

// Disconnected drops every session-scoped field.
func (s State) Disconnected() State {
	next := NewState()
	next.listID = s.listID + 1
	return next
}

// newList starts a list whose uids are unrelated to the previous one.
func (s State) newList() State {
	s.Categories = nil
	s.listID++
	return s
}

// WithFolders stores a freshly loaded folder list. When the active folder is
// not part of it the first folder becomes active.
func (s State) WithFolders(folders []string) State {
	s.Folders = slices.Clone(folders)
	if len(s.Folders) > 0 && !slices.Contains(s.Folders, s.ActiveFolder) {
		s.ActiveFolder = s.Folders[0]
		s = s.newList()
	}
	return s
}

// WithActiveFolder switches to folder and leaves search mode. Categories
// survive only a reload of the folder already listed.
func (s State) WithActiveFolder(folder string) State {
	if folder != s.ActiveFolder || s.SearchMode {
		s = s.newList()
	}
	s.ActiveFolder = folder
	s.SearchMode = false
	s.CurrentEmail = nil
	return s
}

// WithEmails stores a folder listing.
func (s State) WithEmails(emails []model.EmailSummary) State {
	s.Emails = emails
	s.SearchMode = false
	return s
}

// WithSearchStarted enters search mode. The folder listing is dropped so the
// list never mixes folder and search results.
func (s State) WithSearchStarted() State {
	s = s.newList()
	s.SearchMode = true
	s.Emails = nil
	s.CurrentEmail = nil
	return s
}

// WithSearchResults stores the messages a search returned.
func (s State) WithSearchResults(emails []model.EmailSummary) State {
	s.SearchMode = true
	s.Emails = emails
	return s
}

// WithCurrentEmail sets or clears (nil) the open message.
func (s State) WithCurrentEmail(e *model.EmailDetail) State {
	s.CurrentEmail = e
	return s
}

// WithCategories merges classification results.
func (s State) WithCategories(results []model.Category) State {
	merged := make(map[string]string, len(s.Categories)+len(results))
	for k, v := range s.Categories {
		merged[k] = v
	}
	for _, r := range results {
		if r.UID.IsZero() {
			continue
		}
		merged[r.UID.String()] = r.Category
	}
	s.Categories = merged
	return s
}

// FindEmail looks a uid up in the current list.
func (s State) FindEmail(uid string) (model.EmailSummary, bool) {
	for _, e := range s.Emails {
		if e.UID.String() == uid {
			return e, true
		}
	}
	return model.EmailSummary{}, false
}
