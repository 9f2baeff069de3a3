// Package model holds the data exchanged with the mail/AI backend.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UID identifies a message within a folder. The backend may send it as a
// JSON string or a JSON number; the original form is kept for re-encoding.
type UID struct {
	value   string
	numeric bool
}

// StringUID returns a UID that encodes as a JSON string.
func StringUID(s string) UID { return UID{value: s} }

// IntUID returns a UID that encodes as a JSON number.
func IntUID(n int64) UID { return UID{value: strconv.FormatInt(n, 10), numeric: true} }

// String returns the identifier as text, suitable for URL paths.
func (u UID) String() string { return u.value }

// IsZero reports whether the UID was never set.
func (u UID) IsZero() bool { return u.value == "" }

// MarshalJSON encodes the UID the way the backend sent it.
func (u UID) MarshalJSON() ([]byte, error) {
	if u.numeric {
		return []byte(u.value), nil
	}
	return json.Marshal(u.value)
}

// UnmarshalJSON accepts strings and integers.
func (u *UID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = UID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode uid: %w", err)
		}
		*u = UID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode uid: %w", err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("decode uid: %q is not an integer", n.String())
	}
	*u = UID{value: n.String(), numeric: true}
	return nil
}

// EmailSummary is one row of a folder listing or search result.
type EmailSummary struct {
	UID     UID    `json:"uid"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	IsRead  bool   `json:"is_read"`
}

// Attachment describes a file attached to a message.
type Attachment struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// EmailDetail is the full content of a single message.
type EmailDetail struct {
	EmailSummary
	To          []string     `json:"to"`
	CC          []string     `json:"cc"`
	BodyPlain   string       `json:"body_plain"`
	BodyHTML    string       `json:"body_html,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// HasHTML reports whether the message carries an HTML body.
func (e *EmailDetail) HasHTML() bool { return e != nil && e.BodyHTML != "" }
