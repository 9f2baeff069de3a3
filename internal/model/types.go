package model

// ConnectionConfig carries account credentials for a single connect call.
// SMTPUser and SMTPPassword fall back to the IMAP credentials server-side
// when left empty.
type ConnectionConfig struct {
	IMAPHost     string `json:"imap_host"`
	IMAPPort     int    `json:"imap_port"`
	IMAPUser     string `json:"imap_user"`
	IMAPPassword string `json:"imap_password"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user,omitempty"`
	SMTPPassword string `json:"smtp_password,omitempty"`
}

// Status is the backend's view of the session.
type Status struct {
	Connected bool   `json:"connected"`
	User      string `json:"user"`
}

// InboxPage is a folder listing.
type InboxPage struct {
	Folder string         `json:"folder"`
	Total  int            `json:"total"`
	Emails []EmailSummary `json:"emails"`
}

// SearchResult is the outcome of a natural-language search.
type SearchResult struct {
	Summary   string         `json:"summary"`
	IMAPQuery string         `json:"imap_query"`
	Emails    []EmailSummary `json:"emails"`
}

// DraftReply is an AI-generated reply body and its subject line.
type DraftReply struct {
	Subject string `json:"subject"`
	Draft   string `json:"draft"`
}

// Category is the AI classification of one message.
type Category struct {
	UID      UID    `json:"uid"`
	Subject  string `json:"subject"`
	Category string `json:"category"`
}

// OutgoingMessage is a message handed to the backend for delivery.
type OutgoingMessage struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	InReplyTo string `json:"in_reply_to,omitempty"`
}
