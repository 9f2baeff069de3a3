package services

import (
	"context"

	"github.com/ajramos/mailassist-tui/internal/model"
)

// MailService handles the account session and mailbox reads/writes
type MailService interface {
	Connect(ctx context.Context, cfg model.ConnectionConfig) error
	Status(ctx context.Context) (*model.Status, error)
	Folders(ctx context.Context) ([]string, error)
	Inbox(ctx context.Context, folder string, limit int) (*model.InboxPage, error)
	Email(ctx context.Context, uid model.UID, folder string) (*model.EmailDetail, error)
	Send(ctx context.Context, msg model.OutgoingMessage) error
}

// AIService handles the server-side AI operations
type AIService interface {
	Search(ctx context.Context, query string) (*model.SearchResult, error)
	Summarize(ctx context.Context, uid model.UID) (string, error)
	ActionItems(ctx context.Context, uid model.UID) ([]string, error)
	DraftReply(ctx context.Context, uid model.UID, instruction string) (*model.DraftReply, error)
	Categorize(ctx context.Context, uids []model.UID) ([]model.Category, error)
}
