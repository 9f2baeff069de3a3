// Package api is the HTTP/JSON client for the mail/AI backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajramos/mailassist-tui/internal/model"
	"github.com/ajramos/mailassist-tui/internal/services"
)

// DefaultLimit is the number of messages requested per folder listing.
const DefaultLimit = 50

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

var (
	_ services.MailService = (*Client)(nil)
	_ services.AIService   = (*Client)(nil)
)

// Client talks to the backend REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *log.Logger
}

// NewClient creates a client for baseURL. A zero timeout means requests
// never time out.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// do sends a request and decodes a JSON success body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logf("api: %s %s [%s] transport error: %v", method, path, reqID, err)
		return fmt.Errorf("%w: %s %s: %v", services.ErrNetworkUnavailable, method, path, err)
	}
	defer resp.Body.Close()
	c.logf("api: %s %s [%s] -> %d in %s", method, path, reqID, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(raw),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Connect opens the backend's IMAP/SMTP session.
func (c *Client) Connect(ctx context.Context, cfg model.ConnectionConfig) error {
	return c.do(ctx, http.MethodPost, "/api/connect", nil, cfg, nil)
}

// Status reports whether the backend holds a live session.
func (c *Client) Status(ctx context.Context) (*model.Status, error) {
	var st model.Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Folders lists mailbox names in server order.
func (c *Client) Folders(ctx context.Context) ([]string, error) {
	var resp struct {
		Folders []string `json:"folders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/folders", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// Inbox lists the newest messages of folder. Empty folder means INBOX and a
// non-positive limit means DefaultLimit.
func (c *Client) Inbox(ctx context.Context, folder string, limit int) (*model.InboxPage, error) {
	if folder == "" {
		folder = "INBOX"
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{}
	q.Set("folder", folder)
	q.Set("limit", strconv.Itoa(limit))
	var page model.InboxPage
	if err := c.do(ctx, http.MethodGet, "/api/inbox", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Email fetches one full message.
func (c *Client) Email(ctx context.Context, uid model.UID, folder string) (*model.EmailDetail, error) {
	if uid.IsZero() {
		return nil, fmt.Errorf("email: empty uid: %w", services.ErrValidation)
	}
	if folder == "" {
		folder = "INBOX"
	}
	q := url.Values{}
	q.Set("folder", folder)
	var detail model.EmailDetail
	path := "/api/email/" + url.PathEscape(uid.String())
	if err := c.do(ctx, http.MethodGet, path, q, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Send delivers a message through the backend's SMTP session.
func (c *Client) Send(ctx context.Context, msg model.OutgoingMessage) error {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/send", nil, msg, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &Error{Method: http.MethodPost, Path: "/api/send", StatusCode: http.StatusOK, Detail: resp.Message}
	}
	return nil
}

// Search runs a natural-language search.
func (c *Client) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	var res model.SearchResult
	in := map[string]string{"query": query}
	if err := c.do(ctx, http.MethodPost, "/api/search", nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type uidRequest struct {
	UID model.UID `json:"uid"`
}

// Summarize returns an AI summary of a message.
func (c *Client) Summarize(ctx context.Context, uid model.UID) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/summarize", nil, uidRequest{UID: uid}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// ActionItems extracts follow-up tasks from a message.
func (c *Client) ActionItems(ctx context.Context, uid model.UID) ([]string, error) {
	var resp struct {
		Items []string `json:"items"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/action-items", nil, uidRequest{UID: uid}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// DraftReply asks the backend for a reply following instruction.
func (c *Client) DraftReply(ctx context.Context, uid model.UID, instruction string) (*model.DraftReply, error) {
	in := struct {
		UID         model.UID `json:"uid"`
		Instruction string    `json:"instruction"`
	}{UID: uid, Instruction: instruction}
	var draft model.DraftReply
	if err := c.do(ctx, http.MethodPost, "/api/draft-reply", nil, in, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Categorize classifies a batch of messages.
func (c *Client) Categorize(ctx context.Context, uids []model.UID) ([]model.Category, error) {
	in := struct {
		UIDs []model.UID `json:"uids"`
	}{UIDs: uids}
	var resp struct {
		Results []model.Category `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/categorize", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
