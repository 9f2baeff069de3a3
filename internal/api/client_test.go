package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajramos/mailassist-tui/internal/model"
	"github.com/ajramos/mailassist-tui/internal/services"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0, nil)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_InboxDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/inbox", r.URL.Path)
		assert.Equal(t, "INBOX", r.URL.Query().Get("folder"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"folder": "INBOX",
			"total":  1,
			"emails": []map[string]interface{}{
				{"uid": "9", "sender": "a@x", "subject": "s", "date": "d", "is_read": false},
			},
		})
	})

	page, err := c.Inbox(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Emails, 1)
	assert.Equal(t, "9", page.Emails[0].UID.String())
}

func TestClient_EmailEscapesUIDAndSendsFolder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/email/a/b", r.URL.Path)
		assert.Equal(t, "/api/email/a%2Fb", r.URL.EscapedPath())
		assert.Equal(t, "[Gmail]/Sent Mail", r.URL.Query().Get("folder"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"uid": "a/b", "subject": "x"})
	})

	d, err := c.Email(context.Background(), model.StringUID("a/b"), "[Gmail]/Sent Mail")
	require.NoError(t, err)
	assert.Equal(t, "x", d.Subject)
}

func TestClient_PostBodies(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(c *Client) error
		want string
		resp interface{}
	}{
		{
			name: "connect",
			path: "/api/connect",
			call: func(c *Client) error {
				return c.Connect(context.Background(), model.ConnectionConfig{
					IMAPHost: "imap.example.com", IMAPPort: 993, IMAPUser: "u", IMAPPassword: "p",
					SMTPHost: "smtp.example.com", SMTPPort: 587,
				})
			},
			want: `{"imap_host":"imap.example.com","imap_port":993,"imap_user":"u","imap_password":"p","smtp_host":"smtp.example.com","smtp_port":587}`,
			resp: map[string]interface{}{"connected": true, "user": "u"},
		},
		{
			name: "search",
			path: "/api/search",
			call: func(c *Client) error {
				_, err := c.Search(context.Background(), "invoices from last week")
				return err
			},
			want: `{"query":"invoices from last week"}`,
			resp: map[string]interface{}{"summary": "", "imap_query": "", "emails": []interface{}{}},
		},
		{
			name: "draft reply",
			path: "/api/draft-reply",
			call: func(c *Client) error {
				_, err := c.DraftReply(context.Background(), model.StringUID("3"), "decline politely")
				return err
			},
			want: `{"uid":"3","instruction":"decline politely"}`,
			resp: map[string]interface{}{"subject": "Re: x", "draft": "No thanks"},
		},
		{
			name: "categorize",
			path: "/api/categorize",
			call: func(c *Client) error {
				_, err := c.Categorize(context.Background(), []model.UID{model.StringUID("1"), model.StringUID("2")})
				return err
			},
			want: `{"uids":["1","2"]}`,
			resp: map[string]interface{}{"results": []interface{}{}},
		},
		{
			name: "send",
			path: "/api/send",
			call: func(c *Client) error {
				return c.Send(context.Background(), model.OutgoingMessage{To: "a@x", Subject: "Re: s", Body: "b"})
			},
			want: `{"to":"a@x","subject":"Re: s","body":"b"}`,
			resp: map[string]interface{}{"success": true, "message": "Email sent successfully"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, tt.want, string(body))
				writeJSON(w, http.StatusOK, tt.resp)
			})
			require.NoError(t, tt.call(c))
		})
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantIs  error
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Not connected"}`, "Not connected", services.ErrNotConnected},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","uid"],"msg":"field required"},{"msg":"bad port"}]}`, "field required; bad port", nil},
		{"no detail", http.StatusInternalServerError, `oops`, "Internal Server Error", nil},
		{"unknown status", 599, ``, "Request failed", nil},
		{"unavailable", http.StatusServiceUnavailable, `{}`, "Service Unavailable", services.ErrServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.Folders(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs))
			}
		})
	}
}

func TestClient_EmailNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no such message"})
	})
	_, err := c.Email(context.Background(), model.StringUID("1"), "INBOX")
	assert.ErrorIs(t, err, services.ErrEmailNotFound)
	assert.Equal(t, "no such message", err.Error())
}

func TestClient_SendUnsuccessful(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "relay refused"})
	})
	err := c.Send(context.Background(), model.OutgoingMessage{To: "a@x"})
	require.Error(t, err)
	assert.Equal(t, "relay refused", err.Error())
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 0, nil)
	_, err := c.Status(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNetworkUnavailable)
	assert.True(t, services.IsRetryableError(err))
	_, isAPI := AsError(err)
	assert.False(t, isAPI)
}

func TestClient_EmptyUIDIsValidationError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 0, nil)
	_, err := c.Email(context.Background(), model.UID{}, "INBOX")
	assert.ErrorIs(t, err, services.ErrValidation)
}
