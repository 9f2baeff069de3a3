package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/ajramos/mailassist-tui/internal/model"
	"github.com/ajramos/mailassist-tui/internal/render"
	"github.com/ajramos/mailassist-tui/internal/services"
)

// DefaultInboxLimit is the number of messages requested per folder listing.
const DefaultInboxLimit = 50

// Options configures a Controller.
type Options struct {
	// InboxLimit caps folder listings; zero means DefaultInboxLimit.
	InboxLimit int
	// ConnectDefaults pre-fills the connect form.
	ConnectDefaults model.ConnectionConfig
	Logger          *log.Logger
}

type handler func(Event)

// token identifies one rendering of a region. A completion holding a token
// may only touch state and display while the region still shows that
// rendering.
type token struct {
	region Region
	gen    uint64
}

// detailSession is the AI/draft context of one opened message.
type detailSession struct {
	uid         model.UID
	sender      string
	instruction string
	draft       *draftState
}

// draftState is one generated reply and the lifecycle of its send control.
type draftState struct {
	subject string
	send    render.SendState
}

// Controller owns application state and drives every workflow. Apart from
// Post callbacks it must only be used from the UI goroutine.
type Controller struct {
	mail    services.MailService
	ai      services.AIService
	surface Surface
	logger  *log.Logger
	opts    Options
	ctx     context.Context

	state      State
	total      int
	lastSearch model.SearchResult
	gen        map[Region]uint64
	bindings   map[Region]map[render.Action]handler
	listTok    token
	inboxTok   token
	detail     *detailSession
	connecting bool
	tagging    bool
}

// NewController wires a controller to its collaborators.
func NewController(mail services.MailService, ai services.AIService, surface Surface, opts Options) *Controller {
	if opts.InboxLimit <= 0 {
		opts.InboxLimit = DefaultInboxLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		mail:     mail,
		ai:       ai,
		surface:  surface,
		logger:   logger,
		opts:     opts,
		ctx:      context.Background(),
		state:    NewState(),
		gen:      make(map[Region]uint64),
		bindings: make(map[Region]map[render.Action]handler),
	}
}

// State returns a snapshot of the application state.
func (c *Controller) State() State { return c.state }

// Start paints the initial screen and probes for an existing session.
func (c *Controller) Start(ctx context.Context) {
	if ctx != nil {
		c.ctx = ctx
	}
	c.render(RegionHeader, render.Header(""), nil)
	c.render(RegionSearch, render.Fragment{}, nil)
	c.render(RegionStatus, render.Fragment{}, nil)
	c.render(RegionSidebar, render.Fragment{}, nil)
	c.clearDetail()
	tok := c.render(RegionMain, render.Loading("Checking session..."), nil)

	c.logger.Printf("status: probing backend session")
	run(c, func(ctx context.Context) (*model.Status, error) {
		return c.mail.Status(ctx)
	}, func(st *model.Status, err error) {
		if !c.valid(tok) {
			return
		}
		if err != nil {
			c.logger.Printf("status: probe failed: %v", err)
			c.showConnect()
			return
		}
		if !st.Connected {
			c.showConnect()
			return
		}
		c.onConnected(st.User)
	})
}

// Dispatch delivers a user interaction to the handler bound for the region's
// current fragment. Interactions with nothing bound are dropped.
func (c *Controller) Dispatch(ev Event) {
	h := c.bindings[ev.Region][ev.Action]
	if h == nil {
		c.logger.Printf("dispatch: no %q binding in %s", ev.Action, ev.Region)
		return
	}
	h(ev)
}

// run executes call off the UI goroutine and hands its result to done on the
// UI goroutine.
func run[T any](c *Controller, call func(ctx context.Context) (T, error), done func(T, error)) {
	ctx := c.ctx
	go func() {
		v, err := call(ctx)
		c.surface.Post(func() { done(v, err) })
	}()
}

// render replaces a region's fragment and its bindings, invalidating every
// token issued for the region before.
func (c *Controller) render(region Region, frag render.Fragment, binds map[render.Action]handler) token {
	c.gen[region]++
	c.bindings[region] = binds
	c.surface.Render(region, frag)
	return token{region: region, gen: c.gen[region]}
}

func (c *Controller) current(region Region) token {
	return token{region: region, gen: c.gen[region]}
}

func (c *Controller) valid(t token) bool {
	return t.gen != 0 && c.gen[t.region] == t.gen
}

func (c *Controller) status(msg string, style render.Style) {
	c.render(RegionStatus, render.StatusLine(msg, style), nil)
}

// --- connect ---

func (c *Controller) showConnect() {
	c.clearDetail()
	c.render(RegionSearch, render.Fragment{}, nil)
	c.render(RegionSidebar, render.Fragment{}, nil)
	c.render(RegionMain, render.ConnectForm(c.opts.ConnectDefaults), map[render.Action]handler{
		render.ActionConnect: c.submitConnect,
	})
}

// validationError is a form problem caught before any request is sent.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return services.ErrValidation }

func parsePort(name, raw string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || p < 1 || p > 65535 {
		return 0, &validationError{msg: name + " must be a port number"}
	}
	return p, nil
}

// parseConnectForm validates the connect form values.
func parseConnectForm(values map[string]string) (model.ConnectionConfig, error) {
	field := func(id string) string { return strings.TrimSpace(values[id]) }
	cfg := model.ConnectionConfig{
		IMAPHost:     field(render.FieldIMAPHost),
		IMAPUser:     field(render.FieldIMAPUser),
		IMAPPassword: values[render.FieldIMAPPassword],
		SMTPHost:     field(render.FieldSMTPHost),
	}
	switch {
	case cfg.IMAPHost == "":
		return cfg, &validationError{msg: "IMAP host is required"}
	case cfg.IMAPUser == "":
		return cfg, &validationError{msg: "Email is required"}
	case strings.TrimSpace(cfg.IMAPPassword) == "":
		return cfg, &validationError{msg: "Password is required"}
	}
	var err error
	if cfg.IMAPPort, err = parsePort("IMAP port", values[render.FieldIMAPPort]); err != nil {
		return cfg, err
	}
	if cfg.SMTPPort, err = parsePort("SMTP port", values[render.FieldSMTPPort]); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Controller) submitConnect(ev Event) {
	if c.connecting {
		return
	}
	cfg, err := parseConnectForm(ev.Values)
	if err != nil {
		c.surface.Patch(RegionMain, render.ConnectError(err.Error()))
		return
	}
	c.connecting = true
	c.surface.Patch(RegionMain, render.ConnectError(""))
	c.surface.Patch(RegionMain, render.ConnectButton(true))
	tok := c.current(RegionMain)

	c.logger.Printf("connect: %s@%s:%d", cfg.IMAPUser, cfg.IMAPHost, cfg.IMAPPort)
	run(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.mail.Connect(ctx, cfg)
	}, func(_ struct{}, err error) {
		c.connecting = false
		if !c.valid(tok) {
			return
		}
		if err != nil {
			c.logger.Printf("connect: failed: %v", err)
			c.surface.Patch(RegionMain, render.ConnectButton(false))
			c.surface.Patch(RegionMain, render.ConnectError(err.Error()))
			return
		}
		c.onConnected(cfg.IMAPUser)
	})
}

func (c *Controller) onConnected(user string) {
	c.state = c.state.WithConnected(user)
	c.render(RegionHeader, render.Header(user), nil)
	c.render(RegionSearch, render.SearchBar(), map[render.Action]handler{
		render.ActionSearch: c.search,
	})
	c.loadInbox()
}

// onSessionLost returns to the connect form after the backend reports that
// it no longer holds a session.
func (c *Controller) onSessionLost() {
	c.logger.Printf("session: backend reports not connected")
	c.state = c.state.Disconnected()
	c.render(RegionHeader, render.Header(""), nil)
	c.status("Session expired, please reconnect", render.StyleError)
	c.showConnect()
}

// --- inbox ---

// loadInbox reloads folders and the active folder's messages.
func (c *Controller) loadInbox() {
	c.state = c.state.WithActiveFolder(c.state.ActiveFolder)
	c.loadFolders()
	c.loadMessages()
}

func (c *Controller) selectFolder(ev Event) {
	if ev.Arg == "" {
		return
	}
	c.state = c.state.WithActiveFolder(ev.Arg)
	c.loadFolders()
	c.loadMessages()
}

func (c *Controller) loadFolders() {
	tok := c.render(RegionSidebar, render.Loading("Loading folders..."), nil)
	run(c, func(ctx context.Context) ([]string, error) {
		return c.mail.Folders(ctx)
	}, func(folders []string, err error) {
		if !c.valid(tok) {
			return
		}
		if err != nil {
			c.logger.Printf("folders: load failed: %v", err)
			c.render(RegionSidebar, render.FolderError(), map[render.Action]handler{
				render.ActionRefresh: func(Event) { c.loadFolders() },
			})
			return
		}
		prev := c.state.ActiveFolder
		c.state = c.state.WithFolders(folders)
		c.showFolders()
		if c.state.ActiveFolder != prev {
			c.logger.Printf("folders: %q not on server, switching to %q", prev, c.state.ActiveFolder)
			if !c.state.SearchMode && (c.valid(c.listTok) || c.valid(c.inboxTok)) {
				c.loadMessages()
			}
		}
	})
}

func (c *Controller) showFolders() {
	c.render(RegionSidebar, render.FolderList(c.state.Folders, c.state.ActiveFolder), map[render.Action]handler{
		render.ActionSelectFolder: c.selectFolder,
	})
}

func (c *Controller) loadMessages() {
	folder := c.state.ActiveFolder
	c.clearDetail()
	tok := c.render(RegionMain, render.Loading("Loading inbox..."), nil)
	c.inboxTok = tok
	run(c, func(ctx context.Context) (*model.InboxPage, error) {
		return c.mail.Inbox(ctx, folder, c.opts.InboxLimit)
	}, func(page *model.InboxPage, err error) {
		if !c.valid(tok) {
			return
		}
		if err != nil {
			c.logger.Printf("inbox: load %q failed: %v", folder, err)
			if errors.Is(err, services.ErrNotConnected) {
				c.onSessionLost()
				return
			}
			c.render(RegionMain, render.LoadError("Failed to load emails: "+err.Error(), render.ActionRefresh, "Retry"),
				map[render.Action]handler{render.ActionRefresh: func(Event) { c.loadMessages() }})
			return
		}
		c.state = c.state.WithEmails(page.Emails)
		c.total = page.Total
		c.showList()
	})
}

// showList renders the current list from state without a request.
func (c *Controller) showList() {
	var frag render.Fragment
	binds := map[render.Action]handler{
		render.ActionOpenEmail: c.openEmail,
	}
	if c.state.SearchMode {
		res := c.lastSearch
		res.Emails = c.state.Emails
		frag = render.SearchResults(res, c.state.Categories)
	} else {
		frag = render.Inbox(c.state.ActiveFolder, c.total, c.state.Emails, c.state.Categories)
		binds[render.ActionRefresh] = func(Event) { c.loadInbox() }
		binds[render.ActionCategorize] = func(Event) { c.categorize() }
	}
	c.listTok = c.render(RegionMain, frag, binds)
}

func (c *Controller) categorize() {
	if c.tagging || len(c.state.Emails) == 0 {
		return
	}
	uids := make([]model.UID, 0, len(c.state.Emails))
	for _, e := range c.state.Emails {
		uids = append(uids, e.UID)
	}
	list := c.state.listID
	c.tagging = true
	c.status("🏷️  Categorizing...", render.StyleInfo)
	statusTok := c.current(RegionStatus)
	run(c, func(ctx context.Context) ([]model.Category, error) {
		return c.ai.Categorize(ctx, uids)
	}, func(results []model.Category, err error) {
		c.tagging = false
		if c.state.listID != list {
			c.logger.Printf("categorize: list changed, dropping %d results", len(results))
			if c.valid(statusTok) {
				c.status("", render.StyleInfo)
			}
			return
		}
		if err != nil {
			c.logger.Printf("categorize: failed: %v", err)
			c.status("Categorize failed: "+err.Error(), render.StyleError)
			return
		}
		c.state = c.state.WithCategories(results)
		c.status(fmt.Sprintf("Categorized %d emails", len(results)), render.StyleSuccess)
		if c.valid(c.listTok) {
			c.showList()
		}
	})
}

// --- search ---

func (c *Controller) search(ev Event) {
	query := strings.TrimSpace(ev.Values[render.FieldQuery])
	if query == "" {
		return
	}
	c.state = c.state.WithSearchStarted()
	c.clearDetail()
	tok := c.render(RegionMain, render.Loading("Searching with AI..."), nil)

	c.logger.Printf("search: %q", query)
	run(c, func(ctx context.Context) (*model.SearchResult, error) {
		return c.ai.Search(ctx, query)
	}, func(res *model.SearchResult, err error) {
		if !c.valid(tok) {
			return
		}
		if err != nil {
			c.logger.Printf("search: failed: %v", err)
			c.render(RegionMain, render.Error("Search failed: "+err.Error()), nil)
			return
		}
		c.lastSearch = *res
		c.state = c.state.WithSearchResults(res.Emails)
		c.showList()
	})
}

// --- detail ---

func (c *Controller) openEmail(ev Event) {
	summary, ok := c.state.FindEmail(ev.Arg)
	if !ok {
		c.logger.Printf("open: uid %q not in current list", ev.Arg)
		return
	}
	folder := c.state.ActiveFolder
	c.clearDetail()
	tok := c.render(RegionMain, render.Loading("Loading email..."), nil)

	run(c, func(ctx context.Context) (*model.EmailDetail, error) {
		return c.mail.Email(ctx, summary.UID, folder)
	}, func(detail *model.EmailDetail, err error) {
		if !c.valid(tok) {
			return
		}
		if err != nil {
			c.logger.Printf("open: email %s in %q failed: %v", summary.UID, folder, err)
			c.render(RegionMain, render.LoadError("Failed to load email: "+err.Error(), render.ActionBack, "← Back"),
				map[render.Action]handler{render.ActionBack: func(Event) { c.back() }})
			return
		}
		if detail.UID.IsZero() {
			detail.UID = summary.UID
		}
		c.state = c.state.WithCurrentEmail(detail)
		c.detail = &detailSession{uid: detail.UID, sender: detail.Sender}
		c.render(RegionMain, render.EmailDetail(detail), map[render.Action]handler{
			render.ActionBack:        func(Event) { c.back() },
			render.ActionSummarize:   func(Event) { c.summarize() },
			render.ActionActionItems: func(Event) { c.actionItems() },
			render.ActionDraftReply:  func(Event) { c.revealDraft() },
		})
	})
}

// back leaves the detail view. Search results are not kept, so in search
// mode the inbox is reloaded instead.
func (c *Controller) back() {
	if c.state.SearchMode {
		c.loadInbox()
		return
	}
	c.state = c.state.WithCurrentEmail(nil)
	c.clearDetail()
	c.showList()
}

// clearDetail empties the AI regions, which also invalidates any of their
// requests still in flight.
func (c *Controller) clearDetail() {
	c.detail = nil
	c.render(RegionSummary, render.Fragment{}, nil)
	c.render(RegionActionItems, render.Fragment{}, nil)
	c.render(RegionDraftInput, render.Fragment{}, nil)
	c.render(RegionDraft, render.Fragment{}, nil)
}

// aiCall runs one detail-scoped request whose result replaces region. The
// completion is dropped if another message was opened or the region was
// re-rendered in the meantime.
func aiCall[T any](c *Controller, region Region, pending string, call func(ctx context.Context, uid model.UID) (T, error), show func(T) (render.Fragment, map[render.Action]handler)) {
	sess := c.detail
	if sess == nil {
		return
	}
	tok := c.render(region, render.Loading(pending), nil)
	run(c, func(ctx context.Context) (T, error) {
		return call(ctx, sess.uid)
	}, func(v T, err error) {
		if !c.valid(tok) || c.detail != sess {
			return
		}
		if err != nil {
			c.logger.Printf("%s: email %s failed: %v", region, sess.uid, err)
			c.render(region, render.Error(err.Error()), nil)
			return
		}
		frag, binds := show(v)
		c.render(region, frag, binds)
	})
}

func (c *Controller) summarize() {
	aiCall(c, RegionSummary, "Summarizing...", c.ai.Summarize, func(s string) (render.Fragment, map[render.Action]handler) {
		return render.Summary(s), nil
	})
}

func (c *Controller) actionItems() {
	aiCall(c, RegionActionItems, "Extracting action items...", c.ai.ActionItems, func(items []string) (render.Fragment, map[render.Action]handler) {
		return render.ActionItems(items), nil
	})
}

// --- draft reply ---

func (c *Controller) revealDraft() {
	sess := c.detail
	if sess == nil {
		return
	}
	c.render(RegionDraftInput, render.DraftInstruction(sess.instruction), map[render.Action]handler{
		render.ActionDraftInstruction: c.instructionChanged,
		render.ActionGenerateDraft:    c.generateDraft,
	})
}

func (c *Controller) instructionChanged(ev Event) {
	if c.detail == nil {
		return
	}
	c.detail.instruction = ev.Values[render.FieldInstruction]
	c.surface.Patch(RegionDraftInput, render.GenerateButton(strings.TrimSpace(c.detail.instruction) != ""))
}

func (c *Controller) generateDraft(ev Event) {
	sess := c.detail
	if sess == nil {
		return
	}
	if v, ok := ev.Values[render.FieldInstruction]; ok {
		sess.instruction = v
	}
	instruction := strings.TrimSpace(sess.instruction)
	if instruction == "" {
		return
	}
	aiCall(c, RegionDraft, "Generating draft...", func(ctx context.Context, uid model.UID) (*model.DraftReply, error) {
		return c.ai.DraftReply(ctx, uid, instruction)
	}, func(d *model.DraftReply) (render.Fragment, map[render.Action]handler) {
		draft := &draftState{subject: d.Subject}
		sess.draft = draft
		return render.DraftEditor(d.Subject, d.Draft, render.SendIdle), map[render.Action]handler{
			render.ActionSendDraft: func(ev Event) { c.sendDraft(sess, draft, ev) },
		}
	})
}

// sendDraft sends the edited reply. A draft is sent at most once: further
// clicks while pending or after success are ignored.
func (c *Controller) sendDraft(sess *detailSession, draft *draftState, ev Event) {
	if draft.send != render.SendIdle {
		return
	}
	msg := model.OutgoingMessage{
		To:      sess.sender,
		Subject: draft.subject,
		Body:    ev.Values[render.FieldDraftBody],
	}
	draft.send = render.SendPending
	c.surface.Patch(RegionDraft, render.SendButton(render.SendPending))
	tok := c.current(RegionDraft)

	c.logger.Printf("send: reply to %s for email %s", msg.To, sess.uid)
	run(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.mail.Send(ctx, msg)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Printf("send: failed: %v", err)
			draft.send = render.SendIdle
			if c.valid(tok) {
				c.surface.Patch(RegionDraft, render.SendButton(render.SendIdle))
			}
			c.surface.Alert("Failed to send: " + err.Error())
			return
		}
		draft.send = render.SendSent
		if c.valid(tok) {
			c.surface.Patch(RegionDraft, render.SendButton(render.SendSent))
		}
		c.status("✅ Reply sent to "+msg.To, render.StyleSuccess)
	})
}
