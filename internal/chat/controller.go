package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/suPer8Hu/taim-chat/internal/observability"
)

var (
	ErrTurnInFlight = errors.New("a message is already being generated")
	ErrNoActiveChat = errors.New("no active chat")
	ErrEmptyPrompt  = errors.New("prompt is empty and no image is attached")
	ErrChatNotFound = errors.New("chat not found")
	ErrInvalidTheme = errors.New("invalid theme")
)

const (
	errorReplyPrefix = "Sorry, something went wrong: "
	maxTitleRunes    = 40
)

// Gateway is the model boundary used by a turn.
type Gateway interface {
	Generate(ctx context.Context, prompt, image string) (string, error)
	// SummarizeTitle never fails; it returns a fallback title instead.
	SummarizeTitle(ctx context.Context, prompt, response string) string
}

// Persister stores the whole snapshot. Load reports false when nothing
// usable was stored. Save swallows its own errors.
type Persister interface {
	Load(ctx context.Context) (*AppData, bool)
	Save(ctx context.Context, data AppData)
}

type TurnEvent struct {
	ChatID       string    `json:"chat_id"`
	OK           bool      `json:"ok"`
	Error        string    `json:"error,omitempty"`
	TitleUpdated bool      `json:"title_updated"`
	HasImage     bool      `json:"has_image"`
	At           time.Time `json:"at"`
}

type TurnNotifier interface {
	NotifyTurn(ctx context.Context, ev TurnEvent) error
}

type TurnResult struct {
	ChatID       string  `json:"chat_id"`
	UserMessage  Message `json:"user_message"`
	BotMessage   Message `json:"bot_message"`
	Title        string  `json:"title"`
	TitleUpdated bool    `json:"title_updated"`
	Error        string  `json:"error,omitempty"`
}

// State is a read-only view for rendering.
type State struct {
	Chats     []Chat `json:"chats"`
	ActiveID  string `json:"active_chat_id"`
	Theme     Theme  `json:"theme"`
	InFlight  bool   `json:"in_flight"`
	LastError string `json:"last_error,omitempty"`
}

type Option func(*Controller)

func WithNotifier(n TurnNotifier) Option { return func(c *Controller) { c.notifier = n } }

func WithIDFunc(f IDFunc) Option { return func(c *Controller) { c.newID = f } }

func WithDefaultTheme(t Theme) Option {
	return func(c *Controller) {
		if t.Valid() {
			c.defaultTheme = t
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

// Controller owns the chat store and theme and runs turns against them.
// All state is guarded by mu; the gateway call runs outside the lock so
// reads and chat switching stay available while a turn is outstanding.
type Controller struct {
	mu        sync.Mutex
	store     *Store
	theme     Theme
	inFlight  bool
	lastError string

	gateway      Gateway
	persister    Persister
	notifier     TurnNotifier
	newID        IDFunc
	defaultTheme Theme
	log          *slog.Logger
}

// Boot loads the persisted snapshot, or seeds a fresh default state when
// none is usable.
func Boot(ctx context.Context, persister Persister, gateway Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:      gateway,
		persister:    persister,
		defaultTheme: ThemeDark,
		log:          observability.Logger(),
	}
	for _, o := range opts {
		o(c)
	}

	data, ok := persister.Load(ctx)
	if ok && len(data.Chats) > 0 {
		c.store = NewStoreFrom(data.Chats, c.newID)
		c.theme = ParseTheme(string(data.Theme), c.defaultTheme)
		c.log.Info("snapshot loaded", "chats", c.store.Len(), "theme", c.theme)
		return c
	}

	c.store = NewStore(c.newID)
	c.store.Create()
	c.theme = c.defaultTheme
	if ok {
		c.theme = ParseTheme(string(data.Theme), c.defaultTheme)
	}
	c.log.Info("no usable snapshot, seeded default state")
	c.persistLocked(ctx)
	return c
}

func (c *Controller) snapshotLocked() AppData {
	return AppData{Chats: c.store.Chats(), Theme: c.theme}
}

func (c *Controller) persistLocked(ctx context.Context) {
	c.persister.Save(ctx, c.snapshotLocked())
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Chats:     c.store.Chats(),
		ActiveID:  c.store.ActiveID(),
		Theme:     c.theme,
		InFlight:  c.inFlight,
		LastError: c.lastError,
	}
}

func (c *Controller) Snapshot() AppData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Chat(id string) (Chat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.store.Get(id)
	if !ok {
		return Chat{}, ErrChatNotFound
	}
	return ch, nil
}

func (c *Controller) CreateChat(ctx context.Context) Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := c.store.Create()
	c.persistLocked(ctx)
	return ch
}

// SelectChat does not persist; the active id is not part of the snapshot.
func (c *Controller) SelectChat(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.store.Select(id) {
		return ErrChatNotFound
	}
	return nil
}

func (c *Controller) DeleteChat(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.store.Delete(id) {
		return ErrChatNotFound
	}
	c.persistLocked(ctx)
	return nil
}

func (c *Controller) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return ErrInvalidTheme
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = t
	c.persistLocked(ctx)
	return nil
}

func (c *Controller) ToggleTheme(ctx context.Context) Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = c.theme.Toggled()
	c.persistLocked(ctx)
	return c.theme
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
}

// Shutdown writes a final snapshot.
func (c *Controller) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persistLocked(ctx)
}

// Send runs one turn against the active chat: the user message is
// appended before the model is called, the reply (or an error reply) after.
func (c *Controller) Send(ctx context.Context, prompt, image string) (*TurnResult, error) {
	log := observability.LoggerFromContext(ctx)

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	chatID := c.store.ActiveID()
	if chatID == "" {
		c.mu.Unlock()
		return nil, ErrNoActiveChat
	}
	if strings.TrimSpace(prompt) == "" && image == "" {
		c.mu.Unlock()
		return nil, ErrEmptyPrompt
	}

	needsTitle := c.store.MessageCount(chatID) == 1
	userMsg := Message{Author: AuthorUser, Text: prompt, Image: image}
	c.store.Append(chatID, userMsg)
	c.inFlight = true
	c.lastError = ""
	c.persistLocked(ctx)
	c.mu.Unlock()

	log = log.With("chat_id", chatID)
	log.Info("turn started", "needs_title", needsTitle, "has_image", image != "")

	// no user abort: the call runs to completion even if the caller goes away
	callCtx := context.WithoutCancel(ctx)
	start := time.Now()
	reply, genErr := c.gateway.Generate(callCtx, prompt, image)

	res := &TurnResult{ChatID: chatID, UserMessage: userMsg}
	var botMsg Message
	if genErr != nil {
		log.Error("generation failed", "cost", time.Since(start), "error", genErr)
		botMsg = Message{Author: AuthorBot, Text: errorReplyPrefix + genErr.Error()}
		res.Error = genErr.Error()
	} else {
		log.Info("generation succeeded", "cost", time.Since(start))
		botMsg = Message{Author: AuthorBot, Text: reply}
	}
	res.BotMessage = botMsg

	c.mu.Lock()
	c.store.Append(chatID, botMsg)
	if genErr != nil {
		c.lastError = genErr.Error()
	}
	c.mu.Unlock()

	if needsTitle && genErr == nil {
		title := SanitizeTitle(c.gateway.SummarizeTitle(callCtx, prompt, reply))
		c.mu.Lock()
		res.TitleUpdated = c.store.SetTitle(chatID, title)
		c.mu.Unlock()
		log.Info("chat titled", "title", title)
	}

	c.mu.Lock()
	if ch, ok := c.store.Get(chatID); ok {
		res.Title = ch.Title
	}
	c.inFlight = false
	c.persistLocked(callCtx)
	c.mu.Unlock()

	c.notify(callCtx, log, TurnEvent{
		ChatID:       chatID,
		OK:           genErr == nil,
		Error:        res.Error,
		TitleUpdated: res.TitleUpdated,
		HasImage:     image != "",
		At:           time.Now().UTC(),
	})
	return res, nil
}

func (c *Controller) notify(ctx context.Context, log *slog.Logger, ev TurnEvent) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.NotifyTurn(ctx, ev); err != nil {
		log.Warn("turn event not published", "error", err)
	}
}

// SanitizeTitle strips quotes, collapses whitespace and truncates.
// Apostrophes inside words are kept.
func SanitizeTitle(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '`', '“', '”':
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "'‘’")
	s = strings.TrimSpace(strings.TrimRight(s, "."))
	if s == "" {
		return DefaultTitle
	}
	if r := []rune(s); len(r) > maxTitleRunes {
		s = strings.TrimSpace(string(r[:maxTitleRunes])) + "…"
	}
	return s
}
