package chat

type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme falls back to def for unknown values.
func ParseTheme(s string, def Theme) Theme {
	if t := Theme(s); t.Valid() {
		return t
	}
	return def
}

const (
	DefaultTitle = "New Chat"
	Greeting     = "Hello! I'm Taim Ai, an AI assistant powered by Gemini. You can now send images along with your text. How can I help you today?"
)

// Message is immutable once appended. Image holds the data URI exactly as
// the browser supplied it.
type Message struct {
	Author Author `json:"author"`
	Text   string `json:"text"`
	Image  string `json:"imageUrl,omitempty"`
}

type Chat struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

func (c Chat) clone() Chat {
	out := c
	out.Messages = append([]Message(nil), c.Messages...)
	return out
}

// AppData is the whole persisted snapshot.
type AppData struct {
	Chats []Chat `json:"chats"`
	Theme Theme  `json:"theme"`
}
