package chat

import (
	"fmt"
	"time"

	"github.com/suPer8Hu/taim-chat/internal/common"
)

// IDFunc mints chat ids.
type IDFunc func() string

func defaultID() string {
	id, err := common.NewULID()
	if err != nil {
		// entropy exhaustion within one millisecond; fall back to the clock
		return fmt.Sprintf("chat_%d", time.Now().UnixNano())
	}
	return id
}

// Store is the in-memory chat collection. Order is display order, newest
// chat first. Store is not safe for concurrent use; Controller serializes
// access to it.
type Store struct {
	chats    []Chat
	activeID string
	newID    IDFunc
}

func NewStore(newID IDFunc) *Store {
	if newID == nil {
		newID = defaultID
	}
	return &Store{newID: newID}
}

// NewStoreFrom rebuilds a store from a loaded snapshot. The first chat
// becomes active. Chats without messages get the greeting seeded back.
func NewStoreFrom(chats []Chat, newID IDFunc) *Store {
	s := NewStore(newID)
	s.chats = make([]Chat, 0, len(chats))
	for _, c := range chats {
		c = c.clone()
		if c.ID == "" {
			c.ID = s.newID()
		}
		if len(c.Messages) == 0 {
			c.Messages = []Message{{Author: AuthorBot, Text: Greeting}}
		}
		s.chats = append(s.chats, c)
	}
	if len(s.chats) > 0 {
		s.activeID = s.chats[0].ID
	}
	return s
}

func (s *Store) indexOf(id string) int {
	for i := range s.chats {
		if s.chats[i].ID == id {
			return i
		}
	}
	return -1
}

// Create seeds a chat with the greeting, puts it first and activates it.
func (s *Store) Create() Chat {
	c := Chat{
		ID:       s.newID(),
		Title:    DefaultTitle,
		Messages: []Message{{Author: AuthorBot, Text: Greeting}},
	}
	s.chats = append([]Chat{c}, s.chats...)
	s.activeID = c.ID
	return c.clone()
}

// Select reports whether id exists; unknown ids leave the selection as is.
func (s *Store) Select(id string) bool {
	if s.indexOf(id) < 0 {
		return false
	}
	s.activeID = id
	return true
}

// Delete removes a chat. Deleting the active chat activates the new first
// chat, or none when the collection becomes empty.
func (s *Store) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.chats = append(s.chats[:i], s.chats[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.chats) > 0 {
			s.activeID = s.chats[0].ID
		}
	}
	return true
}

// Append is a no-op for unknown chat ids.
func (s *Store) Append(chatID string, m Message) bool {
	i := s.indexOf(chatID)
	if i < 0 {
		return false
	}
	s.chats[i].Messages = append(s.chats[i].Messages, m)
	return true
}

func (s *Store) SetTitle(chatID, title string) bool {
	i := s.indexOf(chatID)
	if i < 0 {
		return false
	}
	s.chats[i].Title = title
	return true
}

func (s *Store) Get(id string) (Chat, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Chat{}, false
	}
	return s.chats[i].clone(), true
}

func (s *Store) ActiveID() string { return s.activeID }

func (s *Store) Active() (Chat, bool) {
	if s.activeID == "" {
		return Chat{}, false
	}
	return s.Get(s.activeID)
}

// MessageCount returns -1 for unknown chats.
func (s *Store) MessageCount(id string) int {
	i := s.indexOf(id)
	if i < 0 {
		return -1
	}
	return len(s.chats[i].Messages)
}

func (s *Store) Len() int { return len(s.chats) }

// Chats returns a deep copy in display order.
func (s *Store) Chats() []Chat {
	out := make([]Chat, 0, len(s.chats))
	for _, c := range s.chats {
		out = append(out, c.clone())
	}
	return out
}
