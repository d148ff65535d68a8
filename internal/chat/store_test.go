package chat

import (
	"fmt"
	"math/rand"
	"testing"
)

func seqIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c%03d", n)
	}
}

func TestStore_CreateSeedsAndActivates(t *testing.T) {
	s := NewStore(seqIDs())
	first := s.Create()
	second := s.Create()

	if s.ActiveID() != second.ID {
		t.Fatalf("expected newest chat active, got %q", s.ActiveID())
	}
	chats := s.Chats()
	if len(chats) != 2 || chats[0].ID != second.ID || chats[1].ID != first.ID {
		t.Fatalf("expected newest chat first, got %+v", chats)
	}
	if len(first.Messages) != 1 || first.Messages[0].Author != AuthorBot || first.Messages[0].Text != Greeting {
		t.Fatalf("expected greeting seed, got %+v", first.Messages)
	}
	if first.Title != DefaultTitle {
		t.Fatalf("unexpected title %q", first.Title)
	}
}

func TestStore_SelectUnknownIsNoop(t *testing.T) {
	s := NewStore(seqIDs())
	c := s.Create()
	if s.Select("missing") {
		t.Fatalf("select of unknown id must report false")
	}
	if s.ActiveID() != c.ID {
		t.Fatalf("selection changed on unknown id")
	}
}

func TestStore_DeleteActiveSelectsFirst(t *testing.T) {
	s := NewStore(seqIDs())
	a := s.Create()
	b := s.Create()
	c := s.Create() // order: c, b, a

	s.Select(b.ID)
	s.Delete(b.ID)
	if s.ActiveID() != c.ID {
		t.Fatalf("expected first remaining chat %q active, got %q", c.ID, s.ActiveID())
	}

	s.Delete(a.ID)
	if s.ActiveID() != c.ID {
		t.Fatalf("deleting an inactive chat must keep the selection")
	}

	s.Delete(c.ID)
	if s.ActiveID() != "" || s.Len() != 0 {
		t.Fatalf("expected empty store with no active chat")
	}
	if _, ok := s.Active(); ok {
		t.Fatalf("expected no active chat")
	}
}

func TestStore_AppendUnknownIsNoop(t *testing.T) {
	s := NewStore(seqIDs())
	c := s.Create()
	if s.Append("missing", Message{Author: AuthorUser, Text: "hi"}) {
		t.Fatalf("append to unknown chat must report false")
	}
	if s.MessageCount(c.ID) != 1 || s.MessageCount("missing") != -1 {
		t.Fatalf("unexpected message counts")
	}
}

func TestStore_ChatsIsACopy(t *testing.T) {
	s := NewStore(seqIDs())
	c := s.Create()
	chats := s.Chats()
	chats[0].Messages[0].Text = "mutated"
	chats[0].Title = "mutated"

	got, _ := s.Get(c.ID)
	if got.Messages[0].Text != Greeting || got.Title != DefaultTitle {
		t.Fatalf("store leaked internal state")
	}
}

func TestNewStoreFrom(t *testing.T) {
	s := NewStoreFrom([]Chat{
		{ID: "x", Title: "X", Messages: []Message{{Author: AuthorBot, Text: Greeting}}},
		{ID: "y", Title: "Y"},
	}, seqIDs())
	if s.ActiveID() != "x" {
		t.Fatalf("expected first chat active, got %q", s.ActiveID())
	}
	if s.MessageCount("y") != 1 {
		t.Fatalf("expected greeting re-seeded into empty chat")
	}
}

// Random create/select/delete sequences keep the active id valid.
func TestStore_ActiveInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore(seqIDs())

	for i := 0; i < 2000; i++ {
		chats := s.Chats()
		pick := func() string {
			if len(chats) == 0 || rng.Intn(5) == 0 {
				return "ghost"
			}
			return chats[rng.Intn(len(chats))].ID
		}

		switch rng.Intn(3) {
		case 0:
			s.Create()
		case 1:
			s.Select(pick())
		case 2:
			id := pick()
			wasActive := id == s.ActiveID()
			s.Delete(id)
			if wasActive && id != "ghost" {
				rest := s.Chats()
				want := ""
				if len(rest) > 0 {
					want = rest[0].ID
				}
				if s.ActiveID() != want {
					t.Fatalf("step %d: expected %q active after delete, got %q", i, want, s.ActiveID())
				}
			}
		}

		active := s.ActiveID()
		if s.Len() == 0 {
			if active != "" {
				t.Fatalf("step %d: empty store has active id %q", i, active)
			}
			continue
		}
		if _, ok := s.Get(active); !ok {
			t.Fatalf("step %d: active id %q not in collection", i, active)
		}
	}
}
