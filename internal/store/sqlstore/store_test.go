package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/suPer8Hu/taim-chat/internal/chat"
	"github.com/suPer8Hu/taim-chat/internal/db"
	"github.com/suPer8Hu/taim-chat/internal/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := New(gdb)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestStore_MissingSlot(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "slot", []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "slot", []byte("second")); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, err := s.Get(ctx, "slot")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}

	var n int64
	if err := s.db.Model(&Snapshot{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected a single row per slot, got %d", n)
	}
}

func TestStore_AdapterRoundTrip(t *testing.T) {
	a := snapshot.NewAdapter(openTestStore(t), "taim-ai-app-data")
	want := chat.AppData{
		Theme: chat.ThemeDark,
		Chats: []chat.Chat{{
			ID:    "01X",
			Title: "Greetings",
			Messages: []chat.Message{
				{Author: chat.AuthorBot, Text: chat.Greeting},
				{Author: chat.AuthorUser, Text: "héllo ✓"},
				{Author: chat.AuthorBot, Text: "hi"},
			},
		}},
	}

	a.Save(context.Background(), want)
	got, ok := a.Load(context.Background())
	if !ok {
		t.Fatalf("expected snapshot")
	}
	if len(got.Chats) != 1 || got.Chats[0].Messages[1].Text != "héllo ✓" || got.Theme != chat.ThemeDark {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}
