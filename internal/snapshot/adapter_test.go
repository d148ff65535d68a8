package snapshot

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/suPer8Hu/taim-chat/internal/chat"
)

type failingBackend struct{ err error }

func (f failingBackend) Get(ctx context.Context, slot string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Put(ctx context.Context, slot string, payload []byte) error {
	return f.err
}

func sampleData() chat.AppData {
	return chat.AppData{
		Theme: chat.ThemeLight,
		Chats: []chat.Chat{
			{
				ID:    "01B",
				Title: "Cat Photo",
				Messages: []chat.Message{
					{Author: chat.AuthorBot, Text: chat.Greeting},
					{Author: chat.AuthorUser, Text: "what is this", Image: "data:image/png;base64,aGVsbG8="},
					{Author: chat.AuthorBot, Text: "a **cat**"},
				},
			},
			{
				ID:       "01A",
				Title:    chat.DefaultTitle,
				Messages: []chat.Message{{Author: chat.AuthorBot, Text: chat.Greeting}},
			},
		},
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), "slot")
	want := sampleData()

	a.Save(context.Background(), want)
	got, ok := a.Load(context.Background())
	if !ok {
		t.Fatalf("expected snapshot to load")
	}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestAdapter_RoundTripEmpty(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), "slot")
	a.Save(context.Background(), chat.AppData{Theme: chat.ThemeDark})

	got, ok := a.Load(context.Background())
	if !ok {
		t.Fatalf("expected snapshot to load")
	}
	if len(got.Chats) != 0 || got.Theme != chat.ThemeDark {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestAdapter_MissingSlotIsAbsent(t *testing.T) {
	if _, ok := NewAdapter(NewMemoryBackend(), "slot").Load(context.Background()); ok {
		t.Fatalf("expected absent snapshot")
	}
}

func TestAdapter_CorruptIsAbsent(t *testing.T) {
	b := NewMemoryBackend()
	_ = b.Put(context.Background(), "slot", []byte("{not json"))
	if _, ok := NewAdapter(b, "slot").Load(context.Background()); ok {
		t.Fatalf("corrupt snapshot must be treated as absent")
	}

	_ = b.Put(context.Background(), "slot", []byte(`{"chats":[],"theme":"sepia"}`))
	if _, ok := NewAdapter(b, "slot").Load(context.Background()); ok {
		t.Fatalf("unknown theme must be treated as absent")
	}
}

func TestAdapter_BackendErrorsAreSwallowed(t *testing.T) {
	a := NewAdapter(failingBackend{err: errors.New("disk gone")}, "slot")
	a.Save(context.Background(), sampleData())
	if _, ok := a.Load(context.Background()); ok {
		t.Fatalf("read failure must be treated as absent")
	}
}
