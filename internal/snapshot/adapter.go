package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/suPer8Hu/taim-chat/internal/chat"
	"github.com/suPer8Hu/taim-chat/internal/observability"
)

var ErrNotFound = errors.New("snapshot slot not found")

// Backend is a durable key-value store holding one blob per slot.
type Backend interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, payload []byte) error
}

// Adapter persists chat.AppData as a single JSON blob. It implements
// chat.Persister: read failures mean "absent" and write failures are
// logged and dropped.
type Adapter struct {
	backend Backend
	slot    string
	log     *slog.Logger
}

func NewAdapter(backend Backend, slot string) *Adapter {
	return &Adapter{backend: backend, slot: slot, log: observability.Logger().With("slot", slot)}
}

func (a *Adapter) Load(ctx context.Context) (*chat.AppData, bool) {
	raw, err := a.backend.Get(ctx, a.slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.log.Info("no snapshot stored")
		} else {
			a.log.Warn("snapshot read failed", "error", err)
		}
		return nil, false
	}

	var data chat.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		a.log.Warn("snapshot corrupt, ignoring", "error", err)
		return nil, false
	}
	if !data.Theme.Valid() {
		a.log.Warn("snapshot has invalid theme, ignoring", "theme", data.Theme)
		return nil, false
	}
	if data.Chats == nil {
		data.Chats = []chat.Chat{}
	}
	return &data, true
}

func (a *Adapter) Save(ctx context.Context, data chat.AppData) {
	if data.Chats == nil {
		data.Chats = []chat.Chat{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		a.log.Error("snapshot encode failed", "error", err)
		return
	}
	if err := a.backend.Put(ctx, a.slot, raw); err != nil {
		a.log.Error("snapshot write failed", "error", err)
	}
}
