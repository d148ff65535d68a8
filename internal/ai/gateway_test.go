package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingProvider struct {
	calls [][]Message
	reply string
	err   error
}

func (p *recordingProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	p.calls = append(p.calls, append([]Message(nil), messages...))
	return p.reply, p.err
}

func newTestGateway(p Provider, factoryErr error) *Gateway {
	reg := NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		_ = model
		if factoryErr != nil {
			return nil, factoryErr
		}
		return p, nil
	})
	return NewGateway(reg, "fake", "default")
}

func TestGenerate_ReturnsProviderText(t *testing.T) {
	prov := &recordingProvider{reply: "hi there"}
	g := newTestGateway(prov, nil)

	got, err := g.Generate(context.Background(), "Hello", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "hi there" {
		t.Fatalf("unexpected reply %q", got)
	}
	if len(prov.calls) != 1 || prov.calls[0][0].Content != "Hello" || prov.calls[0][0].Image != nil {
		t.Fatalf("unexpected provider input: %+v", prov.calls)
	}
}

func TestGenerate_SendsInlineImage(t *testing.T) {
	prov := &recordingProvider{reply: "a cat"}
	g := newTestGateway(prov, nil)

	if _, err := g.Generate(context.Background(), "what is this", "data:image/jpeg;base64,aGVsbG8="); err != nil {
		t.Fatalf("generate: %v", err)
	}
	img := prov.calls[0][0].Image
	if img == nil || img.MIMEType != "image/jpeg" || string(img.Data) != "hello" {
		t.Fatalf("unexpected image: %+v", img)
	}
}

func TestGenerate_MalformedImageFailsBeforeCall(t *testing.T) {
	prov := &recordingProvider{reply: "unused"}
	g := newTestGateway(prov, nil)

	_, err := g.Generate(context.Background(), "look", "not-a-data-uri")
	if !errors.Is(err, ErrMalformedImage) {
		t.Fatalf("expected ErrMalformedImage, got %v", err)
	}
	if len(prov.calls) != 0 {
		t.Fatalf("provider must not be called with malformed data")
	}
}

func TestGenerate_AttributionSkipsProvider(t *testing.T) {
	prov := &recordingProvider{reply: "unused"}
	g := newTestGateway(prov, nil)

	for _, in := range []string{"who created you", "  Who Created You  ", "WHO CREATED YOU\n"} {
		got, err := g.Generate(context.Background(), in, "")
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != AttributionText {
			t.Fatalf("%q: unexpected reply %q", in, got)
		}
	}
	if len(prov.calls) != 0 {
		t.Fatalf("expected no provider calls, got %d", len(prov.calls))
	}
}

func TestGenerate_EmptyResponseIsApology(t *testing.T) {
	g := newTestGateway(&recordingProvider{reply: "  \n"}, nil)

	got, err := g.Generate(context.Background(), "anything", "")
	if err != nil {
		t.Fatalf("empty response must not be an error: %v", err)
	}
	if got != EmptyResponseText {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestGenerate_ProviderErrorIsWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := newTestGateway(&recordingProvider{err: cause}, nil)

	_, err := g.Generate(context.Background(), "hi", "")
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "fake api error") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestGenerate_MissingKeySurfacesRawMessage(t *testing.T) {
	g := newTestGateway(nil, ErrMissingAPIKey)

	_, err := g.Generate(context.Background(), "hi", "")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if err.Error() != ErrMissingAPIKey.Error() {
		t.Fatalf("config error must not be decorated, got %q", err.Error())
	}
}

func TestGenerate_UnknownProvider(t *testing.T) {
	g := NewGateway(NewRegistry(), "nope", "")
	if _, err := g.Generate(context.Background(), "hi", ""); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestSummarizeTitle(t *testing.T) {
	prov := &recordingProvider{reply: "  Cat Photo Question \n"}
	g := newTestGateway(prov, nil)

	got := g.SummarizeTitle(context.Background(), "what is this", "a cat")
	if got != "Cat Photo Question" {
		t.Fatalf("unexpected title %q", got)
	}
	sent := prov.calls[0][0].Content
	if !strings.Contains(sent, "what is this") || !strings.Contains(sent, "a cat") {
		t.Fatalf("title prompt must carry the exchange, got %q", sent)
	}
}

func TestSummarizeTitle_FallsBack(t *testing.T) {
	if got := newTestGateway(&recordingProvider{err: errors.New("boom")}, nil).SummarizeTitle(context.Background(), "p", "r"); got != TitleFallback {
		t.Fatalf("provider error: got %q", got)
	}
	if got := newTestGateway(&recordingProvider{reply: ""}, nil).SummarizeTitle(context.Background(), "p", "r"); got != TitleFallback {
		t.Fatalf("empty reply: got %q", got)
	}
	if got := newTestGateway(nil, ErrMissingAPIKey).SummarizeTitle(context.Background(), "p", "r"); got != TitleFallback {
		t.Fatalf("missing key: got %q", got)
	}
}
