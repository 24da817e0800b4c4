package relay

import (
	"context"
	"errors"
	"sync"
)

type sentReply struct {
	kind    ReplyKind
	chatID  int64
	text    string
	url     string
	data    []byte
	caption string
}

// fakeSender records every reply together with the state of the context it
// was sent under.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentReply
	ctxErrs []error
	err     error
}

func (s *fakeSender) record(ctx context.Context, r sentReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, r)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

func (s *fakeSender) SendText(ctx context.Context, chatID int64, text string) error {
	return s.record(ctx, sentReply{kind: ReplyText, chatID: chatID, text: text})
}

func (s *fakeSender) SendPhoto(ctx context.Context, chatID int64, url string, data []byte) error {
	return s.record(ctx, sentReply{kind: ReplyPhoto, chatID: chatID, url: url, data: data})
}

func (s *fakeSender) SendAudio(ctx context.Context, chatID int64, data []byte, caption string) error {
	return s.record(ctx, sentReply{kind: ReplyAudio, chatID: chatID, data: data, caption: caption})
}

func (s *fakeSender) SendVoice(ctx context.Context, chatID int64, data []byte, caption string) error {
	return s.record(ctx, sentReply{kind: ReplyVoice, chatID: chatID, data: data, caption: caption})
}

type fakeResolver struct {
	calls []string
	err   error
}

func (r *fakeResolver) ResolveFileURL(_ context.Context, fileID string) (string, error) {
	r.calls = append(r.calls, fileID)
	if r.err != nil {
		return "", r.err
	}
	return "https://files.example/" + fileID, nil
}

type fakeDownloader struct {
	calls []string
	data  []byte
	err   error
}

func (d *fakeDownloader) Download(_ context.Context, url string) ([]byte, error) {
	d.calls = append(d.calls, url)
	if d.err != nil {
		return nil, d.err
	}
	return d.data, nil
}

// fakeGenerator answers calls in order from answers; once exhausted it
// repeats the last answer.
type fakeGenerator struct {
	calls   [][]Part
	answers []string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, parts []Part) (string, error) {
	g.calls = append(g.calls, parts)
	if g.err != nil {
		return "", g.err
	}
	if len(g.answers) == 0 {
		return "", nil
	}
	i := len(g.calls) - 1
	if i >= len(g.answers) {
		i = len(g.answers) - 1
	}
	return g.answers[i], nil
}

// stalledGenerator never answers; it returns once ctx is done.
type stalledGenerator struct{}

func (stalledGenerator) Generate(ctx context.Context, _ []Part) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type fakeImages struct {
	prompts []string
	urls    []string
	err     error
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) ([]string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.urls, f.err
}

var errNetwork = errors.New("dial tcp: connection refused")

type harness struct {
	sender     *fakeSender
	resolver   *fakeResolver
	downloader *fakeDownloader
	generator  *fakeGenerator
	images     *fakeImages
}

func newHarness() *harness {
	return &harness{
		sender:     &fakeSender{},
		resolver:   &fakeResolver{},
		downloader: &fakeDownloader{data: []byte("binary")},
		generator:  &fakeGenerator{},
		images:     &fakeImages{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Sender:     h.sender,
		Files:      h.resolver,
		Generator:  h.generator,
		Images:     h.images,
		Downloader: h.downloader,
	}
}
