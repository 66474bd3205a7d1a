package session

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
	"github.com/dmitrijs2005/fsbackup/internal/client/storage"
)

type listReply struct {
	names []string
	err   error
}

type backupReply struct {
	disposition string
	body        string
	err         error
}

// fakeClient answers from per-credential replies. A credential listed in
// gates blocks until a value is sent on its channel.
type fakeClient struct {
	mu sync.Mutex

	lists   map[string]listReply
	backup  backupReply
	gates   map[string]chan struct{}
	started chan string

	listCalls   []string
	backupCalls [][]string
	backupCreds []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		lists:   map[string]listReply{},
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (f *fakeClient) gate(name string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[name] = ch
	return ch
}

func (f *fakeClient) wait(ctx context.Context, name string) error {
	f.mu.Lock()
	ch := f.gates[name]
	f.mu.Unlock()

	f.started <- name
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeClient) ListCollections(ctx context.Context, cred models.Credential) ([]string, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, cred.Name)
	r := f.lists[cred.Name]
	f.mu.Unlock()

	if err := f.wait(ctx, cred.Name); err != nil {
		return nil, err
	}
	return r.names, r.err
}

func (f *fakeClient) GenerateBackup(ctx context.Context, cred models.Credential, names []string) (*models.Artifact, error) {
	f.mu.Lock()
	f.backupCalls = append(f.backupCalls, append([]string(nil), names...))
	f.backupCreds = append(f.backupCreds, string(cred.Data))
	r := f.backup
	f.mu.Unlock()

	if err := f.wait(ctx, "backup:"+cred.Name); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return &models.Artifact{
		Body:        io.NopCloser(strings.NewReader(r.body)),
		Disposition: r.disposition,
		ContentType: "application/json",
	}, nil
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() (list []string, backup [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listCalls...), append([][]string(nil), f.backupCalls...)
}

type saved struct {
	name     string
	content  string
	spoolAt  string
	location string
}

type memSaver struct {
	mu    sync.Mutex
	saves []saved
	err   error
}

func (m *memSaver) Save(_ context.Context, name string, blob *storage.Blob) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	r, err := blob.Reader()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s := saved{name: name, content: string(data), spoolAt: blob.Path(), location: "/downloads/" + name}
	m.saves = append(m.saves, s)
	return s.location, nil
}

func (m *memSaver) all() []saved {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]saved(nil), m.saves...)
}

type note struct {
	msg string
	sev Severity
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(msg string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{msg: msg, sev: sev})
}

func (r *recordingNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

type memHistory struct {
	mu   sync.Mutex
	recs []models.SaveRecord
	err  error
}

func (h *memHistory) Add(_ context.Context, rec models.SaveRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.recs = append(h.recs, rec)
	return nil
}

func (h *memHistory) Latest(_ context.Context, limit int) ([]models.SaveRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit > len(h.recs) {
		limit = len(h.recs)
	}
	return append([]models.SaveRecord(nil), h.recs[:limit]...), nil
}

func (h *memHistory) Count(context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.recs), nil
}
