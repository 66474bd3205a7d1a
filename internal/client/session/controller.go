package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/fsbackup/internal/client/client"
	"github.com/dmitrijs2005/fsbackup/internal/client/models"
	"github.com/dmitrijs2005/fsbackup/internal/client/repositories/history"
	"github.com/dmitrijs2005/fsbackup/internal/client/storage"
	"github.com/dmitrijs2005/fsbackup/internal/common"
	"github.com/dmitrijs2005/fsbackup/internal/logging"
)

// Deps are the collaborators of a Controller. Client and Saver are required.
type Deps struct {
	Client   client.Client
	Saver    storage.Saver
	Notifier Notifier
	// History records saved backups; nil disables it.
	History history.Repository
	Logger  logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// SpoolDir holds downloads until they are saved; "" is os.TempDir.
	SpoolDir string
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Phase          Phase
	ErrorMessage   string
	CredentialName string
	Selection      Selection
}

// CanGenerate reports whether GenerateBackup would issue a remote call.
func (s Snapshot) CanGenerate() bool {
	return s.Phase == PhaseReady && s.Selection.SelectedCount() > 0
}

// Controller sequences credential intake, collection discovery and backup
// generation for one operator session.
type Controller struct {
	client   client.Client
	saver    storage.Saver
	notifier Notifier
	history  history.Repository
	logger   logging.Logger
	now      func() time.Time
	spoolDir string

	mu        sync.Mutex
	epoch     uint64
	phase     Phase
	errMsg    string
	cred      *models.Credential
	selection Selection
	last      *Pending

	// base is cancelled by Close and bounds every background call.
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(d Deps) *Controller {
	c := &Controller{
		client:    d.Client,
		saver:     d.Saver,
		notifier:  d.Notifier,
		history:   d.History,
		logger:    d.Logger,
		now:       d.Now,
		spoolDir:  d.SpoolDir,
		selection: NewSelection(nil),
	}
	c.base, c.cancel = context.WithCancel(context.Background())
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	c.logger = c.logger.With("component", "session")
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// SetCredential replaces the session credential and starts discovery with
// it. The controller takes ownership of cred.Data and wipes it once the
// credential is replaced or removed. Any in-flight operation becomes stale.
func (c *Controller) SetCredential(ctx context.Context, cred models.Credential) *Pending {
	if err := cred.Validate(); err != nil {
		c.notifier.Notify(msgChooseKeyFile, SeverityWarning)
		return resolvedPending(Result{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err))
	}

	c.mu.Lock()
	c.dropCredentialLocked()
	c.cred = &cred
	epoch := c.epoch
	call := cloneCredential(cred)
	c.setPhaseLocked(ctx, PhaseAwaitingDiscovery)
	p := newPending()
	c.last = p
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Info(ctx, "credential set, discovering collections", "credential", cred.Name, "epoch", epoch)

	go func() {
		defer c.wg.Done()
		ctx, stop := c.callContext(ctx)
		defer stop()
		c.discover(ctx, epoch, call, p)
	}()
	return p
}

// RemoveCredential drops the credential and everything derived from it.
func (c *Controller) RemoveCredential(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dropCredentialLocked()
	c.setPhaseLocked(ctx, PhaseIdle)
}

// Toggle flips the flag of a discovered collection. Unknown names are ignored.
func (c *Controller) Toggle(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Toggle(name)
}

func (c *Controller) SelectAll(flag bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.SelectAll(flag)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:        c.phase,
		ErrorMessage: c.errMsg,
		Selection:    c.selection.clone(),
	}
	if c.cred != nil {
		s.CredentialName = c.cred.Name
	}
	return s
}

// GenerateBackup requests a backup of the selected collections and saves
// it. The selection is captured when the call is made; later edits do not
// affect the request.
func (c *Controller) GenerateBackup(ctx context.Context) *Pending {
	c.mu.Lock()
	switch {
	case c.phase.Busy():
		c.mu.Unlock()
		return resolvedPending(Result{}, ErrBusy)
	case c.cred == nil || c.phase != PhaseReady:
		c.mu.Unlock()
		return resolvedPending(Result{}, ErrNoCollections)
	case c.selection.SelectedCount() == 0:
		c.mu.Unlock()
		c.notifier.Notify(msgSelectCollection, SeverityWarning)
		return resolvedPending(Result{}, ErrEmptySelection)
	}

	names := c.selection.Selected()
	epoch := c.epoch
	call := cloneCredential(*c.cred)
	c.errMsg = ""
	c.setPhaseLocked(ctx, PhaseGeneratingBackup)
	p := newPending()
	c.last = p
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Info(ctx, "generating backup", "collections", len(names), "epoch", epoch)

	go func() {
		defer c.wg.Done()
		ctx, stop := c.callContext(ctx)
		defer stop()
		res, err := c.backup(ctx, epoch, call, names)
		c.finishBackup(ctx, epoch, p, res, err)
	}()
	return p
}

// Wait blocks until the most recently started operation resolves.
func (c *Controller) Wait(ctx context.Context) (Result, error) {
	c.mu.Lock()
	p := c.last
	c.mu.Unlock()

	if p == nil {
		return Result{}, nil
	}
	return p.Wait(ctx)
}

// Close wipes the credential, cancels background calls and waits for them
// to return, or for ctx to end. The Controller is unusable afterwards.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.dropCredentialLocked()
	c.setPhaseLocked(ctx, PhaseIdle)
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// callContext derives the context of a background call from the caller's
// ctx; it is also cancelled by Close.
func (c *Controller) callContext(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) discover(ctx context.Context, epoch uint64, cred models.Credential, p *Pending) {
	defer cred.Wipe()

	names, err := c.client.ListCollections(ctx, cred)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.logger.Info(ctx, "discarding stale discovery result", "epoch", epoch, "error", err)
		p.resolve(Result{}, ErrStale)
		return
	}

	if err != nil {
		msg := userMessage(err, msgDiscoveryFailed)
		c.errMsg = msg
		c.selection = NewSelection(nil)
		c.setPhaseLocked(ctx, PhaseFailed)
		c.mu.Unlock()

		c.logger.Warn(ctx, "collection discovery failed", "kind", Classify(err).String(), "error", err)
		c.notifier.Notify(msg, SeverityError)
		p.resolve(Result{}, err)
		return
	}

	c.selection = NewSelection(names)
	c.setPhaseLocked(ctx, PhaseReady)
	c.mu.Unlock()

	c.logger.Info(ctx, "collections discovered", "count", len(names))
	c.notifier.Notify(msgCollectionsLoaded, SeveritySuccess)
	p.resolve(Result{Collections: append([]string(nil), names...)}, nil)
}

// backup performs the remote call and the save. The spooled artifact is
// released before it returns.
func (c *Controller) backup(ctx context.Context, epoch uint64, cred models.Credential, names []string) (Result, error) {
	defer cred.Wipe()

	art, err := c.client.GenerateBackup(ctx, cred, names)
	if err != nil {
		return Result{}, err
	}
	defer art.Body.Close()

	if !c.current(epoch) {
		return Result{}, ErrStale
	}

	fileName := backupFilename(art.Disposition, c.now())

	blob, err := storage.Spool(networkReader{art.Body}, c.spoolDir, art.ContentType)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	defer func() {
		if err := blob.Release(); err != nil {
			c.logger.Warn(ctx, "release spooled artifact", "error", err)
		}
	}()

	if !c.current(epoch) {
		return Result{}, ErrStale
	}

	location, err := c.saver.Save(ctx, fileName, blob)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSave, err)
	}

	res := Result{
		Collections: names,
		FileName:    fileName,
		Location:    location,
		SizeBytes:   blob.Size(),
	}
	c.record(ctx, res)
	return res, nil
}

func (c *Controller) finishBackup(ctx context.Context, epoch uint64, p *Pending, res Result, err error) {
	c.mu.Lock()
	if c.epoch != epoch && err == nil {
		// The save had started before the session changed; the file exists.
		c.mu.Unlock()
		c.logger.Info(ctx, "backup saved after session changed", "epoch", epoch, "location", res.Location)
		c.notifier.Notify(msgBackupStarted, SeveritySuccess)
		p.resolve(res, nil)
		return
	}
	if c.epoch != epoch || errors.Is(err, ErrStale) {
		c.mu.Unlock()
		c.logger.Info(ctx, "discarding stale backup result", "epoch", epoch, "error", err)
		p.resolve(Result{}, ErrStale)
		return
	}

	var msg string
	if err != nil {
		msg = userMessage(err, msgBackupFailed)
		if Classify(err) == KindSave {
			msg = msgSaveFailed
		}
		c.errMsg = msg
	}
	c.setPhaseLocked(ctx, PhaseReady)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn(ctx, "backup failed", "kind", Classify(err).String(), "error", err)
		c.notifier.Notify(msg, SeverityError)
	} else {
		c.logger.Info(ctx, "backup saved", "file", res.FileName, "location", res.Location, "bytes", res.SizeBytes)
		c.notifier.Notify(msgBackupStarted, SeveritySuccess)
	}
	p.resolve(res, err)
}

func (c *Controller) record(ctx context.Context, res Result) {
	if c.history == nil {
		return
	}
	rec := models.SaveRecord{
		FileName:    res.FileName,
		Location:    res.Location,
		SizeBytes:   res.SizeBytes,
		Collections: len(res.Collections),
		SavedAt:     c.now(),
	}
	if err := c.history.Add(ctx, rec); err != nil {
		c.logger.Warn(ctx, "record backup in history", "error", err)
	}
}

func (c *Controller) current(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch == epoch
}

// dropCredentialLocked wipes the credential, clears derived state and starts
// a new epoch.
func (c *Controller) dropCredentialLocked() {
	if c.cred != nil {
		c.cred.Wipe()
		c.cred = nil
	}
	c.selection = NewSelection(nil)
	c.errMsg = ""
	c.epoch++
}

func (c *Controller) setPhaseLocked(ctx context.Context, next Phase) {
	if c.phase == next {
		return
	}
	c.logger.Debug(ctx, "phase transition", "from", c.phase.String(), "to", next.String())
	c.phase = next
}

// networkReader marks failures while reading a response body as transport
// errors so they are not mistaken for local save failures.
type networkReader struct {
	r io.Reader
}

func (n networkReader) Read(p []byte) (int, error) {
	k, err := n.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %w", client.ErrUnavailable, err)
	}
	return k, err
}

func cloneCredential(cred models.Credential) models.Credential {
	return models.Credential{Name: cred.Name, Data: common.CloneBytes(cred.Data)}
}
