package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
	"github.com/dmitrijs2005/fsbackup/internal/client/session"
)

const historyLimit = 10

// LoadKey reads a service-account key file and starts collection discovery.
// An empty path prompts for one.
func (a *App) LoadKey(ctx context.Context, path string) error {
	if path == "" {
		p, err := GetSimpleText(a.reader, "Path to service account key file:", a.out)
		if err != nil {
			return err
		}
		path = p
	}

	cred, err := models.ReadCredentialFile(path)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot read key file:", err)
		return err
	}

	p := a.ctl.SetCredential(ctx, cred)
	return a.follow(ctx, p, "Loading collections...", func(session.Result) {
		a.printCollections()
	})
}

// RemoveKey forgets the key and everything discovered with it.
func (a *App) RemoveKey(ctx context.Context) error {
	a.ctl.RemoveCredential(ctx)
	fmt.Fprintln(a.out, "Key removed.")
	return nil
}

func (a *App) List(ctx context.Context) error {
	a.printCollections()
	return nil
}

// Toggle flips the selection of one collection.
func (a *App) Toggle(ctx context.Context, name string) error {
	if name == "" {
		fmt.Fprintln(a.out, "Usage: toggle <collection>")
		return nil
	}
	if !a.ctl.Toggle(name) {
		fmt.Fprintln(a.out, "Unknown collection:", name)
		return nil
	}
	a.printCollections()
	return nil
}

func (a *App) SelectAll(ctx context.Context, flag bool) error {
	a.ctl.SelectAll(flag)
	a.printCollections()
	return nil
}

// Backup generates a backup of the selected collections.
func (a *App) Backup(ctx context.Context) error {
	p := a.ctl.GenerateBackup(ctx)
	return a.follow(ctx, p, "Generating backup...", func(res session.Result) {
		fmt.Fprintf(a.out, "Saved to %s (%s)\n", res.Location, humanize.Bytes(uint64(res.SizeBytes)))
	})
}

// Wait blocks until the operation in flight resolves.
func (a *App) Wait(ctx context.Context) error {
	res, err := a.ctl.Wait(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	if res.Location != "" {
		fmt.Fprintln(a.out, "Saved to", res.Location)
	}
	fmt.Fprintln(a.out, "Done.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s := a.ctl.Snapshot()

	phase := s.Phase.String()
	if s.Phase == session.PhaseFailed {
		phase = fmt.Sprintf("Failed(%s)", s.ErrorMessage)
	}
	key := s.CredentialName
	if key == "" {
		key = "-"
	}

	fmt.Fprintf(a.out, "Phase:       %s\n", phase)
	fmt.Fprintf(a.out, "Key:         %s\n", key)
	fmt.Fprintf(a.out, "Collections: %d of %d selected\n", s.Selection.SelectedCount(), s.Selection.Len())
	if s.ErrorMessage != "" && s.Phase != session.PhaseFailed {
		fmt.Fprintf(a.out, "Last error:  %s\n", s.ErrorMessage)
	}
	return nil
}

// History prints the most recent saved backups.
func (a *App) History(ctx context.Context) error {
	if a.history == nil {
		fmt.Fprintln(a.out, "History is disabled.")
		return nil
	}

	recs, err := a.history.Latest(ctx, historyLimit)
	if err != nil {
		a.logger.Error(ctx, "error reading history", "error", err)
		fmt.Fprintln(a.out, "Cannot read history:", err)
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No backups saved yet.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(a.out, "%s  %-40s %10s  %3d collections  %s\n",
			r.SavedAt.Local().Format("2006-01-02 15:04:05"), r.FileName, humanize.Bytes(uint64(r.SizeBytes)), r.Collections, r.Location)
	}
	return nil
}

// follow waits for p when the session is scripted or p already resolved;
// otherwise it announces the background operation and returns.
func (a *App) follow(ctx context.Context, p *session.Pending, announce string, onSuccess func(session.Result)) error {
	select {
	case <-p.Done():
	default:
		if a.interactive {
			fmt.Fprintln(a.out, announce)
			return nil
		}
	}

	res, err := p.Wait(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	onSuccess(res)
	return nil
}

// reportError prints what the notifier did not already say.
func (a *App) reportError(err error) {
	switch {
	case errors.Is(err, session.ErrBusy):
		fmt.Fprintln(a.out, "Another operation is in progress, use 'wait'.")
	case errors.Is(err, session.ErrNoCollections):
		fmt.Fprintln(a.out, "No collections available. Load a key with 'key <path>' first.")
	case errors.Is(err, session.ErrStale):
		fmt.Fprintln(a.out, "Result discarded: the key was changed.")
	}
}

func (a *App) printCollections() {
	s := a.ctl.Snapshot()
	sel := s.Selection

	if sel.Len() == 0 {
		switch s.Phase {
		case session.PhaseIdle:
			fmt.Fprintln(a.out, "No key loaded.")
		case session.PhaseAwaitingDiscovery:
			fmt.Fprintln(a.out, "Loading collections...")
		case session.PhaseFailed:
			fmt.Fprintln(a.out, "Discovery failed:", s.ErrorMessage)
		default:
			fmt.Fprintln(a.out, "No collections found.")
		}
		return
	}

	all := "[ ]"
	switch {
	case sel.AllSelected():
		all = "[x]"
	case sel.Indeterminate():
		all = "[-]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s all (%d/%d selected)\n", all, sel.SelectedCount(), sel.Len())
	for _, name := range sel.Names() {
		mark := "[ ]"
		if sel.Checked(name) {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %s %s\n", mark, name)
	}
	fmt.Fprint(a.out, b.String())
}
