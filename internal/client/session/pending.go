package session

import "context"

// Result describes a completed operation. For discovery only Collections is
// set; for a backup all fields are.
type Result struct {
	Collections []string
	FileName    string
	Location    string
	SizeBytes   int64
}

// Pending is the handle of an operation that completes in the background.
type Pending struct {
	done chan struct{}
	res  Result
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func resolvedPending(res Result, err error) *Pending {
	p := newPending()
	p.resolve(res, err)
	return p
}

func (p *Pending) resolve(res Result, err error) {
	p.res, p.err = res, err
	close(p.done)
}

// Done is closed once the operation has resolved.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the operation resolves or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.res, p.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Err returns the outcome; nil until Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}
