package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fsbackup/internal/client/client"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmptySelection    = errors.New("no collections selected")
	ErrNoCollections     = errors.New("no collections discovered")
	ErrBusy              = errors.New("another operation is in progress")
	// ErrStale resolves operations whose session was replaced before they
	// completed. Their results were discarded.
	ErrStale = errors.New("session changed, result discarded")
	// ErrSave wraps failures to materialise or store a downloaded artifact.
	ErrSave = errors.New("save backup")
)

// Kind classifies an operation outcome.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindNetwork
	KindRemote
	KindParse
	KindSave
	KindStale
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindRemote:
		return "remote"
	case KindParse:
		return "parse"
	case KindSave:
		return "save"
	case KindStale:
		return "stale"
	default:
		return "unknown"
	}
}

func Classify(err error) Kind {
	var re *client.RemoteError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStale):
		return KindStale
	case errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrEmptySelection),
		errors.Is(err, ErrNoCollections),
		errors.Is(err, ErrBusy):
		return KindValidation
	case errors.As(err, &re):
		return KindRemote
	case errors.Is(err, client.ErrMalformedResponse):
		return KindParse
	case errors.Is(err, ErrSave):
		return KindSave
	case errors.Is(err, client.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// userMessage is the text surfaced for a failed remote operation: the
// service-supplied message when there is one, otherwise fallback.
func userMessage(err error, fallback string) string {
	if msg, ok := client.RemoteMessage(err); ok {
		return msg
	}
	return fallback
}
