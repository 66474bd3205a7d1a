package session

// Severity of a notification.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier receives human-readable outcomes. Notify must not block and must
// not call back into the Controller synchronously.
type Notifier interface {
	Notify(msg string, sev Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string, sev Severity)

func (f NotifierFunc) Notify(msg string, sev Severity) { f(msg, sev) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, Severity) {}

const (
	msgCollectionsLoaded = "Collections loaded successfully!"
	msgBackupStarted     = "Backup generated and download started!"
	msgSelectCollection  = "Please select at least one collection."
	msgChooseKeyFile     = "Please choose a service account key file."
	msgDiscoveryFailed   = "Unknown error."
	msgBackupFailed      = "Failed to generate the backup."
	msgSaveFailed        = "Failed to save the backup."
)
