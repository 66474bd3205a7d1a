package session

// Phase is the lifecycle stage of a session. Exactly one is active.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingDiscovery
	PhaseReady
	PhaseGeneratingBackup
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseAwaitingDiscovery:
		return "AwaitingDiscovery"
	case PhaseReady:
		return "Ready"
	case PhaseGeneratingBackup:
		return "GeneratingBackup"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Busy reports whether a remote call is live in this phase.
func (p Phase) Busy() bool {
	return p == PhaseAwaitingDiscovery || p == PhaseGeneratingBackup
}
