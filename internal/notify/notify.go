package notify

// Handle identifies a dismissable loading notification.
type Handle uint64

// Notifier receives submission and session lifecycle events for
// presentation. Implementations must be safe for concurrent use; only
// the contract is specified here, never the visuals.
type Notifier interface {
	// Loading shows a pending notice and returns a handle for Dismiss.
	Loading(msg string) Handle
	// Success shows a success notice.
	Success(msg string)
	// Error shows an error notice.
	Error(msg string)
	// Dismiss removes a pending notice. Unknown handles are ignored.
	Dismiss(h Handle)
}
