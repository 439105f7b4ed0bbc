package driven

import "context"

// FileWatcher reports changes to a set of files.
type FileWatcher interface {
	// Watch calls onChange after a watched file is written.
	// Bursts of events are coalesced. Watch blocks until ctx is done.
	Watch(ctx context.Context, paths []string, onChange func(path string)) error
}
