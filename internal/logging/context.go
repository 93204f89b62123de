package logging

import (
	"context"
	"time"
)

// DetachContextWithTimeout returns a context that survives cancellation of
// parent and expires after timeout. The CLI uses it to flush the draft after
// an interrupt has cancelled the command context.
func DetachContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
