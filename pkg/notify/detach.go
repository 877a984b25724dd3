package notify

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
)

// DetachTimeout bounds how long a detached side effect may run.
const DetachTimeout = 30 * time.Second

// Detach runs fn on a goroutine detached from the request lifecycle. The context
// keeps its values (request id, trace) but not its cancellation, so an aborted
// request cannot cut a side effect short. A panic in fn is recovered and logged;
// nothing that happens in fn can reach the caller.
func Detach(ctx context.Context, logger ectologger.Logger, name string, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(detached).WithFields(map[string]any{
					"side_effect": name,
					"panic":       r,
				}).Error("Recovered panic in detached side effect")
			}
		}()

		runCtx, cancel := context.WithTimeout(detached, DetachTimeout)
		defer cancel()

		fn(runCtx)
	}()
}
