package main

import (
	"context"
	"os/signal"
)

// notifyContext cancels on the platform's shutdownSignals. Watch mode and
// pending compiles stop when it is done.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
