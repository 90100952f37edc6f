package steamcmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// signalHandlerCb is the callback invoked by a signal handler
type signalHandlerCb func(sig os.Signal)

// signalHandlerUnregister is the function that unregisters a registered callback
type signalHandlerUnregister func()

// Attaches a callback to common termination signals.  Returns a function that unregisters the callback.
func handleSignal(logger *slog.Logger, cb signalHandlerCb) signalHandlerUnregister {
	channel := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(channel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case caught := <-channel:
			logger.Info("signal caught", "signal", caught.String())
			cb(caught)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(channel)
		close(done)
	}
}
