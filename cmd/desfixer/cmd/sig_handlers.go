// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"
)

// sigintHandler is patched over during test
var sigintHandler = withSIGINTHandler

// withSIGINTHandler returns a context cancelled on SIGINT, so a running decryption tool gets killed.
func withSIGINTHandler(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	// Register for SIGINT.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	// Start a goroutine that will cancel when the signal is received.
	go func() {
		select {
		case <-signalChan:
			infoLogger.Println("Received SIGINT, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(signalChan)
		cancel()
	}
}
