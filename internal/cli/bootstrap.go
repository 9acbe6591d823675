// Package cli provides CLI commands for the veganaut application.
package cli

import (
	"context"

	"github.com/example/veganaut/internal/ctxutil"
	"github.com/example/veganaut/internal/wire"
)

// globalActorID stores the player driving the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor resolves the acting player and stores it globally.
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	globalActorID = wire.Config().PlayerID
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
