// Package cli implements the tagctl subcommands on top of the core service.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tagcore/internal/core"
)

// Verbose enables debug logging; bound to the root --verbose flag.
var Verbose bool

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openService builds a service on the environment-selected snapshot store and
// hydrates it. The returned sink holds the entity states published during
// hydration and any subsequent mutations in this process.
func openService(ctx context.Context, opts ...core.Option) (*core.Service, *core.MemoryStateSink, error) {
	store, err := core.OpenSnapshotStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	sink := core.NewMemoryStateSink()
	opts = append([]core.Option{core.WithLogger(newLogger()), core.WithStateSink(sink)}, opts...)
	svc := core.NewService(core.NewStore(store), opts...)
	if _, err := svc.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("load tags: %w", err)
	}
	return svc, sink, nil
}
