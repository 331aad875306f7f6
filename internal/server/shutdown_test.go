package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"sfpurchasing/internal/config"
)

func newTestGracefulServer() *GracefulServer {
	cfg := &config.Config{
		Server: config.ServerConfig{
			ShutdownTimeout: 5 * time.Second,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, logger, cfg)
}

func TestGracefulServer_ShutdownRunsHooksInOrder(t *testing.T) {
	gs := newTestGracefulServer()

	var order []string
	gs.RegisterShutdownHook("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	gs.RegisterShutdownHook("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := gs.shutdown(ctx); err != nil {
		t.Fatalf("shutdown() failed: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hooks ran as %v, want [first second]", order)
	}
}

func TestGracefulServer_ShutdownCollectsHookErrors(t *testing.T) {
	gs := newTestGracefulServer()

	hookErr := errors.New("flush failed")
	var secondRan bool
	gs.RegisterShutdownHook("failing", func(ctx context.Context) error {
		return hookErr
	})
	gs.RegisterShutdownHook("after", func(ctx context.Context) error {
		secondRan = true
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := gs.shutdown(ctx)
	if !errors.Is(err, hookErr) {
		t.Fatalf("shutdown() = %v, want error wrapping %v", err, hookErr)
	}
	if !secondRan {
		t.Error("a failing hook must not stop later hooks")
	}
}

func TestGracefulServer_ShutdownSkipsHooksAfterTimeout(t *testing.T) {
	gs := newTestGracefulServer()

	var ran bool
	gs.RegisterShutdownHook("late", func(ctx context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gs.shutdown(ctx); err == nil {
		t.Fatal("shutdown() with an expired context should report the context error")
	}
	if ran {
		t.Error("hooks must not run once the shutdown deadline has passed")
	}
}
