package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/api"
	"github.com/p-n-ai/deepblue/internal/app"
	"github.com/p-n-ai/deepblue/internal/chat"
	"github.com/p-n-ai/deepblue/internal/platform/config"
	"github.com/p-n-ai/deepblue/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logging.Setup(os.Stdout, cfg.Log); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	rt, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	sessions := agent.NewSessionRegistry(rt.Assistant, agent.SessionConfig{},
		time.Duration(cfg.Chat.SessionTTLMinutes)*time.Minute)
	go sweepSessions(ctx, sessions, time.Minute)

	ws := chat.NewWebSocketChannel(cfg.Server.AllowedOrigins...)
	gw := chat.NewGateway()
	gw.Register(chat.ChannelWebSocket, ws)
	relay := chat.NewRelay(gw, func() *agent.Session {
		return agent.NewSession(rt.Assistant, agent.SessionConfig{})
	})
	if err := gw.StartAll(ctx, func(msg chat.InboundMessage) { relay.Handle(ctx, msg) }); err != nil {
		slog.Error("failed to start chat channels", "error", err)
		os.Exit(1)
	}

	handler := newHandler(rt, sessions, ws)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout(time.Duration(cfg.AI.TimeoutSeconds)*time.Second, rt.AI.Len()),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := gw.StopAll(); err != nil {
		slog.Error("chat shutdown error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newHandler builds the HTTP API over a runtime.
func newHandler(rt *app.Runtime, sessions *agent.SessionRegistry, ws http.Handler) http.Handler {
	checks := map[string]api.CheckFunc{}
	for name, check := range rt.ReadyChecks() {
		checks[name] = check
	}
	return api.NewServer(api.Config{
		Roadmap:     rt.Roadmap,
		Lessons:     rt.Lessons,
		Sessions:    sessions,
		DiveLog:     rt.DiveLog,
		ChatSocket:  ws,
		ReadyChecks: checks,
	})
}

// writeTimeout leaves room for the router to try every provider in turn, each
// up to perProvider, before the response is written.
func writeTimeout(perProvider time.Duration, providers int) time.Duration {
	return perProvider*time.Duration(max(providers, 1)) + 30*time.Second
}

func sweepSessions(ctx context.Context, sessions *agent.SessionRegistry, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				slog.Info("expired chat sessions", "count", n, "open", sessions.Len())
			}
		}
	}
}
