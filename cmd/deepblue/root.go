package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/deepblue/internal/app"
	"github.com/p-n-ai/deepblue/internal/platform/config"
	"github.com/p-n-ai/deepblue/internal/platform/logging"
)

// runtimeBuilder creates the runtime a command runs against. needsAI is false
// for commands that never call a model.
type runtimeBuilder func(ctx context.Context, needsAI bool) (*app.Runtime, error)

// cli carries state shared by every subcommand for one invocation.
type cli struct {
	build runtimeBuilder
	rt    *app.Runtime
	ctrl  *app.Controller
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deepblue",
		Short:         "DeepBlue - scuba lessons, instructor chat and dive log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.roadmapCmd(),
		c.lessonCmd(),
		c.chatCmd(),
		c.diveLogCmd(),
	)
	return root
}

// close releases the runtime, if a command opened one.
func (c *cli) close() {
	if c.rt == nil {
		return
	}
	if err := c.rt.Close(); err != nil {
		slog.Warn("failed to close runtime", "error", err)
	}
	c.rt = nil
}

// open builds the runtime and starts the controller at the home view.
func (c *cli) open(cmd *cobra.Command, needsAI bool) error {
	rt, err := c.build(cmd.Context(), needsAI)
	if err != nil {
		return err
	}
	c.rt = rt
	c.ctrl = app.NewController(rt.Deps())
	_, err = c.ctrl.Dispatch(cmd.Context(), app.Start{})
	return err
}

func buildRuntime(ctx context.Context, needsAI bool) (*app.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(os.Stderr, cfg.Log); err != nil {
		return nil, err
	}
	if needsAI {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateOffline()
	}
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg)
}
