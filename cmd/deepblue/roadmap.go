package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/deepblue/internal/app"
)

func (c *cli) roadmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roadmap",
		Short: "List certification steps and their topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, false); err != nil {
				return err
			}
			if _, err := c.ctrl.Dispatch(cmd.Context(), app.Navigate{To: app.ViewRoadmap}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, step := range c.ctrl.Roadmap().Steps() {
				fmt.Fprintf(out, "%s  [%s] %s\n", step.ID, step.Level, step.Title)
				if step.Description != "" {
					fmt.Fprintf(out, "    %s\n", step.Description)
				}
				for _, topic := range step.Topics {
					fmt.Fprintf(out, "    - %s\n", topic)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
