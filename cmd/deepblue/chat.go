package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/app"
)

func (c *cli) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the DeepBlue instructor (type /quit to leave)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, true); err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := c.ctrl.Dispatch(ctx, app.Navigate{To: app.ViewChat}); err != nil {
				return err
			}
			session := c.ctrl.Chat()

			out := cmd.OutOrStdout()
			for _, m := range session.Transcript() {
				fmt.Fprintf(out, "DeepBlue: %s\n", m.Text)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "/quit" {
					break
				}

				ex, err := session.Send(ctx, text)
				if errors.Is(err, agent.ErrEmptyMessage) {
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "DeepBlue: %s\n", ex.Reply.Text)
			}

			_, err := c.ctrl.Dispatch(ctx, app.Navigate{To: app.ViewHome})
			return err
		},
	}
}
