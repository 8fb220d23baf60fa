// Command deepblue is the terminal front-end: browse the roadmap, take a
// lesson, chat with the instructor and keep a dive log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &cli{build: buildRuntime}
	err := c.rootCmd().ExecuteContext(ctx)
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
