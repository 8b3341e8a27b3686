// WikiBot - an IRC bot that posts random Wikipedia articles on request.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wikibot/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "wikibot: %v\n", err)
		os.Exit(1)
	}
}
