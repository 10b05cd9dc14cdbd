package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/baechuer/expense-web/cmd/expensectl/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.NewRoot().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "expensectl:", err)
		stop()
		os.Exit(1)
	}
}
