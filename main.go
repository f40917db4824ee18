package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hyve-ide/uidsl/cli"
	"github.com/hyve-ide/uidsl/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err), // slog uses LogValue() when available
		)
		os.Exit(1)
	}
}
