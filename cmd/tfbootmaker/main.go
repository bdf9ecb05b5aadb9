package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mik-tf/tfbootmaker/cmd/tfbootmaker/commands"
)

func main() {
	// Structured logger with text format for readability
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// `tfbootmaker HELP` works the same as `tfbootmaker help`.
	if len(os.Args) > 1 && strings.EqualFold(os.Args[1], "help") {
		os.Args[1] = "help"
	}

	commands.Execute()
}
