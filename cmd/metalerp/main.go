package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/document"
	"github.com/vsinha/metalerp/pkg/interfaces/cli/commands"
)

func main() {
	// Pretty until the config says otherwise
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	document.UseNumericDecimals()

	if err := commands.Execute(context.Background()); err != nil {
		log.Error().Err(err).Msg("metalerp failed")
		os.Exit(1)
	}
}
