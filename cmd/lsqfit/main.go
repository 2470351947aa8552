// SPDX-License-Identifier: MIT

// Command lsqfit fits polynomial least-squares models to CSV data.
//
// Usage:
//
//	lsqfit fit  --data points.csv [--config lsqfit.yaml] [--plot fit.png]
//	lsqfit scan --data points.csv
//	lsqfit path --data points.csv
//
// Every CSV column but the last holds an input coordinate; the last column is
// the response. With --weighted the last column is a weight and the one before
// it the response. A non-numeric first row is treated as a header.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("lsqfit failed")
		os.Exit(1)
	}
}
