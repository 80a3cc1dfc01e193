package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"dyno/internal/ml"
	"dyno/internal/training"
)

// report runs a training pass and prints the operator message.
// An empty ledger is not a failure.
func report(w io.Writer, train func() (*training.Result, error), logger *slog.Logger) int {
	res, err := train()
	switch {
	case errors.Is(err, ml.ErrInsufficientData):
		fmt.Fprintln(w, "No data to train the model.")
		return 0
	case err != nil:
		logger.Error("training_failed", "error", err)
		return 1
	}

	fmt.Fprintf(w, "Model trained and saved to %s.\n", res.Location)
	return 0
}
