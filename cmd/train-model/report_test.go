package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"dyno/internal/ml"
	"dyno/internal/training"
)

func TestReport(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		res      *training.Result
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:     "trained",
			res:      &training.Result{Bundle: &ml.Bundle{}, Location: "/srv/dyno/price_model.json"},
			wantCode: 0,
			wantOut:  "Model trained and saved to /srv/dyno/price_model.json.\n",
		},
		{
			name:     "empty ledger",
			err:      fmt.Errorf("train: %w", ml.ErrInsufficientData),
			wantCode: 0,
			wantOut:  "No data to train the model.\n",
		},
		{
			name:     "store failure",
			err:      errors.New("persist bundle: access denied"),
			wantCode: 1,
			wantOut:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := report(&out, func() (*training.Result, error) { return tt.res, tt.err }, logger)

			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if out.String() != tt.wantOut {
				t.Errorf("expected output %q, got %q", tt.wantOut, out.String())
			}
		})
	}
}
