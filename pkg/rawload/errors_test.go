package rawload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/rawload/pkg/rawload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, rawload.ExitSuccess},
		{"invalid config", rawload.ErrInvalidConfig, rawload.ExitConfigError},
		{"connection failed", rawload.ErrConnectionFailed, rawload.ExitConnectionError},
		{"schema failed", rawload.ErrSchemaFailed, rawload.ExitSchemaError},
		{"data format", rawload.ErrDataFormat, rawload.ExitDataError},
		{"integrity", rawload.ErrIntegrity, rawload.ExitIntegrityError},
		{"unclassified", errors.New("boom"), rawload.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rawload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading subscriptions.csv: %w",
		fmt.Errorf("row 14: %w", rawload.ErrIntegrity))
	if got := rawload.ExitCodeForError(err); got != rawload.ExitIntegrityError {
		t.Errorf("wrapped integrity error mapped to %d, want %d", got, rawload.ExitIntegrityError)
	}
}
