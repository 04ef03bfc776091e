package upload

import (
	"errors"
	"fmt"
	"testing"
)

func TestFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"open error", &OpenError{Path: "a", Err: errors.New("permission denied")}, false},
		{"server 400", &ServerError{Path: "a", Status: 400, Err: errors.New("bad request")}, false},
		{"server 404", &ServerError{Path: "a", Status: 404, Err: errors.New("not found")}, false},
		{"server 409", &ServerError{Path: "a", Status: 409, Err: errors.New("conflict")}, false},
		{"server 401", &ServerError{Path: "a", Status: 401, Err: errors.New("unauthorized")}, true},
		{"server 500", &ServerError{Path: "a", Status: 500, Err: errors.New("internal")}, true},
		{"server 420", &ServerError{Path: "a", Status: 420, Err: errors.New("rate limited")}, true},
		{"transfer error", &TransferError{Path: "a", Err: errors.New("connection reset")}, true},
		{"cancelled transfer", &TransferError{Path: "a", Err: ErrCancelled}, false},
		{"unrecognized error", errors.New("something odd"), true},
		{"wrapped open error", fmt.Errorf("context: %w", &OpenError{Path: "a", Err: errors.New("x")}), false},
		{"wrapped server 404", fmt.Errorf("context: %w", &ServerError{Path: "a", Status: 404}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fatal(tt.err); got != tt.want {
				t.Errorf("Fatal(%v): expected %v, got %v", tt.err, tt.want, got)
			}
		})
	}
}

func TestClassifiedErrorsUnwrap(t *testing.T) {
	cause := errors.New("root cause")

	for _, err := range []error{
		&OpenError{Path: "a", Err: cause},
		&TransferError{Path: "a", Err: cause},
		&ServerError{Path: "a", Status: 500, Err: cause},
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T should unwrap to its cause", err)
		}
	}
}
