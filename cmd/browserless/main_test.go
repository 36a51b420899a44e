// cmd/browserless/main_test.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", context.Canceled, 0},
		{"wrapped interrupt", fmt.Errorf("pdf: %w", context.Canceled), 0},
		{"failure", errors.New("boom"), 1},
		{"deadline", context.DeadlineExceeded, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestHandlePanic(t *testing.T) {
	var code int
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = os.Exit })

	func() {
		defer handlePanic()
		panic("render failed")
	}()

	assert.Equal(t, 2, code)
}
