package tools

import (
	"context"

	"github.com/wkarim/osintagent/internal/sandbox"
)

// Sandbox is the minimal execution contract the adapters require.
// Using an interface keeps the package testable without a container daemon.
type Sandbox interface {
	Run(ctx context.Context, command string, opts sandbox.RunOptions) (*sandbox.Result, error)
}
