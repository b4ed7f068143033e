package workflow

import "context"

// Capability is a named operation a phase handler can invoke. Handlers
// depend on this interface rather than concrete adapters, so the same
// handler works whether the operation is a fixed tool adapter, an external
// reasoning collaborator choosing its own arguments, or a test double.
type Capability interface {
	Name() string
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// capabilityFunc adapts a plain function to the Capability interface
type capabilityFunc struct {
	name string
	fn   func(ctx context.Context, args map[string]any) (any, error)
}

// NewCapability wraps fn as a named Capability
func NewCapability(name string, fn func(ctx context.Context, args map[string]any) (any, error)) Capability {
	return &capabilityFunc{name: name, fn: fn}
}

func (c *capabilityFunc) Name() string { return c.name }

func (c *capabilityFunc) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return c.fn(ctx, args)
}

// Capabilities bundles the operations the phase handlers need
type Capabilities struct {
	Recon       Capability // {"domain": string} -> []string
	Probe       Capability // {"targets": []string} -> []models.ProbeResult; optional
	HostIntel   Capability // {"domain": string, "subdomains": []string} -> *models.HostIntel
	Fingerprint Capability // {"urls": []string} -> []models.Fingerprint
	Report      Capability // {"summary": report.Summary} -> string
}
