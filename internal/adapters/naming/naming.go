// Package naming holds clients for the external name-tree, resolver, and
// reverse-registrar collaborators
//
// The registrar treats all three as best-effort: a failure here never rolls
// back a registration, it only surfaces as a warning to the caller.
package naming

import "context"

// Node is a 32-byte tree node or label hash
type Node = [32]byte

// TreeRegistry is the hierarchical name registry contract
type TreeRegistry interface {
	SetSubnodeOwner(ctx context.Context, parent Node, labelHash Node, owner string) error
	SetResolver(ctx context.Context, node Node, resolver string) error
}

// Resolver accepts typed records keyed by node hash
type Resolver interface {
	BindRecords(ctx context.Context, node Node, resolver string, records []string) error
}

// ReverseRegistrar maintains the address to name mapping
type ReverseRegistrar interface {
	SetName(ctx context.Context, owner, name string) error
}

// Noop satisfies all three contracts and does nothing, for deployments
// without collaborator services configured
type Noop struct{}

// SetSubnodeOwner implements TreeRegistry
func (Noop) SetSubnodeOwner(context.Context, Node, Node, string) error { return nil }

// SetResolver implements TreeRegistry
func (Noop) SetResolver(context.Context, Node, string) error { return nil }

// BindRecords implements Resolver
func (Noop) BindRecords(context.Context, Node, string, []string) error { return nil }

// SetName implements ReverseRegistrar
func (Noop) SetName(context.Context, string, string) error { return nil }
