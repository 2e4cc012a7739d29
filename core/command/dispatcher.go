package command

import (
	"context"

	"github.com/KevinPriv/canvas-lang/core/invariant"
)

// Dispatcher routes a command name and its argument vector to a host
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args []string) error
}

// RegistryDispatcher dispatches to the first command in one Registry whose
// name or alias matches
type RegistryDispatcher struct {
	registry *Registry
	schemas  *schemaCache
}

// NewDispatcher creates a dispatcher over reg
func NewDispatcher(reg *Registry) *RegistryDispatcher {
	invariant.NotNil(reg, "registry")
	return &RegistryDispatcher{
		registry: reg,
		schemas:  newSchemaCache(),
	}
}

// Registry returns the registry this dispatcher resolves against
func (d *RegistryDispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves name and executes the command. An unknown name yields
// an *InvalidCommandError; command failures are returned unchanged.
func (d *RegistryDispatcher) Dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := d.registry.Lookup(name)
	if !ok {
		return &InvalidCommandError{Name: name, Suggestion: d.registry.Suggest(name)}
	}

	if sp, ok := cmd.(SchemaProvider); ok {
		if schema := sp.ArgSchema(); schema != nil {
			if err := d.schemas.validate(cmd.Name(), schema, args); err != nil {
				return err
			}
		}
	}

	return cmd.Execute(ctx, args)
}
