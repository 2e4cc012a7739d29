// Package command is the boundary between scripts and the host.
//
// The interpreter never calls host code directly. Every command statement is
// reduced to a name and a vector of decimal integer strings and handed to a
// Dispatcher, which resolves the name against a Registry and invokes the
// matching Command. Hosts validate their own arguments, usually with the
// predicates in this package.
package command

import (
	"context"
	"fmt"
	"strings"
)

// Command is one host primitive callable from scripts
type Command interface {
	// Name is the primary name scripts use
	Name() string
	// Aliases are alternative names, matched like Name
	Aliases() []string
	// Execute runs the command. args are the decimal renderings of the
	// evaluated script arguments, in order.
	Execute(ctx context.Context, args []string) error
}

// SchemaProvider is implemented by commands that describe their argument
// vector with a JSON Schema (draft 2020-12). The dispatcher validates
// arguments against it before Execute. A nil schema disables validation.
type SchemaProvider interface {
	ArgSchema() Schema
}

// Describer is implemented by commands that carry a usage line for listings
type Describer interface {
	Usage() string
}

// Schema is a JSON Schema document
type Schema map[string]any

// Func adapts a plain function to the Execute signature
type Func func(ctx context.Context, args []string) error

// Option configures a command built with New
type Option func(*funcCommand)

// WithUsage attaches a one-line usage description
func WithUsage(usage string) Option {
	return func(c *funcCommand) {
		c.usage = usage
	}
}

// WithSchema attaches an argument schema
func WithSchema(schema Schema) Option {
	return func(c *funcCommand) {
		c.schema = schema
	}
}

type funcCommand struct {
	name    string
	aliases []string
	usage   string
	schema  Schema
	fn      Func
}

// New creates a command from a function
func New(name string, aliases []string, fn Func, opts ...Option) Command {
	c := &funcCommand{
		name:    name,
		aliases: append([]string(nil), aliases...),
		fn:      fn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *funcCommand) Name() string      { return c.name }
func (c *funcCommand) Aliases() []string { return c.aliases }
func (c *funcCommand) Usage() string     { return c.usage }
func (c *funcCommand) ArgSchema() Schema { return c.schema }

func (c *funcCommand) Execute(ctx context.Context, args []string) error {
	return c.fn(ctx, args)
}

func (c *funcCommand) String() string {
	if len(c.aliases) == 0 {
		return c.name
	}
	return fmt.Sprintf("%s (%s)", c.name, strings.Join(c.aliases, ", "))
}

// matches reports whether name is cmd's name or one of its aliases.
// Matching is exact and case sensitive.
func matches(cmd Command, name string) bool {
	if cmd.Name() == name {
		return true
	}
	for _, alias := range cmd.Aliases() {
		if alias == name {
			return true
		}
	}
	return false
}
